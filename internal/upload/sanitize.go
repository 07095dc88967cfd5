package upload

import (
	"errors"
	"strings"
)

// ErrInvalidFilename is returned when a client filename has no usable basename.
var ErrInvalidFilename = errors.New("invalid upload filename")

// SanitizeFilename reduces a client supplied filename to its final path
// segment. Both '/' and '\' count as separators regardless of the host OS, so
// the result never contains either.
func SanitizeFilename(raw string) (string, error) {
	name := strings.ReplaceAll(raw, `\`, "/")
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	switch {
	case name == "", name == ".", name == "..":
		return "", ErrInvalidFilename
	case strings.IndexByte(name, 0) >= 0:
		return "", ErrInvalidFilename
	}
	return name, nil
}
