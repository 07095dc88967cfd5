// Package formecho decodes submitted form fields in wire order and renders
// them back as a list.
package formecho

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/formcgi/server/internal/models"
)

// Parse collects the fields of r in the order they were sent. The query
// string comes first, then a url-encoded or multipart POST body. File parts
// contribute their client filename as the value.
func Parse(r *http.Request, policy models.DuplicatePolicy) (*models.FormFields, error) {
	fields := models.NewFormFields(policy)

	if err := addQuery(fields, r.URL.RawQuery); err != nil {
		return nil, fmt.Errorf("parsing query string: %w", err)
	}

	if r.Method != http.MethodPost || r.Body == nil {
		return fields, nil
	}

	mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		// No usable content type: nothing to decode from the body.
		return fields, nil
	}

	switch mediaType {
	case "application/x-www-form-urlencoded":
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, fmt.Errorf("reading form body: %w", err)
		}
		if err := addQuery(fields, string(body)); err != nil {
			return nil, fmt.Errorf("parsing form body: %w", err)
		}
	case "multipart/form-data":
		if err := addMultipart(fields, multipart.NewReader(r.Body, params["boundary"])); err != nil {
			return nil, fmt.Errorf("parsing multipart body: %w", err)
		}
	}

	return fields, nil
}

func addQuery(fields *models.FormFields, query string) error {
	for query != "" {
		var pair string
		pair, query, _ = strings.Cut(query, "&")
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(key)
		if err != nil {
			return err
		}
		value, err = url.QueryUnescape(value)
		if err != nil {
			return err
		}
		fields.Add(key, value)
	}
	return nil
}

func addMultipart(fields *models.FormFields, mr *multipart.Reader) error {
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		name := part.FormName()
		if name == "" {
			part.Close()
			continue
		}
		if part.FileName() != "" {
			fields.Add(name, part.FileName())
			part.Close()
			continue
		}

		value, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			return err
		}
		fields.Add(name, string(value))
	}
}
