// Package upload stores a single uploaded file and describes the outcome.
package upload

import (
	"fmt"
	"path"

	"github.com/formcgi/server/internal/models"
	"github.com/formcgi/server/internal/storage"
)

const (
	// PageTitle is the title of every upload status page.
	PageTitle = "File Upload"

	MessageNoFile = "No file was uploaded."
)

// IOError reports a failed filesystem operation while storing an upload.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Options select how stored files are reported back.
type Options struct {
	// ExposePublicPath adds the public URL of the stored file to the page.
	ExposePublicPath bool
	// PublicPath is the URL prefix the upload directory is served under.
	PublicPath string
}

// Handler stores uploads into a Store.
type Handler struct {
	store storage.Store
	opts  Options
}

// NewHandler creates a Handler writing into store.
func NewHandler(store storage.Store, opts Options) *Handler {
	if opts.PublicPath == "" {
		opts.PublicPath = "/"
	}
	return &Handler{store: store, opts: opts}
}

// HandleUpload stores req into targetDir using a LocalStore.
func HandleUpload(req *models.UploadRequest, targetDir string, opts Options) (*models.ResponsePage, error) {
	return NewHandler(storage.NewLocalStore(targetDir), opts).Handle(req)
}

// Handle ensures the upload directory exists and writes the attachment under
// its sanitized name, replacing any earlier file with that name. A request
// without a file is a normal outcome, not an error.
func (h *Handler) Handle(req *models.UploadRequest) (*models.ResponsePage, error) {
	if err := h.store.EnsureDir(); err != nil {
		return nil, &IOError{Op: "mkdir", Path: h.store.Dir(), Err: err}
	}

	page := &models.ResponsePage{Title: PageTitle}
	if !req.HasFile() {
		page.StatusMessage = MessageNoFile
		return page, nil
	}

	name, err := SanitizeFilename(req.RawFilename)
	if err != nil {
		return nil, err
	}

	stored, err := h.store.Save(name, req.Content)
	if err != nil {
		return nil, &IOError{Op: "write", Path: name, Err: err}
	}

	page.StatusMessage = SuccessMessage(stored.SanitizedName)
	if h.opts.ExposePublicPath {
		page.UploadedPath = path.Join(h.opts.PublicPath, stored.SanitizedName)
	}
	return page, nil
}

// SuccessMessage is the status line for a stored file.
func SuccessMessage(name string) string {
	return fmt.Sprintf(`The file "%s" was uploaded successfully!`, name)
}
