// handlers_upload.go - File upload handler
package api

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/formcgi/server/internal/models"
	"github.com/formcgi/server/internal/upload"
	"github.com/formcgi/server/internal/web"
	"github.com/labstack/echo/v4"
)

// UploadHandlerImpl implements the UploadHandler interface
type UploadHandlerImpl struct {
	uploader *upload.Handler
}

// NewUploadHandler creates a new upload handler instance
func NewUploadHandler(uploader *upload.Handler) UploadHandler {
	return &UploadHandlerImpl{uploader: uploader}
}

// HandleFileUpload stores the multipart field "upload" and renders the status page
func (h *UploadHandlerImpl) HandleFileUpload(c echo.Context) error {
	req, err := uploadRequest(c)
	if err != nil {
		return err
	}
	if closer, ok := req.Content.(io.Closer); ok {
		defer closer.Close()
	}

	page, err := h.uploader.Handle(req)
	if err != nil {
		var ioErr *upload.IOError
		switch {
		case errors.Is(err, upload.ErrInvalidFilename):
			return NewBadRequestError("invalid file name", err)
		case errors.As(err, &ioErr):
			return NewInternalError("failed to store uploaded file", err)
		default:
			return NewInternalError("upload failed", err)
		}
	}

	if req.HasFile() {
		c.Logger().Infof("request %s: %s", requestID(c), page.StatusMessage)
	}

	return respondPage(c, http.StatusOK, web.PageUpload, page)
}

// uploadRequest decodes the upload field. A request that is not multipart, or
// has no file in the field, yields a request without a file.
func uploadRequest(c echo.Context) (*models.UploadRequest, error) {
	file, header, err := c.Request().FormFile(models.UploadFieldName)
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return models.NewUploadRequest("", nil), nil
	case err != nil:
		return nil, NewBadRequestError("invalid multipart body", err)
	}

	return models.NewUploadRequest(clientFilename(header), file), nil
}

// clientFilename returns the filename exactly as the client sent it.
// FileHeader.Filename has already been reduced with filepath.Base, which
// only understands the host separator.
func clientFilename(header *multipart.FileHeader) string {
	_, params, err := mime.ParseMediaType(header.Header.Get("Content-Disposition"))
	if err != nil {
		return header.Filename
	}
	if name, ok := params["filename"]; ok {
		return name
	}
	return header.Filename
}
