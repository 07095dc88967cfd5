package models

import "io"

// UploadFieldName is the multipart field that carries the uploaded file.
const UploadFieldName = "upload"

// UploadRequest is a single incoming upload as decoded by the transport.
type UploadRequest struct {
	FieldName   string    `json:"fieldName"`
	RawFilename string    `json:"rawFilename"` // client supplied, untrusted
	Content     io.Reader `json:"-"`
}

// NewUploadRequest creates an UploadRequest for the fixed upload field.
func NewUploadRequest(rawFilename string, content io.Reader) *UploadRequest {
	return &UploadRequest{
		FieldName:   UploadFieldName,
		RawFilename: rawFilename,
		Content:     content,
	}
}

// HasFile reports whether the client chose a file at all.
func (r *UploadRequest) HasFile() bool {
	return r != nil && r.RawFilename != ""
}

// StoredFile describes a file that was written into the upload directory.
type StoredFile struct {
	SanitizedName string `json:"name"`
	AbsolutePath  string `json:"path"`
	BytesWritten  int64  `json:"size"`
}
