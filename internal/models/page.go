package models

// ResponsePage is the rendered outcome of a single request.
type ResponsePage struct {
	Title         string      `json:"title" msgpack:"title"`
	StatusMessage string      `json:"status" msgpack:"status"`
	UploadedPath  string      `json:"uploadedPath,omitempty" msgpack:"uploadedPath,omitempty"`
	Fields        []FormField `json:"fields,omitempty" msgpack:"fields,omitempty"`
}

// HasUpload reports whether the page names a publicly reachable stored file.
func (p *ResponsePage) HasUpload() bool {
	return p.UploadedPath != ""
}

// RequestEnv carries the per-request values the echo page reads from the
// CGI environment.
type RequestEnv struct {
	Method string `json:"method"`
}
