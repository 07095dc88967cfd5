package formecho

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/formcgi/server/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	env := models.RequestEnv{Method: http.MethodGet}

	t.Run("fields in order", func(t *testing.T) {
		fields := models.NewFormFields(models.DuplicateLastWins)
		fields.Add("a", "1")
		fields.Add("b", "2")

		page := Render(env, fields)

		assert.Equal(t, "GET", page.Title)
		assert.Equal(t, Heading, page.StatusMessage)
		assert.Equal(t, []models.FormField{{Name: "a", Value: "1"}, {Name: "b", Value: "2"}}, page.Fields)
	})

	t.Run("empty mapping", func(t *testing.T) {
		page := Render(env, models.NewFormFields(models.DuplicateLastWins))
		assert.NotNil(t, page.Fields)
		assert.Empty(t, page.Fields)
	})

	t.Run("nil mapping", func(t *testing.T) {
		page := Render(env, nil)
		assert.Empty(t, page.Fields)
	})
}

func TestParse_Query(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/cgi-bin/testcgi?z=26&a=1&msg=hello+world&enc=%3Cb%3E", nil)

	fields, err := Parse(req, models.DuplicateLastWins)
	require.NoError(t, err)

	assert.Equal(t, []models.FormField{
		{Name: "z", Value: "26"},
		{Name: "a", Value: "1"},
		{Name: "msg", Value: "hello world"},
		{Name: "enc", Value: "<b>"},
	}, fields.Fields())
}

func TestParse_Duplicates(t *testing.T) {
	tests := []struct {
		name   string
		policy models.DuplicatePolicy
		want   []models.FormField
	}{
		{
			name:   "last wins keeps first position",
			policy: models.DuplicateLastWins,
			want:   []models.FormField{{Name: "a", Value: "3"}, {Name: "b", Value: "2"}},
		},
		{
			name:   "first wins",
			policy: models.DuplicateFirstWins,
			want:   []models.FormField{{Name: "a", Value: "1"}, {Name: "b", Value: "2"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/?a=1&b=2&a=3", nil)

			fields, err := Parse(req, tt.policy)
			require.NoError(t, err)
			assert.Equal(t, tt.want, fields.Fields())
		})
	}
}

func TestParse_URLEncodedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/cgi-bin/testcgi?q=0", strings.NewReader("name=gopher&lang=go&&empty="))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	fields, err := Parse(req, models.DuplicateLastWins)
	require.NoError(t, err)

	assert.Equal(t, []models.FormField{
		{Name: "q", Value: "0"},
		{Name: "name", Value: "gopher"},
		{Name: "lang", Value: "go"},
		{Name: "empty", Value: ""},
	}, fields.Fields())
}

func TestParse_MultipartBody(t *testing.T) {
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("first", "1"))
	part, err := writer.CreateFormFile("doc", "notes.txt")
	require.NoError(t, err)
	part.Write([]byte("file body is not echoed"))
	require.NoError(t, writer.WriteField("second", "2"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/cgi-bin/testcgi", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	fields, err := Parse(req, models.DuplicateLastWins)
	require.NoError(t, err)

	assert.Equal(t, []models.FormField{
		{Name: "first", Value: "1"},
		{Name: "doc", Value: "notes.txt"},
		{Name: "second", Value: "2"},
	}, fields.Fields())
}

func TestParse_Errors(t *testing.T) {
	t.Run("bad escape in query", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.URL.RawQuery = "a=%zz"

		_, err := Parse(req, models.DuplicateLastWins)
		assert.Error(t, err)
	})

	t.Run("truncated multipart", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("--xyz\r\nContent-Disposition: form-data; name=\"a\"\r\n\r\nunterminated"))
		req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")

		_, err := Parse(req, models.DuplicateLastWins)
		assert.Error(t, err)
	})

	t.Run("unknown content type is ignored", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/?a=1", strings.NewReader(`{"b":2}`))
		req.Header.Set("Content-Type", "application/json")

		fields, err := Parse(req, models.DuplicateLastWins)
		require.NoError(t, err)
		assert.Len(t, fields.Fields(), 1)
	})
}
