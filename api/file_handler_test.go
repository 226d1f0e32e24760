package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadImage(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.register("ada")

	req := multipartRequest(t, http.MethodPost, "/images", "", "image", map[string][]byte{"a.png": pngHeader})
	assert.Equal(t, http.StatusUnauthorized, api.serve(req).Code)

	req = multipartRequest(t, http.MethodPost, "/images", token, "image", map[string][]byte{"a.png": pngHeader})
	rec := api.serve(req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[UploadResponse](t, rec)
	assert.Regexp(t, `^/images/([0-9a-f]{2}/){4}[0-9a-f]{32}\.png$`, resp.URL)
	assert.Equal(t, []string{resp.URL}, resp.URLs)

	served := api.do(http.MethodGet, resp.URL, "", nil)
	require.Equal(t, http.StatusOK, served.Code)
	assert.Equal(t, pngHeader, served.Body.Bytes())

	req = multipartRequest(t, http.MethodPost, "/images", token, "image", map[string][]byte{"copy.png": pngHeader})
	rec = api.serve(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, resp.URL, decodeBody[UploadResponse](t, rec).URL, "identical content shares a path")

	req = multipartRequest(t, http.MethodPost, "/images", token, "image", map[string][]byte{"a.txt": []byte("plain text")})
	assert.Equal(t, http.StatusUnprocessableEntity, api.serve(req).Code)

	req = multipartRequest(t, http.MethodPost, "/images", token, "other", map[string][]byte{"a.png": pngHeader})
	rec = api.serve(req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Value required for key 'image'.", decodeBody[ErrorResponse](t, rec).Error)

	rec = api.do(http.MethodPost, "/images", token, map[string]any{"not": "multipart"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadFiles(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.register("ada")

	req := multipartRequest(t, http.MethodPost, "/files", token, "file", map[string][]byte{
		"resume.PDF": []byte("%PDF-1.4 fake"),
		"notes.csv":  []byte("a,b\n1,2\n"),
	})
	rec := api.serve(req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[UploadResponse](t, rec)
	require.Len(t, resp.URLs, 2)
	assert.Equal(t, resp.URLs[0], resp.URL)
	for _, url := range resp.URLs {
		assert.Regexp(t, `^/files/([0-9a-f]{2}/){4}[0-9a-f]{32}\.(pdf|csv)$`, url)
		assert.Equal(t, http.StatusOK, api.do(http.MethodGet, url, "", nil).Code)
	}
}
