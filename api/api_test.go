package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rpupo63/personal-site-backend/config"
	"github.com/rpupo63/personal-site-backend/database"
	"github.com/rpupo63/personal-site-backend/database/dbtest"
	"github.com/rpupo63/personal-site-backend/models"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough of a PNG for content sniffing.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

type testAPI struct {
	t         *testing.T
	handler   http.Handler
	db        database.Database
	resources string
	public    string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	resources, public := t.TempDir(), t.TempDir()
	c := config.FromMap(map[string]string{
		"TOKEN_SECRET":  "test-secret",
		"RESOURCES_DIR": resources,
		"PUBLIC_DIR":    public,
	})
	db := dbtest.New(t)
	return &testAPI{
		t:         t,
		handler:   newRouter(db, withConfig(c)),
		db:        db,
		resources: resources,
		public:    public,
	}
}

func (a *testAPI) do(method, target, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return a.serve(req)
}

func (a *testAPI) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

// rows counts the rows of table.
func (a *testAPI) rows(table string) int64 {
	a.t.Helper()
	var n int64
	require.NoError(a.t, a.db.DB().Table(table).Count(&n).Error)
	return n
}

// register creates username with password "secret1" and returns the user and its token.
func (a *testAPI) register(username string) (models.UserDTO, string) {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/users", "", map[string]any{
		"username":   username,
		"password":   "secret1",
		"first_name": "Ada",
		"last_name":  "Lovelace",
	})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[AuthorizedResponse](a.t, rec)
	require.NotEmpty(a.t, resp.AccessToken)
	return resp.User, resp.AccessToken
}

// create posts body and returns the decoded record, failing unless it answers 200.
func create[D any](a *testAPI, target, token string, body any) D {
	a.t.Helper()
	rec := a.do(http.MethodPost, target, token, body)
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeBody[D](a.t, rec)
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func multipartRequest(t *testing.T, method, target, token, field string, files map[string][]byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, data := range files {
		part, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}
