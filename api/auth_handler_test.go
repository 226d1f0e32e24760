package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/users", "", map[string]any{
		"username":   "ada",
		"password":   "secret1",
		"first_name": "Ada",
		"last_name":  "Lovelace",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "secret1")

	resp := decodeBody[AuthorizedResponse](t, rec)
	assert.Equal(t, "ada", resp.User.Username)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotNil(t, resp.ExpiresAt)

	t.Run("duplicate username", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/users", "", map[string]any{
			"username": "ada", "password": "secret2", "first_name": "A", "last_name": "L",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, decodeBody[ErrorResponse](t, rec).Error, "Duplicate entry for user")
	})

	t.Run("password too short", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/users", "", map[string]any{
			"username": "bob", "password": "abc", "first_name": "B", "last_name": "L",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "password", decodeBody[ErrorResponse](t, rec).Field)
	})

	t.Run("password missing", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/users", "", map[string]any{
			"username": "bob", "first_name": "B", "last_name": "L",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "Value required for key 'password'.", decodeBody[ErrorResponse](t, rec).Error)
	})

	t.Run("malformed json", func(t *testing.T) {
		rec := api.serve(httptest.NewRequest(http.MethodPost, "/users", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLoginAndLogout(t *testing.T) {
	api := newTestAPI(t)
	user, _ := api.register("ada")

	login := func(username, password string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/authorize/basic", nil)
		req.SetBasicAuth(username, password)
		return api.serve(req)
	}

	rec := login("ada", "wrong-pass")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, http.StatusUnauthorized, login("nobody", "secret1").Code)
	assert.Equal(t, http.StatusUnauthorized, api.serve(httptest.NewRequest(http.MethodPost, "/authorize/basic", nil)).Code)

	rec = login("ada", "secret1")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[AuthorizedResponse](t, rec)
	assert.Equal(t, user.ID, resp.User.ID)
	token := resp.AccessToken

	rec = api.do(http.MethodDelete, "/unauthorized", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "logged out successfully", decodeBody[map[string]string](t, rec)["message"])

	rec = api.do(http.MethodDelete, "/unauthorized", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateRejects(t *testing.T) {
	api := newTestAPI(t)

	for name, header := range map[string]string{
		"missing":   "",
		"basic":     "Basic YWRhOnNlY3JldDE=",
		"garbage":   "Bearer not-a-token",
		"no bearer": "Bearer ",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/blog_categories", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := api.serve(req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "authorization", decodeBody[ErrorResponse](t, rec).Field)
		})
	}
}
