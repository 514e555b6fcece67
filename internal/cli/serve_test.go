package cli

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalvas/swaggerdoc/swagger"
)

func TestChiPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/users", "/users"},
		{"/users/{id}", "/users/{id}"},
		{"/users/:id", "/users/{id}"},
		{"/users/{id?}", "/users/{id}"},
		{"/users/{id:uuid}", "/users/{id}"},
		{"/files/*path", "/files/*"},
		{"/files/{path*}", "/files/*"},
		{"/static/*", "/static/*"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, chiPath(tt.path))
		})
	}
}

func TestServeHandler(t *testing.T) {
	catalog, err := parseRoutes([]byte(testRoutes))
	require.NoError(t, err)

	h, p, err := newServeHandler(catalog, swagger.Settings{})
	require.NoError(t, err)
	assert.Equal(t, "/swagger.json", p.Settings().JSONPath)

	t.Run("routes answer not implemented", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/42", nil))
		assert.Equal(t, http.StatusNotImplemented, w.Code)
	})

	t.Run("document served", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger.json", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"/users/{id}"`)
	})

	t.Run("documentation served", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/documentation", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown method", func(t *testing.T) {
		c, err := parseRoutes([]byte("routes:\n  - method: PROPFIND\n    path: /dav\n"))
		require.NoError(t, err)

		_, _, err = newServeHandler(c, swagger.Settings{})
		assert.Error(t, err)
	})
}
