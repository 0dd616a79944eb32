package controller

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mirrorsvc "kursusku_backend/internals/features/mirror/service"
	"kursusku_backend/internals/upstream"
)

func newCategoryApp(up *upstream.Client) *fiber.App {
	app := fiber.New(fiber.Config{JSONEncoder: sonic.Marshal, JSONDecoder: sonic.Unmarshal})
	catCtrl := NewCategoryController(up, mirrorsvc.NewMirrorService(nil))
	subCtrl := NewSubcategoryController(up, mirrorsvc.NewMirrorService(nil))
	app.Get("/categories", catCtrl.GetAllCategories)
	app.Get("/subcategories", subCtrl.GetSubcategories)
	return app
}

func respJSON(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, sonic.Unmarshal(raw, &out), "body: %s", raw)
	return out
}

func TestGetAllCategories_AddsFetchAll(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/categories", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("fetchAll"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":[{"id":"c-1","name":"Matematika"}]}`))
	}))
	defer backend.Close()

	app := newCategoryApp(upstream.New(backend.URL))
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/categories", nil), 5000)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := respJSON(t, resp)
	assert.Equal(t, true, body["success"])
}

func TestGetAllCategories_SeedFallbackWhenUpstreamDown(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	backend.Close()

	app := newCategoryApp(upstream.New(backend.URL))
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/categories", nil), 5000)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := respJSON(t, resp)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "seed", body["source"])
	data := body["data"].([]interface{})
	require.NotEmpty(t, data)
	first := data[0].(map[string]interface{})
	assert.Equal(t, "Matematika", first["name"])
}

func TestGetSubcategories_RequiresCategoryID(t *testing.T) {
	called := false
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer backend.Close()

	app := newCategoryApp(upstream.New(backend.URL))
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/subcategories", nil), 5000)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, called, "missing categoryId must not reach the backend")
}

func TestGetSubcategories_ForwardsCategoryID(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/subcategories", r.URL.Path)
		assert.Equal(t, "c-7", r.URL.Query().Get("categoryId"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":[]}`))
	}))
	defer backend.Close()

	app := newCategoryApp(upstream.New(backend.URL))
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/subcategories?categoryId=c-7", nil), 5000)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
