package providers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dummyHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(body))
	})
}

func serve(t *testing.T, route http.Handler, method string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, "/items", nil)
	rr := httptest.NewRecorder()
	route.ServeHTTP(rr, req)
	return rr
}

func TestRouterProvider_GetAddsRoute(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/items", dummyHandler("ok"))

	routes := rp.GetRoutes()
	require.Len(t, routes, 1)
	assert.Equal(t, "/items", routes[0].Url)
}

func TestRouterProvider_SameUrlSeveralMethods(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/items", dummyHandler("list"))
	rp.Post("/items", dummyHandler("add"))
	rp.Delete("/items", dummyHandler("clear"))

	routes := rp.GetRoutes()
	require.Len(t, routes, 1)

	assert.Equal(t, "list", serve(t, routes[0].Handler, http.MethodGet).Body.String())
	assert.Equal(t, "add", serve(t, routes[0].Handler, http.MethodPost).Body.String())
	assert.Equal(t, "clear", serve(t, routes[0].Handler, http.MethodDelete).Body.String())
}

func TestRouterProvider_KeepsRegistrationOrder(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/a", dummyHandler("a"))
	rp.Post("/b", dummyHandler("b"))
	rp.Get("/c", dummyHandler("c"))
	rp.Post("/a", dummyHandler("a2"))

	routes := rp.GetRoutes()
	require.Len(t, routes, 3)
	assert.Equal(t, "/a", routes[0].Url)
	assert.Equal(t, "/b", routes[1].Url)
	assert.Equal(t, "/c", routes[2].Url)
}

func TestRouterProvider_UnregisteredMethodRejected(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/items", dummyHandler("ok"))

	rr := serve(t, rp.GetRoutes()[0].Handler, http.MethodPut)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
