package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte(body)) }
}

func TestGroupPrefixAndMiddlewareOrder(t *testing.T) {
	var order []string
	mw := func(tag string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, tag)
				next.ServeHTTP(w, r)
			})
		}
	}

	r := New()
	api := r.Group("/api", mw("group"))
	api.Get("/products", "api.products", ok("list"), mw("route"))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))

	assert.Equal(t, "list", rec.Body.String())
	assert.Equal(t, []string{"group", "route"}, order)
}

func TestRoutesAreSorted(t *testing.T) {
	r := New()
	r.Post("/orders", "b", ok(""))
	r.Get("/orders", "a", ok(""))
	r.Get("/", "home", ok(""))

	routes := r.Routes()
	require.Len(t, routes, 3)
	assert.Equal(t, RouteInfo{Method: "GET", Path: "/", Name: "home"}, routes[0])
	assert.Equal(t, "GET", routes[1].Method)
	assert.Equal(t, "POST", routes[2].Method)
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "/", joinPath("", "/"))
	assert.Equal(t, "/api/products", joinPath("/api/", "/products"))
}
