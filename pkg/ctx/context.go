// Package ctx is the request context shopdesk controllers are written against.
//
// A handler receives a single *Context instead of (w, r):
//
//	func (c *OrderController) Show(cx *ctx.Context) {
//	    id, ok := cx.ParamUint("id")
//	    if !ok {
//	        cx.NotFound()
//	        return
//	    }
//	    ...
//	    cx.HTML(c.view, http.StatusOK, "order_detail", page)
//	}
//
//	r.Get("/order/{id}", "orders.show", ctx.Wrap(orders.Show))
package ctx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/unrolled/render"

	"github.com/shashiranjanraj/shopdesk/pkg/bind"
	"github.com/shashiranjanraj/shopdesk/pkg/crypt"
	"github.com/shashiranjanraj/shopdesk/pkg/logger"
	"github.com/shashiranjanraj/shopdesk/pkg/response"
)

// HandlerFunc is the controller handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to an http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// Context wraps one request/response pair.
type Context struct {
	W http.ResponseWriter
	R *http.Request
}

var pool = sync.Pool{
	New: func() any { return &Context{} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Context returns the request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// Log returns the request-scoped logger.
func (c *Context) Log() *slog.Logger { return logger.WithCtx(c.R.Context()) }

// Param returns a URL path parameter.
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// ParamUint parses a numeric path parameter such as {id}.
func (c *Context) ParamUint(key string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// FormValue returns a url-encoded or multipart form field.
func (c *Context) FormValue(key string) string {
	return c.R.FormValue(key)
}

// FormFile returns an uploaded file, or ok=false when the field is absent or
// empty. The caller closes the file.
func (c *Context) FormFile(key string) (multipart.File, *multipart.FileHeader, bool) {
	if err := bind.Multipart(c.R); err != nil {
		return nil, nil, false
	}
	f, h, err := c.R.FormFile(key)
	if err != nil {
		return nil, nil, false
	}
	if h.Filename == "" {
		f.Close()
		return nil, nil, false
	}
	return f, h, true
}

// ShouldBindJSON decodes the JSON body into dest and runs validation. It does
// not write a response.
func (c *Context) ShouldBindJSON(dest any) (map[string]string, error) {
	return bind.JSON(c.R, dest)
}

// ShouldBindForm fills the `form`-tagged string fields of dest and runs
// validation. It does not write a response.
func (c *Context) ShouldBindForm(dest any) (map[string]string, error) {
	return bind.Form(c.R, dest)
}

// ─── Response helpers ─────────────────────────────────────────────────────────

// JSON writes v as the whole body.
func (c *Context) JSON(code int, v any) {
	response.JSON(c.W, code, v)
}

// Error sends the JSON error envelope.
func (c *Context) Error(code int, message string) {
	response.Error(c.W, code, message)
}

// NotFound sends a plain 404 page.
func (c *Context) NotFound() {
	http.NotFound(c.W, c.R)
}

// InternalError logs err and answers with a generic 500.
func (c *Context) InternalError(err error) {
	c.Log().Error("request failed", "error", err)
	http.Error(c.W, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// HTML renders the named template through v.
func (c *Context) HTML(v *render.Render, code int, name string, data any, opts ...render.HTMLOptions) {
	if err := v.HTML(c.W, code, name, data, opts...); err != nil {
		c.Log().Error("render template", "template", name, "error", err)
	}
}

// Redirect answers a form post with 303 See Other.
func (c *Context) Redirect(to string) {
	http.Redirect(c.W, c.R, to, http.StatusSeeOther)
}

const flashCookie = "shopdesk_flash"

type flash struct {
	Kind    string `json:"k"`
	Message string `json:"m"`
}

// RedirectWithFlash redirects and leaves a one-line notice in an encrypted
// cookie for the next page to pick up with Flash.
func (c *Context) RedirectWithFlash(to, kind, message string) {
	value, err := crypt.EncryptJSON(flash{Kind: kind, Message: message})
	if err != nil {
		c.Log().Warn("flash not set", "error", err)
	} else {
		http.SetCookie(c.W, &http.Cookie{
			Name:     flashCookie,
			Value:    value,
			Path:     "/",
			MaxAge:   60,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	c.Redirect(to)
}

// Flash reads and clears the notice left by RedirectWithFlash. kind is
// "success" or "error".
func (c *Context) Flash() (kind, message string, ok bool) {
	ck, err := c.R.Cookie(flashCookie)
	if err != nil {
		return "", "", false
	}
	http.SetCookie(c.W, &http.Cookie{Name: flashCookie, Path: "/", MaxAge: -1})

	var f flash
	if err := crypt.DecryptJSON(ck.Value, &f); err != nil || f.Message == "" {
		return "", "", false
	}
	if f.Kind != "error" {
		f.Kind = "success"
	}
	return f.Kind, f.Message, true
}

// Attachment sends a download built by write. Headers are sent only after
// write succeeds, so a failure still produces a clean 500.
func (c *Context) Attachment(filename, contentType string, write func(io.Writer) error) {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		c.InternalError(fmt.Errorf("build %s: %w", filename, err))
		return
	}
	response.Attachment(c.W, filename, contentType)
	c.W.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	c.W.WriteHeader(http.StatusOK)
	buf.WriteTo(c.W) //nolint:errcheck
}
