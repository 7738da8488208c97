package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/unrolled/render"

	"github.com/shashiranjanraj/shopdesk/app/models"
	"github.com/shashiranjanraj/shopdesk/app/repositories"
	"github.com/shashiranjanraj/shopdesk/app/services"
	"github.com/shashiranjanraj/shopdesk/pkg/ctx"
	"github.com/shashiranjanraj/shopdesk/pkg/money"
	"github.com/shashiranjanraj/shopdesk/pkg/storage"
	"github.com/shashiranjanraj/shopdesk/pkg/view"
)

type productForm struct {
	Code  string `form:"code"  validate:"nullable,max=100"`
	Name  string `form:"name"  validate:"required,max=255"`
	Price string `form:"price" validate:"required,numeric,gte=0"`
	Cost  string `form:"cost"  validate:"nullable,numeric,gte=0"`
	Stock string `form:"stock" validate:"required,integer,gte=0"`
}

// input converts the validated strings. Values the validator lets through
// but the columns cannot hold come back as field errors.
func (f productForm) input() (services.ProductInput, map[string]string) {
	errs := make(map[string]string)
	amount := func(field, raw string) decimal.Decimal {
		d, err := money.ParseAmount(raw)
		switch {
		case errors.Is(err, money.ErrTooLarge):
			errs[field] = fmt.Sprintf("The %s must be less than or equal to %s.", field, money.MaxAmount.StringFixed(2))
		case err != nil:
			errs[field] = fmt.Sprintf("The %s field must be a number.", field)
		}
		return d
	}
	price := amount("price", f.Price)
	cost := amount("cost", f.Cost)

	stock, err := strconv.Atoi(f.Stock)
	if err != nil || stock > models.MaxStock {
		errs["stock"] = fmt.Sprintf("The stock must be less than or equal to %d.", models.MaxStock)
	}
	return services.ProductInput{Code: f.Code, Name: f.Name, Price: price, Cost: cost, Stock: stock}, errs
}

func formFromProduct(p *models.Product) productForm {
	return productForm{
		Code:  p.CodeValue(),
		Name:  p.Name,
		Price: p.Price.StringFixed(2),
		Cost:  p.Cost.StringFixed(2),
		Stock: strconv.Itoa(p.Stock),
	}
}

type productFormPage struct {
	view.Page
	Action  string
	Form    productForm
	Errors  map[string]string
	Product *models.Product
}

// ProductController handles the add, edit and delete product pages and
// serves product images.
type ProductController struct {
	view     *render.Render
	products *services.ProductService
	fallback []byte
}

// NewProductController takes the image served for default.jpg when none has
// been uploaded.
func NewProductController(v *render.Render, products *services.ProductService, fallback []byte) *ProductController {
	return &ProductController{view: v, products: products, fallback: fallback}
}

// Create handles GET /add_product.
func (pc *ProductController) Create(c *ctx.Context) {
	pc.renderForm(c, http.StatusOK, productFormPage{
		Page:   view.Page{Title: "Add product"},
		Action: "/add_product",
		Form:   productForm{Cost: "0", Stock: "0"},
	})
}

// Store handles POST /add_product.
func (pc *ProductController) Store(c *ctx.Context) {
	page := productFormPage{Page: view.Page{Title: "Add product"}, Action: "/add_product"}

	errs, err := c.ShouldBindForm(&page.Form)
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return
	}
	in, convErrs := page.Form.input()
	if len(errs) == 0 {
		errs = convErrs
	}
	if len(errs) > 0 {
		page.Errors = errs
		pc.renderForm(c, http.StatusUnprocessableEntity, page)
		return
	}

	img, closeImg := pc.upload(c)
	defer closeImg()

	p, err := pc.products.Create(c.Context(), in, img)
	if err != nil {
		pc.saveFailed(c, page, err)
		return
	}
	c.Log().Info("product created", "product_id", p.ID)
	c.Redirect("/")
}

// Edit handles GET /edit_product/{id}.
func (pc *ProductController) Edit(c *ctx.Context) {
	p, ok := pc.find(c)
	if !ok {
		return
	}
	pc.renderForm(c, http.StatusOK, productFormPage{
		Page:    view.Page{Title: "Edit " + p.Name},
		Action:  fmt.Sprintf("/edit_product/%d", p.ID),
		Form:    formFromProduct(p),
		Product: p,
	})
}

// Update handles POST /edit_product/{id}.
func (pc *ProductController) Update(c *ctx.Context) {
	p, ok := pc.find(c)
	if !ok {
		return
	}
	page := productFormPage{
		Page:    view.Page{Title: "Edit " + p.Name},
		Action:  fmt.Sprintf("/edit_product/%d", p.ID),
		Product: p,
	}

	errs, err := c.ShouldBindForm(&page.Form)
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return
	}
	in, convErrs := page.Form.input()
	if len(errs) == 0 {
		errs = convErrs
	}
	if len(errs) > 0 {
		page.Errors = errs
		pc.renderForm(c, http.StatusUnprocessableEntity, page)
		return
	}

	img, closeImg := pc.upload(c)
	defer closeImg()

	if _, err := pc.products.Update(c.Context(), p.ID, in, img); err != nil {
		pc.saveFailed(c, page, err)
		return
	}
	c.Redirect("/")
}

// Delete handles POST /delete_product/{id}.
func (pc *ProductController) Delete(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound()
		return
	}
	err := pc.products.Delete(c.Context(), id)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		c.NotFound()
	case err != nil:
		c.InternalError(err)
	default:
		c.Log().Info("product deleted", "product_id", id)
		c.Redirect("/")
	}
}

// Image handles GET /static/product_images/{file}.
func (pc *ProductController) Image(c *ctx.Context) {
	file := c.Param("file")
	rc, contentType, err := pc.products.OpenImage(c.Context(), file)
	if errors.Is(err, storage.ErrNotExist) {
		if file == models.DefaultImage && pc.fallback != nil {
			c.W.Header().Set("Content-Type", "image/svg+xml")
			c.W.Header().Set("Cache-Control", "public, max-age=300")
			c.W.Write(pc.fallback) //nolint:errcheck
			return
		}
		c.NotFound()
		return
	}
	if err != nil {
		c.InternalError(err)
		return
	}
	defer rc.Close()

	c.W.Header().Set("Content-Type", contentType)
	c.W.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := io.Copy(c.W, rc); err != nil {
		c.Log().Warn("send product image", "file", file, "error", err)
	}
}

func (pc *ProductController) find(c *ctx.Context) (*models.Product, bool) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound()
		return nil, false
	}
	p, err := pc.products.Get(c.Context(), id)
	if errors.Is(err, repositories.ErrNotFound) {
		c.NotFound()
		return nil, false
	}
	if err != nil {
		c.InternalError(err)
		return nil, false
	}
	return p, true
}

// upload returns the optional "image" field and a func that closes it.
func (pc *ProductController) upload(c *ctx.Context) (*services.ImageUpload, func()) {
	f, h, ok := c.FormFile("image")
	if !ok {
		return nil, func() {}
	}
	return &services.ImageUpload{Filename: h.Filename, Body: f}, func() { f.Close() }
}

func (pc *ProductController) saveFailed(c *ctx.Context, page productFormPage, err error) {
	switch {
	case errors.Is(err, repositories.ErrConstraintViolation):
		page.Errors = map[string]string{"code": "This code is already used by another product."}
	case errors.Is(err, services.ErrUnsupportedImage):
		page.Errors = map[string]string{"image": "Upload a .jpg, .jpeg, .png, .gif or .webp image."}
	case errors.Is(err, services.ErrBlankProductName):
		page.Errors = map[string]string{"name": "The name field is required."}
	case errors.Is(err, repositories.ErrNotFound):
		c.NotFound()
		return
	default:
		c.InternalError(err)
		return
	}
	pc.renderForm(c, http.StatusUnprocessableEntity, page)
}

func (pc *ProductController) renderForm(c *ctx.Context, status int, page productFormPage) {
	c.HTML(pc.view, status, "product_form", page)
}
