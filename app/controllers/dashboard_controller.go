package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/unrolled/render"

	"github.com/shashiranjanraj/shopdesk/app/models"
	"github.com/shashiranjanraj/shopdesk/app/repositories"
	"github.com/shashiranjanraj/shopdesk/app/services"
	"github.com/shashiranjanraj/shopdesk/pkg/ctx"
	"github.com/shashiranjanraj/shopdesk/pkg/spreadsheet"
	"github.com/shashiranjanraj/shopdesk/pkg/view"
)

type dashboardPage struct {
	view.Page
	Products []models.Product
	Summary  repositories.SalesSummary
	Report   *services.ImportReport
}

type posPage struct {
	view.Page
	PaymentMethods     []string
	TransportCompanies []string
}

// DashboardController serves the home page, the POS screen and the catalog
// upload and download actions shown on the home page.
type DashboardController struct {
	view     *render.Render
	products *services.ProductService
	orders   *services.OrderService
	catalog  *services.CatalogService
}

func NewDashboardController(
	v *render.Render,
	products *services.ProductService,
	orders *services.OrderService,
	catalog *services.CatalogService,
) *DashboardController {
	return &DashboardController{view: v, products: products, orders: orders, catalog: catalog}
}

// Index handles GET /.
func (d *DashboardController) Index(c *ctx.Context) {
	page := dashboardPage{Page: view.Page{Title: "Dashboard"}}
	if kind, msg, ok := c.Flash(); ok {
		page.Flash = &view.Flash{Kind: kind, Message: msg}
	}
	d.renderIndex(c, http.StatusOK, page)
}

func (d *DashboardController) renderIndex(c *ctx.Context, status int, page dashboardPage) {
	var err error
	if page.Products, err = d.products.List(c.Context()); err != nil {
		c.InternalError(err)
		return
	}
	if page.Summary, err = d.orders.Summary(c.Context()); err != nil {
		c.InternalError(err)
		return
	}
	c.HTML(d.view, status, "index", page)
}

// POS handles GET /pos.
func (d *DashboardController) POS(c *ctx.Context) {
	c.HTML(d.view, http.StatusOK, "pos", posPage{
		Page:               view.Page{Title: "POS"},
		PaymentMethods:     models.PaymentMethods,
		TransportCompanies: models.TransportCompanies,
	})
}

// Upload handles POST /upload_products.
func (d *DashboardController) Upload(c *ctx.Context) {
	file, header, ok := c.FormFile("file")
	if !ok {
		c.RedirectWithFlash("/", "error", "Choose an .xlsx or .csv file to upload.")
		return
	}
	defer file.Close()

	format, err := spreadsheet.FormatFromFilename(header.Filename)
	if err != nil {
		c.RedirectWithFlash("/", "error", "Only .xlsx and .csv files can be imported.")
		return
	}

	report, err := d.catalog.Import(c.Context(), file, format)
	switch {
	case err == nil:
		c.RedirectWithFlash("/", "success", "Import complete: "+report.Summary()+".")
	case errors.Is(err, services.ErrImportFailed):
		d.renderIndex(c, http.StatusUnprocessableEntity, dashboardPage{
			Page: view.Page{
				Title: "Dashboard",
				Flash: &view.Flash{Kind: "error", Message: "Import failed: " + err.Error()},
			},
			Report: report,
		})
	case report == nil:
		c.Log().Warn("catalog upload unreadable", "file", header.Filename, "error", err)
		c.RedirectWithFlash("/", "error", "The file could not be read as "+string(format)+".")
	default:
		c.InternalError(err)
	}
}

// Download handles GET /download_products. ?format=csv switches from xlsx.
func (d *DashboardController) Download(c *ctx.Context) {
	format := spreadsheet.XLSX
	if c.Query("format") == string(spreadsheet.CSV) {
		format = spreadsheet.CSV
	}
	c.Attachment("products_download."+string(format), format.ContentType(), func(w io.Writer) error {
		return d.catalog.Export(c.Context(), w, format)
	})
}
