package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopdesk/app/models"
	"github.com/shashiranjanraj/shopdesk/app/repositories"
	"github.com/shashiranjanraj/shopdesk/pkg/cache"
	"github.com/shashiranjanraj/shopdesk/pkg/logger"
	"github.com/shashiranjanraj/shopdesk/pkg/metrics"
	"github.com/shashiranjanraj/shopdesk/pkg/money"
	"github.com/shashiranjanraj/shopdesk/pkg/spreadsheet"
)

// CatalogColumns is the header of an import or export file.
var CatalogColumns = []string{"Code", "Name", "Cost", "Price", "Stock"}

type RowOutcome string

const (
	RowInserted RowOutcome = "inserted"
	RowUpdated  RowOutcome = "updated"
	RowSkipped  RowOutcome = "skipped"
	RowFailed   RowOutcome = "failed"
)

// RowResult is what happened to one data row of an upload.
type RowResult struct {
	Row     int
	Code    string
	Name    string
	Outcome RowOutcome
	Err     error
}

// ImportReport lists every row of an upload in file order.
type ImportReport struct {
	Rows      []RowResult
	Committed bool
}

func (r *ImportReport) Count(o RowOutcome) int {
	n := 0
	for _, row := range r.Rows {
		if row.Outcome == o {
			n++
		}
	}
	return n
}

// Summary reads like "3 inserted, 1 updated, 0 skipped, 0 failed".
func (r *ImportReport) Summary() string {
	return fmt.Sprintf("%d inserted, %d updated, %d skipped, %d failed",
		r.Count(RowInserted), r.Count(RowUpdated), r.Count(RowSkipped), r.Count(RowFailed))
}

func (r *ImportReport) add(res RowResult) {
	r.Rows = append(r.Rows, res)
}

var (
	errMissingColumn = errors.New("column is missing from the header")
	errNotInteger    = errors.New("must be a whole number")
	errStockTooLarge = fmt.Errorf("must not exceed %d", models.MaxStock)
)

// CatalogService moves the product catalog in and out of spreadsheet files.
type CatalogService struct {
	db    *gorm.DB
	cache cache.Store
}

func NewCatalogService(db *gorm.DB, store cache.Store) *CatalogService {
	return &CatalogService{db: db, cache: store}
}

// Import upserts the rows of r by product code inside a single transaction.
// When any row is rejected the transaction is rolled back and the error wraps
// both ErrImportFailed and the first *ImportRowError. The report is returned
// in every case where the file could be parsed.
func (s *CatalogService) Import(ctx context.Context, r io.Reader, format spreadsheet.Format) (*ImportReport, error) {
	table, err := spreadsheet.Read(r, format)
	if err != nil {
		return nil, fmt.Errorf("import catalog: %w", err)
	}

	report := &ImportReport{}
	cols := map[string]int{}
	for _, name := range CatalogColumns {
		cols[name] = table.Column(name)
	}
	if len(table.Rows) > 0 && cols["Name"] < 0 {
		rowErr := &ImportRowError{Row: 1, Column: "Name", Err: errMissingColumn}
		return report, fmt.Errorf("%w: %w", ErrImportFailed, rowErr)
	}

	var firstErr *ImportRowError
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := repositories.NewProductRepository(tx)

		for i, row := range table.Rows {
			res, rowErr, err := s.importRow(ctx, products, i+2, row, cols)
			if err != nil {
				return err
			}
			if rowErr != nil && firstErr == nil {
				firstErr = rowErr
			}
			report.add(res)
		}

		if firstErr != nil {
			return ErrImportFailed
		}
		return nil
	})

	for _, o := range []RowOutcome{RowInserted, RowUpdated, RowSkipped, RowFailed} {
		if n := report.Count(o); n > 0 {
			metrics.ImportRowsTotal.WithLabelValues(string(o)).Add(float64(n))
		}
	}

	switch {
	case firstErr != nil:
		logger.WithCtx(ctx).Warn("catalog import rolled back", "summary", report.Summary(), "error", firstErr)
		return report, fmt.Errorf("%w: %w", ErrImportFailed, firstErr)
	case txErr != nil:
		return report, fmt.Errorf("import catalog: %w", txErr)
	}

	report.Committed = true
	forgetProducts(ctx, s.cache)
	logger.WithCtx(ctx).Info("catalog imported", "summary", report.Summary())
	return report, nil
}

// importRow applies one data row. rowErr reports a rejected cell; err is a
// storage failure that aborts the whole import.
func (s *CatalogService) importRow(
	ctx context.Context,
	products *repositories.ProductRepository,
	rowNum int,
	row []string,
	cols map[string]int,
) (res RowResult, rowErr *ImportRowError, err error) {
	code := strings.TrimSpace(spreadsheet.Cell(row, cols["Code"]))
	name := strings.TrimSpace(spreadsheet.Cell(row, cols["Name"]))
	res = RowResult{Row: rowNum, Code: code, Name: name}

	if name == "" {
		res.Outcome = RowSkipped
		return res, nil, nil
	}

	fail := func(column, value string, cause error) (RowResult, *ImportRowError, error) {
		re := &ImportRowError{Row: rowNum, Column: column, Value: value, Err: cause}
		res.Outcome = RowFailed
		res.Err = re
		return res, re, nil
	}

	costCell := spreadsheet.Cell(row, cols["Cost"])
	cost, perr := money.ParseAmount(costCell)
	if perr != nil {
		return fail("Cost", strings.TrimSpace(costCell), perr)
	}
	priceCell := spreadsheet.Cell(row, cols["Price"])
	price, perr := money.ParseAmount(priceCell)
	if perr != nil {
		return fail("Price", strings.TrimSpace(priceCell), perr)
	}
	stockCell := spreadsheet.Cell(row, cols["Stock"])
	stock, perr := parseStock(stockCell)
	if perr != nil {
		return fail("Stock", strings.TrimSpace(stockCell), perr)
	}

	if code != "" {
		existing, ferr := products.FindByCode(ctx, code)
		switch {
		case ferr == nil:
			existing.Name = name
			existing.Cost = cost
			existing.Price = price
			existing.Stock = stock
			if err := products.Update(ctx, existing); err != nil {
				return res, nil, err
			}
			res.Outcome = RowUpdated
			return res, nil, nil
		case !errors.Is(ferr, repositories.ErrNotFound):
			return res, nil, ferr
		}
	}

	p := &models.Product{
		Code:  models.CodePtr(code),
		Name:  name,
		Cost:  cost,
		Price: price,
		Stock: stock,
	}
	if err := products.Create(ctx, p); err != nil {
		return res, nil, err
	}
	res.Outcome = RowInserted
	return res, nil, nil
}

// parseStock accepts whole numbers, including spreadsheet renderings like "5.0".
func parseStock(s string) (int, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, money.ErrNegative
		}
		if n > models.MaxStock {
			return 0, errStockTooLarge
		}
		return n, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if d.IsNegative() {
		return 0, money.ErrNegative
	}
	if !d.IsInteger() {
		return 0, errNotInteger
	}
	if d.GreaterThan(decimal.NewFromInt(models.MaxStock)) {
		return 0, errStockTooLarge
	}
	return int(d.IntPart()), nil
}

// Export writes the whole catalog in catalog order.
func (s *CatalogService) Export(ctx context.Context, w io.Writer, format spreadsheet.Format) error {
	products, err := repositories.NewProductRepository(s.db).All(ctx)
	if err != nil {
		return fmt.Errorf("export catalog: %w", err)
	}

	rows := make([][]interface{}, 0, len(products))
	for _, p := range products {
		rows = append(rows, []interface{}{
			p.CodeValue(),
			p.Name,
			p.Cost.InexactFloat64(),
			p.Price.InexactFloat64(),
			p.Stock,
		})
	}

	if err := spreadsheet.Write(w, format, "Products", CatalogColumns, rows); err != nil {
		return fmt.Errorf("export catalog: %w", err)
	}
	return nil
}
