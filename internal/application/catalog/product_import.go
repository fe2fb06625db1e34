package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/luxemart/storefront/internal/domain/catalog"
	"github.com/luxemart/storefront/internal/domain/shared"
	"github.com/luxemart/storefront/internal/infrastructure/csvimport"
)

// maxImportRows bounds one upload so a runaway file cannot tie up the
// request for minutes
const maxImportRows = 1000

var importRequiredHeaders = []string{"name", "slug", "price"}

// ImportResult summarizes one bulk upload: what was created and which
// rows were rejected. A partial import is a success with errors listed.
type ImportResult struct {
	Created int                  `json:"created"`
	Failed  int                  `json:"failed"`
	Errors  []csvimport.RowError `json:"errors,omitempty"`
}

// ImportCSV creates unpublished products from a CSV upload. Required
// columns are name, slug and price; short_description and description
// are optional. Rows are independent: a bad row is reported and skipped,
// the rest still import.
func (s *ProductService) ImportCSV(ctx context.Context, vendorID uuid.UUID, r io.Reader) (*ImportResult, error) {
	v, err := s.vendorRepo.FindByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if !v.IsApproved() {
		return nil, shared.NewDomainError("VENDOR_NOT_APPROVED", "Vendor is not approved to sell")
	}

	parser, err := csvimport.NewParser(r)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_IMPORT_FILE", err.Error())
	}
	if missing := parser.MissingHeaders(importRequiredHeaders); len(missing) > 0 {
		return nil, shared.NewDomainError("INVALID_IMPORT_FILE",
			fmt.Sprintf("Missing required columns: %s", strings.Join(missing, ", ")))
	}

	rows, err := parser.ReadAll()
	if err != nil {
		return nil, shared.NewDomainError("INVALID_IMPORT_FILE", err.Error())
	}
	if len(rows) > maxImportRows {
		return nil, shared.NewDomainError("INVALID_IMPORT_FILE",
			fmt.Sprintf("File has %d rows, the limit is %d", len(rows), maxImportRows))
	}

	collected := csvimport.NewErrorCollection(100)
	seenSlugs := make(map[string]bool, len(rows))
	created := 0

	for _, row := range rows {
		product, rowErr := s.productFromRow(ctx, vendorID, row, seenSlugs)
		if rowErr != nil {
			collected.Add(*rowErr)
			continue
		}
		if err := s.productRepo.Create(ctx, product); err != nil {
			collected.Add(csvimport.NewRowError(row.Line, "", csvimport.ErrCodeInvalidValue, err.Error()))
			continue
		}
		seenSlugs[product.Slug] = true
		created++
	}

	return &ImportResult{
		Created: created,
		Failed:  collected.Total(),
		Errors:  collected.Errors(),
	}, nil
}

func (s *ProductService) productFromRow(ctx context.Context, vendorID uuid.UUID, row *csvimport.Row, seenSlugs map[string]bool) (*catalog.Product, *csvimport.RowError) {
	name := row.Get("name")
	if name == "" {
		e := csvimport.NewRowError(row.Line, "name", csvimport.ErrCodeRequiredField, "Name is required")
		return nil, &e
	}

	slug := strings.ToLower(row.Get("slug"))
	if slug == "" {
		e := csvimport.NewRowError(row.Line, "slug", csvimport.ErrCodeRequiredField, "Slug is required")
		return nil, &e
	}
	if seenSlugs[slug] {
		e := csvimport.NewRowError(row.Line, "slug", csvimport.ErrCodeDuplicate, "Slug appears earlier in the file")
		return nil, &e
	}

	price, err := decimal.NewFromString(row.Get("price"))
	if err != nil {
		e := csvimport.NewRowError(row.Line, "price", csvimport.ErrCodeInvalidValue, "Price is not a valid number")
		return nil, &e
	}

	if _, err := s.productRepo.FindBySlug(ctx, slug); err == nil {
		e := csvimport.NewRowError(row.Line, "slug", csvimport.ErrCodeDuplicate, "A product with this slug already exists")
		return nil, &e
	} else if !errors.Is(err, shared.ErrNotFound) {
		e := csvimport.NewRowError(row.Line, "slug", csvimport.ErrCodeInvalidValue, err.Error())
		return nil, &e
	}

	product, err := catalog.NewProduct(vendorID, name, slug, price)
	if err != nil {
		e := csvimport.NewRowError(row.Line, "", csvimport.ErrCodeInvalidValue, err.Error())
		return nil, &e
	}
	product.ShortDescription = row.Get("short_description")
	product.Description = row.Get("description")
	return product, nil
}
