package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"servicofacil/internal/domain"
)

// ItemStore is the part of the service item repository the importer needs.
type ItemStore interface {
	FindByName(ctx context.Context, name string) (*domain.ServiceItem, error)
	Create(ctx context.Context, s domain.ServiceItem) (*domain.ServiceItem, error)
	Update(ctx context.Context, s domain.ServiceItem) (*domain.ServiceItem, error)
}

// CSVImporter reads service items from CSV with a name,price,notes header
// and upserts them by case-insensitive name.
type CSVImporter struct {
	reader *csv.Reader
	items  ItemStore
}

// Result counts what a run changed.
type Result struct {
	Created int
	Updated int
	Skipped int
}

func NewCSVImporter(r io.Reader, items ItemStore) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{reader: csvr, items: items}
}

// Run imports every row. It stops at the first invalid row; rows before it
// stay imported.
func (i *CSVImporter) Run(ctx context.Context) (Result, error) {
	var res Result
	headers, err := i.reader.Read()
	if err != nil {
		return res, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["name"]; !ok {
		return res, errors.New("csv header must contain a name column")
	}
	if _, ok := index["price"]; !ok {
		return res, errors.New("csv header must contain a price column")
	}

	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return res, fmt.Errorf("read row %d: %w", line, err)
		}

		name := pick(record, index, "name")
		priceText := pick(record, index, "price")
		if name == "" && priceText == "" {
			res.Skipped++
			continue
		}

		price, err := domain.ParseMoney("price", priceText)
		if err != nil {
			return res, fmt.Errorf("row %d: %w", line, err)
		}
		item := domain.ServiceItem{Name: name, Price: price, Notes: pick(record, index, "notes")}
		item.Normalize()
		if err := item.Validate(); err != nil {
			return res, fmt.Errorf("row %d: %w", line, err)
		}

		created, err := i.save(ctx, item)
		if err != nil {
			return res, fmt.Errorf("row %d: %w", line, err)
		}
		if created {
			res.Created++
		} else {
			res.Updated++
		}
	}
	return res, nil
}

func (i *CSVImporter) save(ctx context.Context, item domain.ServiceItem) (created bool, err error) {
	existing, err := i.items.FindByName(ctx, item.Name)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		if _, err := i.items.Create(ctx, item); err != nil {
			return false, fmt.Errorf("create service item %q: %w", item.Name, err)
		}
		return true, nil
	case err != nil:
		return false, fmt.Errorf("find service item %q: %w", item.Name, err)
	}

	item.ID = existing.ID
	if _, err := i.items.Update(ctx, item); err != nil {
		return false, fmt.Errorf("update service item %q: %w", item.Name, err)
	}
	return false, nil
}

var headerAliases = map[string]string{
	"nome":        "name",
	"preco":       "price",
	"preço":       "price",
	"valor":       "price",
	"observacoes": "notes",
	"observações": "notes",
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if alias, ok := headerAliases[key]; ok {
			key = alias
		}
		idx[key] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
