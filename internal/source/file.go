package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/angelmondragon/storefront-analytics/internal/reports/types"
	pkgerrors "github.com/angelmondragon/storefront-analytics/pkg/errors"
)

// FileSource serves a JSON fixture of the shape
// {"sales": [...], "previous_sales": [...], "products": [...], "coupons": [...]}.
// The fixture is already scoped to one period, so the window only picks current
// or previous sales.
type FileSource struct {
	sales         []types.RawRecord
	previousSales []types.RawRecord
	products      []types.RawRecord
	coupons       []types.RawRecord
	current       Window
}

type fixture struct {
	Sales         json.RawMessage `json:"sales"`
	PreviousSales json.RawMessage `json:"previous_sales"`
	Products      json.RawMessage `json:"products"`
	Coupons       json.RawMessage `json:"coupons"`
}

// LoadFile reads a fixture from disk. current identifies the window whose sales are the
// fixture's "sales"; any other window is served "previous_sales".
func LoadFile(path string, current Window) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open fixture")
	}
	defer func() { _ = f.Close() }()

	decoder := json.NewDecoder(f)
	var raw fixture
	if err := decoder.Decode(&raw); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode fixture")
	}

	src := &FileSource{current: current}
	sections := []struct {
		name string
		data json.RawMessage
		dest *[]types.RawRecord
	}{
		{"sales", raw.Sales, &src.sales},
		{"previous_sales", raw.PreviousSales, &src.previousSales},
		{"products", raw.Products, &src.products},
		{"coupons", raw.Coupons, &src.coupons},
	}
	for _, section := range sections {
		if len(section.data) == 0 {
			*section.dest = []types.RawRecord{}
			continue
		}
		records, err := decodeSection(section.data)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("decode fixture %s", section.name))
		}
		*section.dest = records
	}
	return src, nil
}

func decodeSection(data json.RawMessage) ([]types.RawRecord, error) {
	return DecodeRecords(bytes.NewReader(data))
}

// Sales implements Source.
func (s *FileSource) Sales(_ context.Context, window Window) ([]types.RawRecord, error) {
	if window.Start.Equal(s.current.Start) && window.End.Equal(s.current.End) {
		return s.sales, nil
	}
	return s.previousSales, nil
}

// Products implements Source.
func (s *FileSource) Products(context.Context) ([]types.RawRecord, error) {
	return s.products, nil
}

// Coupons implements Source.
func (s *FileSource) Coupons(context.Context) ([]types.RawRecord, error) {
	return s.coupons, nil
}
