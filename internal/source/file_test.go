package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileServesSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.json")
	body := `{
  "sales": [{"date": "2025-03-02", "revenue": "10.00", "orders": 1}],
  "previous_sales": [{"date": "2025-02-02", "revenue": "8.00", "orders": 1}],
  "products": [{"id": "p1"}],
  "coupons": []
}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	current := WindowEndingAt(time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), 30*24*time.Hour)
	src, err := LoadFile(path, current)
	require.NoError(t, err)

	ctx := context.Background()
	sales, err := src.Sales(ctx, current)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, "10.00", sales[0]["revenue"])

	previous, err := src.Sales(ctx, current.Previous())
	require.NoError(t, err)
	assert.Equal(t, "8.00", previous[0]["revenue"])

	products, _ := src.Products(ctx)
	assert.Len(t, products, 1)
	coupons, _ := src.Coupons(ctx)
	assert.Empty(t, coupons)
}

func TestLoadFileMissingSectionsAreEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"products": []}`), 0o600))

	src, err := LoadFile(path, Window{})
	require.NoError(t, err)
	sales, err := src.Sales(context.Background(), Window{})
	require.NoError(t, err)
	assert.NotNil(t, sales)
	assert.Empty(t, sales)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"), Window{})
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"sales": {"not": "a list"}}`), 0o600))
	_, err = LoadFile(path, Window{})
	assert.Error(t, err)
}
