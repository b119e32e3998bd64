// Package source fetches raw record batches for the report engine. Retries, authentication
// and response envelopes live here so the engine only ever sees in-memory records.
package source

import (
	"context"
	"time"

	"github.com/angelmondragon/storefront-analytics/internal/reports/types"
)

// Window is a half-open [Start, End) reporting period.
type Window struct {
	Start time.Time
	End   time.Time
}

// Previous returns the window of the same length that ends where w starts.
func (w Window) Previous() Window {
	length := w.End.Sub(w.Start)
	return Window{Start: w.Start.Add(-length), End: w.Start}
}

// WindowEndingAt returns the window of the given length ending at end.
func WindowEndingAt(end time.Time, length time.Duration) Window {
	return Window{Start: end.Add(-length), End: end}
}

// Source supplies raw sales, products and coupons.
type Source interface {
	Sales(ctx context.Context, window Window) ([]types.RawRecord, error)
	Products(ctx context.Context) ([]types.RawRecord, error)
	Coupons(ctx context.Context) ([]types.RawRecord, error)
}
