package source

import (
	"context"

	"go.uber.org/zap"

	"github.com/warp/paycalc/paytable"
)

// Chain tries each source in order and returns the first table found.
// The error of the last source is returned when all fail.
type Chain []paytable.Source

func (c Chain) Load(ctx context.Context, year paytable.YearKey) (*paytable.PayTable, error) {
	var lastErr error = &paytable.LoadError{Year: year, Reason: "no sources configured"}
	for i, src := range c {
		table, err := src.Load(ctx, year)
		if err == nil && table != nil {
			return table, nil
		}
		if err != nil {
			zap.S().Debugw("pay table source missed", "year", year, "source", i, "error", err)
			lastErr = err
		}
	}
	return nil, lastErr
}
