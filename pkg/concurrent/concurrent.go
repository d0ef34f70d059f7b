package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Map applies fn to every element of in with at most limit goroutines and
// keeps the input order in the result. The first error cancels the context
// handed to the remaining calls and is returned. A limit below one means no limit.
func Map[T any, R any](ctx context.Context, in []T, limit int, fn func(context.Context, T) (R, error)) ([]R, error) {
	out := make([]R, len(in))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, v := range in {
		i, v := i, v
		g.Go(func() error {
			r, err := fn(gctx, v)
			if err != nil {
				return err
			}
			out[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
