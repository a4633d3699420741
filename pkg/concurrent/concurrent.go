package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ForEach runs action for every item with at most limit calls in flight.
// A limit of zero or less means no limit. The first error cancels the
// context seen by the remaining calls and is returned once all have exited.
func ForEach[T any](ctx context.Context, items []T, limit int, action func(context.Context, T) error) error {
	group, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		group.SetLimit(limit)
	}
	for _, item := range items {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return action(ctx, item)
		})
	}
	return group.Wait()
}

// Map is ForEach that keeps each call's result at its item's index. On error
// the partial results are returned alongside it.
func Map[T, R any](ctx context.Context, items []T, limit int, mapFn func(context.Context, T) (R, error)) ([]R, error) {
	out := make([]R, len(items))
	group, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		group.SetLimit(limit)
	}
	for i, item := range items {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := mapFn(ctx, item)
			out[i] = r
			return err
		})
	}
	return out, group.Wait()
}

// Collect runs every action regardless of failures and returns all errors
// at their item's index; nil entries succeeded.
func Collect[T any](ctx context.Context, items []T, limit int, action func(context.Context, T) error) []error {
	errs := make([]error, len(items))
	var group errgroup.Group
	if limit > 0 {
		group.SetLimit(limit)
	}
	for i, item := range items {
		group.Go(func() error {
			errs[i] = action(ctx, item)
			return nil
		})
	}
	_ = group.Wait()
	return errs
}
