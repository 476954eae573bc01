package views

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// settle runs every fetch concurrently and waits for all of them to finish,
// success or failure. Each fetch records its own result and error; a failed
// request must not cancel its siblings, so none of them returns an error to
// the group.
func settle(ctx context.Context, fetches ...func(context.Context)) {
	g, ctx := errgroup.WithContext(ctx)
	for _, fetch := range fetches {
		fetch := fetch
		g.Go(func() error {
			fetch(ctx)
			return nil
		})
	}
	_ = g.Wait()
}
