package asset

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Worker is anything that serves one side of the hub's reader/factory
// protocol until its context is cancelled: FilesystemReader and
// TextureFactory both satisfy this, as would a host's own factory for
// another AssetType.
type Worker interface {
	Run(ctx context.Context)
}

// RunWorkers starts every worker on its own goroutine under one
// errgroup, the way a worker-pool supervisor would: if ctx is
// cancelled, every worker's Run returns and RunWorkers returns once
// they all have. Run never itself returns an error (workers report
// failures per-task over their reply channel), so this simply bounds
// the supervising goroutines' lifetime to ctx.
func RunWorkers(ctx context.Context, workers ...Worker) {
	g, gctx := errgroup.WithContext(ctx)
	for _, w := range workers {
		w := w
		g.Go(func() error {
			w.Run(gctx)
			return nil
		})
	}
	_ = g.Wait()
}
