package module

import (
	"context"
	"io"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ExtractTags reconstructs every tag in the module, reading blocks
// concurrently through r. Results are indexed like m.Files. workers
// limits concurrent reconstructions; values <= 0 use one worker per CPU.
// The first failure cancels remaining work and fails the whole module.
func (m *Module) ExtractTags(ctx context.Context, r io.ReaderAt, workers int) ([][]byte, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	tags := make([][]byte, len(m.Files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range m.Files {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := m.ReadTag(r, i)
			if err != nil {
				return err
			}
			tags[i] = data
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tags, nil
}
