package mix

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of decoding one entry.
type Result struct {
	Entry Entry
	Asset *SpriteAsset
	Err   error
}

// DecodeAll decodes entries concurrently, at most WithWorkers at a time.
// Results are in input order; a failed entry only sets its own Err. The
// returned error is non-nil only when ctx was cancelled, in which case entries
// that had not started carry ctx.Err().
func DecodeAll(ctx context.Context, entries []Entry, opts ...Option) ([]Result, error) {
	o := buildOptions(opts)
	results := make([]Result, len(entries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i, e := range entries {
		i, e := i, e // per-iteration copies (go 1.21 loop semantics)
		results[i].Entry = e
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return err
			}
			results[i].Asset, results[i].Err = DecodeSprite(e.Name, e.Data, opts...)
			return nil
		})
	}
	return results, g.Wait()
}
