package validate

import (
	"context"

	"github.com/birkland/brimval"
	"golang.org/x/sync/errgroup"
)

// Report is the outcome of validating one store of a batch
type Report struct {
	Store   string
	Outcome brimval.Outcome
}

// ValidateAll validates several stores against the same schema, using the given
// number of concurrent workers.  Reports are in the same order as the stores.
//
// The only error returned is the context's, if it is done before every store
// has been visited.  Stores that were never visited are left with a zero Report.
func (v *Validator) ValidateAll(ctx context.Context, stores []string, schemaLoc string, workers int) ([]Report, error) {
	if workers < 1 {
		workers = 1
	}

	reports := make([]Report, len(stores))
	q := make(chan int)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for i := range q {
				reports[i] = Report{
					Store:   stores[i],
					Outcome: v.Validate(ctx, stores[i], schemaLoc),
				}
			}
			return nil
		})
	}

	g.Go(func() error {
		defer close(q)
		for i := range stores {
			if err := ctx.Err(); err != nil {
				return err
			}
			select {
			case q <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	return reports, g.Wait()
}
