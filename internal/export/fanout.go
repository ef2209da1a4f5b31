package export

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Result is the outcome of writing to one sink.
type Result struct {
	Sink     string
	Location string
	Err      error
}

// Fanout writes each artifact to every sink in order.
type Fanout []Sink

// Write writes a to all sinks, continuing past failures. The returned error
// aggregates every failed sink.
func (f Fanout) Write(ctx context.Context, a Artifact) ([]Result, error) {
	var (
		results = make([]Result, 0, len(f))
		merr    *multierror.Error
	)

	for _, sink := range f {
		location, err := sink.Write(ctx, a)
		results = append(results, Result{Sink: sink.Name(), Location: location, Err: err})
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%s sink: %w", sink.Name(), err))
		}
	}

	return results, merr.ErrorOrNil()
}
