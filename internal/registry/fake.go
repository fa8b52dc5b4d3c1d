package registry

import (
	"context"
	"errors"

	"ipfolio/internal/models"
)

// Fake is a canned Checker for tests and demo mode. Outcomes are served
// in order; once the queue is exhausted the last one repeats.
type Fake struct {
	Outcomes []*CheckOutcome
	Err      error
	Calls    int
}

func (f *Fake) Check(ctx context.Context, item *models.MonitoringItem, apiKey string) (*CheckOutcome, error) {
	f.Calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.Err != nil {
		return nil, f.Err
	}
	if len(f.Outcomes) == 0 {
		return nil, errors.New("fake checker has no outcomes configured")
	}
	i := f.Calls - 1
	if i >= len(f.Outcomes) {
		i = len(f.Outcomes) - 1
	}
	return f.Outcomes[i], nil
}
