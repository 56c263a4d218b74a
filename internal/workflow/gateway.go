package workflow

import (
	"context"
	"errors"
	"time"

	"sellerconsole/internal/leads"
)

// ErrSimulatedFailure is returned by Simulated when its Fail hook trips.
var ErrSimulatedFailure = errors.New("simulated failure")

// Default latencies of the bundled backend.
const (
	DefaultLoadDelay   = 800 * time.Millisecond
	DefaultActionDelay = 500 * time.Millisecond
)

// Gateway is where saves and conversions go before they are applied to the
// in-memory stores. A real backend can replace Simulated.
type Gateway interface {
	SaveLead(ctx context.Context, l leads.Lead) error
	CreateOpportunity(ctx context.Context, c Conversion) error
}

// Loader produces the initial lead collection.
type Loader interface {
	Load(ctx context.Context) ([]leads.Lead, error)
}

// Simulated is a gateway that only waits.
type Simulated struct {
	Delay time.Duration
	// Fail, when set, is consulted per call; returning true fails the call.
	Fail func(action string) bool
}

// SaveLead waits Delay and succeeds unless Fail says otherwise.
func (s Simulated) SaveLead(ctx context.Context, _ leads.Lead) error {
	return s.wait(ctx, "save")
}

// CreateOpportunity waits Delay and succeeds unless Fail says otherwise.
func (s Simulated) CreateOpportunity(ctx context.Context, _ Conversion) error {
	return s.wait(ctx, "convert")
}

func (s Simulated) wait(ctx context.Context, action string) error {
	if err := sleep(ctx, s.Delay); err != nil {
		return err
	}
	if s.Fail != nil && s.Fail(action) {
		return ErrSimulatedFailure
	}
	return nil
}

// Delayed wraps a Loader with a fixed latency before the data is returned.
type Delayed struct {
	Loader Loader
	Delay  time.Duration
}

// Load waits Delay and then delegates.
func (d Delayed) Load(ctx context.Context) ([]leads.Lead, error) {
	if err := sleep(ctx, d.Delay); err != nil {
		return nil, err
	}
	return d.Loader.Load(ctx)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
