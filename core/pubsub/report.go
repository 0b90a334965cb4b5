package pubsub

import (
	"errors"
	"fmt"
)

// Report summarizes a PublishIsolated call.
type Report struct {
	// Delivered counts Receive calls that returned normally.
	Delivered int

	// Failures lists subscribers whose Receive panicked, in delivery order.
	Failures []Failure

	// Interrupted is the context error that stopped a suspending fan-out early, if any.
	// Subscribers after the interruption point were not called.
	Interrupted error
}

// Failure describes one subscriber that failed during isolated delivery.
type Failure struct {
	Index    int // position in the subscriber list at publish time
	HandleID string
	Err      error
}

func (f Failure) Error() string {
	return fmt.Sprintf("subscriber %d (%s): %v", f.Index, f.HandleID, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// OK reports whether every subscriber was reached and none failed.
func (r Report) OK() bool {
	return len(r.Failures) == 0 && r.Interrupted == nil
}

// Err joins all failures and the interruption cause. It returns nil when OK.
func (r Report) Err() error {
	errs := make([]error, 0, len(r.Failures)+1)
	for _, f := range r.Failures {
		errs = append(errs, f)
	}
	if r.Interrupted != nil {
		errs = append(errs, r.Interrupted)
	}
	return errors.Join(errs...)
}
