package utils

import (
	"context"

	"github.com/caarlos0/ctrlc"
)

// Interruptible runs f under ctrlc. When a SIGINT/SIGTERM arrives or ctx is
// done, f's context is cancelled and Interruptible waits for f to return, so
// any cleanup deferred inside f has finished. The ctrlc error is returned in
// that case; otherwise f's own error.
func Interruptible(ctx context.Context, f func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	var ferr error
	// a fresh handler per run: an abandoned task still reports into the
	// handler's buffered channel, which would leak into the next Run
	err := ctrlc.New().Run(ctx, func() error {
		defer close(done)
		ferr = f(ctx)
		return ferr
	})

	cancel()
	<-done

	if err != nil {
		return err
	}
	return ferr
}
