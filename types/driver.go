package types

import (
	"context"
	"sync"
	"time"
)

// Driver calls a tick function periodically on its own goroutine.
// At most one instance runs at a time: Start stops the previous one first.
type Driver struct {
	lock   *sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewDriver() *Driver {
	return &Driver{
		lock:   new(sync.Mutex),
		cancel: nil,
		done:   nil,
	}
}

func (d *Driver) Start(ctx context.Context, interval time.Duration, tick func()) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.stop()

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	d.cancel = cancel
	d.done = done

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				tick()
			}
		}
	}()
}

// Stop cancels the running instance and waits for it, no-op if idle
func (d *Driver) Stop() {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.stop()
}

func (d *Driver) stop() {
	if d.cancel == nil {
		return
	}
	d.cancel()
	<-d.done
	d.cancel = nil
	d.done = nil
}

func (d *Driver) Running() bool {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.cancel != nil
}
