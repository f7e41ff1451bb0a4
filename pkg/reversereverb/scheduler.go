// ABOUTME: Background transform scheduling
// ABOUTME: Coalesces parameter-change requests into throttled reprocessing runs
package reversereverb

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

type scheduler struct {
	pending atomic.Bool
	running atomic.Bool

	startOnce sync.Once
	closeOnce sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

// RequestTransform marks the sample for reprocessing. The scheduler picks
// the request up on its next tick; repeated requests before then collapse
// into one run. Ignored when no sample is loaded.
func (p *Processor) RequestTransform() {
	if !p.IsSampleLoaded() {
		return
	}
	p.sched.pending.Store(true)
}

// TransformPending reports whether a request is waiting for the scheduler
func (p *Processor) TransformPending() bool {
	return p.sched.pending.Load()
}

// IsTransforming reports whether a scheduled transform is running
func (p *Processor) IsTransforming() bool {
	return p.sched.running.Load()
}

// Start launches the scheduler goroutine. It runs until ctx is cancelled or
// Close is called. Calling Start more than once has no effect.
func (p *Processor) Start(ctx context.Context) {
	p.sched.startOnce.Do(func() {
		ctx, cancel := context.WithCancel(ctx)
		p.sched.cancel = cancel
		p.sched.done = make(chan struct{})
		go p.scheduleLoop(ctx, p.sched.done)
	})
}

// Close stops the scheduler and waits for an in-flight transform to finish
func (p *Processor) Close() error {
	p.sched.closeOnce.Do(func() {
		// Prevent a later Start from launching a loop
		p.sched.startOnce.Do(func() {})
		if p.sched.cancel != nil {
			p.sched.cancel()
			<-p.sched.done
		}
		p.Stop()
	})
	return nil
}

func (p *Processor) scheduleLoop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.config.TransformThrottle)
	defer ticker.Stop()

	p.log.WithField("throttle", p.config.TransformThrottle).Debug("transform scheduler started")

	for {
		select {
		case <-ticker.C:
			p.runPending()
		case <-ctx.Done():
			p.log.Debug("transform scheduler stopped")
			return
		}
	}
}

// runPending performs one queued transform, if any. Returns whether a
// transform ran.
func (p *Processor) runPending() bool {
	if p.sched.running.Load() || !p.sched.pending.CompareAndSwap(true, false) {
		return false
	}

	p.sched.running.Store(true)
	status := p.Transform()
	p.sched.running.Store(false)

	if p.config.OnTransformComplete != nil {
		p.config.OnTransformComplete(status)
	}
	return true
}
