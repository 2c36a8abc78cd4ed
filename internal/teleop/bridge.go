package teleop

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/mavteleop/mavteleop-go/internal/msg"
)

// Bridge owns the serialized sample loop. Input transports hand samples to
// Offer from their own goroutines; exactly one goroutine drains the queue
// and runs the active strategy, so strategy state needs no locking.
type Bridge struct {
	strategy Strategy
	norm     *Normalizer
	samples  chan msg.Joy

	processed atomic.Uint64
	dropped   atomic.Uint64
	started   time.Time
}

// DefaultSampleBuffer is the default depth of the sample queue.
const DefaultSampleBuffer = 16

// NewBridge creates a bridge for the given strategy. buffer <= 0 selects
// DefaultSampleBuffer.
func NewBridge(strategy Strategy, norm *Normalizer, buffer int) *Bridge {
	if buffer <= 0 {
		buffer = DefaultSampleBuffer
	}
	return &Bridge{
		strategy: strategy,
		norm:     norm,
		samples:  make(chan msg.Joy, buffer),
		started:  time.Now(),
	}
}

// Offer enqueues a sample without blocking. When the queue is full the
// sample is dropped: the contract is at-most-once, best-effort, and a stale
// teleoperation sample is worth less than a fresh one.
func (b *Bridge) Offer(j msg.Joy) {
	select {
	case b.samples <- j:
	default:
		b.dropped.Add(1)
	}
}

// Run drains the sample queue until the context is cancelled. Malformed
// samples (fewer axes or buttons than configured) are logged and skipped.
func (b *Bridge) Run(ctx context.Context) {
	log.Printf("MAV-Teleop: %s control type", b.strategy.Mode())

	for {
		select {
		case <-ctx.Done():
			return
		case j := <-b.samples:
			if err := b.norm.Validate(j); err != nil {
				log.Printf("dropping malformed joy sample: %v", err)
				continue
			}
			b.strategy.HandleSample(ctx, j)
			b.processed.Add(1)
		}
	}
}

// Mode returns the active control mode.
func (b *Bridge) Mode() Mode { return b.strategy.Mode() }

// Processed returns the number of samples handled by the strategy.
func (b *Bridge) Processed() uint64 { return b.processed.Load() }

// Dropped returns the number of samples discarded because the queue was full.
func (b *Bridge) Dropped() uint64 { return b.dropped.Load() }

// OverrideFrame returns the active strategy's current output frame, when the
// strategy keeps one.
func (b *Bridge) OverrideFrame() (msg.OverrideFrame, bool) {
	if r, ok := b.strategy.(FrameReporter); ok {
		return r.Frame(), true
	}
	return msg.OverrideFrame{}, false
}

// Uptime returns the time since the bridge was created.
func (b *Bridge) Uptime() time.Duration {
	return time.Since(b.started)
}
