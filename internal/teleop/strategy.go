package teleop

import (
	"context"

	"github.com/mavteleop/mavteleop-go/internal/msg"
)

// Mode identifies one of the four mutually exclusive control modes. Exactly
// one mode is selected at start-up and runs for the process lifetime.
type Mode string

const (
	// ModeRCOverride publishes raw RC channel override frames.
	ModeRCOverride Mode = "rc-override"
	// ModeAttitude publishes attitude setpoints plus a scalar throttle.
	ModeAttitude Mode = "attitude-setpoint"
	// ModeVelocity publishes velocity setpoints.
	ModeVelocity Mode = "velocity-setpoint"
	// ModePosition publishes integrated position setpoints.
	ModePosition Mode = "position-setpoint"
)

// Strategy consumes one normalized input sample and emits the outgoing
// control message(s) for its mode. Implementations hold their own persistent
// per-process state (override frame, position integrator) and are only ever
// invoked from the bridge's single processing loop; state also read by other
// goroutines (the status surface) must be guarded by the implementation.
//
// Publish and arming failures are logged inside HandleSample and never abort
// the processing loop: delivery is at-most-once, best-effort.
type Strategy interface {
	Mode() Mode
	HandleSample(ctx context.Context, j msg.Joy)
}

// FrameSink receives a copy of each published override frame. Used to mirror
// RC override output onto a secondary transport (e.g. an iBus UDP link).
type FrameSink interface {
	WriteFrame(frame *msg.OverrideFrame) error
}

// FrameReporter is implemented by strategies that keep a persistent output
// frame, for read-only inspection.
type FrameReporter interface {
	Frame() msg.OverrideFrame
}
