// Package bus defines the middleware interfaces the teleop core talks to.
// The core never sees the transport; a concrete implementation (MQTT, or a
// test fake) sits behind these interfaces.
package bus

import (
	"context"

	"github.com/mavteleop/mavteleop-go/internal/msg"
)

// JoySource delivers raw gamepad samples. Handlers are invoked by the
// transport; the bridge serializes them onto a single processing loop.
type JoySource interface {
	// SubscribeJoy registers the handler for incoming samples. Called once
	// at start-up, before any sample is delivered.
	SubscribeJoy(handler func(msg.Joy)) error
}

// OverridePublisher emits RC channel override frames.
type OverridePublisher interface {
	PublishOverride(frame *msg.OverrideFrame) error
}

// AttitudePublisher emits attitude setpoints: an orientation-only pose plus
// a separate scalar throttle.
type AttitudePublisher interface {
	PublishAttitude(pose msg.PoseStamped) error
	PublishThrottle(throttle msg.Float64Stamped) error
}

// VelocityPublisher emits velocity setpoints.
type VelocityPublisher interface {
	PublishVelocity(twist msg.TwistStamped) error
}

// PositionPublisher emits local position setpoints.
type PositionPublisher interface {
	PublishPosition(pose msg.PoseStamped) error
}

// ArmingClient sends arm/disarm requests to the vehicle's command service.
// Failures are non-fatal; callers log and continue.
type ArmingClient interface {
	Arm(ctx context.Context, arm bool) error
}
