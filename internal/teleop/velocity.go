package teleop

import (
	"context"
	"log"
	"time"

	"github.com/mavteleop/mavteleop-go/internal/bus"
	"github.com/mavteleop/mavteleop-go/internal/msg"
)

// Velocity publishes one velocity setpoint per sample: linear velocity from
// (roll, pitch, throttle), angular velocity from yaw rate only. Throttle is
// used in its raw scaled [-1, 1] range.
type Velocity struct {
	norm    *Normalizer
	pub     bus.VelocityPublisher
	verbose bool
	now     func() time.Time
}

// NewVelocity builds the velocity setpoint strategy.
func NewVelocity(norm *Normalizer, pub bus.VelocityPublisher, verbose bool) *Velocity {
	return &Velocity{norm: norm, pub: pub, verbose: verbose, now: time.Now}
}

// Mode implements Strategy.
func (s *Velocity) Mode() Mode { return ModeVelocity }

// HandleSample implements Strategy.
func (s *Velocity) HandleSample(_ context.Context, j msg.Joy) {
	roll := s.norm.Axis(j, AxisRoll)
	pitch := s.norm.Axis(j, AxisPitch)
	yaw := s.norm.Axis(j, AxisYaw)
	throttle := s.norm.Axis(j, AxisThrottle)

	if s.verbose {
		log.Printf("RPYT: %f, %f, %f, %f", roll, pitch, yaw, throttle)
	}

	twist := msg.TwistStamped{
		Header: msg.Header{Stamp: s.now()},
		Twist: msg.Twist{
			Linear:  msg.Vector3{X: roll, Y: pitch, Z: throttle},
			Angular: msg.Vector3{Z: yaw},
		},
	}
	if err := s.pub.PublishVelocity(twist); err != nil {
		log.Printf("velocity publish failed: %v", err)
	}
}
