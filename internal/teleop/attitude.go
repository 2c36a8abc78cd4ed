package teleop

import (
	"context"
	"log"
	"time"

	"github.com/mavteleop/mavteleop-go/internal/bus"
	"github.com/mavteleop/mavteleop-go/internal/msg"
)

// Attitude publishes an orientation-only pose and a separate scalar
// throttle per sample. The arm and disarm buttons fire requests at the
// vehicle's arming service; failures are logged and never abort the loop.
type Attitude struct {
	norm    *Normalizer
	pub     bus.AttitudePublisher
	arming  bus.ArmingClient
	reverse bool // reverse_throttle: pass raw scaled throttle through
	verbose bool
	now     func() time.Time
}

// NewAttitude builds the attitude setpoint strategy.
func NewAttitude(norm *Normalizer, pub bus.AttitudePublisher, arming bus.ArmingClient, reverseThrottle, verbose bool) *Attitude {
	return &Attitude{
		norm:    norm,
		pub:     pub,
		arming:  arming,
		reverse: reverseThrottle,
		verbose: verbose,
		now:     time.Now,
	}
}

// Mode implements Strategy.
func (s *Attitude) Mode() Mode { return ModeAttitude }

// HandleSample implements Strategy.
func (s *Attitude) HandleSample(ctx context.Context, j msg.Joy) {
	roll := s.norm.Axis(j, AxisRoll)
	pitch := s.norm.Axis(j, AxisPitch)
	yaw := s.norm.Axis(j, AxisYaw)
	throttle := s.norm.Axis(j, AxisThrottle)
	if !s.reverse {
		throttle = Scale(throttle, -1.0, 1.0, 0.0, 1.0)
	}

	if s.verbose {
		log.Printf("RPYT: %f, %f, %f, %f", roll, pitch, yaw, throttle)
	}

	if s.norm.Button(j, ButtonArm) == 1 {
		s.arm(ctx, true)
	} else if s.norm.Button(j, ButtonDisarm) == 1 {
		s.arm(ctx, false)
	}

	stamp := msg.Header{Stamp: s.now()}
	pose := msg.PoseStamped{
		Header: stamp,
		Pose:   msg.Pose{Orientation: QuaternionFromEuler(roll, pitch, yaw)},
	}
	if err := s.pub.PublishAttitude(pose); err != nil {
		log.Printf("attitude publish failed: %v", err)
	}
	if err := s.pub.PublishThrottle(msg.Float64Stamped{Header: stamp, Data: throttle}); err != nil {
		log.Printf("throttle publish failed: %v", err)
	}
}

func (s *Attitude) arm(ctx context.Context, arm bool) {
	if err := s.arming.Arm(ctx, arm); err != nil {
		log.Printf("arming request (arm=%v) failed: %v", arm, err)
		return
	}
	log.Printf("arming request (arm=%v) succeeded", arm)
}
