package teleop

import (
	"context"
	"log"
	"time"

	"github.com/mavteleop/mavteleop-go/internal/bus"
	"github.com/mavteleop/mavteleop-go/internal/msg"
)

// Position integrates joystick deflection into an absolute position
// setpoint held for the process lifetime. Forward pitch decreases x,
// rightward roll increases y, positive throttle increases z; orientation
// follows yaw only, roll and pitch held level.
//
// Integration is per sample, not per unit of time, so the effective rate
// depends on the joystick publish rate.
type Position struct {
	norm    *Normalizer
	pub     bus.PositionPublisher
	verbose bool
	now     func() time.Time

	px, py, pz float64
}

// NewPosition builds the position setpoint strategy.
func NewPosition(norm *Normalizer, pub bus.PositionPublisher, verbose bool) *Position {
	return &Position{norm: norm, pub: pub, verbose: verbose, now: time.Now}
}

// Mode implements Strategy.
func (s *Position) Mode() Mode { return ModePosition }

// Setpoint returns the current integrated position.
func (s *Position) Setpoint() (x, y, z float64) { return s.px, s.py, s.pz }

// HandleSample implements Strategy.
func (s *Position) HandleSample(_ context.Context, j msg.Joy) {
	roll := s.norm.Axis(j, AxisRoll)
	pitch := s.norm.Axis(j, AxisPitch)
	yaw := s.norm.Axis(j, AxisYaw)
	throttle := s.norm.Axis(j, AxisThrottle)

	s.px -= pitch
	s.py += roll
	s.pz += throttle

	if s.verbose {
		log.Printf("RPYT: %f, %f, %f, %f", roll, pitch, yaw, throttle)
		log.Printf("Point(%f %f %f)", s.px, s.py, s.pz)
	}

	pose := msg.PoseStamped{
		Header: msg.Header{Stamp: s.now()},
		Pose: msg.Pose{
			Position:    msg.Point{X: s.px, Y: s.py, Z: s.pz},
			Orientation: QuaternionFromEuler(0, 0, yaw),
		},
	}
	if err := s.pub.PublishPosition(pose); err != nil {
		log.Printf("position publish failed: %v", err)
	}
}
