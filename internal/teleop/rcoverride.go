package teleop

import (
	"context"
	"log"
	"sync"

	"github.com/mavteleop/mavteleop-go/internal/bus"
	"github.com/mavteleop/mavteleop-go/internal/msg"
)

// RCOverride translates each sample into calibrated pulse widths on the
// persistent override frame, applies the configured overlays, and publishes
// the frame. The frame is mutated in place: channels written only by an
// overlay keep their forced value until the overlay releases or another
// write lands.
type RCOverride struct {
	norm     *Normalizer
	channels map[string]Channel
	overlays []Overlay
	pub      bus.OverridePublisher
	mirror   FrameSink // optional secondary output, may be nil
	verbose  bool

	mu    sync.Mutex // guards frame against the status reader
	frame msg.OverrideFrame
}

// NewRCOverride builds the RC override strategy. mirror may be nil.
func NewRCOverride(norm *Normalizer, channels map[string]Channel, overlays []Overlay, pub bus.OverridePublisher, mirror FrameSink, verbose bool) *RCOverride {
	return &RCOverride{
		norm:     norm,
		channels: channels,
		overlays: overlays,
		pub:      pub,
		mirror:   mirror,
		verbose:  verbose,
	}
}

// Mode implements Strategy.
func (s *RCOverride) Mode() Mode { return ModeRCOverride }

// Frame exposes the current override frame for the status surface.
func (s *RCOverride) Frame() msg.OverrideFrame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// HandleSample implements Strategy.
func (s *RCOverride) HandleSample(_ context.Context, j msg.Joy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	roll := s.norm.Axis(j, AxisRoll)
	pitch := s.norm.Axis(j, AxisPitch)
	yaw := s.norm.Axis(j, AxisYaw)
	throttle := Scale(s.norm.Axis(j, AxisThrottle), -1.0, 1.0, 0.0, 1.0)

	if s.verbose {
		log.Printf("RPYT: %f, %f, %f, %f", roll, pitch, yaw, throttle)
	}

	s.setChannel(AxisRoll, roll)
	s.setChannel(AxisPitch, pitch)
	s.setChannel(AxisYaw, yaw)
	s.setChannel(AxisThrottle, throttle)

	ApplyOverlays(s.overlays, j, &s.frame)

	if err := s.pub.PublishOverride(&s.frame); err != nil {
		log.Printf("rc override publish failed: %v", err)
	}
	if s.mirror != nil {
		if err := s.mirror.WriteFrame(&s.frame); err != nil {
			log.Printf("rc override mirror failed: %v", err)
		}
	}
}

func (s *RCOverride) setChannel(name string, v float64) {
	ch := s.channels[name]
	pwm := ch.PWM(v)
	s.frame.Channels[ch.Index] = pwm
	if s.verbose {
		log.Printf("RC%d (%s): %d us", ch.Index, ch.Name, pwm)
	}
}
