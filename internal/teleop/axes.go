// Package teleop implements the joystick-to-control-mode mapping engine:
// axis normalization, RC channel calibration, button-combination overlays,
// and the four control-mode strategies.
package teleop

import (
	"fmt"

	"github.com/mavteleop/mavteleop-go/internal/msg"
)

// Logical axis names.
const (
	AxisRoll     = "roll"
	AxisPitch    = "pitch"
	AxisYaw      = "yaw"
	AxisThrottle = "throttle"
)

// Logical button names.
const (
	ButtonArm     = "arm"
	ButtonDisarm  = "disarm"
	ButtonTakeoff = "takeoff"
	ButtonLand    = "land"
	ButtonEnable  = "enable"
)

// AxisNames lists the logical axes in a stable order.
var AxisNames = []string{AxisRoll, AxisPitch, AxisYaw, AxisThrottle}

// ButtonNames lists the logical buttons in a stable order.
var ButtonNames = []string{ButtonArm, ButtonDisarm, ButtonTakeoff, ButtonLand, ButtonEnable}

// AxisBinding ties a logical axis to a raw axis index with a scale factor.
type AxisBinding struct {
	Index int
	Scale float64
}

// Normalizer maps raw joystick samples to named, scaled logical values.
// Built once at start-up and immutable afterwards.
type Normalizer struct {
	axes        map[string]AxisBinding
	buttons     map[string]int
	axisCount   int
	buttonCount int
}

// defaultAxisBindings is the mode-2 layout of a Logitech F710 gamepad.
func defaultAxisBindings() map[string]AxisBinding {
	return map[string]AxisBinding{
		AxisRoll:     {Index: 3, Scale: 1.0},
		AxisPitch:    {Index: 4, Scale: 1.0},
		AxisYaw:      {Index: 0, Scale: 1.0},
		AxisThrottle: {Index: 1, Scale: 1.0},
	}
}

func defaultButtonBindings() map[string]int {
	return map[string]int{
		ButtonArm:     0,
		ButtonDisarm:  1,
		ButtonTakeoff: 2,
		ButtonLand:    3,
		ButtonEnable:  4,
	}
}

// LoadNormalizer builds a Normalizer from the parameter source, falling back
// to the default gamepad layout for absent keys. A source index outside the
// declared sample dimensions is a configuration error.
func LoadNormalizer(ps ParamSource) (*Normalizer, error) {
	axisCount, err := ps.Int("joy/axis_count", 8)
	if err != nil {
		return nil, err
	}
	buttonCount, err := ps.Int("joy/button_count", 11)
	if err != nil {
		return nil, err
	}
	if axisCount <= 0 || buttonCount <= 0 {
		return nil, fmt.Errorf("joy sample dimensions must be positive, got %d axes / %d buttons", axisCount, buttonCount)
	}

	axes := defaultAxisBindings()
	for _, name := range AxisNames {
		b := axes[name]
		if b.Index, err = ps.Int("axes_map/"+name, b.Index); err != nil {
			return nil, err
		}
		if b.Scale, err = ps.Float("axes_scale/"+name, b.Scale); err != nil {
			return nil, err
		}
		if b.Index < 0 || b.Index >= axisCount {
			return nil, fmt.Errorf("axes_map/%s: index %d out of range [0, %d)", name, b.Index, axisCount)
		}
		axes[name] = b
	}

	buttons := defaultButtonBindings()
	for _, name := range ButtonNames {
		idx := buttons[name]
		if idx, err = ps.Int("button_map/"+name, idx); err != nil {
			return nil, err
		}
		if idx < 0 || idx >= buttonCount {
			return nil, fmt.Errorf("button_map/%s: index %d out of range [0, %d)", name, idx, buttonCount)
		}
		buttons[name] = idx
	}

	return &Normalizer{
		axes:        axes,
		buttons:     buttons,
		axisCount:   axisCount,
		buttonCount: buttonCount,
	}, nil
}

// AxisCount returns the declared number of axes per sample.
func (n *Normalizer) AxisCount() int { return n.axisCount }

// ButtonCount returns the declared number of buttons per sample.
func (n *Normalizer) ButtonCount() int { return n.buttonCount }

// Validate checks that a sample carries the declared number of axes and
// buttons. Undersized samples are malformed input, dropped by the bridge.
func (n *Normalizer) Validate(j msg.Joy) error {
	if len(j.Axes) < n.axisCount {
		return fmt.Errorf("joy sample has %d axes, expected %d", len(j.Axes), n.axisCount)
	}
	if len(j.Buttons) < n.buttonCount {
		return fmt.Errorf("joy sample has %d buttons, expected %d", len(j.Buttons), n.buttonCount)
	}
	return nil
}

// Axis returns the scaled value of a logical axis for the given sample.
func (n *Normalizer) Axis(j msg.Joy, name string) float64 {
	b, ok := n.axes[name]
	if !ok || b.Index >= len(j.Axes) {
		return 0
	}
	return j.Axes[b.Index] * b.Scale
}

// Button returns the 0/1 state of a logical button for the given sample.
func (n *Normalizer) Button(j msg.Joy, name string) int {
	idx, ok := n.buttons[name]
	if !ok || idx >= len(j.Buttons) {
		return 0
	}
	return j.Buttons[idx]
}
