package teleop

import (
	"fmt"
	"math"

	"github.com/mavteleop/mavteleop-go/internal/msg"
)

// Channel is the calibration for one physical RC output channel: a linear
// law from a normalized logical value to a pulse width in microseconds.
// Immutable after load.
type Channel struct {
	Name     string
	Index    int // 0-based output channel
	MinPWM   int
	MaxPWM   int
	MinInput float64 // lower bound of the logical input range; upper bound is fixed at 1.0
}

// PWM converts a logical value to a pulse width. Values outside
// [MinInput, 1] extrapolate past [MinPWM, MaxPWM]; see Scale.
func (c Channel) PWM(v float64) uint16 {
	return uint16(math.Round(Scale(v, c.MinInput, 1.0, float64(c.MinPWM), float64(c.MaxPWM))))
}

func (c Channel) validate() error {
	if c.Index < 0 || c.Index >= msg.OverrideChannelCount {
		return fmt.Errorf("rc_map/%s: channel %d out of range [0, %d)", c.Name, c.Index, msg.OverrideChannelCount)
	}
	if c.MinPWM >= c.MaxPWM {
		return fmt.Errorf("rc channel %s: min pulse %d must be below max pulse %d", c.Name, c.MinPWM, c.MaxPWM)
	}
	if c.MinInput >= 1.0 {
		return fmt.Errorf("rc channel %s: min input %g must be below 1.0", c.Name, c.MinInput)
	}
	return nil
}

// defaultChannels maps the four logical axes to their conventional RC
// channels. Throttle is unipolar: its input range is [0, 1].
func defaultChannels() map[string]Channel {
	return map[string]Channel{
		AxisRoll:     {Name: AxisRoll, Index: 0, MinPWM: 1000, MaxPWM: 2000, MinInput: -1.0},
		AxisPitch:    {Name: AxisPitch, Index: 1, MinPWM: 1000, MaxPWM: 2000, MinInput: -1.0},
		AxisYaw:      {Name: AxisYaw, Index: 3, MinPWM: 1000, MaxPWM: 2000, MinInput: -1.0},
		AxisThrottle: {Name: AxisThrottle, Index: 2, MinPWM: 1000, MaxPWM: 2000, MinInput: 0.0},
	}
}

// LoadChannels reads the per-channel calibration from the parameter source.
func LoadChannels(ps ParamSource) (map[string]Channel, error) {
	channels := defaultChannels()
	for _, name := range AxisNames {
		c := channels[name]
		var err error
		if c.Index, err = ps.Int("rc_map/"+name, c.Index); err != nil {
			return nil, err
		}
		if c.MinPWM, err = ps.Int("rc_min/"+name, c.MinPWM); err != nil {
			return nil, err
		}
		if c.MaxPWM, err = ps.Int("rc_max/"+name, c.MaxPWM); err != nil {
			return nil, err
		}
		if c.MinInput, err = ps.Float("rc_min_input/"+name, c.MinInput); err != nil {
			return nil, err
		}
		if err = c.validate(); err != nil {
			return nil, err
		}
		channels[name] = c
	}
	return channels, nil
}
