package teleop

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/mavteleop/mavteleop-go/internal/msg"
)

// ButtonTrigger is one (button index, required state) pair of an overlay's
// trigger set.
type ButtonTrigger struct {
	Index int
	State int
}

// Overlay forces one output channel to a fixed value while a button
// combination is held. All triggers must match for the overlay to fire.
// Overlays are applied in configuration order after channel calibration, so
// a triggered overlay always wins over the computed value for its channel;
// when two triggered overlays share a channel, the later one wins.
type Overlay struct {
	Name     string
	Triggers []ButtonTrigger
	Channel  int
	Value    uint16
}

// Triggered reports whether every trigger pair matches the sample's buttons.
// Buttons not listed in the trigger set are ignored.
func (o Overlay) Triggered(j msg.Joy) bool {
	for _, t := range o.Triggers {
		if t.Index >= len(j.Buttons) || j.Buttons[t.Index] != t.State {
			return false
		}
	}
	return true
}

// ApplyOverlays evaluates each overlay against the sample and writes the
// forced value of every triggered overlay into the frame, in order.
func ApplyOverlays(overlays []Overlay, j msg.Joy, frame *msg.OverrideFrame) {
	for _, o := range overlays {
		if o.Triggered(j) {
			frame.Channels[o.Channel] = o.Value
		}
	}
}

// overlaySpec is the YAML shape of one overlay definition, matching the
// rc_modes parameter block:
//
//	mode_name:
//	  joy_flags: [[4, 1], [5, 0]]
//	  rc_channel: 6
//	  rc_value: 1450
type overlaySpec struct {
	JoyFlags  [][]int `yaml:"joy_flags"`
	RCChannel int     `yaml:"rc_channel"`
	RCValue   int     `yaml:"rc_value"`
}

// ParseOverlays decodes an rc_modes YAML document, preserving document
// order. An empty document yields no overlays.
func ParseOverlays(doc string) ([]Overlay, error) {
	if doc == "" {
		return nil, nil
	}

	var root yaml.Node
	if err := yaml.Unmarshal([]byte(doc), &root); err != nil {
		return nil, fmt.Errorf("rc_modes: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, nil
	}
	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("rc_modes: expected a mapping of mode definitions")
	}

	var overlays []Overlay
	// Mapping node content alternates key, value. Iterating it directly
	// keeps the configured order, which a plain map unmarshal would lose.
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		name := mapping.Content[i].Value
		var spec overlaySpec
		if err := mapping.Content[i+1].Decode(&spec); err != nil {
			return nil, fmt.Errorf("rc_modes/%s: %w", name, err)
		}
		if spec.RCValue < 0 || spec.RCValue > math.MaxUint16 {
			return nil, fmt.Errorf("rc_modes/%s: rc_value %d out of range [0, %d]", name, spec.RCValue, math.MaxUint16)
		}
		o := Overlay{Name: name, Channel: spec.RCChannel, Value: uint16(spec.RCValue)}
		for _, pair := range spec.JoyFlags {
			if len(pair) != 2 {
				return nil, fmt.Errorf("rc_modes/%s: joy_flags entries must be [button, state] pairs", name)
			}
			o.Triggers = append(o.Triggers, ButtonTrigger{Index: pair[0], State: pair[1]})
		}
		overlays = append(overlays, o)
	}
	return overlays, nil
}

// LoadOverlays reads and validates the rc_modes parameter. The parameter is
// required: an unset value is a fatal configuration error, while an explicit
// empty mapping ("{}") declares that no overlays exist. Trigger button
// indices and target channels outside the declared ranges are configuration
// errors.
func LoadOverlays(ps ParamSource, buttonCount int) ([]Overlay, error) {
	doc, err := ps.String("rc_modes", "")
	if err != nil {
		return nil, err
	}
	if doc == "" {
		return nil, fmt.Errorf("rc_modes: parameter is not set; an empty mapping {} declares no overlays")
	}
	overlays, err := ParseOverlays(doc)
	if err != nil {
		return nil, err
	}
	for _, o := range overlays {
		if o.Channel < 0 || o.Channel >= msg.OverrideChannelCount {
			return nil, fmt.Errorf("rc_modes/%s: channel %d out of range [0, %d)", o.Name, o.Channel, msg.OverrideChannelCount)
		}
		for _, t := range o.Triggers {
			if t.Index < 0 || t.Index >= buttonCount {
				return nil, fmt.Errorf("rc_modes/%s: button %d out of range [0, %d)", o.Name, t.Index, buttonCount)
			}
			if t.State != 0 && t.State != 1 {
				return nil, fmt.Errorf("rc_modes/%s: button state must be 0 or 1, got %d", o.Name, t.State)
			}
		}
	}
	return overlays, nil
}
