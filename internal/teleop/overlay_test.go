package teleop

import (
	"testing"

	"github.com/mavteleop/mavteleop-go/internal/msg"
)

const overlayDoc = `
flaps_down:
  joy_flags: [[0, 1]]
  rc_channel: 2
  rc_value: 1500
gear_up:
  joy_flags: [[4, 1], [5, 0]]
  rc_channel: 6
  rc_value: 1900
`

func TestParseOverlays(t *testing.T) {
	overlays, err := ParseOverlays(overlayDoc)
	if err != nil {
		t.Fatalf("ParseOverlays() error = %v", err)
	}
	if len(overlays) != 2 {
		t.Fatalf("ParseOverlays() returned %d overlays, want 2", len(overlays))
	}

	// Document order must be preserved.
	if overlays[0].Name != "flaps_down" || overlays[1].Name != "gear_up" {
		t.Errorf("overlay order = [%s, %s], want [flaps_down, gear_up]", overlays[0].Name, overlays[1].Name)
	}

	first := overlays[0]
	if first.Channel != 2 || first.Value != 1500 {
		t.Errorf("flaps_down = channel %d value %d, want channel 2 value 1500", first.Channel, first.Value)
	}
	if len(first.Triggers) != 1 || first.Triggers[0] != (ButtonTrigger{Index: 0, State: 1}) {
		t.Errorf("flaps_down triggers = %v", first.Triggers)
	}
	if len(overlays[1].Triggers) != 2 {
		t.Errorf("gear_up has %d triggers, want 2", len(overlays[1].Triggers))
	}
}

func TestParseOverlays_Empty(t *testing.T) {
	overlays, err := ParseOverlays("")
	if err != nil {
		t.Fatalf("ParseOverlays(empty) error = %v", err)
	}
	if len(overlays) != 0 {
		t.Errorf("ParseOverlays(empty) = %v, want none", overlays)
	}
}

func TestParseOverlays_Malformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not a mapping", "- a\n- b\n"},
		{"bad flag pair", "m:\n  joy_flags: [[1]]\n  rc_channel: 0\n  rc_value: 1500\n"},
		{"negative value", "m:\n  joy_flags: [[0, 1]]\n  rc_channel: 0\n  rc_value: -1\n"},
		{"value past uint16", "m:\n  joy_flags: [[0, 1]]\n  rc_channel: 0\n  rc_value: 70000\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseOverlays(tt.doc); err == nil {
				t.Error("ParseOverlays() expected error, got nil")
			}
		})
	}
}

func TestOverlay_Triggered(t *testing.T) {
	o := Overlay{
		Name:     "gear_up",
		Triggers: []ButtonTrigger{{Index: 4, State: 1}, {Index: 5, State: 0}},
		Channel:  6,
		Value:    1900,
	}

	j := msg.Joy{Buttons: make([]int, 11)}
	j.Buttons[4] = 1
	if !o.Triggered(j) {
		t.Error("overlay should fire when all trigger pairs match")
	}

	j.Buttons[5] = 1
	if o.Triggered(j) {
		t.Error("overlay must not fire when a required-zero button is held")
	}

	// Buttons outside the trigger set are irrelevant.
	j.Buttons[5] = 0
	j.Buttons[9] = 1
	if !o.Triggered(j) {
		t.Error("unlisted buttons must not affect triggering")
	}
}

func TestApplyOverlays(t *testing.T) {
	overlays := []Overlay{
		{Name: "a", Triggers: []ButtonTrigger{{Index: 0, State: 1}}, Channel: 2, Value: 1500},
	}

	var frame msg.OverrideFrame
	frame.Channels[2] = 1234

	// Not triggered: the previously computed value is preserved.
	j := msg.Joy{Buttons: make([]int, 11)}
	ApplyOverlays(overlays, j, &frame)
	if frame.Channels[2] != 1234 {
		t.Errorf("channel 2 = %d, want previous value 1234", frame.Channels[2])
	}

	// Triggered: the forced value replaces whatever calibration wrote.
	j.Buttons[0] = 1
	ApplyOverlays(overlays, j, &frame)
	if frame.Channels[2] != 1500 {
		t.Errorf("channel 2 = %d, want forced value 1500", frame.Channels[2])
	}
}

func TestApplyOverlays_LastWriteWins(t *testing.T) {
	overlays := []Overlay{
		{Name: "first", Triggers: []ButtonTrigger{{Index: 0, State: 1}}, Channel: 5, Value: 1100},
		{Name: "second", Triggers: []ButtonTrigger{{Index: 1, State: 1}}, Channel: 5, Value: 1800},
	}

	j := msg.Joy{Buttons: make([]int, 11)}
	j.Buttons[0] = 1
	j.Buttons[1] = 1

	var frame msg.OverrideFrame
	ApplyOverlays(overlays, j, &frame)
	if frame.Channels[5] != 1800 {
		t.Errorf("channel 5 = %d, want 1800 (later overlay wins)", frame.Channels[5])
	}
}

func TestLoadOverlays_RequiresParameter(t *testing.T) {
	// An unset rc_modes must refuse to start rather than silently dropping
	// every overlay rule.
	if _, err := LoadOverlays(fakeParams{}, 11); err == nil {
		t.Error("LoadOverlays() with rc_modes unset expected error, got nil")
	}

	// An explicit empty mapping declares that no overlays exist.
	overlays, err := LoadOverlays(fakeParams{"rc_modes": "{}"}, 11)
	if err != nil {
		t.Fatalf("LoadOverlays({}) error = %v", err)
	}
	if len(overlays) != 0 {
		t.Errorf("LoadOverlays({}) = %v, want none", overlays)
	}
}

func TestLoadOverlays_Validation(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"channel out of range", "m:\n  joy_flags: [[0, 1]]\n  rc_channel: 8\n  rc_value: 1500\n"},
		{"button out of range", "m:\n  joy_flags: [[11, 1]]\n  rc_channel: 0\n  rc_value: 1500\n"},
		{"state not boolean", "m:\n  joy_flags: [[0, 2]]\n  rc_channel: 0\n  rc_value: 1500\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadOverlays(fakeParams{"rc_modes": tt.doc}, 11); err == nil {
				t.Error("LoadOverlays() expected configuration error, got nil")
			}
		})
	}

	overlays, err := LoadOverlays(fakeParams{"rc_modes": overlayDoc}, 11)
	if err != nil {
		t.Fatalf("LoadOverlays() error = %v", err)
	}
	if len(overlays) != 2 {
		t.Errorf("LoadOverlays() returned %d overlays, want 2", len(overlays))
	}
}
