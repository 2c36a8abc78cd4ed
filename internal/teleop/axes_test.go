package teleop

import (
	"math"
	"testing"

	"github.com/mavteleop/mavteleop-go/internal/msg"
)

func TestLoadNormalizer_Defaults(t *testing.T) {
	norm := defaultNormalizer(t)

	if norm.AxisCount() != 8 {
		t.Errorf("AxisCount() = %d, want 8", norm.AxisCount())
	}
	if norm.ButtonCount() != 11 {
		t.Errorf("ButtonCount() = %d, want 11", norm.ButtonCount())
	}

	// A centered sample normalizes every logical axis to zero.
	j := msg.Joy{Axes: make([]float64, 8), Buttons: make([]int, 11)}
	for _, name := range AxisNames {
		if v := norm.Axis(j, name); v != 0 {
			t.Errorf("Axis(%s) = %v, want 0", name, v)
		}
	}
}

func TestNormalizer_AxisMappingAndScale(t *testing.T) {
	norm, err := LoadNormalizer(fakeParams{
		"axes_map/roll":       "2",
		"axes_scale/roll":     "-1.0",
		"axes_scale/throttle": "0.5",
	})
	if err != nil {
		t.Fatalf("LoadNormalizer() error = %v", err)
	}

	j := msg.Joy{Axes: make([]float64, 8), Buttons: make([]int, 11)}
	j.Axes[2] = 0.75 // remapped roll
	j.Axes[1] = 1.0  // throttle, default index

	if got := norm.Axis(j, AxisRoll); math.Abs(got+0.75) > 1e-9 {
		t.Errorf("Axis(roll) = %v, want -0.75", got)
	}
	if got := norm.Axis(j, AxisThrottle); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Axis(throttle) = %v, want 0.5", got)
	}
}

func TestNormalizer_Buttons(t *testing.T) {
	norm := defaultNormalizer(t)

	j := msg.Joy{Axes: make([]float64, 8), Buttons: make([]int, 11)}
	j.Buttons[0] = 1 // arm
	j.Buttons[3] = 1 // land

	if got := norm.Button(j, ButtonArm); got != 1 {
		t.Errorf("Button(arm) = %d, want 1", got)
	}
	if got := norm.Button(j, ButtonDisarm); got != 0 {
		t.Errorf("Button(disarm) = %d, want 0", got)
	}
	if got := norm.Button(j, ButtonLand); got != 1 {
		t.Errorf("Button(land) = %d, want 1", got)
	}
}

func TestLoadNormalizer_OutOfRangeIndex(t *testing.T) {
	tests := []struct {
		name   string
		params fakeParams
	}{
		{"axis index beyond sample", fakeParams{"axes_map/roll": "8"}},
		{"negative axis index", fakeParams{"axes_map/yaw": "-1"}},
		{"button index beyond sample", fakeParams{"button_map/arm": "11"}},
		{"zero axis count", fakeParams{"joy/axis_count": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadNormalizer(tt.params); err == nil {
				t.Error("LoadNormalizer() expected configuration error, got nil")
			}
		})
	}
}

func TestNormalizer_Validate(t *testing.T) {
	norm := defaultNormalizer(t)

	full := msg.Joy{Axes: make([]float64, 8), Buttons: make([]int, 11)}
	if err := norm.Validate(full); err != nil {
		t.Errorf("Validate(full sample) error = %v", err)
	}

	short := msg.Joy{Axes: make([]float64, 4), Buttons: make([]int, 11)}
	if err := norm.Validate(short); err == nil {
		t.Error("Validate(short axes) expected error, got nil")
	}

	fewButtons := msg.Joy{Axes: make([]float64, 8), Buttons: make([]int, 2)}
	if err := norm.Validate(fewButtons); err == nil {
		t.Error("Validate(short buttons) expected error, got nil")
	}
}
