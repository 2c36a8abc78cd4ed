// Package msg defines the message types exchanged with the vehicle middleware.
package msg

import (
	"time"
)

// OverrideChannelCount is the number of RC channels in an override frame.
const OverrideChannelCount = 8

// Joy is a single raw gamepad sample: axes normalized to [-1, 1] by the
// input device driver, buttons reported as 0 or 1.
type Joy struct {
	Axes    []float64 `json:"axes"`
	Buttons []int     `json:"buttons"`
}

// Header carries the timestamp of an outgoing setpoint message.
type Header struct {
	Stamp time.Time `json:"stamp"`
}

// Vector3 is a 3D vector.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Point is a 3D position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Quaternion is an orientation in (x, y, z, w) order.
type Quaternion struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// Identity returns the identity (no rotation) quaternion.
func Identity() Quaternion {
	return Quaternion{W: 1}
}

// Pose is a position plus orientation.
type Pose struct {
	Position    Point      `json:"position"`
	Orientation Quaternion `json:"orientation"`
}

// PoseStamped is a timestamped pose setpoint.
type PoseStamped struct {
	Header Header `json:"header"`
	Pose   Pose   `json:"pose"`
}

// Twist is a linear plus angular velocity pair.
type Twist struct {
	Linear  Vector3 `json:"linear"`
	Angular Vector3 `json:"angular"`
}

// TwistStamped is a timestamped velocity setpoint.
type TwistStamped struct {
	Header Header `json:"header"`
	Twist  Twist  `json:"twist"`
}

// Float64Stamped is a timestamped scalar, used for the attitude throttle.
type Float64Stamped struct {
	Header Header  `json:"header"`
	Data   float64 `json:"data"`
}

// OverrideFrame is the RC channel override message. The frame is allocated
// once and mutated in place per sample, so channels not written during a
// sample keep their previous value.
type OverrideFrame struct {
	Channels [OverrideChannelCount]uint16 `json:"channels"`
}
