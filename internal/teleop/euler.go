package teleop

import (
	"math"

	"gonum.org/v1/gonum/num/quat"

	"github.com/mavteleop/mavteleop-go/internal/msg"
)

// QuaternionFromEuler converts (roll, pitch, yaw) Euler angles in radians to
// a quaternion, rotating about X, then Y, then Z of the fixed frame. This is
// the convention the setpoint consumer expects for attitude poses.
func QuaternionFromEuler(roll, pitch, yaw float64) msg.Quaternion {
	qx := quat.Number{Real: math.Cos(roll / 2), Imag: math.Sin(roll / 2)}
	qy := quat.Number{Real: math.Cos(pitch / 2), Jmag: math.Sin(pitch / 2)}
	qz := quat.Number{Real: math.Cos(yaw / 2), Kmag: math.Sin(yaw / 2)}

	q := quat.Mul(qz, quat.Mul(qy, qx))
	return msg.Quaternion{X: q.Imag, Y: q.Jmag, Z: q.Kmag, W: q.Real}
}
