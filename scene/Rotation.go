package scene

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// Identity is the identity rotation. The zero value of r3.Rotation
	// is not a valid rotation.
	Identity = r3.Rotation{Real: 1}

	// Up, Right, and Forward are the world axes. Y is up.
	Up      = r3.Vec{Y: 1}
	Right   = r3.Vec{X: 1}
	Forward = r3.Vec{Z: 1}
)

// Quaternion returns the rotation described by the quaternion
// components x, y, z, w. The quaternion is normalised; a zero
// quaternion results in the identity rotation.
func Quaternion(x, y, z, w float64) r3.Rotation {
	q := quat.Number{Real: w, Imag: x, Jmag: y, Kmag: z}
	norm := quat.Abs(q)
	if norm == 0 {
		return Identity
	}
	return r3.Rotation(quat.Scale(1/norm, q))
}

// Yaw returns a rotation of deg degrees around the up axis
func Yaw(deg float64) r3.Rotation {
	return AxisAngle(deg, Up)
}

// AxisAngle returns a rotation of deg degrees around axis
func AxisAngle(deg float64, axis r3.Vec) r3.Rotation {
	if deg == 0 {
		return Identity
	}
	return r3.NewRotation(deg*math.Pi/180, axis)
}

// Compose returns the rotation that applies b and then a
func Compose(a, b r3.Rotation) r3.Rotation {
	return r3.Rotation(quat.Mul(quat.Number(a), quat.Number(b)))
}

// Inverse returns the inverse of the unit rotation r
func Inverse(r r3.Rotation) r3.Rotation {
	return r3.Rotation(quat.Conj(quat.Number(r)))
}

// Rotate rotates v by r. Unlike r3.Rotation.Rotate, the zero rotation
// is treated as the identity.
func Rotate(r r3.Rotation, v r3.Vec) r3.Vec {
	if r == (r3.Rotation{}) {
		return v
	}
	return r.Rotate(v)
}

// Angle returns the unsigned angle in degrees between u and v. If
// either vector has zero length, Angle returns 0.
func Angle(u, v r3.Vec) float64 {
	denom := math.Sqrt(r3.Norm2(u) * r3.Norm2(v))
	if denom < 1e-15 {
		return 0
	}
	cos := r3.Dot(u, v) / denom
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}
