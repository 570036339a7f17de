package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Up is the world up axis. Agents turn about it.
var Up = mgl64.Vec3{0, 1, 0}

// ForwardAxis is the local forward axis of an unrotated agent.
var ForwardAxis = mgl64.Vec3{0, 0, 1}

const angleEpsilon = 1e-15

// Lerp interpolates from a to b, clamping t to [0, 1].
func Lerp(a, b, t float64) float64 {
	return a + Clamp01(t)*(b-a)
}

// Clamp01 clamps v to [0, 1].
func Clamp01(v float64) float64 {
	return mgl64.Clamp(v, 0, 1)
}

// Sign returns 1 for zero and positive values and -1 otherwise.
func Sign(v float64) float64 {
	if v >= 0 {
		return 1
	}
	return -1
}

// Distance returns the euclidean distance between a and b.
func Distance(a, b mgl64.Vec3) float64 {
	return a.Sub(b).Len()
}

// Angle returns the unsigned angle in degrees between from and to. A zero
// length vector yields 0.
func Angle(from, to mgl64.Vec3) float64 {
	denom := math.Sqrt(from.LenSqr() * to.LenSqr())
	if denom < angleEpsilon {
		return 0
	}
	dot := mgl64.Clamp(from.Dot(to)/denom, -1, 1)
	return mgl64.RadToDeg(math.Acos(dot))
}

// SignedAngle returns the angle in degrees between from and to, signed by
// the up component of their cross product. Positive angles turn right.
func SignedAngle(from, to mgl64.Vec3) float64 {
	if from == to {
		return 0
	}
	return Angle(from, to) * Sign(from.Cross(to).Y())
}

// Flatten drops the vertical component of v.
func Flatten(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X(), 0, v.Z()}
}

// SafeNormalize returns v scaled to unit length, or the zero vector when v
// has no length.
func SafeNormalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < angleEpsilon {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// YawRotation returns a rotation of yaw radians about the up axis.
func YawRotation(yaw float64) mgl64.Quat {
	return mgl64.QuatRotate(yaw, Up)
}

// LookRotation returns the rotation whose forward axis points along the
// horizontal part of dir. ok is false when dir has no horizontal length, in
// which case the identity is returned.
func LookRotation(dir mgl64.Vec3) (q mgl64.Quat, ok bool) {
	flat := Flatten(dir)
	if flat.LenSqr() < angleEpsilon {
		return mgl64.QuatIdent(), false
	}
	return YawRotation(math.Atan2(flat.X(), flat.Z())), true
}

// Forward returns the forward axis of rotation q.
func Forward(q mgl64.Quat) mgl64.Vec3 {
	return q.Rotate(ForwardAxis)
}

// Yaw returns the heading of q in radians, measured from +Z towards +X.
func Yaw(q mgl64.Quat) float64 {
	f := Forward(q)
	return math.Atan2(f.X(), f.Z())
}

// Slerp spherically interpolates from a to b, clamping t to [0, 1].
func Slerp(a, b mgl64.Quat, t float64) mgl64.Quat {
	t = Clamp01(t)
	if t == 0 {
		return a
	}
	if t == 1 {
		return b
	}
	return mgl64.QuatSlerp(a, b, t)
}
