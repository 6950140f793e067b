package tetracam

import (
	"fmt"
	"strconv"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	vecX = mgl32.Vec3{1, 0, 0}
	vecY = mgl32.Vec3{0, 1, 0}
	vecZ = mgl32.Vec3{0, 0, 1}
)

// degenerateEpsilon is the length below which a cross product is treated as parallel vectors.
const degenerateEpsilon = 1e-6

// followFrameCorrection turns the camera frame (looking down -Z with +Y up) into the frame used by
// followed objects (facing +Y with +Z up): camera -Z maps onto object +Y and camera +Y onto object +Z.
var followFrameCorrection = mgl32.HomogRotate3DX(math32.Pi / 2)

var followFrameCorrectionInv = followFrameCorrection.Transpose()

func translationOf(m mgl32.Mat4) mgl32.Vec3 {
	return m.Col(3).Vec3()
}

func translationMatrix(v mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(v[0], v[1], v[2])
}

// rotationOf returns m with its translation column cleared.
func rotationOf(m mgl32.Mat4) mgl32.Mat4 {
	m.SetCol(3, mgl32.Vec4{0, 0, 0, 1})
	return m
}

// rotationDegrees returns a rotation of the given angle in degrees about a (normalized) axis.
func rotationDegrees(axis mgl32.Vec3, degrees float32) mgl32.Mat4 {
	return mgl32.HomogRotate3D(mgl32.DegToRad(degrees), axis)
}

// localAxis returns column i of the upper 3x3 of m, i.e. where m sends the i-th basis vector.
func localAxis(m mgl32.Mat4, i int) mgl32.Vec3 {
	return m.Col(i).Vec3()
}

// transformDirection applies only the rotational part of m to v.
func transformDirection(m mgl32.Mat4, v mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(v.Vec4(0)).Vec3()
}

// unitOr normalizes v, returning fallback when v is too short to carry a direction.
func unitOr(v, fallback mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l < degenerateEpsilon {
		return fallback
	}
	return v.Mul(1 / l)
}

// wrapDegrees wraps an angle into the open interval (-360, 360), keeping its sign.
func wrapDegrees(angle float32) float32 {
	return math32.Mod(angle, 360)
}

func clamp(value, min, max float32) float32 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func lerp(from, to, t float32) float32 {
	return from + (to-from)*t
}

func lerpVec3(from, to mgl32.Vec3, t float32) mgl32.Vec3 {
	return from.Add(to.Sub(from).Mul(t))
}

func basisFromAxes(x, y, z mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Mat4FromCols(x.Vec4(0), y.Vec4(0), z.Vec4(0), mgl32.Vec4{0, 0, 0, 1})
}

// orthonormalized re-orthogonalizes the rotation part of m, keeping its Z axis direction fixed.
func orthonormalized(m mgl32.Mat4) mgl32.Mat4 {
	z := unitOr(localAxis(m, 2), vecZ)
	x := localAxis(m, 0)
	x = unitOr(x.Sub(z.Mul(x.Dot(z))), vecX)
	y := z.Cross(x)
	out := basisFromAxes(x, y, z)
	out.SetCol(3, m.Col(3))
	return out
}

// lookTowards builds a camera rotation whose -Z axis points along direction. The up reference
// steers the roll; when it is parallel to direction, rightFallback is used for the X axis instead.
func lookTowards(direction, upReference, rightFallback mgl32.Vec3) mgl32.Mat4 {
	z := unitOr(direction.Mul(-1), vecZ)
	x := upReference.Cross(z)
	if x.Len() < degenerateEpsilon {
		x = rightFallback.Sub(z.Mul(rightFallback.Dot(z)))
	}
	x = unitOr(x, vecX)
	y := z.Cross(x)
	return basisFromAxes(x, y, z)
}

// fpsRotation returns the camera-frame rotation for a yaw (alpha) about camera +Y followed by a
// pitch (beta) about camera +X, both in degrees. Equivalent to C⁻¹·Rz(alpha)·Rx(beta)·C where C is
// followFrameCorrection.
func fpsRotation(alpha, beta float32) mgl32.Mat4 {
	return mgl32.HomogRotate3DY(mgl32.DegToRad(alpha)).Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(beta)))
}

// fpsAnglesTowards returns the yaw and pitch, in degrees, that make a camera in an object frame
// (facing +Y, +Z up) look along direction. direction must be expressed in that frame.
func fpsAnglesTowards(direction mgl32.Vec3) (alpha, beta float32) {
	d := unitOr(direction, vecY)
	beta = mgl32.RadToDeg(math32.Asin(clamp(d.Z(), -1, 1)))
	alpha = mgl32.RadToDeg(math32.Atan2(-d.X(), d.Y()))
	return alpha, beta
}

// RotationDelta describes a rotation as two successive rotations about local axes: first a swing
// that carries the local Z axis onto its target, then a twist about the resulting Z axis.
// Angles are in radians.
type RotationDelta struct {
	Axis1  mgl32.Vec3
	Angle1 float32
	Axis2  mgl32.Vec3
	Angle2 float32
}

// DecomposeRotation splits the rotation part of delta into a swing and a twist. Applying
// Rotate(Axis1, Angle1) and then Rotate(Axis2, Angle2), both in the local frame, reproduces delta.
// When the Z axis is (anti)parallel to its target, the swing falls back to the X axis.
func DecomposeRotation(delta mgl32.Mat4) RotationDelta {
	delta = rotationOf(delta)
	target := unitOr(localAxis(delta, 2), vecZ)

	cross := vecZ.Cross(target)
	sin := cross.Len()
	cos := vecZ.Dot(target)

	rd := RotationDelta{Axis2: vecZ}

	if sin < degenerateEpsilon {
		rd.Axis1 = vecX
		if cos < 0 {
			rd.Angle1 = math32.Pi
		}
	} else {
		rd.Axis1 = cross.Mul(1 / sin)
		rd.Angle1 = math32.Atan2(sin, cos)
	}

	swing := mgl32.HomogRotate3D(rd.Angle1, rd.Axis1)
	twist := swing.Transpose().Mul4(delta)
	rd.Angle2 = math32.Atan2(twist.At(1, 0), twist.At(0, 0))

	return rd
}

// Partial returns the rotation obtained by applying the given fraction of both component rotations.
// Partial(0) is the identity and Partial(1) is the full decomposed rotation.
func (rd RotationDelta) Partial(fraction float32) mgl32.Mat4 {
	return mgl32.HomogRotate3D(rd.Angle1*fraction, rd.Axis1).Mul4(mgl32.HomogRotate3D(rd.Angle2*fraction, rd.Axis2))
}

// Axis names one of the three local axes of a camera.
type Axis int

const (
	AxisX Axis = iota // Right for movement, pitch for turning.
	AxisY             // Up for movement, yaw for turning.
	AxisZ             // Backward for movement, roll for turning.
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	}
	panic("Error: unknown axis " + strconv.Itoa(int(a)))
}

// Range is a closed interval of allowed values.
type Range struct {
	Min, Max float32
}

// NewRange returns a Range, panicking if min is greater than max.
func NewRange(min, max float32) Range {
	if min > max {
		panic(fmt.Sprintf("Error: invalid range [%v, %v]: minimum is greater than maximum", min, max))
	}
	return Range{Min: min, Max: max}
}

// Contains returns whether value lies within the range, bounds included.
func (r Range) Contains(value float32) bool {
	return value >= r.Min && value <= r.Max
}

// Clamp returns value limited to the range.
func (r Range) Clamp(value float32) float32 {
	return clamp(value, r.Min, r.Max)
}
