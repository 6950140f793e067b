package tetracam

import (
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

const epsilon = 1e-4

func assertVec3(t *testing.T, expected, actual mgl32.Vec3, msgAndArgs ...any) {
	t.Helper()
	if !expected.ApproxEqualThreshold(actual, epsilon) {
		assert.Fail(t, fmt.Sprintf("expected %v, got %v", expected, actual), msgAndArgs...)
	}
}

func assertMat4(t *testing.T, expected, actual mgl32.Mat4, msgAndArgs ...any) {
	t.Helper()
	if !expected.ApproxEqualThreshold(actual, epsilon) {
		assert.Fail(t, fmt.Sprintf("expected\n%v\ngot\n%v", expected, actual), msgAndArgs...)
	}
}

func deg(degrees float32) float32 {
	return mgl32.DegToRad(degrees)
}

func BenchmarkDecomposeRotation(b *testing.B) {

	b.ReportAllocs()

	delta := mgl32.HomogRotate3DX(deg(30)).Mul4(mgl32.HomogRotate3DY(deg(-70))).Mul4(mgl32.HomogRotate3DZ(deg(12)))

	for i := 0; i < b.N; i++ {
		DecomposeRotation(delta)
	}

}

func TestDecomposeRotation(t *testing.T) {

	rotations := map[string]mgl32.Mat4{
		"identity":         mgl32.Ident4(),
		"yaw":              mgl32.HomogRotate3DY(deg(90)),
		"roll only":        mgl32.HomogRotate3DZ(deg(60)),
		"half turn":        mgl32.HomogRotate3DY(deg(180)),
		"half turn pitch":  mgl32.HomogRotate3DX(deg(180)),
		"compound":         mgl32.HomogRotate3DX(deg(30)).Mul4(mgl32.HomogRotate3DZ(deg(45))),
		"arbitrary":        mgl32.HomogRotate3D(deg(123), mgl32.Vec3{1, -2, 0.5}.Normalize()),
		"with translation": mgl32.Translate3D(4, 5, 6).Mul4(mgl32.HomogRotate3DY(deg(-40))),
	}

	for name, rotation := range rotations {

		rd := DecomposeRotation(rotation)

		assertMat4(t, rotationOf(rotation), rd.Partial(1), name)
		assertMat4(t, mgl32.Ident4(), rd.Partial(0), name)

	}

}

func TestDecomposeRotationDegenerateFallsBackToX(t *testing.T) {

	rd := DecomposeRotation(mgl32.HomogRotate3DY(deg(180)))

	assertVec3(t, vecX, rd.Axis1)
	assert.InDelta(t, mgl32.DegToRad(180), rd.Angle1, epsilon)

	rd = DecomposeRotation(mgl32.HomogRotate3DZ(deg(30)))

	assertVec3(t, vecX, rd.Axis1)
	assert.InDelta(t, 0, rd.Angle1, epsilon)
	assert.InDelta(t, deg(30), rd.Angle2, epsilon)

}

func TestRotationDeltaPartial(t *testing.T) {

	rd := DecomposeRotation(mgl32.HomogRotate3DY(deg(90)))

	assertMat4(t, mgl32.HomogRotate3DY(deg(45)), rd.Partial(0.5))

	rd = DecomposeRotation(mgl32.HomogRotate3DZ(deg(80)))

	assertMat4(t, mgl32.HomogRotate3DZ(deg(20)), rd.Partial(0.25))

}

func TestWrapDegrees(t *testing.T) {

	cases := []struct{ in, out float32 }{
		{10, 10},
		{359, 359},
		{360, 0},
		{370, 10},
		{-370, -10},
		{725, 5},
		{-90, -90},
	}

	for _, c := range cases {
		assert.InDelta(t, c.out, wrapDegrees(c.in), epsilon, "wrapping %v", c.in)
	}

}

func TestLookTowards(t *testing.T) {

	m := lookTowards(mgl32.Vec3{10, 0, 0}, vecY, vecX)

	assertVec3(t, mgl32.Vec3{1, 0, 0}, localAxis(m, 2).Mul(-1))
	assertVec3(t, vecY, localAxis(m, 1))
	assert.InDelta(t, 1, m.Mat3().Det(), epsilon)

	// Looking straight along the up reference falls back to the given right axis.
	m = lookTowards(mgl32.Vec3{0, 3, 0}, vecY, vecX)

	assertVec3(t, vecY, localAxis(m, 2).Mul(-1))
	assertVec3(t, vecX, localAxis(m, 0))
	assert.InDelta(t, 1, m.Mat3().Det(), epsilon)

}

func TestFPSAnglesRoundTrip(t *testing.T) {

	angles := [][2]float32{{0, 0}, {30, 20}, {-120, -45}, {170, 80}, {-90, 10}}

	for _, a := range angles {
		direction := transformDirection(followFrameCorrection.Mul4(fpsRotation(a[0], a[1])), mgl32.Vec3{0, 0, -1})
		alpha, beta := fpsAnglesTowards(direction)
		assert.InDelta(t, a[0], alpha, 0.01)
		assert.InDelta(t, a[1], beta, 0.01)
	}

}

func TestFollowFrameCorrection(t *testing.T) {
	// Camera forward (-Z) becomes object forward (+Y); camera up (+Y) becomes object up (+Z).
	assertVec3(t, vecY, transformDirection(followFrameCorrection, vecZ.Mul(-1)))
	assertVec3(t, vecZ, transformDirection(followFrameCorrection, vecY))
	assertMat4(t, mgl32.Ident4(), followFrameCorrection.Mul4(followFrameCorrectionInv))
}

func TestOrthonormalized(t *testing.T) {

	m := mgl32.HomogRotate3DY(deg(20))
	m[0] *= 1.01
	m[4] += 0.02

	o := orthonormalized(m)

	assert.InDelta(t, 1, localAxis(o, 0).Len(), epsilon)
	assert.InDelta(t, 1, localAxis(o, 1).Len(), epsilon)
	assert.InDelta(t, 0, localAxis(o, 0).Dot(localAxis(o, 1)), epsilon)
	assertVec3(t, localAxis(m, 2).Normalize(), localAxis(o, 2))

}

func TestRange(t *testing.T) {

	r := NewRange(-2, 3)

	assert.True(t, r.Contains(-2))
	assert.True(t, r.Contains(3))
	assert.False(t, r.Contains(3.01))
	assert.Equal(t, float32(3), r.Clamp(10))
	assert.Equal(t, float32(-2), r.Clamp(-10))

	assert.Panics(t, func() { NewRange(1, 0) })

}
