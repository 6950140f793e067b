package tetracam

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func forwardOf(m mgl32.Mat4) mgl32.Vec3 {
	return localAxis(m, 2).Mul(-1)
}

func TestOrientationFPSWrapsAndClamps(t *testing.T) {

	oc := NewOrientationConfiguration(OrientationModeFPS, mgl32.Ident4())

	oc.Update(mgl32.Vec3{0, 100, 0}, 4*time.Second)
	alpha, _ := oc.FPSAngles()
	assert.InDelta(t, 40, alpha, epsilon)

	oc.Update(mgl32.Vec3{200, 0, 0}, time.Second)
	_, beta := oc.FPSAngles()
	assert.InDelta(t, 90, beta, epsilon)

	oc.Update(mgl32.Vec3{-300, -500, 0}, time.Second)
	alpha, beta = oc.FPSAngles()
	assert.InDelta(t, -100, alpha, epsilon)
	assert.InDelta(t, -90, beta, epsilon)

}

func TestOrientationFPSStaysInRange(t *testing.T) {

	oc := NewOrientationConfiguration(OrientationModeFPS, mgl32.Ident4(),
		WithAlphaRange(-45, 45),
		WithBetaRange(-10, 30),
	)

	turns := []mgl32.Vec3{{100, 100, 0}, {-1000, 20, 0}, {3, -7000, 0}, {45, 45, 45}, {-0.5, 800, 0}}

	for _, turn := range turns {
		for _, dt := range []time.Duration{16 * time.Millisecond, time.Second, 10 * time.Second} {
			oc.Update(turn, dt)
			alpha, beta := oc.FPSAngles()
			assert.True(t, alpha >= -45 && alpha <= 45, "alpha out of range: %v", alpha)
			assert.True(t, beta >= -10 && beta <= 30, "beta out of range: %v", beta)
		}
	}

}

func TestOrientationFPSWorld(t *testing.T) {

	// FPS angles are measured in a frame looking down +Y with +Z up.
	oc := NewOrientationConfiguration(OrientationModeFPS, mgl32.Ident4())
	world := oc.WorldOrientationMatrix(mgl32.Vec3{}, nil)
	assertVec3(t, vecY, forwardOf(world))
	assertVec3(t, vecZ, localAxis(world, 1))

	oc.SetFPSAngles(90, 0)
	assertVec3(t, mgl32.Vec3{-1, 0, 0}, forwardOf(oc.WorldOrientationMatrix(mgl32.Vec3{}, nil)))

	oc.SetFPSAngles(0, 30)
	assertVec3(t, mgl32.Vec3{0, 0.8660254, 0.5}, forwardOf(oc.WorldOrientationMatrix(mgl32.Vec3{}, nil)))

}

func TestOrientationFreeTurnsAboutOwnAxes(t *testing.T) {

	oc := NewOrientationConfiguration(OrientationModeFree, mgl32.Ident4())

	oc.Update(mgl32.Vec3{0, 90, 0}, time.Second)
	assertVec3(t, mgl32.Vec3{-1, 0, 0}, forwardOf(oc.WorldOrientationMatrix(mgl32.Vec3{}, nil)))

	// Pitching up after the yaw pitches about the camera's own, turned X axis.
	oc.Update(mgl32.Vec3{90, 0, 0}, time.Second)
	assertVec3(t, vecY, forwardOf(oc.WorldOrientationMatrix(mgl32.Vec3{}, nil)))

}

func TestOrientationFollowing(t *testing.T) {

	target := NewTransform("target")
	target.SetLocalOrientation(mgl32.HomogRotate3DZ(deg(90)))

	oc := NewOrientationConfiguration(OrientationModeFree, mgl32.Ident4(), WithOrientationFollowing(target))

	world := oc.WorldOrientationMatrix(mgl32.Vec3{}, nil)
	assertVec3(t, mgl32.Vec3{-1, 0, 0}, forwardOf(world))
	assertVec3(t, vecZ, localAxis(world, 1))

}

func TestOrientationFollowingYawKeepsHorizonLevel(t *testing.T) {

	target := NewTransform("target")

	oc := NewOrientationConfiguration(OrientationModeFree, mgl32.Ident4(), WithOrientationFollowing(target))

	oc.Update(mgl32.Vec3{0, 30, 0}, time.Second)
	oc.Update(mgl32.Vec3{20, 0, 0}, time.Second)
	oc.Update(mgl32.Vec3{0, 40, 0}, time.Second)

	right := localAxis(oc.WorldOrientationMatrix(mgl32.Vec3{}, nil), 0)
	assert.InDelta(t, 0, right.Z(), epsilon)

}

func TestOrientationFixedIgnoresInput(t *testing.T) {

	relative := mgl32.HomogRotate3DX(deg(-20))
	oc := NewOrientationConfiguration(OrientationModeFixed, relative)

	assert.True(t, oc.Update(mgl32.Vec3{100, 100, 100}, time.Second))
	assertMat4(t, relative, oc.WorldOrientationMatrix(mgl32.Vec3{}, nil))

}

func TestOrientationPointTowards(t *testing.T) {

	target := NewTransform("target")
	target.SetLocalPosition(10, 0, 0)

	oc := NewOrientationConfiguration(OrientationModePointTowards, mgl32.Ident4(), WithOrientationFollowing(target))

	world := oc.WorldOrientationMatrix(mgl32.Vec3{}, nil)
	assertVec3(t, vecX, forwardOf(world))
	assertVec3(t, vecY, localAxis(world, 1))

	// Looking from elsewhere re-aims the camera.
	world = oc.WorldOrientationMatrix(mgl32.Vec3{10, 0, 10}, nil)
	assertVec3(t, mgl32.Vec3{0, 0, -1}, forwardOf(world))

	// Rolling changes the up reference, which survives re-aiming.
	oc.Update(mgl32.Vec3{0, 0, 90}, time.Second)
	world = oc.WorldOrientationMatrix(mgl32.Vec3{10, 0, 10}, nil)
	assertVec3(t, mgl32.Vec3{0, 0, -1}, forwardOf(world))
	assertVec3(t, mgl32.Vec3{-1, 0, 0}, localAxis(world, 1))

}

func TestOrientationPointTowardsFPS(t *testing.T) {

	target := NewTransform("target")
	target.SetLocalPosition(0, 10, 10)

	oc := NewOrientationConfiguration(OrientationModePointTowardsFPS, mgl32.Ident4(), WithOrientationFollowing(target))

	world := oc.WorldOrientationMatrix(mgl32.Vec3{}, nil)
	assertVec3(t, mgl32.Vec3{0, 1, 1}.Normalize(), forwardOf(world))

	alpha, beta := oc.FPSAngles()
	assert.InDelta(t, 0, alpha, 0.01)
	assert.InDelta(t, 45, beta, 0.01)

}

func TestOrientationPointTowardsFPSBase(t *testing.T) {

	target := NewTransform("target")
	target.SetLocalPosition(-10, 0, 0)
	target.SetLocalOrientation(mgl32.HomogRotate3DZ(deg(90)))

	oc := NewOrientationConfiguration(OrientationModePointTowardsFPS, mgl32.Ident4(),
		WithOrientationFollowing(target),
		WithBaseOrientation(BaseOrientationOrientationFollowedObject),
	)

	// The target faces -X, so looking at it from the origin is looking straight ahead in its frame.
	world := oc.WorldOrientationMatrix(mgl32.Vec3{}, nil)
	assertVec3(t, mgl32.Vec3{-1, 0, 0}, forwardOf(world))

	alpha, beta := oc.FPSAngles()
	assert.InDelta(t, 0, alpha, 0.01)
	assert.InDelta(t, 0, beta, 0.01)

	// Angles stay within their ranges even when the target lies outside of them.
	clamped := NewOrientationConfiguration(OrientationModePointTowardsFPS, mgl32.Ident4(),
		WithOrientationFollowing(target),
		WithAlphaRange(-10, 10),
	)
	clamped.WorldOrientationMatrix(mgl32.Vec3{0, -10, 0}, nil)
	alpha, _ = clamped.FPSAngles()
	assert.InDelta(t, 10, alpha, 0.01)

}

func TestOrientationPointToFallbacks(t *testing.T) {

	relative := mgl32.HomogRotate3DY(deg(30))

	stationary := NewOrientationConfiguration(OrientationModePointTowards, relative, WithPointToFallback(PointToFallbackStationary))
	stationary.Update(mgl32.Vec3{90, 90, 90}, time.Second)
	assertMat4(t, relative, stationary.WorldOrientationMatrix(mgl32.Vec3{}, nil))

	world := NewOrientationConfiguration(OrientationModePointTowards, relative, WithPointToFallback(PointToFallbackWorld))
	world.Update(mgl32.Vec3{0, 30, 0}, time.Second)
	assertMat4(t, mgl32.HomogRotate3DY(deg(60)), world.WorldOrientationMatrix(mgl32.Vec3{}, nil))

	carrier := NewTransform("carrier")
	carrier.SetLocalOrientation(mgl32.HomogRotate3DZ(deg(180)))

	positionFollowed := NewOrientationConfiguration(OrientationModePointTowards, mgl32.Ident4(),
		WithPointToFallback(PointToFallbackPositionFollowedObjectOrWorld),
	)
	assertVec3(t, mgl32.Vec3{0, -1, 0}, forwardOf(positionFollowed.WorldOrientationMatrix(mgl32.Vec3{}, carrier)))
	assertMat4(t, mgl32.Ident4(), positionFollowed.WorldOrientationMatrix(mgl32.Vec3{}, nil))

}

func TestOrientationPrunesDestroyedObjects(t *testing.T) {

	target := NewTransform("target")
	target.SetLocalPosition(10, 0, 0)

	pointing := NewOrientationConfiguration(OrientationModePointTowards, mgl32.Ident4(), WithOrientationFollowing(target))
	before := pointing.WorldOrientationMatrix(mgl32.Vec3{}, nil)

	fps := NewOrientationConfiguration(OrientationModeFPS, mgl32.Ident4(), WithOrientationFollowing(target), WithFPSAngles(20, 10))
	fpsBefore := fps.WorldOrientationMatrix(mgl32.Vec3{}, nil)

	target.Destroy()

	pointing.Update(mgl32.Vec3{}, time.Second)
	assert.False(t, pointing.Following())
	assert.Equal(t, OrientationModePointTowards, pointing.Mode())
	assertMat4(t, before, pointing.WorldOrientationMatrix(mgl32.Vec3{}, nil))

	fps.Update(mgl32.Vec3{}, time.Second)
	assert.Equal(t, OrientationModeFree, fps.Mode())
	assertMat4(t, fpsBefore, fps.WorldOrientationMatrix(mgl32.Vec3{}, nil))

	fps.ResetToDefaults()
	assert.Equal(t, OrientationModeFPS, fps.Mode())

}

func TestOrientationResetToDefaults(t *testing.T) {

	target := NewTransform("target")
	target.SetLocalPosition(0, 5, 0)

	configurations := []*OrientationConfiguration{
		NewOrientationConfiguration(OrientationModeFree, mgl32.HomogRotate3DX(deg(10))),
		NewOrientationConfiguration(OrientationModeFPS, mgl32.Ident4(), WithFPSAngles(-30, 15)),
		NewOrientationConfiguration(OrientationModeFree, mgl32.Ident4(), WithOrientationFollowing(target)),
		NewOrientationConfiguration(OrientationModePointTowardsFPS, mgl32.Ident4(), WithOrientationFollowing(target)),
	}

	for _, oc := range configurations {

		initial := oc.WorldOrientationMatrix(mgl32.Vec3{}, nil)

		oc.Update(mgl32.Vec3{12, -40, 7}, 2*time.Second)
		oc.ResetToDefaults()

		assertMat4(t, initial, oc.WorldOrientationMatrix(mgl32.Vec3{}, nil), oc.Mode().String())

	}

}

func TestOrientationInvalidConfigurations(t *testing.T) {

	assert.Panics(t, func() { NewOrientationConfiguration(OrientationMode(42), mgl32.Ident4()) })
	assert.Panics(t, func() {
		NewOrientationConfiguration(OrientationModeFree, mgl32.Ident4(), WithBaseOrientation(BaseOrientation(7)))
	})
	assert.Panics(t, func() {
		NewOrientationConfiguration(OrientationModeFree, mgl32.Ident4(), WithPointToFallback(PointToFallback(7)))
	})
	assert.Panics(t, func() { NewOrientationConfiguration(OrientationModeFree, mgl32.Ident4()).FollowedOrientation() })

}

func TestOrientationFixedPrunesDestroyedObjects(t *testing.T) {

	ship := NewTransform("ship")
	ship.SetLocalOrientation(mgl32.HomogRotate3DZ(deg(90)))
	turret := NewTransform("turret")
	ship.AddChildren(turret)

	oc := NewOrientationConfiguration(OrientationModeFixed, mgl32.Ident4(), WithOrientationFollowing(turret))
	before := oc.WorldOrientationMatrix(mgl32.Vec3{}, nil)
	assertVec3(t, mgl32.Vec3{-1, 0, 0}, forwardOf(before))

	turret.Destroy()
	oc.Update(mgl32.Vec3{}, time.Second)

	assert.False(t, oc.Following())
	assert.Equal(t, OrientationModeFixed, oc.Mode())
	assertMat4(t, before, oc.WorldOrientationMatrix(mgl32.Vec3{}, nil))

}

func TestOrientationPointToFallbackOutlivesPositionFollowed(t *testing.T) {

	ship := NewTransform("ship")
	ship.SetLocalOrientation(mgl32.HomogRotate3DZ(deg(90)))

	target := NewTransform("target")
	target.SetLocalPosition(10, 0, 0)

	oc := NewOrientationConfiguration(OrientationModePointTowards, mgl32.Ident4(),
		WithOrientationFollowing(target),
		WithPointToFallback(PointToFallbackPositionFollowedObjectOrWorld),
	)

	aimed := oc.WorldOrientationMatrix(mgl32.Vec3{}, ship)
	assertVec3(t, vecX, forwardOf(aimed))

	// Losing the target keeps the view, now carried by the ship.
	target.Destroy()
	oc.Update(mgl32.Vec3{}, 0)
	assertMat4(t, aimed, oc.WorldOrientationMatrix(mgl32.Vec3{}, ship))

	ship.SetLocalOrientation(mgl32.HomogRotate3DZ(deg(180)))
	oc.Update(mgl32.Vec3{}, 0)
	carried := oc.WorldOrientationMatrix(mgl32.Vec3{}, ship)
	assertVec3(t, vecY, forwardOf(carried))

	// Losing the ship as well keeps the view where the ship left it.
	ship.Destroy()
	oc.Update(mgl32.Vec3{}, 0)
	assertMat4(t, carried, oc.WorldOrientationMatrix(mgl32.Vec3{}, ship))

	oc.Update(mgl32.Vec3{}, 0)
	assertMat4(t, carried, oc.WorldOrientationMatrix(mgl32.Vec3{}, nil))
	assert.Equal(t, PointToFallbackWorld, oc.PointToFallback())

	oc.ResetToDefaults()
	assert.Equal(t, PointToFallbackPositionFollowedObjectOrWorld, oc.PointToFallback())

}

func TestOrientationPointTowardsFPSCanBeNudged(t *testing.T) {

	target := NewTransform("target")
	target.SetLocalPosition(0, 10, 0)

	oc := NewOrientationConfiguration(OrientationModePointTowardsFPS, mgl32.Ident4(), WithOrientationFollowing(target))
	assertVec3(t, vecY, forwardOf(oc.WorldOrientationMatrix(mgl32.Vec3{}, nil)))

	oc.Update(mgl32.Vec3{0, 30, 0}, time.Second)
	world := oc.WorldOrientationMatrix(mgl32.Vec3{}, nil)
	assertVec3(t, mgl32.Vec3{-0.5, 0.8660254, 0}, forwardOf(world))

	alpha, _ := oc.FPSAngles()
	assert.InDelta(t, 30, alpha, epsilon)

	// The nudge stays in place as the target moves.
	target.SetLocalPosition(10, 10, 0)
	oc.Update(mgl32.Vec3{}, time.Second)
	world = oc.WorldOrientationMatrix(mgl32.Vec3{}, nil)
	alpha, _ = oc.FPSAngles()
	assert.InDelta(t, -15, alpha, epsilon)
	assertVec3(t, mgl32.Vec3{0.258819, 0.965926, 0}, forwardOf(world))

	oc.ResetToDefaults()
	oc.WorldOrientationMatrix(mgl32.Vec3{}, nil)
	alpha, _ = oc.FPSAngles()
	assert.InDelta(t, -45, alpha, epsilon)

}
