package tetracam

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestPositionFreeFly(t *testing.T) {

	pc := NewPositionConfiguration(PositionModeFreeFly, mgl32.Vec3{})

	assert.True(t, pc.Update(mgl32.Ident4(), nil, mgl32.Vec3{0, 0, -10}, time.Second))
	assertVec3(t, mgl32.Vec3{0, 0, -10}, pc.RelativePosition())
	assertVec3(t, mgl32.Vec3{0, 0, -10}, pc.WorldPosition(mgl32.Ident4()))

	// Forward follows the camera's orientation: after turning left, forward is -X.
	pc.Update(mgl32.HomogRotate3DY(deg(90)), nil, mgl32.Vec3{0, 0, -10}, 500*time.Millisecond)
	assertVec3(t, mgl32.Vec3{-5, 0, -10}, pc.RelativePosition())

}

func TestPositionFixedIgnoresInput(t *testing.T) {
	pc := NewPositionConfiguration(PositionModeFixed, mgl32.Vec3{1, 2, 3})
	pc.Update(mgl32.Ident4(), nil, mgl32.Vec3{50, 50, 50}, time.Second)
	assertVec3(t, mgl32.Vec3{1, 2, 3}, pc.WorldPosition(mgl32.Ident4()))
}

func TestPositionRelativeFollow(t *testing.T) {

	target := NewTransform("target")
	target.SetLocalPosition(1, 2, 3)
	target.SetLocalOrientation(mgl32.HomogRotate3DZ(deg(90)))

	pc := NewPositionConfiguration(PositionModeRelativeFollow, mgl32.Vec3{0, -10, 2}, WithPositionFollowing(target))

	// The target faces -X, so "behind" is +X.
	assertVec3(t, mgl32.Vec3{11, 2, 5}, pc.WorldPosition(mgl32.Ident4()))

	target.SetLocalPosition(0, 0, 0)
	pc.Update(mgl32.Ident4(), nil, mgl32.Vec3{}, 0)
	assertVec3(t, mgl32.Vec3{10, 0, 2}, pc.WorldPosition(mgl32.Ident4()))

}

func TestPositionRelativeFollowAveragesTargets(t *testing.T) {

	a := NewTransform("a")
	a.SetLocalPosition(-4, 0, 0)
	b := NewTransform("b")
	b.SetLocalPosition(4, 2, 0)
	b.SetLocalOrientation(mgl32.HomogRotate3DZ(deg(180)))

	pc := NewPositionConfiguration(PositionModeRelativeFollow, mgl32.Vec3{0, -10, 0}, WithPositionFollowing(a, b))

	// Positions are averaged, but only the first target's orientation counts.
	assertVec3(t, mgl32.Vec3{0, -9, 0}, pc.WorldPosition(mgl32.Ident4()))

}

func TestPositionRelativeFollowMovement(t *testing.T) {

	target := NewTransform("target")

	relativeToObject := NewPositionConfiguration(PositionModeRelativeFollow, mgl32.Vec3{0, -10, 0},
		WithPositionFollowing(target),
		WithMovesRelativeToObject(),
	)

	// Camera forward maps onto the object's forward (+Y).
	relativeToObject.Update(mgl32.Ident4(), nil, mgl32.Vec3{0, 0, -5}, time.Second)
	assertVec3(t, mgl32.Vec3{0, -5, 0}, relativeToObject.RelativePosition())

	relativeToCamera := NewPositionConfiguration(PositionModeRelativeFollow, mgl32.Vec3{0, -10, 0}, WithPositionFollowing(target))

	// The camera looks down world -Z, so moving forward moves the offset along -Z.
	relativeToCamera.Update(mgl32.Ident4(), nil, mgl32.Vec3{0, 0, -5}, time.Second)
	assertVec3(t, mgl32.Vec3{0, -10, -5}, relativeToCamera.RelativePosition())

}

func TestPositionOrbitRevolvesWithOrientation(t *testing.T) {

	target := NewTransform("target")
	target.SetLocalPosition(5, 0, 0)

	pc := NewPositionConfiguration(PositionModeOrbitFollow, mgl32.Vec3{0, -10, 0}, WithPositionFollowing(target))

	assertVec3(t, mgl32.Vec3{5, 0, 10}, pc.WorldPosition(mgl32.Ident4()))

	// Turning the camera left swings it around the target.
	assertVec3(t, mgl32.Vec3{15, 0, 0}, pc.WorldPosition(mgl32.HomogRotate3DY(deg(90))))

}

func TestPositionOrbitDistanceClamps(t *testing.T) {

	target := NewTransform("target")

	pc := NewPositionConfiguration(PositionModeOrbitFollow, mgl32.Vec3{0, -15, 0},
		WithPositionFollowing(target),
		WithDistanceRange(10, 20),
	)

	assert.True(t, pc.Update(mgl32.Ident4(), nil, mgl32.Vec3{0, 0, 100}, time.Second))
	assert.InDelta(t, 20, pc.RelativePosition().Len(), epsilon)
	assertVec3(t, mgl32.Vec3{0, -20, 0}, pc.RelativePosition())

	assert.True(t, pc.Update(mgl32.Ident4(), nil, mgl32.Vec3{0, 0, -3}, time.Second))
	assertVec3(t, mgl32.Vec3{0, -17, 0}, pc.RelativePosition())

	pc.Update(mgl32.Ident4(), nil, mgl32.Vec3{0, 0, -100}, time.Second)
	assert.InDelta(t, 10, pc.RelativePosition().Len(), epsilon)

}

func TestPositionOrbitDistanceResets(t *testing.T) {

	target := NewTransform("target")

	pc := NewPositionConfiguration(PositionModeOrbitFollow, mgl32.Vec3{0, -15, 0},
		WithPositionFollowing(target),
		WithDistanceRange(10, 20),
		WithResetsWhenLeavingConfines(),
	)

	assert.True(t, pc.Update(mgl32.Ident4(), nil, mgl32.Vec3{0, 0, 4}, time.Second))
	assertVec3(t, mgl32.Vec3{0, -19, 0}, pc.RelativePosition())

	assert.False(t, pc.Update(mgl32.Ident4(), nil, mgl32.Vec3{0, 0, 4}, time.Second))
	assert.Equal(t, pc.DefaultRelativePosition(), pc.RelativePosition())

}

func TestPositionAxisConfines(t *testing.T) {

	pc := NewPositionConfiguration(PositionModeFreeFly, mgl32.Vec3{},
		WithConfines(AxisX, -5, 5),
		WithConfines(AxisZ, -1, 100),
	)

	velocities := []mgl32.Vec3{{100, 0, 0}, {-300, 4, -9}, {7, 0, 2}, {0, 0, 1000}, {-1, -1, -1}}
	steps := []time.Duration{time.Second, 16 * time.Millisecond, 3 * time.Second}

	for _, v := range velocities {
		for _, dt := range steps {
			assert.True(t, pc.Update(mgl32.Ident4(), nil, v, dt))
			p := pc.RelativePosition()
			assert.True(t, p.X() >= -5 && p.X() <= 5, "x out of confines: %v", p)
			assert.True(t, p.Z() >= -1 && p.Z() <= 100, "z out of confines: %v", p)
		}
	}

}

func TestPositionAxisConfinesReset(t *testing.T) {

	pc := NewPositionConfiguration(PositionModeFreeFly, mgl32.Vec3{1, 1, 1},
		WithConfines(AxisY, 0, 10),
		WithResetsWhenLeavingConfines(),
	)

	assert.True(t, pc.Update(mgl32.Ident4(), nil, mgl32.Vec3{0, 5, 0}, time.Second))
	assert.False(t, pc.Update(mgl32.Ident4(), nil, mgl32.Vec3{0, 5, 0}, time.Second))
	assert.Equal(t, translationMatrix(mgl32.Vec3{1, 1, 1}), pc.RelativePositionMatrix())

}

func TestPositionDistanceConfinesAroundOrientationTarget(t *testing.T) {

	target := mgl32.Vec3{0, 0, 0}

	pc := NewPositionConfiguration(PositionModeFreeFly, mgl32.Vec3{0, 0, 30}, WithDistanceRange(5, 10))
	pc.Update(mgl32.Ident4(), &target, mgl32.Vec3{}, 0)
	assertVec3(t, mgl32.Vec3{0, 0, 10}, pc.RelativePosition())

	resetting := NewPositionConfiguration(PositionModeFreeFly, mgl32.Vec3{0, 0, 30},
		WithDistanceRange(5, 10),
		WithResetsWhenLeavingConfines(),
	)
	assert.Panics(t, func() { resetting.Update(mgl32.Ident4(), &target, mgl32.Vec3{}, 0) })

}

func TestPositionTransitionSkipsConfines(t *testing.T) {
	pc := NewPositionConfiguration(PositionModeFreeFly, mgl32.Vec3{}, WithConfines(AxisX, -1, 1), asTransitionPosition())
	pc.Update(mgl32.Ident4(), nil, mgl32.Vec3{10, 0, 0}, time.Second)
	assertVec3(t, mgl32.Vec3{10, 0, 0}, pc.RelativePosition())
}

func TestPositionPrunesDestroyedObjects(t *testing.T) {

	target := NewTransform("target")

	pc := NewPositionConfiguration(PositionModeRelativeFollow, mgl32.Vec3{0, -10, 0}, WithPositionFollowing(target))
	assertVec3(t, mgl32.Vec3{0, -10, 0}, pc.WorldPosition(mgl32.Ident4()))

	target.Destroy()
	target.SetLocalPosition(100, 0, 0)

	assert.True(t, pc.Update(mgl32.Ident4(), nil, mgl32.Vec3{}, time.Second))
	assert.False(t, pc.Following())
	assertVec3(t, mgl32.Vec3{0, -10, 0}, pc.WorldPosition(mgl32.Ident4()))

	// Without anything to follow it flies freely from where it was left.
	pc.Update(mgl32.Ident4(), nil, mgl32.Vec3{0, 0, -1}, time.Second)
	assertVec3(t, mgl32.Vec3{0, -10, -1}, pc.WorldPosition(mgl32.Ident4()))

}

func TestPositionStartsWithRelativePosition(t *testing.T) {

	target := NewTransform("target")

	pc := NewPositionConfiguration(PositionModeFreeFly, mgl32.Vec3{0, -10, 0},
		WithPositionFollowing(target),
		WithStartsWithRelativePosition(),
	)

	target.SetLocalPosition(50, 0, 0)
	assertVec3(t, mgl32.Vec3{50, -10, 0}, pc.WorldPosition(mgl32.Ident4()))

	pc.Update(mgl32.Ident4(), nil, mgl32.Vec3{}, 0)
	assert.False(t, pc.Following())

	target.SetLocalPosition(80, 0, 0)
	assertVec3(t, mgl32.Vec3{50, -10, 0}, pc.WorldPosition(mgl32.Ident4()))

	pc.ResetToDefaults()
	assert.True(t, pc.Following())
	assertVec3(t, mgl32.Vec3{80, -10, 0}, pc.WorldPosition(mgl32.Ident4()))

}

func TestPositionInvalidConfigurations(t *testing.T) {

	target := NewTransform("target")

	assert.Panics(t, func() {
		NewPositionConfiguration(PositionModeFreeFly, mgl32.Vec3{}, WithPositionFollowing(target))
	})

	assert.Panics(t, func() {
		NewPositionConfiguration(PositionModeOrbitFollow, mgl32.Vec3{}, WithPositionFollowing(target))
	})

	assert.Panics(t, func() {
		NewPositionConfiguration(PositionMode(99), mgl32.Vec3{})
	})

	assert.Panics(t, func() {
		NewPositionConfiguration(PositionModeFixed, mgl32.Vec3{}).FollowedPosition()
	})

}

func TestPositionResetToDefaults(t *testing.T) {

	target := NewTransform("target")
	target.SetLocalPosition(3, 3, 3)

	configurations := []*PositionConfiguration{
		NewPositionConfiguration(PositionModeFreeFly, mgl32.Vec3{1, 2, 3}),
		NewPositionConfiguration(PositionModeRelativeFollow, mgl32.Vec3{0, -4, 1}, WithPositionFollowing(target)),
		NewPositionConfiguration(PositionModeOrbitFollow, mgl32.Vec3{0, -8, 0}, WithPositionFollowing(target), WithDistanceRange(1, 50)),
	}

	for _, pc := range configurations {

		initial := pc.WorldPositionMatrix(mgl32.Ident4())

		pc.Update(mgl32.Ident4(), nil, mgl32.Vec3{3, -7, 12}, 2*time.Second)
		pc.ResetToDefaults()

		assert.Equal(t, initial, pc.WorldPositionMatrix(mgl32.Ident4()), pc.Mode().String())

	}

}

func TestPositionCopyIsIndependent(t *testing.T) {

	pc := NewPositionConfiguration(PositionModeFreeFly, mgl32.Vec3{}, WithDistanceRange(0, 10))
	copied := pc.Copy()

	copied.Update(mgl32.Ident4(), nil, mgl32.Vec3{1, 0, 0}, time.Second)

	assertVec3(t, mgl32.Vec3{}, pc.RelativePosition())
	assertVec3(t, mgl32.Vec3{1, 0, 0}, copied.RelativePosition())

}
