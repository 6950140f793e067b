package tetracam

import (
	"log"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// PositionConfiguration computes the world position of a camera from a relative position and the
// objects it follows. With no followed objects the relative position is absolute. With followed objects
// the relative position is an offset from their averaged position, expressed in the frame of the first
// followed object (facing +Y, +Z up); in orbit mode that offset turns with the camera instead.
type PositionConfiguration struct {
	mode                       PositionMode
	movesRelativeToObject      bool
	startsWithRelativePosition bool
	resetsWhenLeavingConfines  bool
	transition                 bool

	followed        []Followable
	defaultFollowed []Followable
	started         bool

	relative        mgl32.Mat4
	defaultRelative mgl32.Mat4

	distanceRange *Range
	confines      [3]*Range

	world            cached[mgl32.Mat4]
	worldOrientation mgl32.Mat4 // The orientation the cached world matrix was computed with.
	lastWorld        mgl32.Mat4
	hasLastWorld     bool
}

// PositionOption customizes a PositionConfiguration on creation.
type PositionOption func(pc *PositionConfiguration)

// WithPositionFollowing makes the configuration follow the given objects.
func WithPositionFollowing(objects ...Followable) PositionOption {
	return func(pc *PositionConfiguration) {
		pc.followed = append(pc.followed, objects...)
	}
}

// WithMovesRelativeToObject makes control input move the camera along the followed object's axes
// rather than along the camera's own axes.
func WithMovesRelativeToObject() PositionOption {
	return func(pc *PositionConfiguration) {
		pc.movesRelativeToObject = true
	}
}

// WithStartsWithRelativePosition places the camera relative to its followed objects only until its first
// update; after that the camera stays where it was put and flies freely.
func WithStartsWithRelativePosition() PositionOption {
	return func(pc *PositionConfiguration) {
		pc.startsWithRelativePosition = true
	}
}

// WithDistanceRange confines the distance between the camera and its followed objects (or, without
// followed objects, its orientation target) to [min, max].
func WithDistanceRange(min, max float32) PositionOption {
	return func(pc *PositionConfiguration) {
		r := NewRange(min, max)
		pc.distanceRange = &r
	}
}

// WithConfines confines one component of the relative position to [min, max].
func WithConfines(axis Axis, min, max float32) PositionOption {
	return func(pc *PositionConfiguration) {
		r := NewRange(min, max)
		pc.confines[axis] = &r
	}
}

// WithResetsWhenLeavingConfines makes the configuration reset to its defaults instead of clamping when
// a confinement is violated.
func WithResetsWhenLeavingConfines() PositionOption {
	return func(pc *PositionConfiguration) {
		pc.resetsWhenLeavingConfines = true
	}
}

func asTransitionPosition() PositionOption {
	return func(pc *PositionConfiguration) {
		pc.transition = true
	}
}

// NewPositionConfiguration creates a new PositionConfiguration in the given mode, with relative being the
// starting (and default) relative position.
func NewPositionConfiguration(mode PositionMode, relative mgl32.Vec3, options ...PositionOption) *PositionConfiguration {

	if _, ok := positionModeNames[mode]; !ok {
		panic("Error: unknown position mode " + mode.String())
	}

	pc := &PositionConfiguration{
		mode:             mode,
		relative:         translationMatrix(relative),
		defaultRelative:  translationMatrix(relative),
		worldOrientation: mgl32.Ident4(),
	}

	for _, option := range options {
		option(pc)
	}

	if mode == PositionModeFreeFly && len(pc.followed) > 0 && !pc.startsWithRelativePosition {
		panic("Error: a free-flying position configuration can only follow objects until it starts (use WithStartsWithRelativePosition)")
	}

	if mode == PositionModeOrbitFollow && len(pc.followed) > 0 && relative.Len() < degenerateEpsilon {
		panic("Error: an orbiting position configuration needs a non-zero relative position")
	}

	pc.defaultFollowed = append([]Followable(nil), pc.followed...)

	return pc

}

// Mode returns the configuration's PositionMode.
func (pc *PositionConfiguration) Mode() PositionMode {
	return pc.mode
}

// FollowedObjects returns the objects the configuration currently follows.
func (pc *PositionConfiguration) FollowedObjects() []Followable {
	return append([]Followable(nil), pc.followed...)
}

// Following returns whether the configuration currently follows any objects.
func (pc *PositionConfiguration) Following() bool {
	return len(pc.followed) > 0
}

// SetFollowedObjects replaces the followed objects, keeping the relative position.
func (pc *PositionConfiguration) SetFollowedObjects(objects ...Followable) {
	if pc.mode == PositionModeFreeFly && len(objects) > 0 && !pc.startsWithRelativePosition {
		panic("Error: a free-flying position configuration cannot follow objects")
	}
	pc.followed = append([]Followable(nil), objects...)
	pc.world.invalidate()
}

// RelativePosition returns the relative position (the offset from the followed objects, or the absolute
// position without any).
func (pc *PositionConfiguration) RelativePosition() mgl32.Vec3 {
	return translationOf(pc.relative)
}

// RelativePositionMatrix returns the relative position as a translation matrix.
func (pc *PositionConfiguration) RelativePositionMatrix() mgl32.Mat4 {
	return pc.relative
}

// SetRelativePosition sets the relative position.
func (pc *PositionConfiguration) SetRelativePosition(position mgl32.Vec3) {
	pc.relative = translationMatrix(position)
	pc.world.invalidate()
}

// DefaultRelativePosition returns the relative position the configuration was created with.
func (pc *PositionConfiguration) DefaultRelativePosition() mgl32.Vec3 {
	return translationOf(pc.defaultRelative)
}

// DistanceRange returns the distance confinement, if there is one.
func (pc *PositionConfiguration) DistanceRange() (Range, bool) {
	if pc.distanceRange == nil {
		return Range{}, false
	}
	return *pc.distanceRange, true
}

// Confines returns the confinement of the given component of the relative position, if there is one.
func (pc *PositionConfiguration) Confines(axis Axis) (Range, bool) {
	if pc.confines[axis] == nil {
		return Range{}, false
	}
	return *pc.confines[axis], true
}

// ResetToDefaults restores the relative position and the followed objects the configuration was created with.
func (pc *PositionConfiguration) ResetToDefaults() {
	pc.relative = pc.defaultRelative
	if pc.startsWithRelativePosition {
		pc.followed = append([]Followable(nil), pc.defaultFollowed...)
	}
	pc.started = false
	pc.world.invalidate()
}

// Copy returns an independent copy of the configuration, following the same objects.
func (pc *PositionConfiguration) Copy() *PositionConfiguration {
	newPC := *pc
	newPC.followed = append([]Followable(nil), pc.followed...)
	newPC.defaultFollowed = append([]Followable(nil), pc.defaultFollowed...)
	if pc.distanceRange != nil {
		r := *pc.distanceRange
		newPC.distanceRange = &r
	}
	for i, c := range pc.confines {
		if c != nil {
			r := *c
			newPC.confines[i] = &r
		}
	}
	newPC.world.invalidate()
	return &newPC
}

// FollowedPosition returns the arithmetic mean of the world positions of the followed objects.
// It panics when nothing is followed.
func (pc *PositionConfiguration) FollowedPosition() mgl32.Vec3 {
	if len(pc.followed) == 0 {
		panic("Error: position configuration has no followed objects to take a position from")
	}
	sum := mgl32.Vec3{}
	for _, o := range pc.followed {
		sum = sum.Add(o.WorldPosition())
	}
	return sum.Mul(1 / float32(len(pc.followed)))
}

// FollowedOrientation returns the world orientation of the first followed object; the others are not
// taken into account. It panics when nothing is followed.
func (pc *PositionConfiguration) FollowedOrientation() mgl32.Mat4 {
	if len(pc.followed) == 0 {
		panic("Error: position configuration has no followed objects to take an orientation from")
	}
	return rotationOf(pc.followed[0].WorldOrientation())
}

// firstFollowed returns the first followed object, or nil.
func (pc *PositionConfiguration) firstFollowed() Followable {
	if len(pc.followed) == 0 {
		return nil
	}
	return pc.followed[0]
}

// WorldPositionMatrix returns the camera's world position as a translation matrix. worldOrientation is
// the camera's current world orientation, which only orbiting configurations depend on.
func (pc *PositionConfiguration) WorldPositionMatrix(worldOrientation mgl32.Mat4) mgl32.Mat4 {

	if pc.mode == PositionModeOrbitFollow && pc.Following() && worldOrientation != pc.worldOrientation {
		pc.world.invalidate()
	}

	return pc.world.get(func() mgl32.Mat4 {

		pc.worldOrientation = worldOrientation

		world := pc.relative

		if pc.Following() {
			offset := translationOf(pc.relative)
			if pc.mode == PositionModeOrbitFollow {
				offset = transformDirection(rotationOf(worldOrientation).Mul4(followFrameCorrectionInv), offset)
			} else {
				offset = transformDirection(pc.FollowedOrientation(), offset)
			}
			world = translationMatrix(pc.FollowedPosition().Add(offset))
		}

		pc.lastWorld = world
		pc.hasLastWorld = true
		return world

	})

}

// WorldPosition returns the translation of WorldPositionMatrix.
func (pc *PositionConfiguration) WorldPosition(worldOrientation mgl32.Mat4) mgl32.Vec3 {
	return translationOf(pc.WorldPositionMatrix(worldOrientation))
}

// Update moves the camera by velocity (meters per second, X right, Y up, Z backward) over dt.
// worldOrientation is the camera's current world orientation and orientationTarget, when non-nil, is the
// position of the objects followed by the orientation configuration.
//
// Update returns false when a confinement was violated and the configuration reset itself to its
// defaults; the caller should then update again against the reset state.
func (pc *PositionConfiguration) Update(worldOrientation mgl32.Mat4, orientationTarget *mgl32.Vec3, velocity mgl32.Vec3, dt time.Duration) bool {

	seconds := float32(dt.Seconds())

	if pc.startsWithRelativePosition && !pc.started && pc.Following() {
		pc.relative = pc.WorldPositionMatrix(worldOrientation)
		pc.followed = nil
	}
	pc.started = true

	if pc.mode != PositionModeFixed {

		move := velocity.Mul(seconds)

		if !pc.Following() {

			pc.relative = translationMatrix(translationOf(pc.relative).Add(transformDirection(worldOrientation, move)))

		} else if pc.mode == PositionModeOrbitFollow {

			if pc.distanceRange != nil {
				offset := translationOf(pc.relative)
				distance := offset.Len() + move.Z()
				if !pc.distanceRange.Contains(distance) {
					if pc.resetsWhenLeavingConfines {
						pc.ResetToDefaults()
						return false
					}
					distance = pc.distanceRange.Clamp(distance)
				}
				pc.relative = translationMatrix(unitOr(offset, vecY.Mul(-1)).Mul(distance))
			}

		} else {

			var objectMove mgl32.Vec3
			if pc.movesRelativeToObject {
				objectMove = transformDirection(followFrameCorrection, move)
			} else {
				worldMove := transformDirection(worldOrientation, move)
				objectMove = transformDirection(pc.FollowedOrientation().Transpose(), worldMove)
			}
			pc.relative = translationMatrix(translationOf(pc.relative).Add(objectMove))

		}

	}

	if !pc.transition {
		if !pc.applyConfines(orientationTarget) {
			log.Println("Warning: position left its confines; resetting it to its defaults")
			return false
		}
		pc.pruneFollowed(worldOrientation)
	}

	pc.world.invalidate()

	return true

}

// applyConfines clamps the relative position into its confinements, or resets the configuration and
// returns false if it is set to reset instead.
func (pc *PositionConfiguration) applyConfines(orientationTarget *mgl32.Vec3) bool {

	if pc.distanceRange != nil {

		if pc.Following() {

			offset := translationOf(pc.relative)
			if distance := offset.Len(); !pc.distanceRange.Contains(distance) {
				if pc.resetsWhenLeavingConfines {
					pc.ResetToDefaults()
					return false
				}
				pc.relative = translationMatrix(unitOr(offset, vecY.Mul(-1)).Mul(pc.distanceRange.Clamp(distance)))
			}

		} else if orientationTarget != nil {

			offset := translationOf(pc.relative).Sub(*orientationTarget)
			if distance := offset.Len(); !pc.distanceRange.Contains(distance) {
				if pc.resetsWhenLeavingConfines {
					panic("Error: position configuration left its distance confines around an orientation target, but has no absolute position it could reset to")
				}
				pc.relative = translationMatrix(orientationTarget.Add(unitOr(offset, vecZ).Mul(pc.distanceRange.Clamp(distance))))
			}

		}

	}

	for i, confine := range pc.confines {
		if confine == nil {
			continue
		}
		position := translationOf(pc.relative)
		if !confine.Contains(position[i]) {
			if pc.resetsWhenLeavingConfines {
				pc.ResetToDefaults()
				return false
			}
			position[i] = confine.Clamp(position[i])
			pc.relative = translationMatrix(position)
		}
	}

	return true

}

// pruneFollowed drops destroyed followed objects. Once none remain, the relative position is frozen at
// the last world position so the camera doesn't jump.
func (pc *PositionConfiguration) pruneFollowed(worldOrientation mgl32.Mat4) {

	alive := pc.followed[:0:0]
	for _, o := range pc.followed {
		if o.Alive() {
			alive = append(alive, o)
		}
	}

	if len(alive) == len(pc.followed) {
		return
	}

	if len(alive) == 0 {
		last := pc.lastWorld
		if !pc.hasLastWorld {
			last = pc.WorldPositionMatrix(worldOrientation)
		}
		pc.relative = last
		log.Println("Warning: every object followed by a position configuration was destroyed; keeping the camera at its last position")
	}

	pc.followed = alive
	pc.world.invalidate()

}
