package tetracam

import (
	"log"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// Default ranges for FPS angles, in degrees.
var (
	DefaultAlphaRange = Range{Min: -360, Max: 360}
	DefaultBetaRange  = Range{Min: -90, Max: 90}
)

// OrientationConfiguration computes the world orientation of a camera from a relative orientation and the
// objects it follows. The camera looks down its local -Z axis with +Y up; followed objects face +Y with +Z
// up, so relative orientations of following configurations are expressed as if the object's frame were a
// camera frame looking forward.
type OrientationConfiguration struct {
	mode                   OrientationMode
	defaultMode            OrientationMode
	baseOrientation        BaseOrientation
	pointToFallback        PointToFallback
	defaultPointToFallback PointToFallback
	transition             bool

	followed []Followable

	relative        mgl32.Mat4
	defaultRelative mgl32.Mat4

	alpha, beta               float32
	defaultAlpha, defaultBeta float32
	alphaRange, betaRange     Range
	alphaNudge, betaNudge     float32 // Input added on top of the angles point-towards FPS solves for.

	// Set once the relative orientation is expressed against the position-followed object.
	relativeToPositionFollowed bool

	world            cached[mgl32.Mat4]
	worldPosition    mgl32.Vec3 // The inputs the cached world matrix was computed with.
	positionFollowed Followable
	lastWorld        mgl32.Mat4
	hasLastWorld     bool
}

// OrientationOption customizes an OrientationConfiguration on creation.
type OrientationOption func(oc *OrientationConfiguration)

// WithOrientationFollowing makes the configuration follow the given objects.
func WithOrientationFollowing(objects ...Followable) OrientationOption {
	return func(oc *OrientationConfiguration) {
		oc.followed = append(oc.followed, objects...)
	}
}

// WithFPSAngles sets the starting yaw (alpha) and pitch (beta), in degrees, of FPS orientations.
func WithFPSAngles(alpha, beta float32) OrientationOption {
	return func(oc *OrientationConfiguration) {
		oc.alpha = alpha
		oc.beta = beta
	}
}

// WithAlphaRange limits the FPS yaw to [min, max] degrees.
func WithAlphaRange(min, max float32) OrientationOption {
	return func(oc *OrientationConfiguration) {
		oc.alphaRange = NewRange(min, max)
	}
}

// WithBetaRange limits the FPS pitch to [min, max] degrees.
func WithBetaRange(min, max float32) OrientationOption {
	return func(oc *OrientationConfiguration) {
		oc.betaRange = NewRange(min, max)
	}
}

// WithBaseOrientation sets the frame point-towards FPS angles are measured against.
func WithBaseOrientation(base BaseOrientation) OrientationOption {
	return func(oc *OrientationConfiguration) {
		oc.baseOrientation = base
	}
}

// WithPointToFallback sets what a point-towards orientation does with nothing to point at.
func WithPointToFallback(fallback PointToFallback) OrientationOption {
	return func(oc *OrientationConfiguration) {
		oc.pointToFallback = fallback
	}
}

func asTransitionOrientation() OrientationOption {
	return func(oc *OrientationConfiguration) {
		oc.transition = true
	}
}

// NewOrientationConfiguration creates a new OrientationConfiguration in the given mode. relative is the
// starting (and default) relative orientation; for FPS modes it is ignored in favor of the FPS angles.
func NewOrientationConfiguration(mode OrientationMode, relative mgl32.Mat4, options ...OrientationOption) *OrientationConfiguration {

	if _, ok := orientationModeNames[mode]; !ok {
		panic("Error: unknown orientation mode " + mode.String())
	}

	oc := &OrientationConfiguration{
		mode:        mode,
		defaultMode: mode,
		relative:    rotationOf(relative),
		alphaRange:  DefaultAlphaRange,
		betaRange:   DefaultBetaRange,
	}

	for _, option := range options {
		option(oc)
	}

	if _, ok := baseOrientationNames[oc.baseOrientation]; !ok {
		panic("Error: unknown base orientation " + oc.baseOrientation.String())
	}
	if _, ok := pointToFallbackNames[oc.pointToFallback]; !ok {
		panic("Error: unknown point-to fallback " + oc.pointToFallback.String())
	}

	if mode.usesAngles() {
		oc.alpha = oc.alphaRange.Clamp(wrapDegrees(oc.alpha))
		oc.beta = oc.betaRange.Clamp(wrapDegrees(oc.beta))
		oc.relative = fpsRotation(oc.alpha, oc.beta)
	}

	oc.defaultRelative = oc.relative
	oc.defaultAlpha = oc.alpha
	oc.defaultBeta = oc.beta
	oc.defaultPointToFallback = oc.pointToFallback

	return oc

}

// Mode returns the configuration's current OrientationMode. An FPS configuration that lost the objects it
// followed becomes a free one until it is reset.
func (oc *OrientationConfiguration) Mode() OrientationMode {
	return oc.mode
}

// BaseOrientation returns the frame point-towards FPS angles are measured against.
func (oc *OrientationConfiguration) BaseOrientation() BaseOrientation {
	return oc.baseOrientation
}

// PointToFallback returns what the configuration does when it has nothing to point at.
func (oc *OrientationConfiguration) PointToFallback() PointToFallback {
	return oc.pointToFallback
}

// FollowedObjects returns the objects the configuration currently follows.
func (oc *OrientationConfiguration) FollowedObjects() []Followable {
	return append([]Followable(nil), oc.followed...)
}

// Following returns whether the configuration currently follows any objects.
func (oc *OrientationConfiguration) Following() bool {
	return len(oc.followed) > 0
}

// SetFollowedObjects replaces the followed objects, keeping the relative orientation.
func (oc *OrientationConfiguration) SetFollowedObjects(objects ...Followable) {
	oc.followed = append([]Followable(nil), objects...)
	oc.world.invalidate()
}

// FollowedPosition returns the arithmetic mean of the world positions of the followed objects.
// It panics when nothing is followed.
func (oc *OrientationConfiguration) FollowedPosition() mgl32.Vec3 {
	if len(oc.followed) == 0 {
		panic("Error: orientation configuration has no followed objects to take a position from")
	}
	sum := mgl32.Vec3{}
	for _, o := range oc.followed {
		sum = sum.Add(o.WorldPosition())
	}
	return sum.Mul(1 / float32(len(oc.followed)))
}

// FollowedOrientation returns the world orientation of the first followed object.
// It panics when nothing is followed.
func (oc *OrientationConfiguration) FollowedOrientation() mgl32.Mat4 {
	if len(oc.followed) == 0 {
		panic("Error: orientation configuration has no followed objects to take an orientation from")
	}
	return rotationOf(oc.followed[0].WorldOrientation())
}

// followedPositionRef returns the followed position, or nil when nothing is followed.
func (oc *OrientationConfiguration) followedPositionRef() *mgl32.Vec3 {
	if !oc.Following() {
		return nil
	}
	p := oc.FollowedPosition()
	return &p
}

// RelativeOrientation returns the relative orientation matrix.
func (oc *OrientationConfiguration) RelativeOrientation() mgl32.Mat4 {
	return oc.relative
}

// SetRelativeOrientation sets the relative orientation matrix. For FPS modes, use SetFPSAngles instead.
func (oc *OrientationConfiguration) SetRelativeOrientation(orientation mgl32.Mat4) {
	oc.relative = rotationOf(orientation)
	oc.world.invalidate()
}

// FPSAngles returns the current yaw (alpha) and pitch (beta), in degrees.
func (oc *OrientationConfiguration) FPSAngles() (alpha, beta float32) {
	return oc.alpha, oc.beta
}

// SetFPSAngles sets the yaw and pitch, wrapping and clamping them into their ranges.
func (oc *OrientationConfiguration) SetFPSAngles(alpha, beta float32) {
	oc.alpha = oc.alphaRange.Clamp(wrapDegrees(alpha))
	oc.beta = oc.betaRange.Clamp(wrapDegrees(beta))
	oc.relative = fpsRotation(oc.alpha, oc.beta)
	oc.world.invalidate()
}

// AlphaRange returns the allowed range of the FPS yaw.
func (oc *OrientationConfiguration) AlphaRange() Range {
	return oc.alphaRange
}

// BetaRange returns the allowed range of the FPS pitch.
func (oc *OrientationConfiguration) BetaRange() Range {
	return oc.betaRange
}

// ResetToDefaults restores the mode, relative orientation and FPS angles the configuration was created with.
func (oc *OrientationConfiguration) ResetToDefaults() {
	oc.mode = oc.defaultMode
	oc.relative = oc.defaultRelative
	oc.alpha = oc.defaultAlpha
	oc.beta = oc.defaultBeta
	oc.alphaNudge, oc.betaNudge = 0, 0
	oc.pointToFallback = oc.defaultPointToFallback
	oc.relativeToPositionFollowed = false
	oc.world.invalidate()
}

// Copy returns an independent copy of the configuration, following the same objects.
func (oc *OrientationConfiguration) Copy() *OrientationConfiguration {
	newOC := *oc
	newOC.followed = append([]Followable(nil), oc.followed...)
	newOC.world.invalidate()
	return &newOC
}

// Update turns the camera by angularVelocity (degrees per second; X pitch, Y yaw, Z roll) over dt. Fixed
// orientations ignore the input but still track and prune the objects they follow.
// It always returns true; the result mirrors PositionConfiguration.Update.
func (oc *OrientationConfiguration) Update(angularVelocity mgl32.Vec3, dt time.Duration) bool {

	if oc.mode.pointsTowards() && !oc.Following() && oc.pointToFallback == PointToFallbackStationary {
		return true
	}

	turn := angularVelocity.Mul(float32(dt.Seconds()))

	switch oc.mode {
	case OrientationModeFixed:
	case OrientationModePointTowardsFPS:
		if oc.Following() {
			pitchSpan := oc.betaRange.Max - oc.betaRange.Min
			oc.alphaNudge = wrapDegrees(oc.alphaNudge + turn.Y())
			oc.betaNudge = clamp(oc.betaNudge+turn.X(), -pitchSpan, pitchSpan)
			break
		}
		fallthrough
	case OrientationModeFPS:
		oc.alpha = oc.alphaRange.Clamp(wrapDegrees(oc.alpha + turn.Y()))
		oc.beta = oc.betaRange.Clamp(wrapDegrees(oc.beta + turn.X()))
		oc.relative = fpsRotation(oc.alpha, oc.beta)
	case OrientationModeFree, OrientationModePointTowards:
		oc.relative = oc.turn(turn)
	default:
		panic("Error: unknown orientation mode " + oc.mode.String())
	}

	if !oc.transition {
		oc.pruneFollowed()
	}

	oc.world.invalidate()

	return true

}

// turn applies pitch, yaw and roll increments (in degrees) to the relative orientation. Pitch and roll
// always turn about the camera's own X and Z axes. Yaw turns about the camera's own Y axis, except when
// following objects, where it turns about the followed frame's up axis so the horizon stays level.
func (oc *OrientationConfiguration) turn(degrees mgl32.Vec3) mgl32.Mat4 {

	if degrees == (mgl32.Vec3{}) {
		return oc.relative
	}

	relative := oc.relative

	if oc.Following() {
		relative = rotationDegrees(vecY, degrees.Y()).Mul4(relative)
	} else {
		relative = relative.Mul4(rotationDegrees(vecY, degrees.Y()))
	}

	relative = relative.Mul4(rotationDegrees(vecX, degrees.X()))
	relative = relative.Mul4(rotationDegrees(vecZ, degrees.Z()))

	return orthonormalized(relative)

}

// pruneFollowed drops destroyed followed objects. Once none remain, the last world orientation is taken
// over as an absolute one; point-towards modes keep pointing the way their fallback dictates.
func (oc *OrientationConfiguration) pruneFollowed() {

	alive := oc.followed[:0:0]
	for _, o := range oc.followed {
		if o.Alive() {
			alive = append(alive, o)
		}
	}

	if len(alive) == len(oc.followed) {
		return
	}

	if len(alive) == 0 {

		last := oc.lastWorld
		if !oc.hasLastWorld {
			last = oc.WorldOrientationMatrix(mgl32.Vec3{}, nil)
		}

		oc.alphaNudge, oc.betaNudge = 0, 0

		switch oc.mode {

		case OrientationModePointTowards, OrientationModePointTowardsFPS:
			switch oc.pointToFallback {
			case PointToFallbackWorld, PointToFallbackStationary:
				oc.takeOverAbsolute(last)
			case PointToFallbackPositionFollowedObjectOrWorld:
				if oc.positionFollowed != nil && oc.positionFollowed.Alive() {
					// Keep the same world orientation, now expressed against the position-followed object.
					base := rotationOf(oc.positionFollowed.WorldOrientation()).Mul4(followFrameCorrection)
					oc.mode = OrientationModePointTowards
					oc.relative = base.Transpose().Mul4(last)
					oc.relativeToPositionFollowed = true
				} else {
					oc.takeOverAbsolute(last)
				}
			default:
				panic("Error: unknown point-to fallback " + oc.pointToFallback.String())
			}

		case OrientationModeFPS:
			oc.mode = OrientationModeFree
			oc.relative = last

		default:
			oc.relative = last

		}

		log.Println("Warning: every object followed by an orientation configuration was destroyed; keeping the camera's last orientation")

	}

	oc.followed = alive
	oc.world.invalidate()

}

// takeOverAbsolute makes a point-towards configuration keep the given world orientation once it has
// nothing to point at. FPS angles measured against the world carry over as they are; against any other
// base they lose their meaning, so the configuration stops using angles.
func (oc *OrientationConfiguration) takeOverAbsolute(world mgl32.Mat4) {
	if oc.mode == OrientationModePointTowardsFPS {
		if oc.baseOrientation == BaseOrientationWorld {
			oc.relative = fpsRotation(oc.alpha, oc.beta)
			return
		}
		oc.mode = OrientationModePointTowards
	}
	oc.relative = world
}

// absolute returns the world orientation of a configuration that follows nothing.
func (oc *OrientationConfiguration) absolute() mgl32.Mat4 {
	if oc.mode.usesAngles() {
		return followFrameCorrection.Mul4(oc.relative)
	}
	return oc.relative
}

// WorldOrientationMatrix returns the camera's world orientation. worldPosition is the camera's world
// position, used to aim point-towards modes, and positionFollowed is the first object followed by the
// position configuration, or nil.
func (oc *OrientationConfiguration) WorldOrientationMatrix(worldPosition mgl32.Vec3, positionFollowed Followable) mgl32.Mat4 {

	if worldPosition != oc.worldPosition || positionFollowed != oc.positionFollowed {
		oc.world.invalidate()
	}

	return oc.world.get(func() mgl32.Mat4 {

		oc.worldPosition = worldPosition
		oc.positionFollowed = positionFollowed

		var world mgl32.Mat4

		switch {

		case !oc.Following() && !oc.mode.pointsTowards():
			world = oc.absolute()

		case !oc.Following():
			switch oc.pointToFallback {
			case PointToFallbackWorld, PointToFallbackStationary:
				world = oc.absolute()
			case PointToFallbackPositionFollowedObjectOrWorld:
				if oc.relativeToPositionFollowed && (positionFollowed == nil || !positionFollowed.Alive()) {
					oc.releasePositionFollowed()
				}
				if positionFollowed != nil && oc.pointToFallback == PointToFallbackPositionFollowedObjectOrWorld {
					world = rotationOf(positionFollowed.WorldOrientation()).Mul4(followFrameCorrection).Mul4(oc.relative)
				} else {
					world = oc.absolute()
				}
			default:
				panic("Error: unknown point-to fallback " + oc.pointToFallback.String())
			}

		case oc.mode == OrientationModePointTowards:
			world = oc.pointTowards(worldPosition)

		case oc.mode == OrientationModePointTowardsFPS:
			world = oc.pointTowardsFPS(worldPosition, positionFollowed)

		default:
			world = oc.FollowedOrientation().Mul4(followFrameCorrection).Mul4(oc.relative)

		}

		oc.lastWorld = world
		oc.hasLastWorld = true
		return world

	})

}

// releasePositionFollowed keeps the last world orientation once the position-followed object the relative
// orientation was expressed against is gone, and falls back to the world from then on.
func (oc *OrientationConfiguration) releasePositionFollowed() {
	if oc.hasLastWorld {
		oc.relative = oc.lastWorld
	}
	oc.pointToFallback = PointToFallbackWorld
	oc.relativeToPositionFollowed = false
}

// pointTowards aims the camera at the followed objects, keeping the previous up axis as a reference so
// the basis does not flip. The result is stored as the relative orientation, so roll input still applies.
func (oc *OrientationConfiguration) pointTowards(worldPosition mgl32.Vec3) mgl32.Mat4 {
	direction := oc.FollowedPosition().Sub(worldPosition)
	if direction.Len() < degenerateEpsilon {
		return oc.relative
	}
	oc.relative = lookTowards(direction, localAxis(oc.relative, 1), localAxis(oc.relative, 0))
	return oc.relative
}

// pointTowardsFPS aims the camera at the followed objects by solving for FPS angles against the base
// orientation. Angular input accumulated by Update is added on top of the solved angles, so the view can
// still be nudged away from the target.
func (oc *OrientationConfiguration) pointTowardsFPS(worldPosition mgl32.Vec3, positionFollowed Followable) mgl32.Mat4 {

	var base mgl32.Mat4

	switch oc.baseOrientation {
	case BaseOrientationWorld:
		base = mgl32.Ident4()
	case BaseOrientationPositionFollowedObjects:
		if positionFollowed != nil {
			base = rotationOf(positionFollowed.WorldOrientation())
		} else {
			base = mgl32.Ident4()
		}
	case BaseOrientationOrientationFollowedObject:
		base = oc.FollowedOrientation()
	default:
		panic("Error: unknown base orientation " + oc.baseOrientation.String())
	}

	direction := oc.FollowedPosition().Sub(worldPosition)
	if direction.Len() >= degenerateEpsilon {
		alpha, beta := fpsAnglesTowards(transformDirection(base.Transpose(), direction))
		oc.alpha = oc.alphaRange.Clamp(wrapDegrees(alpha + oc.alphaNudge))
		oc.beta = oc.betaRange.Clamp(beta + oc.betaNudge)
		oc.relative = fpsRotation(oc.alpha, oc.beta)
	}

	return base.Mul4(followFrameCorrection).Mul4(oc.relative)

}
