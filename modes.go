package tetracam

import (
	"fmt"
	"strconv"
	"strings"
)

// PositionMode selects how a PositionConfiguration places the camera.
type PositionMode int

const (
	// PositionModeFixed keeps the camera at its relative position; it cannot be moved by input.
	// With followed objects the position still tracks them.
	PositionModeFixed PositionMode = iota
	// PositionModeFreeFly moves the camera freely in world space.
	PositionModeFreeFly
	// PositionModeRelativeFollow keeps the camera at an offset from the followed objects, expressed in
	// the frame of the first followed object.
	PositionModeRelativeFollow
	// PositionModeOrbitFollow keeps the camera at an offset from the followed objects that turns with the
	// camera's own orientation, so the camera circles around its targets.
	PositionModeOrbitFollow
)

var positionModeNames = map[PositionMode]string{
	PositionModeFixed:          "fixed",
	PositionModeFreeFly:        "free",
	PositionModeRelativeFollow: "relative",
	PositionModeOrbitFollow:    "orbit",
}

func (pm PositionMode) String() string {
	if name, ok := positionModeNames[pm]; ok {
		return name
	}
	return "PositionMode(" + strconv.Itoa(int(pm)) + ")"
}

// ParsePositionMode returns the PositionMode with the given name ("fixed", "free", "relative" or "orbit").
func ParsePositionMode(name string) (PositionMode, error) {
	for mode, n := range positionModeNames {
		if strings.EqualFold(n, name) {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("unknown position mode %q", name)
}

// OrientationMode selects how an OrientationConfiguration turns the camera.
type OrientationMode int

const (
	// OrientationModeFixed keeps the relative orientation; input cannot turn the camera.
	OrientationModeFixed OrientationMode = iota
	// OrientationModeFree turns the camera about its own axes.
	OrientationModeFree
	// OrientationModeFPS turns the camera through a yaw and a pitch angle, each kept within a range.
	OrientationModeFPS
	// OrientationModePointTowards keeps the camera looking at the followed objects.
	OrientationModePointTowards
	// OrientationModePointTowardsFPS keeps the camera looking at the followed objects, expressing the
	// direction as yaw and pitch angles against a base orientation.
	OrientationModePointTowardsFPS
)

var orientationModeNames = map[OrientationMode]string{
	OrientationModeFixed:           "fixed",
	OrientationModeFree:            "free",
	OrientationModeFPS:             "fps",
	OrientationModePointTowards:    "pointTowards",
	OrientationModePointTowardsFPS: "pointTowardsFPS",
}

func (om OrientationMode) String() string {
	if name, ok := orientationModeNames[om]; ok {
		return name
	}
	return "OrientationMode(" + strconv.Itoa(int(om)) + ")"
}

// ParseOrientationMode returns the OrientationMode with the given name, ignoring case.
func ParseOrientationMode(name string) (OrientationMode, error) {
	for mode, n := range orientationModeNames {
		if strings.EqualFold(n, name) {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("unknown orientation mode %q", name)
}

// pointsTowards returns whether the mode aims the camera at its followed objects.
func (om OrientationMode) pointsTowards() bool {
	return om == OrientationModePointTowards || om == OrientationModePointTowardsFPS
}

// usesAngles returns whether the relative orientation is driven by yaw and pitch angles.
func (om OrientationMode) usesAngles() bool {
	return om == OrientationModeFPS || om == OrientationModePointTowardsFPS
}

// BaseOrientation is the frame FPS angles are measured against when pointing towards objects.
type BaseOrientation int

const (
	// BaseOrientationWorld measures angles against the world axes (+Y forward, +Z up).
	BaseOrientationWorld BaseOrientation = iota
	// BaseOrientationPositionFollowedObjects measures angles against the first object followed by the position configuration.
	BaseOrientationPositionFollowedObjects
	// BaseOrientationOrientationFollowedObject measures angles against the first object followed by the orientation configuration.
	BaseOrientationOrientationFollowedObject
)

var baseOrientationNames = map[BaseOrientation]string{
	BaseOrientationWorld:                     "world",
	BaseOrientationPositionFollowedObjects:   "positionFollowedObjects",
	BaseOrientationOrientationFollowedObject: "orientationFollowedObject",
}

func (bo BaseOrientation) String() string {
	if name, ok := baseOrientationNames[bo]; ok {
		return name
	}
	return "BaseOrientation(" + strconv.Itoa(int(bo)) + ")"
}

// ParseBaseOrientation returns the BaseOrientation with the given name, ignoring case.
func ParseBaseOrientation(name string) (BaseOrientation, error) {
	for base, n := range baseOrientationNames {
		if strings.EqualFold(n, name) {
			return base, nil
		}
	}
	return 0, fmt.Errorf("unknown base orientation %q", name)
}

// PointToFallback decides what a point-towards orientation does once it has nothing left to point at.
type PointToFallback int

const (
	// PointToFallbackWorld keeps the last orientation as an absolute one that can still be turned.
	PointToFallbackWorld PointToFallback = iota
	// PointToFallbackStationary freezes the last orientation.
	PointToFallbackStationary
	// PointToFallbackPositionFollowedObjectOrWorld turns with the object followed by the position
	// configuration, or behaves like PointToFallbackWorld without one.
	PointToFallbackPositionFollowedObjectOrWorld
)

var pointToFallbackNames = map[PointToFallback]string{
	PointToFallbackWorld:                         "world",
	PointToFallbackStationary:                    "stationary",
	PointToFallbackPositionFollowedObjectOrWorld: "positionFollowedObjectOrWorld",
}

func (pf PointToFallback) String() string {
	if name, ok := pointToFallbackNames[pf]; ok {
		return name
	}
	return "PointToFallback(" + strconv.Itoa(int(pf)) + ")"
}

// ParsePointToFallback returns the PointToFallback with the given name, ignoring case.
func ParsePointToFallback(name string) (PointToFallback, error) {
	for fallback, n := range pointToFallbackNames {
		if strings.EqualFold(n, name) {
			return fallback, nil
		}
	}
	return 0, fmt.Errorf("unknown point-to fallback %q", name)
}
