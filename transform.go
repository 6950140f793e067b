package tetracam

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Followable is anything a camera configuration can follow: it exposes a world-space placement and
// reports whether it still exists. Transform implements Followable.
type Followable interface {
	// WorldPosition returns the object's position in world space.
	WorldPosition() mgl32.Vec3
	// WorldOrientation returns the object's rotation in world space as a 4x4 matrix without translation.
	// Followable objects face +Y with +Z up.
	WorldOrientation() mgl32.Mat4
	// WorldScale returns the accumulated scale of the object along its local axes.
	WorldScale() mgl32.Vec3
	// Alive returns false once the object has been destroyed; configurations drop dead objects on their next update.
	Alive() bool
}

// Transform is a node in a scene hierarchy holding a local position, orientation and scaling relative to
// its parent. World-space results are computed lazily and cached until something they depend on changes.
//
// A Transform does not own its parent: the parent pointer is a plain back-reference, while a parent keeps
// its children in a slice.
type Transform struct {
	name string

	position    mgl32.Mat4
	orientation mgl32.Mat4
	scaling     mgl32.Mat4
	size        float32

	parent    *Transform
	children  []*Transform
	destroyed bool

	cascadeScaling   cached[mgl32.Mat4]
	modelMatrix      cached[mgl32.Mat4]
	inverseModel     cached[mgl32.Mat4]
	worldOrientation cached[mgl32.Mat4]
}

// NewTransform returns a new Transform with an identity placement and a nominal size of 1.
func NewTransform(name string) *Transform {
	return &Transform{
		name:        name,
		position:    mgl32.Ident4(),
		orientation: mgl32.Ident4(),
		scaling:     mgl32.Ident4(),
		size:        1,
	}
}

// Name returns the Transform's name.
func (t *Transform) Name() string {
	return t.name
}

// SetName sets the Transform's name.
func (t *Transform) SetName(name string) {
	t.name = name
}

// LocalPosition returns the position of the Transform relative to its parent.
func (t *Transform) LocalPosition() mgl32.Vec3 {
	return translationOf(t.position)
}

// SetLocalPosition sets the position of the Transform relative to its parent.
func (t *Transform) SetLocalPosition(x, y, z float32) {
	t.SetLocalPositionVec(mgl32.Vec3{x, y, z})
}

// SetLocalPositionVec sets the position of the Transform relative to its parent using the provided vector.
func (t *Transform) SetLocalPositionVec(position mgl32.Vec3) {
	t.position = translationMatrix(position)
	t.invalidate(false)
}

// Move moves the Transform by the given amounts, expressed in its parent's space.
func (t *Transform) Move(x, y, z float32) {
	t.SetLocalPositionVec(t.LocalPosition().Add(mgl32.Vec3{x, y, z}))
}

// LocalOrientation returns the rotation of the Transform relative to its parent.
func (t *Transform) LocalOrientation() mgl32.Mat4 {
	return t.orientation
}

// SetLocalOrientation sets the rotation of the Transform relative to its parent. Any translation
// held by the matrix is discarded.
func (t *Transform) SetLocalOrientation(orientation mgl32.Mat4) {
	t.orientation = rotationOf(orientation)
	t.invalidate(false)
}

// Rotate rotates the Transform about one of its own local axes by the given angle in radians.
func (t *Transform) Rotate(axis mgl32.Vec3, angle float32) {
	t.SetLocalOrientation(t.orientation.Mul4(mgl32.HomogRotate3D(angle, unitOr(axis, vecZ))))
}

// LocalScale returns the scale of the Transform relative to its parent.
func (t *Transform) LocalScale() mgl32.Vec3 {
	return t.scaling.Diag().Vec3()
}

// SetLocalScale sets the scale of the Transform relative to its parent.
func (t *Transform) SetLocalScale(x, y, z float32) {
	t.scaling = mgl32.Scale3D(x, y, z)
	t.invalidate(true)
}

// Size returns the nominal size of the Transform, before any scaling.
func (t *Transform) Size() float32 {
	return t.size
}

// SetSize sets the nominal size of the Transform.
func (t *Transform) SetSize(size float32) {
	t.size = size
}

// VisibleSize returns the nominal size multiplied by the largest component of the world scale.
func (t *Transform) VisibleSize() float32 {
	s := t.WorldScale()
	largest := s.X()
	if s.Y() > largest {
		largest = s.Y()
	}
	if s.Z() > largest {
		largest = s.Z()
	}
	return t.size * largest
}

// Parent returns the Transform's parent, or nil if it has none.
func (t *Transform) Parent() *Transform {
	return t.parent
}

// Children returns the Transform's direct children.
func (t *Transform) Children() []*Transform {
	return append([]*Transform(nil), t.children...)
}

// AddChildren parents the provided Transforms to t. Children already parented elsewhere are unparented first.
// Local placement is kept as-is, so children move into t's space.
func (t *Transform) AddChildren(children ...*Transform) {
	for _, child := range children {
		if child == t {
			panic("Error: a Transform cannot be its own child")
		}
		for p := t.parent; p != nil; p = p.parent {
			if p == child {
				panic("Error: cannot parent " + child.name + " to its own descendant " + t.name)
			}
		}
		child.Unparent()
		child.parent = t
		t.children = append(t.children, child)
		child.invalidate(true)
	}
}

// RemoveChildren unparents the provided Transforms from t. Transforms that aren't children of t are ignored.
func (t *Transform) RemoveChildren(children ...*Transform) {
	for _, child := range children {
		for i, c := range t.children {
			if c == child {
				t.children = append(t.children[:i], t.children[i+1:]...)
				child.parent = nil
				child.invalidate(true)
				break
			}
		}
	}
}

// Unparent removes the Transform from its parent, if it has one.
func (t *Transform) Unparent() {
	if t.parent != nil {
		t.parent.RemoveChildren(t)
	}
}

// invalidate drops the cached world-space matrices of t and of every descendant.
func (t *Transform) invalidate(scaling bool) {
	if scaling {
		t.cascadeScaling.invalidate()
	}
	t.modelMatrix.invalidate()
	t.inverseModel.invalidate()
	t.worldOrientation.invalidate()
	for _, child := range t.children {
		child.invalidate(scaling)
	}
}

// MarkFrameBoundary invalidates all cached matrices of the Transform and its descendants.
// Call it once per frame when Transforms may have been driven by something outside of their setters.
func (t *Transform) MarkFrameBoundary() {
	t.invalidate(true)
}

// CascadeScaling returns the scaling of the Transform multiplied by the scaling of all of its parents.
func (t *Transform) CascadeScaling() mgl32.Mat4 {
	return t.cascadeScaling.get(func() mgl32.Mat4 {
		if t.parent == nil {
			return t.scaling
		}
		return t.parent.CascadeScaling().Mul4(t.scaling)
	})
}

// ModelMatrix returns the full world transform of the Transform: T * R * S, premultiplied by the parent's model matrix.
func (t *Transform) ModelMatrix() mgl32.Mat4 {
	return t.modelMatrix.get(func() mgl32.Mat4 {
		local := t.position.Mul4(t.orientation).Mul4(t.scaling)
		if t.parent == nil {
			return local
		}
		return t.parent.ModelMatrix().Mul4(local)
	})
}

// InverseModelMatrix returns the inverse of ModelMatrix.
func (t *Transform) InverseModelMatrix() mgl32.Mat4 {
	return t.inverseModel.get(func() mgl32.Mat4 {
		return t.ModelMatrix().Inv()
	})
}

// WorldPosition returns the Transform's position in world space.
func (t *Transform) WorldPosition() mgl32.Vec3 {
	return translationOf(t.ModelMatrix())
}

// WorldOrientation returns the Transform's rotation in world space, unaffected by scaling.
func (t *Transform) WorldOrientation() mgl32.Mat4 {
	return t.worldOrientation.get(func() mgl32.Mat4 {
		if t.parent == nil {
			return t.orientation
		}
		return t.parent.WorldOrientation().Mul4(t.orientation)
	})
}

// WorldScale returns the diagonal of CascadeScaling.
func (t *Transform) WorldScale() mgl32.Vec3 {
	return t.CascadeScaling().Diag().Vec3()
}

// Destroy marks the Transform and all of its descendants as destroyed and unparents it.
// Configurations following a destroyed Transform let go of it on their next update.
func (t *Transform) Destroy() {
	t.Unparent()
	t.markDestroyed()
}

func (t *Transform) markDestroyed() {
	t.destroyed = true
	for _, child := range t.children {
		child.markDestroyed()
	}
}

// Alive returns whether the Transform has not been destroyed.
func (t *Transform) Alive() bool {
	return !t.destroyed
}

// HierarchyAsString returns a string displaying the hierarchy of the Transform and all of its recursive children.
func (t *Transform) HierarchyAsString() string {
	var sb strings.Builder
	var write func(node *Transform, level int)
	write = func(node *Transform, level int) {
		sb.WriteString(strings.Repeat("    ", level))
		sb.WriteString("\\-: " + node.name)
		if node.destroyed {
			sb.WriteString(" (destroyed)")
		}
		sb.WriteString("\n")
		for _, child := range node.children {
			write(child, level+1)
		}
	}
	write(t, 0)
	return sb.String()
}
