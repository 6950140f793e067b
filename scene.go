package tetracam

// ViewNavigator lets a camera cycle through the nodes it can focus on and the camera configurations it
// can switch to. Passing nil as current means "from the start": Next and Previous then both return the
// first element. They return nil when there is nothing to return.
type ViewNavigator interface {
	NextNode(current *SceneNode) *SceneNode
	PreviousNode(current *SceneNode) *SceneNode
	NextCameraConfiguration(current *CameraConfiguration) *CameraConfiguration
	PreviousCameraConfiguration(current *CameraConfiguration) *CameraConfiguration
}

// SceneNode is an object in a Scene a camera can focus on, with the camera configurations that go with it
// (a cockpit view, a chase view, and so on).
type SceneNode struct {
	name           string
	transform      *Transform
	configurations []*CameraConfiguration
}

// NewSceneNode creates a new SceneNode for the given Transform.
func NewSceneNode(name string, transform *Transform) *SceneNode {
	if transform == nil {
		panic("Error: scene node " + name + " needs a transform")
	}
	return &SceneNode{name: name, transform: transform}
}

// Name returns the node's name.
func (node *SceneNode) Name() string {
	return node.name
}

// Transform returns the node's Transform.
func (node *SceneNode) Transform() *Transform {
	return node.transform
}

// AddCameraConfigurations adds camera configurations to the node.
func (node *SceneNode) AddCameraConfigurations(configurations ...*CameraConfiguration) {
	node.configurations = append(node.configurations, configurations...)
}

// CameraConfigurations returns the node's camera configurations.
func (node *SceneNode) CameraConfigurations() []*CameraConfiguration {
	return append([]*CameraConfiguration(nil), node.configurations...)
}

// NextCameraConfiguration returns the configuration after current, wrapping around.
func (node *SceneNode) NextCameraConfiguration(current *CameraConfiguration) *CameraConfiguration {
	return cycle(node.configurations, current, 1, nil)
}

// PreviousCameraConfiguration returns the configuration before current, wrapping around.
func (node *SceneNode) PreviousCameraConfiguration(current *CameraConfiguration) *CameraConfiguration {
	return cycle(node.configurations, current, -1, nil)
}

// Scene holds the nodes a camera can focus on, and camera configurations that don't belong to any node.
// Scene implements ViewNavigator.
type Scene struct {
	Name           string
	nodes          []*SceneNode
	configurations []*CameraConfiguration
}

// NewScene creates a new, empty Scene.
func NewScene(name string) *Scene {
	return &Scene{Name: name}
}

// AddNodes adds nodes to the Scene.
func (scene *Scene) AddNodes(nodes ...*SceneNode) {
	scene.nodes = append(scene.nodes, nodes...)
}

// RemoveNodes removes nodes from the Scene.
func (scene *Scene) RemoveNodes(nodes ...*SceneNode) {
	for _, node := range nodes {
		for i, n := range scene.nodes {
			if n == node {
				scene.nodes = append(scene.nodes[:i], scene.nodes[i+1:]...)
				break
			}
		}
	}
}

// Nodes returns the Scene's nodes.
func (scene *Scene) Nodes() []*SceneNode {
	return append([]*SceneNode(nil), scene.nodes...)
}

// FindNode returns the node with the given name, or nil if there is none.
func (scene *Scene) FindNode(name string) *SceneNode {
	for _, node := range scene.nodes {
		if node.name == name {
			return node
		}
	}
	return nil
}

// AddCameraConfigurations adds scene-wide camera configurations.
func (scene *Scene) AddCameraConfigurations(configurations ...*CameraConfiguration) {
	scene.configurations = append(scene.configurations, configurations...)
}

// CameraConfigurations returns the scene-wide camera configurations.
func (scene *Scene) CameraConfigurations() []*CameraConfiguration {
	return append([]*CameraConfiguration(nil), scene.configurations...)
}

// NextNode returns the node after current, wrapping around and skipping nodes whose Transform was destroyed.
func (scene *Scene) NextNode(current *SceneNode) *SceneNode {
	return cycle(scene.nodes, current, 1, nodeAlive)
}

// PreviousNode returns the node before current, wrapping around and skipping nodes whose Transform was destroyed.
func (scene *Scene) PreviousNode(current *SceneNode) *SceneNode {
	return cycle(scene.nodes, current, -1, nodeAlive)
}

// NextCameraConfiguration returns the scene-wide configuration after current, wrapping around.
func (scene *Scene) NextCameraConfiguration(current *CameraConfiguration) *CameraConfiguration {
	return cycle(scene.configurations, current, 1, nil)
}

// PreviousCameraConfiguration returns the scene-wide configuration before current, wrapping around.
func (scene *Scene) PreviousCameraConfiguration(current *CameraConfiguration) *CameraConfiguration {
	return cycle(scene.configurations, current, -1, nil)
}

// MarkFrameBoundary invalidates the cached matrices of every node's Transform.
func (scene *Scene) MarkFrameBoundary() {
	for _, node := range scene.nodes {
		node.transform.MarkFrameBoundary()
	}
}

func nodeAlive(node *SceneNode) bool {
	return node.transform.Alive()
}

// cycle returns the element step places away from current in list, wrapping around. A current that is
// nil or not in the list yields the first usable element. Elements rejected by usable are skipped.
func cycle[T comparable](list []T, current T, step int, usable func(T) bool) T {

	var zero T

	if len(list) == 0 {
		return zero
	}

	start := -1
	if current != zero {
		for i, e := range list {
			if e == current {
				start = i
				break
			}
		}
	}

	if start < 0 {
		for _, e := range list {
			if usable == nil || usable(e) {
				return e
			}
		}
		return zero
	}

	for n := 1; n <= len(list); n++ {
		i := ((start+step*n)%len(list) + len(list)) % len(list)
		if usable == nil || usable(list[i]) {
			return list[i]
		}
	}

	return zero

}
