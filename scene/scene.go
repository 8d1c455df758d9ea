// Package scene holds the scene graph (a root Hittable plus a camera
// descriptor), its flat DAG-preserving external encoding, and the
// line-oriented text format reader that builds one from a file.
package scene

import (
	"github.com/gazed/pathtrace/camera"
	"github.com/gazed/pathtrace/geom"
)

// Scene is a fully constructed scene graph ready to render: a root
// hittable (expected to be a BVH over the parsed object list) and the
// camera placement to render it from.
type Scene struct {
	Root   geom.Hittable
	Camera camera.Desc
}
