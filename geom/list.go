package geom

import "github.com/gazed/pathtrace/vec"

// List is a flat Hittable that checks every member by brute force. The
// scene reader uses an empty List as the root of a scene with no objects.
type List struct {
	Objects []Hittable
}

// NewList returns a List wrapping the given objects.
func NewList(objects ...Hittable) *List { return &List{Objects: objects} }

// Add appends h to the list.
func (l *List) Add(h Hittable) { l.Objects = append(l.Objects, h) }

// Hit implements Hittable: it checks every object and keeps the closest.
func (l *List) Hit(r vec.Ray, tRange vec.Interval, rec *HitRecord) bool {
	var tmp HitRecord
	hitAnything := false
	closest := tRange.Max
	for _, obj := range l.Objects {
		if obj.Hit(r, vec.NewInterval(tRange.Min, closest), &tmp) {
			hitAnything = true
			closest = tmp.T
			*rec = tmp
		}
	}
	return hitAnything
}

// BoundingBox implements Hittable: the union of every member's box.
func (l *List) BoundingBox() AABB {
	box := Empty
	for _, obj := range l.Objects {
		box = Union(box, obj.BoundingBox())
	}
	return box
}
