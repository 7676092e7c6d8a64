package entity

import "github.com/go-gl/mathgl/mgl64"

// Unbounded as a view radius makes the entity visible to every viewer in
// its world regardless of distance.
const Unbounded = -1.0

// DefaultViewRadius is used when no radius option is given.
const DefaultViewRadius = 64.0

// World is a handle to a host world. Handles are compared by identity, so
// implementations should be pointer types.
type World interface {
	Name() string
}

// ShouldSee reports whether a viewer at eye in viewerWorld is close enough
// to an entity at pos in entityWorld. radius must be non-negative; callers
// handle Unbounded before calling.
func ShouldSee(entityWorld World, pos mgl64.Vec3, radius float64, viewerWorld World, eye mgl64.Vec3) bool {
	if entityWorld != viewerWorld {
		return false
	}
	d := pos.Sub(eye)
	return d.Dot(d) <= radius*radius
}
