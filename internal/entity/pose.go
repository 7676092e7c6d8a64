package entity

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/OCharnyshevich/fakeentity/internal/metadata"
)

// Pose is an entity's logical position and orientation in degrees.
type Pose struct {
	Position  mgl64.Vec3
	Yaw       float32
	Pitch     float32
	HeadPitch float32
}

// Offset is a display displacement added to a pose when encoding.
type Offset struct {
	Position mgl64.Vec3
	Yaw      float32
	Pitch    float32
}

// Apply returns the pose as it is sent on the wire.
func (o Offset) Apply(p Pose) Pose {
	p.Position = p.Position.Add(o.Position)
	p.Yaw += o.Yaw
	p.Pitch += o.Pitch
	return p
}

// Kind is the per-kind strategy an entity is built from.
type Kind struct {
	Schema   *metadata.Schema
	Offset   Offset
	Renderer Renderer
}

// KindOf builds a Kind from a schema, taking the schema's declared offset
// and the default renderer.
func KindOf(s *metadata.Schema) Kind {
	return Kind{
		Schema: s,
		Offset: Offset{
			Position: mgl64.Vec3(s.Offset.Position),
			Yaw:      s.Offset.Yaw,
			Pitch:    s.Offset.Pitch,
		},
		Renderer: DefaultRenderer{},
	}
}
