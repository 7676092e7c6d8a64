package entity

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/OCharnyshevich/fakeentity/internal/metadata"
)

type testWorld struct{ name string }

func (w *testWorld) Name() string { return w.name }

type testViewer struct {
	id    uuid.UUID
	world World
	eye   mgl64.Vec3
}

func newViewer(w World, x, y, z float64) *testViewer {
	return &testViewer{id: uuid.New(), world: w, eye: mgl64.Vec3{x, y, z}}
}

func (v *testViewer) UUID() uuid.UUID         { return v.id }
func (v *testViewer) World() World            { return v.world }
func (v *testViewer) EyePosition() mgl64.Vec3 { return v.eye }

type counter struct{ next int32 }

func (c *counter) AllocateEntityID() int32 {
	c.next++
	return c.next
}

type sentIntent struct {
	viewer uuid.UUID
	intent any
}

// recorder is a Transport that keeps every intent in send order.
type recorder struct {
	sent []sentIntent
}

func (r *recorder) add(v Viewer, intent any) {
	r.sent = append(r.sent, sentIntent{viewer: v.UUID(), intent: intent})
}

func (r *recorder) SendSpawn(v Viewer, s Spawn)                             { r.add(v, s) }
func (r *recorder) SendDestroy(v Viewer, d Destroy)                         { r.add(v, d) }
func (r *recorder) SendRelativeMove(v Viewer, m RelativeMove)               { r.add(v, m) }
func (r *recorder) SendRelativeMoveAndLook(v Viewer, m RelativeMoveAndLook) { r.add(v, m) }
func (r *recorder) SendLook(v Viewer, l Look)                               { r.add(v, l) }
func (r *recorder) SendHeadRotation(v Viewer, h HeadRotation)               { r.add(v, h) }
func (r *recorder) SendTeleport(v Viewer, t Teleport)                       { r.add(v, t) }
func (r *recorder) SendVelocity(v Viewer, vel Velocity)                     { r.add(v, vel) }
func (r *recorder) SendMetadataUpdate(v Viewer, m MetadataUpdate)           { r.add(v, m) }
func (r *recorder) SendEquipment(v Viewer, e Equipment)                     { r.add(v, e) }

func (r *recorder) reset() { r.sent = nil }

func (r *recorder) types() []string {
	out := make([]string, len(r.sent))
	for i, s := range r.sent {
		switch s.intent.(type) {
		case Spawn:
			out[i] = "spawn"
		case Destroy:
			out[i] = "destroy"
		case RelativeMove:
			out[i] = "move"
		case RelativeMoveAndLook:
			out[i] = "move_look"
		case Look:
			out[i] = "look"
		case HeadRotation:
			out[i] = "head"
		case Teleport:
			out[i] = "teleport"
		case Velocity:
			out[i] = "velocity"
		case MetadataUpdate:
			out[i] = "metadata"
		case Equipment:
			out[i] = "equipment"
		}
	}
	return out
}

// intentsOf returns the recorded intents of type T.
func intentsOf[T any](r *recorder) []T {
	var out []T
	for _, s := range r.sent {
		if v, ok := s.intent.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func schema(t *testing.T, name string) *metadata.Schema {
	t.Helper()
	s, ok := metadata.Default().Schema(name)
	require.True(t, ok, "kind %q", name)
	return s
}

// newTestEntity builds an item-kind entity (not living, no offset) at pos.
func newTestEntity(t *testing.T, w World, pos mgl64.Vec3, opts ...Option) (*Entity, *recorder) {
	t.Helper()
	rec := &recorder{}
	e, err := New(KindOf(schema(t, "item")), w, Pose{Position: pos}, &counter{}, rec, opts...)
	require.NoError(t, err)
	return e, rec
}
