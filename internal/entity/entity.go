// Package entity implements client-side fake entities: per-viewer render
// state, distance culling, and the move/teleport/metadata encoding that
// keeps a client's view in sync without a server-side entity.
//
// An Entity is not safe for concurrent use. All calls for one entity must
// come from the same goroutine, or be serialized by the caller.
package entity

import (
	"errors"
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/OCharnyshevich/fakeentity/internal/metadata"
)

var (
	ErrNilViewer    = errors.New("entity: nil viewer")
	ErrNilWorld     = errors.New("entity: nil world")
	ErrNilTransport = errors.New("entity: nil transport")
	ErrNilAllocator = errors.New("entity: nil id allocator")
	ErrNilSchema    = errors.New("entity: kind has no schema")
	ErrInvalidSlot  = errors.New("entity: invalid equipment slot")
)

// Entity is a fake entity shown only to the viewers associated with it.
type Entity struct {
	id    int32
	uuid  uuid.UUID
	kind  Kind
	world World

	pose       Pose
	velocity   mgl64.Vec3
	onGround   bool
	viewRadius float64

	// visible is the global switch; per-viewer state lives in players.
	visible bool
	version metadata.Version
	meta    metadata.Table
	equip   [equipmentSlots]metadata.Item

	players   registry
	transport Transport
	log       *slog.Logger
}

// Option configures an Entity at construction.
type Option func(*Entity)

// WithViewRadius sets the culling distance. Unbounded disables culling.
func WithViewRadius(r float64) Option {
	return func(e *Entity) { e.viewRadius = r }
}

// WithLogger sets the logger used for render transitions.
func WithLogger(l *slog.Logger) Option {
	return func(e *Entity) { e.log = l }
}

// WithVersion selects the protocol used to resolve named attributes.
func WithVersion(v metadata.Version) Option {
	return func(e *Entity) { e.version = v }
}

// WithMetadata sets the initial attribute table.
func WithMetadata(t metadata.Table) Option {
	return func(e *Entity) { e.meta = t.Clone() }
}

// WithUUID overrides the random entity UUID.
func WithUUID(id uuid.UUID) Option {
	return func(e *Entity) { e.uuid = id }
}

// WithHidden creates the entity with the global visibility switch off.
func WithHidden() Option {
	return func(e *Entity) { e.visible = false }
}

// New creates a fake entity of the given kind. It consumes one ID from ids
// and is associated with no viewers.
func New(kind Kind, world World, pose Pose, ids IDAllocator, transport Transport, opts ...Option) (*Entity, error) {
	switch {
	case kind.Schema == nil:
		return nil, ErrNilSchema
	case world == nil:
		return nil, ErrNilWorld
	case ids == nil:
		return nil, ErrNilAllocator
	case transport == nil:
		return nil, ErrNilTransport
	}
	if kind.Renderer == nil {
		kind.Renderer = DefaultRenderer{}
	}

	e := &Entity{
		id:         ids.AllocateEntityID(),
		uuid:       uuid.New(),
		kind:       kind,
		world:      world,
		pose:       pose,
		viewRadius: DefaultViewRadius,
		visible:    true,
		version:    metadata.V1_8,
		players:    make(registry),
		transport:  transport,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = slog.New(slog.DiscardHandler)
	}
	e.log = e.log.With("entity", e.id, "kind", kind.Schema.Name)
	return e, nil
}

func (e *Entity) ID() int32                 { return e.id }
func (e *Entity) UUID() uuid.UUID           { return e.uuid }
func (e *Entity) Kind() Kind                { return e.kind }
func (e *Entity) World() World              { return e.world }
func (e *Entity) Pose() Pose                { return e.pose }
func (e *Entity) Position() mgl64.Vec3      { return e.pose.Position }
func (e *Entity) Velocity() mgl64.Vec3      { return e.velocity }
func (e *Entity) ViewRadius() float64       { return e.viewRadius }
func (e *Entity) IsVisible() bool           { return e.visible }
func (e *Entity) Transport() Transport      { return e.transport }
func (e *Entity) Version() metadata.Version { return e.version }

// EncodedPose returns the pose as sent on the wire, offset included.
func (e *Entity) EncodedPose() Pose {
	return e.kind.Offset.Apply(e.pose)
}

// SetViewRadius changes the culling distance. It does not reconcile; call
// AttemptRerenderForAll to apply it.
func (e *Entity) SetViewRadius(r float64) {
	e.viewRadius = r
}

// SetOnGround sets the on-ground flag carried by movement intents.
func (e *Entity) SetOnGround(onGround bool) {
	e.onGround = onGround
}

// SetVelocity requests a one-tick impulse. It is sent ahead of the next
// move or teleport and then cleared.
func (e *Entity) SetVelocity(v mgl64.Vec3) {
	e.velocity = v
}

// SetHeadPitch updates the head pitch used by future spawns.
func (e *Entity) SetHeadPitch(pitch float32) {
	e.pose.HeadPitch = pitch
}

// Spawn re-sends the spawn sequence with the current pose to every
// rendered viewer. It does nothing while the entity is hidden.
func (e *Entity) Spawn() {
	if !e.visible {
		return
	}
	for _, v := range e.RenderedPlayers() {
		e.kind.Renderer.Render(e, v)
	}
}

// Despawn destroys the entity on every rendered viewer's client without
// touching the registry. It does nothing while the entity is hidden.
func (e *Entity) Despawn() {
	if !e.visible {
		return
	}
	for _, v := range e.RenderedPlayers() {
		e.kind.Renderer.Unrender(e, v)
	}
}

// SetVisible flips the global visibility switch. Turning it off despawns
// for every rendered viewer but keeps all associations; turning it back
// on spawns again and reconciles every associated viewer.
func (e *Entity) SetVisible(visible bool) {
	if visible == e.visible {
		return
	}
	if !visible {
		e.Despawn()
		e.visible = false
		return
	}
	e.visible = true
	e.Spawn()
	e.AttemptRerenderForAll()
}

// Remove unrenders the entity for every viewer and clears the registry.
func (e *Entity) Remove() {
	for id, a := range e.players {
		if a.state == stateVisible {
			e.unrender(a)
		}
		delete(e.players, id)
	}
}

// SetEquipment sets a visually attached item and shows it to every
// rendered viewer.
func (e *Entity) SetEquipment(slot EquipmentSlot, item metadata.Item) error {
	if slot >= equipmentSlots {
		return ErrInvalidSlot
	}
	e.equip[slot] = item
	intent := Equipment{EntityID: e.id, Slot: slot, Item: item}
	e.forRendered(func(v Viewer) {
		e.transport.SendEquipment(v, intent)
	})
	return nil
}

// Equipment returns the item in slot.
func (e *Entity) Equipment(slot EquipmentSlot) metadata.Item {
	if slot >= equipmentSlots {
		return metadata.Item{}
	}
	return e.equip[slot]
}

// SpawnIntent builds the spawn intent for the current state.
func (e *Entity) SpawnIntent() Spawn {
	p := e.EncodedPose()
	s := e.kind.Schema
	return Spawn{
		EntityID:   e.id,
		UUID:       e.uuid,
		TypeID:     s.TypeID,
		Living:     s.Living,
		ObjectData: s.ObjectData,
		Position:   p.Position,
		Yaw:        DegreesToAngle(p.Yaw),
		Pitch:      DegreesToAngle(p.Pitch),
		HeadPitch:  DegreesToAngle(p.HeadPitch),
		Velocity:   EncodeVelocity(e.velocity),
		Metadata:   e.meta.Snapshot(),
	}
}

// forRendered calls fn for every rendered viewer unless the entity is hidden.
func (e *Entity) forRendered(fn func(Viewer)) {
	if !e.visible {
		return
	}
	for _, a := range e.players {
		if a.state == stateVisible {
			fn(a.viewer)
		}
	}
}
