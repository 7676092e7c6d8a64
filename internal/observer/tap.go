package observer

import (
	"log/slog"
	"time"

	"github.com/OCharnyshevich/fakeentity/internal/entity"
)

// Tap is an entity.Transport that logs and publishes every intent before
// passing it on.
type Tap struct {
	next entity.Transport
	pub  Publisher
	log  *slog.Logger
	now  func() time.Time
}

var _ entity.Transport = (*Tap)(nil)

// NewTap wraps next. pub may be nil to only log.
func NewTap(next entity.Transport, pub Publisher, log *slog.Logger) *Tap {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Tap{next: next, pub: pub, log: log, now: time.Now}
}

func (t *Tap) emit(v entity.Viewer, typ string, id int32, intent any) {
	t.log.Debug("intent", "type", typ, "entity", id, "viewer", v.UUID())
	if t.pub == nil {
		return
	}
	t.pub.Publish(Event{
		Time:   t.now(),
		Type:   typ,
		Entity: id,
		Viewer: v.UUID(),
		Intent: intent,
	})
}

func (t *Tap) SendSpawn(v entity.Viewer, s entity.Spawn) {
	t.emit(v, "spawn", s.EntityID, s)
	t.next.SendSpawn(v, s)
}

func (t *Tap) SendDestroy(v entity.Viewer, d entity.Destroy) {
	var id int32
	if len(d.EntityIDs) > 0 {
		id = d.EntityIDs[0]
	}
	t.emit(v, "destroy", id, d)
	t.next.SendDestroy(v, d)
}

func (t *Tap) SendRelativeMove(v entity.Viewer, m entity.RelativeMove) {
	t.emit(v, "relative_move", m.EntityID, m)
	t.next.SendRelativeMove(v, m)
}

func (t *Tap) SendRelativeMoveAndLook(v entity.Viewer, m entity.RelativeMoveAndLook) {
	t.emit(v, "relative_move_look", m.EntityID, m)
	t.next.SendRelativeMoveAndLook(v, m)
}

func (t *Tap) SendLook(v entity.Viewer, l entity.Look) {
	t.emit(v, "look", l.EntityID, l)
	t.next.SendLook(v, l)
}

func (t *Tap) SendHeadRotation(v entity.Viewer, h entity.HeadRotation) {
	t.emit(v, "head_rotation", h.EntityID, h)
	t.next.SendHeadRotation(v, h)
}

func (t *Tap) SendTeleport(v entity.Viewer, tp entity.Teleport) {
	t.emit(v, "teleport", tp.EntityID, tp)
	t.next.SendTeleport(v, tp)
}

func (t *Tap) SendVelocity(v entity.Viewer, vel entity.Velocity) {
	t.emit(v, "velocity", vel.EntityID, vel)
	t.next.SendVelocity(v, vel)
}

func (t *Tap) SendMetadataUpdate(v entity.Viewer, m entity.MetadataUpdate) {
	t.emit(v, "metadata", m.EntityID, m)
	t.next.SendMetadataUpdate(v, m)
}

func (t *Tap) SendEquipment(v entity.Viewer, e entity.Equipment) {
	t.emit(v, "equipment", e.EntityID, e)
	t.next.SendEquipment(v, e)
}
