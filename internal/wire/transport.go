package wire

import (
	"log/slog"

	"github.com/OCharnyshevich/fakeentity/internal/entity"
	"github.com/OCharnyshevich/fakeentity/internal/metadata"
	"github.com/OCharnyshevich/fakeentity/pkg/protocol"
)

// Recipient is a viewer that can receive packets, typically a player
// connection.
type Recipient interface {
	WritePacket(p protocol.Packet) error
}

// Versioned is implemented by recipients that speak a protocol other
// than the transport default.
type Versioned interface {
	ProtocolVersion() metadata.Version
}

// Transport implements entity.Transport by encoding intents for each
// viewer's protocol and writing them to the viewer. Viewers that are not
// Recipients are skipped. Delivery failures are logged and dropped; the
// next resync corrects the client.
type Transport struct {
	codecs   map[metadata.Version]Codec
	fallback Codec
	log      *slog.Logger
}

var _ entity.Transport = (*Transport)(nil)

// NewTransport returns a transport that encodes for def unless a viewer
// reports its own version.
func NewTransport(def metadata.Version, log *slog.Logger) *Transport {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	t := &Transport{
		codecs:   make(map[metadata.Version]Codec),
		fallback: NewCodec(def),
		log:      log,
	}
	for _, v := range metadata.Versions() {
		t.codecs[v] = NewCodec(v)
	}
	return t
}

func (t *Transport) codecFor(v entity.Viewer) Codec {
	vv, ok := v.(Versioned)
	if !ok {
		return t.fallback
	}
	if c, ok := t.codecs[vv.ProtocolVersion()]; ok {
		return c
	}
	return NewCodec(vv.ProtocolVersion())
}

func (t *Transport) write(v entity.Viewer, packets ...*Packet) {
	r, ok := v.(Recipient)
	if !ok {
		t.log.Warn("viewer cannot receive packets", "viewer", v.UUID())
		return
	}
	for _, p := range packets {
		if p == nil {
			continue
		}
		if err := r.WritePacket(p); err != nil {
			t.log.Warn("packet write failed", "viewer", v.UUID(), "packet", p.ID, "error", err)
			return
		}
	}
}

func (t *Transport) SendSpawn(v entity.Viewer, s entity.Spawn) {
	packets, err := t.codecFor(v).Spawn(s)
	if err != nil {
		t.log.Warn("encode spawn", "viewer", v.UUID(), "error", err)
		return
	}
	t.write(v, packets...)
}

func (t *Transport) SendDestroy(v entity.Viewer, d entity.Destroy) {
	t.write(v, t.codecFor(v).Destroy(d))
}

func (t *Transport) SendRelativeMove(v entity.Viewer, m entity.RelativeMove) {
	t.write(v, t.codecFor(v).RelativeMove(m)...)
}

func (t *Transport) SendRelativeMoveAndLook(v entity.Viewer, m entity.RelativeMoveAndLook) {
	t.write(v, t.codecFor(v).RelativeMoveAndLook(m)...)
}

func (t *Transport) SendLook(v entity.Viewer, l entity.Look) {
	t.write(v, t.codecFor(v).Look(l))
}

func (t *Transport) SendHeadRotation(v entity.Viewer, h entity.HeadRotation) {
	t.write(v, t.codecFor(v).HeadRotation(h))
}

func (t *Transport) SendTeleport(v entity.Viewer, tp entity.Teleport) {
	t.write(v, t.codecFor(v).Teleport(tp))
}

func (t *Transport) SendVelocity(v entity.Viewer, vel entity.Velocity) {
	t.write(v, t.codecFor(v).Velocity(vel))
}

func (t *Transport) SendMetadataUpdate(v entity.Viewer, m entity.MetadataUpdate) {
	p, err := t.codecFor(v).MetadataUpdate(m)
	if err != nil {
		t.log.Warn("encode metadata", "viewer", v.UUID(), "error", err)
		return
	}
	t.write(v, p)
}

func (t *Transport) SendEquipment(v entity.Viewer, e entity.Equipment) {
	t.write(v, t.codecFor(v).Equipment(e))
}
