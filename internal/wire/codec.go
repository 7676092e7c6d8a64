package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/OCharnyshevich/fakeentity/internal/entity"
	"github.com/OCharnyshevich/fakeentity/internal/metadata"
	"github.com/OCharnyshevich/fakeentity/pkg/protocol"
)

// Codec encodes intents for a single protocol version. It keeps no state
// and is safe for concurrent use.
type Codec struct {
	version metadata.Version
	ids     packetIDs
}

// NewCodec returns the codec for protocol v.
func NewCodec(v metadata.Version) Codec {
	return Codec{version: v, ids: tableFor(v)}
}

func (c Codec) Version() metadata.Version { return c.version }

func (c Codec) legacy() bool { return c.version < metadata.V1_9 }

// writePosition writes an absolute position: fixed-point ints on 1.8,
// doubles afterwards.
func (c Codec) writePosition(buf *bytes.Buffer, pos mgl64.Vec3) {
	if c.legacy() {
		for _, x := range pos {
			_ = binary.Write(buf, binary.BigEndian, entity.FixedPoint(x))
		}
		return
	}
	_ = binary.Write(buf, binary.BigEndian, [3]float64(pos))
}

// Spawn encodes a spawn. Living kinds use spawn-mob with the attribute
// table inline; objects get spawn-object plus a metadata packet when the
// table is not empty.
func (c Codec) Spawn(s entity.Spawn) ([]*Packet, error) {
	if s.Living {
		p, err := c.spawnMob(s)
		if err != nil {
			return nil, err
		}
		return []*Packet{p}, nil
	}

	out := []*Packet{c.spawnObject(s)}
	if len(s.Metadata) > 0 {
		p, err := c.MetadataUpdate(entity.MetadataUpdate{EntityID: s.EntityID, Entries: s.Metadata})
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (c Codec) spawnObject(s entity.Spawn) *Packet {
	var buf bytes.Buffer

	_, _ = protocol.WriteVarInt(&buf, s.EntityID)
	if !c.legacy() {
		buf.Write(s.UUID[:])
	}
	buf.WriteByte(byte(s.TypeID))
	c.writePosition(&buf, s.Position)
	_ = binary.Write(&buf, binary.BigEndian, s.Pitch)
	_ = binary.Write(&buf, binary.BigEndian, s.Yaw)
	_ = binary.Write(&buf, binary.BigEndian, s.ObjectData)
	// 1.8 only carries velocity for non-zero object data.
	if !c.legacy() || s.ObjectData != 0 {
		_ = binary.Write(&buf, binary.BigEndian, s.Velocity)
	}

	return &Packet{ID: c.ids.SpawnObject, Data: buf.Bytes()}
}

func (c Codec) spawnMob(s entity.Spawn) (*Packet, error) {
	var buf bytes.Buffer

	_, _ = protocol.WriteVarInt(&buf, s.EntityID)
	if !c.legacy() {
		buf.Write(s.UUID[:])
	}
	buf.WriteByte(byte(s.TypeID))
	c.writePosition(&buf, s.Position)
	_ = binary.Write(&buf, binary.BigEndian, s.Yaw)
	_ = binary.Write(&buf, binary.BigEndian, s.Pitch)
	_ = binary.Write(&buf, binary.BigEndian, s.HeadPitch)
	_ = binary.Write(&buf, binary.BigEndian, s.Velocity)
	if err := metadata.Encode(&buf, s.Metadata, c.version); err != nil {
		return nil, fmt.Errorf("spawn %d: %w", s.EntityID, err)
	}

	return &Packet{ID: c.ids.SpawnMob, Data: buf.Bytes()}, nil
}

func (c Codec) Destroy(d entity.Destroy) *Packet {
	var buf bytes.Buffer
	_, _ = protocol.WriteVarInt(&buf, int32(len(d.EntityIDs)))
	for _, id := range d.EntityIDs {
		_, _ = protocol.WriteVarInt(&buf, id)
	}
	return &Packet{ID: c.ids.Destroy, Data: buf.Bytes()}
}

// RelativeMove encodes a relative move. On 1.8 the delta is recomputed in
// 1/32 units from the endpoints and split into several packets when it
// does not fit a byte.
func (c Codec) RelativeMove(m entity.RelativeMove) []*Packet {
	if !c.legacy() {
		var buf bytes.Buffer
		_, _ = protocol.WriteVarInt(&buf, m.EntityID)
		_ = binary.Write(&buf, binary.BigEndian, m.Delta)
		writeBool(&buf, m.OnGround)
		return []*Packet{{ID: c.ids.RelMove, Data: buf.Bytes()}}
	}

	steps := legacySteps(m.From, m.To)
	out := make([]*Packet, len(steps))
	for i, d := range steps {
		var buf bytes.Buffer
		_, _ = protocol.WriteVarInt(&buf, m.EntityID)
		_ = binary.Write(&buf, binary.BigEndian, d)
		writeBool(&buf, m.OnGround)
		out[i] = &Packet{ID: c.ids.RelMove, Data: buf.Bytes()}
	}
	return out
}

// RelativeMoveAndLook is RelativeMove with the orientation attached to
// the last packet.
func (c Codec) RelativeMoveAndLook(m entity.RelativeMoveAndLook) []*Packet {
	if !c.legacy() {
		var buf bytes.Buffer
		_, _ = protocol.WriteVarInt(&buf, m.EntityID)
		_ = binary.Write(&buf, binary.BigEndian, m.Delta)
		_ = binary.Write(&buf, binary.BigEndian, m.Yaw)
		_ = binary.Write(&buf, binary.BigEndian, m.Pitch)
		writeBool(&buf, m.OnGround)
		return []*Packet{{ID: c.ids.LookRelMove, Data: buf.Bytes()}}
	}

	steps := legacySteps(m.From, m.To)
	out := make([]*Packet, len(steps))
	for i, d := range steps {
		var buf bytes.Buffer
		_, _ = protocol.WriteVarInt(&buf, m.EntityID)
		_ = binary.Write(&buf, binary.BigEndian, d)
		if i < len(steps)-1 {
			writeBool(&buf, m.OnGround)
			out[i] = &Packet{ID: c.ids.RelMove, Data: buf.Bytes()}
			continue
		}
		_ = binary.Write(&buf, binary.BigEndian, m.Yaw)
		_ = binary.Write(&buf, binary.BigEndian, m.Pitch)
		writeBool(&buf, m.OnGround)
		out[i] = &Packet{ID: c.ids.LookRelMove, Data: buf.Bytes()}
	}
	return out
}

// legacySteps splits the fixed-point distance between from and to into
// deltas that each fit a signed byte. There is always at least one step.
func legacySteps(from, to mgl64.Vec3) [][3]int8 {
	var total [3]int32
	var longest int32
	for i := range total {
		total[i] = entity.FixedPoint(to[i]) - entity.FixedPoint(from[i])
		longest = max(longest, abs32(total[i]))
	}

	n := max(1, int32(math.Ceil(float64(longest)/math.MaxInt8)))
	steps := make([][3]int8, n)
	for s := range n {
		for i := range total {
			steps[s][i] = int8(total[i]*(s+1)/n - total[i]*s/n)
		}
	}
	return steps
}

func (c Codec) Look(l entity.Look) *Packet {
	var buf bytes.Buffer
	_, _ = protocol.WriteVarInt(&buf, l.EntityID)
	_ = binary.Write(&buf, binary.BigEndian, l.Yaw)
	_ = binary.Write(&buf, binary.BigEndian, l.Pitch)
	writeBool(&buf, l.OnGround)
	return &Packet{ID: c.ids.Look, Data: buf.Bytes()}
}

func (c Codec) HeadRotation(h entity.HeadRotation) *Packet {
	var buf bytes.Buffer
	_, _ = protocol.WriteVarInt(&buf, h.EntityID)
	_ = binary.Write(&buf, binary.BigEndian, h.HeadYaw)
	return &Packet{ID: c.ids.HeadLook, Data: buf.Bytes()}
}

func (c Codec) Teleport(t entity.Teleport) *Packet {
	var buf bytes.Buffer
	_, _ = protocol.WriteVarInt(&buf, t.EntityID)
	c.writePosition(&buf, t.Position)
	_ = binary.Write(&buf, binary.BigEndian, t.Yaw)
	_ = binary.Write(&buf, binary.BigEndian, t.Pitch)
	writeBool(&buf, t.OnGround)
	return &Packet{ID: c.ids.Teleport, Data: buf.Bytes()}
}

func (c Codec) Velocity(v entity.Velocity) *Packet {
	var buf bytes.Buffer
	_, _ = protocol.WriteVarInt(&buf, v.EntityID)
	_ = binary.Write(&buf, binary.BigEndian, v.Velocity)
	return &Packet{ID: c.ids.Velocity, Data: buf.Bytes()}
}

func (c Codec) MetadataUpdate(m entity.MetadataUpdate) (*Packet, error) {
	var buf bytes.Buffer
	_, _ = protocol.WriteVarInt(&buf, m.EntityID)
	if err := metadata.Encode(&buf, m.Entries, c.version); err != nil {
		return nil, fmt.Errorf("metadata for %d: %w", m.EntityID, err)
	}
	return &Packet{ID: c.ids.Metadata, Data: buf.Bytes()}, nil
}

// Equipment encodes an equipment change. It returns nil when the slot
// does not exist in this version (the off-hand on 1.8).
func (c Codec) Equipment(e entity.Equipment) *Packet {
	var buf bytes.Buffer
	_, _ = protocol.WriteVarInt(&buf, e.EntityID)
	if c.legacy() {
		slot, ok := legacySlots[e.Slot]
		if !ok {
			return nil
		}
		_ = binary.Write(&buf, binary.BigEndian, slot)
	} else {
		_, _ = protocol.WriteVarInt(&buf, int32(e.Slot))
	}
	_ = metadata.WriteItem(&buf, e.Item)
	return &Packet{ID: c.ids.Equipment, Data: buf.Bytes()}
}

// 1.8 has a single hand and numbers armor from 1.
var legacySlots = map[entity.EquipmentSlot]int16{
	entity.MainHand:   0,
	entity.Boots:      1,
	entity.Leggings:   2,
	entity.Chestplate: 3,
	entity.Helmet:     4,
}

func writeBool(buf *bytes.Buffer, b bool) {
	if b {
		buf.WriteByte(1)
		return
	}
	buf.WriteByte(0)
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
