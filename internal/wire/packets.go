// Package wire encodes entity intents into Java Edition play packets for
// the protocol versions listed in metadata.Versions.
package wire

import "github.com/OCharnyshevich/fakeentity/internal/metadata"

// Packet is an encoded clientbound packet. Data is the body after the
// packet ID.
type Packet struct {
	ID   int32
	Data []byte `mc:"rest"`
}

func (p *Packet) PacketID() int32 { return p.ID }

// packetIDs is one protocol's clientbound entity packet table.
type packetIDs struct {
	SpawnObject int32
	SpawnMob    int32
	Equipment   int32
	Velocity    int32
	Destroy     int32
	RelMove     int32
	LookRelMove int32
	Look        int32
	Teleport    int32
	HeadLook    int32
	Metadata    int32
}

var ids1_8 = packetIDs{
	SpawnObject: 0x0E,
	SpawnMob:    0x0F,
	Equipment:   0x04,
	Velocity:    0x12,
	Destroy:     0x13,
	RelMove:     0x15,
	Look:        0x16,
	LookRelMove: 0x17,
	Teleport:    0x18,
	HeadLook:    0x19,
	Metadata:    0x1C,
}

var ids1_9 = packetIDs{
	SpawnObject: 0x00,
	SpawnMob:    0x03,
	RelMove:     0x25,
	LookRelMove: 0x26,
	Look:        0x27,
	Destroy:     0x30,
	HeadLook:    0x34,
	Metadata:    0x39,
	Velocity:    0x3B,
	Equipment:   0x3C,
	Teleport:    0x4A,
}

// 1.9.4 dropped Update Sign, shifting everything after 0x46 down by one.
var ids1_9_4 = func() packetIDs {
	t := ids1_9
	t.Teleport = 0x49
	return t
}()

var idTables = []struct {
	v   metadata.Version
	ids packetIDs
}{
	{metadata.V1_8, ids1_8},
	{metadata.V1_9, ids1_9},
	{metadata.V1_9_4, ids1_9_4},
	{metadata.V1_10, ids1_9_4},
}

// tableFor returns the table of the newest known protocol not newer
// than v. Anything older than 1.8 gets the 1.8 table.
func tableFor(v metadata.Version) packetIDs {
	ids := idTables[0].ids
	for _, t := range idTables {
		if t.v <= v {
			ids = t.ids
		}
	}
	return ids
}
