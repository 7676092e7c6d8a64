package protocol

import (
	"bytes"
	"testing"
)

type teleportPacket struct {
	EntityID int32   `mc:"varint"`
	X        float64 `mc:"f64"`
	Y        float64 `mc:"f64"`
	Z        float64 `mc:"f64"`
	Yaw      int8    `mc:"i8"`
	Pitch    int8    `mc:"i8"`
	OnGround bool    `mc:"bool"`
	scratch  int
}

func (teleportPacket) PacketID() int32 { return 0x49 }

func TestMarshalUnmarshal(t *testing.T) {
	original := &teleportPacket{
		EntityID: 300,
		X:        1.5,
		Y:        -64.25,
		Z:        1e6,
		Yaw:      -128,
		Pitch:    64,
		OnGround: true,
		scratch:  7,
	}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	// varint(300)=2 + 3*8 + 2 + 1
	if len(data) != 29 {
		t.Fatalf("encoded length = %d, want 29", len(data))
	}

	decoded := &teleportPacket{}
	if err := Unmarshal(data, decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	decoded.scratch = original.scratch
	if *original != *decoded {
		t.Errorf("round-trip mismatch:\n  got  %+v\n  want %+v", decoded, original)
	}
}

type restPacket struct {
	ID   int32  `mc:"varint"`
	Data []byte `mc:"rest"`
}

func (restPacket) PacketID() int32 { return 0x39 }

func TestMarshalRest(t *testing.T) {
	original := &restPacket{ID: 5, Data: []byte{0xDE, 0xAD, 0xBE, 0xEF}}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	decoded := &restPacket{}
	if err := Unmarshal(data, decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.ID != original.ID {
		t.Errorf("ID mismatch: got %d, want %d", decoded.ID, original.ID)
	}
	if !bytes.Equal(decoded.Data, original.Data) {
		t.Errorf("Data mismatch: got %x, want %x", decoded.Data, original.Data)
	}
}

type badTagPacket struct {
	N int32 `mc:"nibble"`
}

func (badTagPacket) PacketID() int32 { return 0 }

func TestMarshalUnknownTag(t *testing.T) {
	if _, err := Marshal(&badTagPacket{N: 1}); err == nil {
		t.Fatal("expected error for unknown tag")
	}
}

func TestUnmarshalRequiresPointer(t *testing.T) {
	if err := Unmarshal([]byte{0}, restPacket{}); err == nil {
		t.Fatal("expected error for non-pointer packet")
	}
}
