package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// MaxPacketLength bounds a single frame on the wire.
const MaxPacketLength = 1 << 21

// Packet is anything with a protocol packet ID and mc-tagged fields.
type Packet interface {
	PacketID() int32
}

// ReadRawPacket reads one uncompressed length-prefixed frame.
func ReadRawPacket(r io.Reader) (packetID int32, data []byte, err error) {
	length, _, err := ReadVarInt(r)
	if err != nil {
		return 0, nil, fmt.Errorf("read packet length: %w", err)
	}
	if length < 1 {
		return 0, nil, fmt.Errorf("packet length too small: %d", length)
	}
	if length > MaxPacketLength {
		return 0, nil, fmt.Errorf("packet too large: %d bytes", length)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return 0, nil, fmt.Errorf("read packet payload: %w", err)
	}
	return splitPacketID(payload)
}

// splitPacketID separates the leading VarInt packet ID from its body.
func splitPacketID(payload []byte) (int32, []byte, error) {
	buf := bytes.NewReader(payload)
	packetID, n, err := ReadVarInt(buf)
	if err != nil {
		return 0, nil, fmt.Errorf("read packet ID: %w", err)
	}
	return packetID, payload[n:], nil
}

// WriteRawPacket writes packetID and data as one uncompressed frame.
func WriteRawPacket(w io.Writer, packetID int32, data []byte) error {
	totalLen := VarIntSize(packetID) + len(data)

	var buf bytes.Buffer
	buf.Grow(VarIntSize(int32(totalLen)) + totalLen)

	_, _ = WriteVarInt(&buf, int32(totalLen))
	_, _ = WriteVarInt(&buf, packetID)
	buf.Write(data)

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("flush packet: %w", err)
	}
	return nil
}

// WritePacket marshals p and writes it as one uncompressed frame.
func WritePacket(w io.Writer, p Packet) error {
	data, err := Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal packet 0x%02X: %w", p.PacketID(), err)
	}
	return WriteRawPacket(w, p.PacketID(), data)
}

// ReadPacket reads one uncompressed frame into p.
func ReadPacket(r io.Reader, p Packet) error {
	packetID, data, err := ReadRawPacket(r)
	if err != nil {
		return err
	}
	if packetID != p.PacketID() {
		return fmt.Errorf("expected packet 0x%02X, got 0x%02X", p.PacketID(), packetID)
	}
	return Unmarshal(data, p)
}

func WriteField(w io.Writer, tag string, val any) error {
	switch tag {
	case "varint":
		_, err := WriteVarInt(w, val.(int32))
		return err
	case "i8", "u8", "i16", "u16", "i32", "i64", "f32", "f64":
		return binary.Write(w, binary.BigEndian, val)
	case "bool":
		if val.(bool) {
			_, err := w.Write([]byte{1})
			return err
		}
		_, err := w.Write([]byte{0})
		return err
	case "string":
		_, err := WriteString(w, val.(string))
		return err
	case "uuid":
		_, err := WriteUUID(w, val.([16]byte))
		return err
	case "rest":
		_, err := w.Write(val.([]byte))
		return err
	default:
		return fmt.Errorf("unknown field tag: %q", tag)
	}
}

func ReadField(r io.Reader, tag string) (any, error) {
	switch tag {
	case "varint":
		v, _, err := ReadVarInt(r)
		return v, err
	case "i8":
		return ReadI8(r)
	case "u8":
		return ReadU8(r)
	case "i16":
		return ReadI16(r)
	case "u16":
		return ReadU16(r)
	case "i32":
		return ReadI32(r)
	case "i64":
		return ReadI64(r)
	case "f32":
		return ReadF32(r)
	case "f64":
		return ReadF64(r)
	case "bool":
		return ReadBool(r)
	case "string":
		return ReadString(r)
	case "uuid":
		return ReadUUID(r)
	case "rest":
		return io.ReadAll(r)
	default:
		return nil, fmt.Errorf("unknown field tag: %q", tag)
	}
}
