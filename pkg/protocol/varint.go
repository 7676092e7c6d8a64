package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrVarIntTooLong is returned when a VarInt spans more than five bytes.
var ErrVarIntTooLong = errors.New("varint too long")

// ReadVarInt reads a VarInt and reports how many bytes it consumed.
func ReadVarInt(r io.Reader) (int32, int, error) {
	var result uint32
	var numRead int
	var b [1]byte

	for {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, numRead, err
		}
		numRead++

		result |= uint32(b[0]&0x7F) << (7 * (numRead - 1))

		if b[0]&0x80 == 0 {
			break
		}
		if numRead >= 5 {
			return 0, numRead, ErrVarIntTooLong
		}
	}

	return int32(result), numRead, nil
}

// WriteVarInt writes value as a VarInt.
func WriteVarInt(w io.Writer, value int32) (int, error) {
	var buf [5]byte
	n := PutVarInt(buf[:], value)
	return w.Write(buf[:n])
}

// PutVarInt encodes value into buf and returns the number of bytes written.
// buf must hold at least five bytes.
func PutVarInt(buf []byte, value int32) int {
	val := uint32(value)
	n := 0
	for {
		b := byte(val & 0x7F)
		val >>= 7
		if val != 0 {
			b |= 0x80
		}
		buf[n] = b
		n++
		if val == 0 {
			return n
		}
	}
}

// VarIntSize returns the encoded length of value.
func VarIntSize(value int32) int {
	val := uint32(value)
	size := 1
	for val >>= 7; val != 0; val >>= 7 {
		size++
	}
	return size
}

func ReadString(r io.Reader) (string, error) {
	length, _, err := ReadVarInt(r)
	if err != nil {
		return "", fmt.Errorf("read string length: %w", err)
	}
	if length < 0 || length > 32767*4 {
		return "", fmt.Errorf("string length out of range: %d", length)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("read string data: %w", err)
	}
	return string(buf), nil
}

func WriteString(w io.Writer, s string) (int, error) {
	n1, err := WriteVarInt(w, int32(len(s)))
	if err != nil {
		return n1, err
	}
	n2, err := io.WriteString(w, s)
	return n1 + n2, err
}

func ReadUUID(r io.Reader) ([16]byte, error) {
	var id [16]byte
	_, err := io.ReadFull(r, id[:])
	return id, err
}

func WriteUUID(w io.Writer, id [16]byte) (int, error) {
	return w.Write(id[:])
}

func ReadI8(r io.Reader) (int8, error) {
	b, err := ReadU8(r)
	return int8(b), err
}

func ReadU8(r io.Reader) (uint8, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func ReadBool(r io.Reader) (bool, error) {
	b, err := ReadU8(r)
	return b != 0, err
}

// readBE decodes a fixed-size big-endian value of type T.
func readBE[T int16 | uint16 | int32 | int64 | float32 | float64](r io.Reader) (T, error) {
	var val T
	if err := binary.Read(r, binary.BigEndian, &val); err != nil {
		return 0, err
	}
	return val, nil
}

func ReadI16(r io.Reader) (int16, error)   { return readBE[int16](r) }
func ReadU16(r io.Reader) (uint16, error)  { return readBE[uint16](r) }
func ReadI32(r io.Reader) (int32, error)   { return readBE[int32](r) }
func ReadI64(r io.Reader) (int64, error)   { return readBE[int64](r) }
func ReadF32(r io.Reader) (float32, error) { return readBE[float32](r) }
func ReadF64(r io.Reader) (float64, error) { return readBE[float64](r) }
