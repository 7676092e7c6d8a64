package protocol

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// WriteCompressedPacket writes p using the post-"set compression" frame
// layout: packet length, uncompressed data length, body. Bodies shorter
// than threshold are sent as-is with a data length of 0.
func WriteCompressedPacket(w io.Writer, p Packet, threshold int) error {
	data, err := Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal packet 0x%02X: %w", p.PacketID(), err)
	}

	var body bytes.Buffer
	_, _ = WriteVarInt(&body, p.PacketID())
	body.Write(data)

	var payload bytes.Buffer
	if threshold < 0 || body.Len() < threshold {
		_, _ = WriteVarInt(&payload, 0)
		payload.Write(body.Bytes())
	} else {
		_, _ = WriteVarInt(&payload, int32(body.Len()))
		zw := zlib.NewWriter(&payload)
		if _, err := zw.Write(body.Bytes()); err != nil {
			return fmt.Errorf("compress packet 0x%02X: %w", p.PacketID(), err)
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("compress packet 0x%02X: %w", p.PacketID(), err)
		}
	}

	var frame bytes.Buffer
	frame.Grow(VarIntSize(int32(payload.Len())) + payload.Len())
	_, _ = WriteVarInt(&frame, int32(payload.Len()))
	frame.Write(payload.Bytes())

	if _, err := w.Write(frame.Bytes()); err != nil {
		return fmt.Errorf("flush packet: %w", err)
	}
	return nil
}

// ReadCompressedPacket reads one frame written by WriteCompressedPacket.
func ReadCompressedPacket(r io.Reader) (packetID int32, data []byte, err error) {
	length, _, err := ReadVarInt(r)
	if err != nil {
		return 0, nil, fmt.Errorf("read packet length: %w", err)
	}
	if length < 1 || length > MaxPacketLength {
		return 0, nil, fmt.Errorf("packet length out of range: %d", length)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return 0, nil, fmt.Errorf("read packet payload: %w", err)
	}

	pr := bytes.NewReader(payload)
	dataLen, _, err := ReadVarInt(pr)
	if err != nil {
		return 0, nil, fmt.Errorf("read data length: %w", err)
	}
	if dataLen == 0 {
		return splitPacketID(payload[len(payload)-pr.Len():])
	}
	if dataLen < 0 || dataLen > MaxPacketLength {
		return 0, nil, fmt.Errorf("data length out of range: %d", dataLen)
	}

	zr, err := zlib.NewReader(pr)
	if err != nil {
		return 0, nil, fmt.Errorf("open zlib stream: %w", err)
	}
	defer zr.Close()

	body := make([]byte, dataLen)
	if _, err := io.ReadFull(zr, body); err != nil {
		return 0, nil, fmt.Errorf("inflate packet: %w", err)
	}
	return splitPacketID(body)
}
