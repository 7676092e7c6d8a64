package scenario

import (
	"io"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/OCharnyshevich/fakeentity/internal/entity"
	"github.com/OCharnyshevich/fakeentity/internal/metadata"
	"github.com/OCharnyshevich/fakeentity/pkg/protocol"
)

// EyeHeight is the standing player's eye offset above the feet.
const EyeHeight = 1.62

// World is a named world handle.
type World struct{ name string }

func (w *World) Name() string { return w.name }

// viewerNamespace seeds deterministic viewer UUIDs so repeated runs of a
// scenario log the same identities.
var viewerNamespace = uuid.MustParse("3f1c9a52-7d0e-4b8a-9c61-2e5f8d4b7a10")

// Viewer is a simulated player connection. Packets are framed with the
// compressed layout and written to out.
type Viewer struct {
	name      string
	id        uuid.UUID
	world     *World
	feet      mgl64.Vec3
	version   metadata.Version
	threshold int
	out       io.Writer
	route     *route

	packets atomic.Int64
	bytes   atomic.Int64
}

func newViewer(name string, w *World, feet mgl64.Vec3, v metadata.Version, threshold int, out io.Writer) *Viewer {
	if out == nil {
		out = io.Discard
	}
	return &Viewer{
		name:      name,
		id:        uuid.NewSHA1(viewerNamespace, []byte(name)),
		world:     w,
		feet:      feet,
		version:   v,
		threshold: threshold,
		out:       out,
	}
}

func (v *Viewer) Name() string                      { return v.name }
func (v *Viewer) UUID() uuid.UUID                   { return v.id }
func (v *Viewer) World() entity.World               { return v.world }
func (v *Viewer) ProtocolVersion() metadata.Version { return v.version }
func (v *Viewer) Position() mgl64.Vec3              { return v.feet }

func (v *Viewer) EyePosition() mgl64.Vec3 {
	return v.feet.Add(mgl64.Vec3{0, EyeHeight, 0})
}

// WritePacket frames p and writes it to the viewer's sink.
func (v *Viewer) WritePacket(p protocol.Packet) error {
	cw := &countingWriter{w: v.out}
	if err := protocol.WriteCompressedPacket(cw, p, v.threshold); err != nil {
		return err
	}
	v.packets.Add(1)
	v.bytes.Add(cw.n)
	return nil
}

// Stats returns the packets and bytes written so far.
func (v *Viewer) Stats() (packets, bytes int64) {
	return v.packets.Load(), v.bytes.Load()
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
