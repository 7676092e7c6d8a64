package scenario

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OCharnyshevich/fakeentity/internal/entity"
	"github.com/OCharnyshevich/fakeentity/internal/metadata"
	"github.com/OCharnyshevich/fakeentity/internal/tracker"
	"github.com/OCharnyshevich/fakeentity/internal/wire"
	"github.com/OCharnyshevich/fakeentity/pkg/protocol"
)

func newSimulation(t *testing.T, doc string, sinks map[string]*bytes.Buffer) (*Simulation, *tracker.Manager) {
	t.Helper()
	f, err := Load(strings.NewReader(doc))
	require.NoError(t, err)

	m := tracker.NewManager(wire.NewTransport(metadata.V1_8, nil), tracker.Intervals{Rerender: 1}, nil)
	opts := Options{ViewRadius: entity.DefaultViewRadius, CompressionThreshold: 64}
	if sinks != nil {
		opts.Output = func(name string) io.Writer {
			b := &bytes.Buffer{}
			sinks[name] = b
			return b
		}
	}
	s, err := New(f, m, opts)
	require.NoError(t, err)
	return s, m
}

func run(s *Simulation, m *tracker.Manager, ticks int) {
	for range ticks {
		s.Step(m.CurrentTick() + 1)
		m.Tick()
	}
}

// packetIDs decodes every frame written to a viewer's sink.
func packetIDs(t *testing.T, b *bytes.Buffer) []int32 {
	t.Helper()
	r := bytes.NewReader(b.Bytes())
	var ids []int32
	for r.Len() > 0 {
		id, _, err := protocol.ReadCompressedPacket(r)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func TestDemoRuns(t *testing.T) {
	f, err := LoadFile("testdata/demo.yaml")
	require.NoError(t, err)
	m := tracker.NewManager(wire.NewTransport(metadata.V1_8, nil), tracker.DefaultIntervals, nil)
	s, err := New(f, m, Options{ViewRadius: 64, CompressionThreshold: 256})
	require.NoError(t, err)

	assert.Len(t, s.EntityIDs(), 3)
	assert.Equal(t, 2, m.ViewerCount())

	run(s, m, 60)
	assert.Equal(t, 3, m.ViewerCount())

	for _, v := range s.Viewers() {
		packets, n := v.Stats()
		assert.Positive(t, packets, v.Name())
		assert.Positive(t, n, v.Name())
	}

	run(s, m, 150)
	assert.Equal(t, 2, m.ViewerCount())
}

func TestViewerIdentityIsStable(t *testing.T) {
	doc := "worlds: [w]\nviewers: [{name: alice, world: w, path: [[0,0,0]]}]"
	a, _ := newSimulation(t, doc, nil)
	b, _ := newSimulation(t, doc, nil)

	assert.Equal(t, a.Viewers()[0].UUID(), b.Viewers()[0].UUID())
	assert.Equal(t, metadata.V1_8, a.Viewers()[0].ProtocolVersion())
	assert.InDelta(t, EyeHeight, a.Viewers()[0].EyePosition().Y(), 1e-9)
}

func TestViewerReceivesFramedPackets(t *testing.T) {
	sinks := map[string]*bytes.Buffer{}
	s, m := newSimulation(t, `
worlds: [w]
viewers:
  - {name: old, world: w, protocol: "1.8", path: [[0,0,0]]}
  - {name: new, world: w, protocol: "1.10", path: [[0,0,0]]}
entities:
  - kind: item
    world: w
    position: [1, 0, 0]
    attributes: {item: {id: 264}}
    path: [[3, 0, 0]]
    speed: 1
`, sinks)

	assert.Equal(t, []int32{0x0E, 0x1C}, packetIDs(t, sinks["old"]))
	assert.Equal(t, []int32{0x00, 0x39}, packetIDs(t, sinks["new"]))
	sinks["old"].Reset()
	sinks["new"].Reset()

	run(s, m, 1)

	assert.Equal(t, []int32{0x15}, packetIDs(t, sinks["old"]))
	assert.Equal(t, []int32{0x25}, packetIDs(t, sinks["new"]))
}

func TestEntitySpinWraps(t *testing.T) {
	s, m := newSimulation(t, `
worlds: [w]
entities:
  - {kind: armor_stand, world: w, position: [0,0,0], yaw: 350, spin: 20}
`, nil)

	run(s, m, 1)

	var yaw float32
	require.NoError(t, m.Update(s.EntityIDs()[0], func(e *entity.Entity) { yaw = e.Pose().Yaw }))
	assert.Equal(t, float32(10), yaw)
}

func TestBlinkTogglesVisibility(t *testing.T) {
	s, m := newSimulation(t, `
worlds: [w]
entities:
  - {kind: armor_stand, world: w, position: [0,0,0], blink: 2}
`, nil)
	visible := func() bool {
		var v bool
		require.NoError(t, m.Update(s.EntityIDs()[0], func(e *entity.Entity) { v = e.IsVisible() }))
		return v
	}

	run(s, m, 1)
	assert.True(t, visible())
	run(s, m, 1)
	assert.False(t, visible())
	run(s, m, 2)
	assert.True(t, visible())
}

func TestEquipmentAndAttributes(t *testing.T) {
	s, m := newSimulation(t, `
worlds: [w]
entities:
  - kind: armor_stand
    world: w
    position: [0,0,0]
    attributes: {health: 5.5, custom_name: "Bob"}
    equipment: {helmet: {id: 310}}
`, nil)

	require.NoError(t, m.Update(s.EntityIDs()[0], func(e *entity.Entity) {
		assert.Equal(t, metadata.Table{2: metadata.String("Bob"), 6: metadata.Float(5.5)}, e.Metadata())
		assert.Equal(t, metadata.Item{ID: 310, Count: 1}, e.Equipment(entity.Helmet))
	}))
}

func TestNewRejectsBadEntities(t *testing.T) {
	docs := []string{
		"worlds: [w]\nentities: [{kind: dragon, world: w}]",
		"worlds: [w]\nentities: [{kind: item, world: w, attributes: {health: 1}}]",
		"worlds: [w]\nentities: [{kind: item, world: w, attributes: {custom_name: [1, 2]}}]",
		"worlds: [w]\nentities: [{kind: armor_stand, world: w, equipment: {tail: {id: 1}}}]",
		"worlds: [w]\nviewers: [{name: v, world: w, protocol: \"1.13\", path: [[0,0,0]]}]",
	}
	for _, doc := range docs {
		f, err := Load(strings.NewReader(doc))
		require.NoError(t, err, doc)
		m := tracker.NewManager(wire.NewTransport(metadata.V1_8, nil), tracker.DefaultIntervals, nil)
		_, err = New(f, m, Options{})
		assert.Error(t, err, doc)
	}
}
