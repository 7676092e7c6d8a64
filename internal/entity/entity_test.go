package entity

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OCharnyshevich/fakeentity/internal/metadata"
)

func TestNewValidates(t *testing.T) {
	w := &testWorld{name: "w"}
	kind := KindOf(schema(t, "item"))
	rec := &recorder{}
	ids := &counter{}

	_, err := New(Kind{}, w, Pose{}, ids, rec)
	assert.ErrorIs(t, err, ErrNilSchema)
	_, err = New(kind, nil, Pose{}, ids, rec)
	assert.ErrorIs(t, err, ErrNilWorld)
	_, err = New(kind, w, Pose{}, nil, rec)
	assert.ErrorIs(t, err, ErrNilAllocator)
	_, err = New(kind, w, Pose{}, ids, nil)
	assert.ErrorIs(t, err, ErrNilTransport)
	assert.Zero(t, ids.next)
}

func TestNewDefaults(t *testing.T) {
	w := &testWorld{name: "w"}
	ids := &counter{}
	rec := &recorder{}
	kind := KindOf(schema(t, "item"))

	a, err := New(kind, w, Pose{}, ids, rec)
	require.NoError(t, err)
	b, err := New(kind, w, Pose{}, ids, rec)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID(), b.ID())
	assert.NotEqual(t, a.UUID(), b.UUID())
	assert.Equal(t, DefaultViewRadius, a.ViewRadius())
	assert.True(t, a.IsVisible())
	assert.Equal(t, metadata.V1_8, a.Version())
	assert.Zero(t, a.PlayerCount())
	assert.Empty(t, rec.sent)
}

func TestWithUUID(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	e, _ := newTestEntity(t, &testWorld{name: "w"}, mgl64.Vec3{}, WithUUID(id))

	assert.Equal(t, id, e.UUID())
}

func TestSetVisibleToggle(t *testing.T) {
	w := &testWorld{name: "w"}
	e, rec := newTestEntity(t, w, mgl64.Vec3{}, WithViewRadius(10))
	near := newViewer(w, 1, 0, 0)
	far := newViewer(w, 50, 0, 0)
	require.NoError(t, e.AddPlayer(near))
	require.NoError(t, e.AddPlayer(far))
	rec.reset()

	e.SetVisible(false)
	assert.False(t, e.IsVisible())
	assert.Equal(t, []string{"destroy"}, rec.types())
	assert.Equal(t, 2, e.PlayerCount())
	rec.reset()

	e.SetVisible(false)
	assert.Empty(t, rec.sent)

	e.SetVisible(true)
	assert.Equal(t, []string{"spawn"}, rec.types())
	assert.Equal(t, near.UUID(), rec.sent[0].viewer)
}

func TestHiddenEntityTracksStateSilently(t *testing.T) {
	w := &testWorld{name: "w"}
	e, rec := newTestEntity(t, w, mgl64.Vec3{}, WithViewRadius(10), WithHidden())
	v := newViewer(w, 1, 0, 0)

	require.NoError(t, e.AddPlayer(v))
	assert.True(t, e.IsRendered(v))

	e.Move(mgl64.Vec3{2, 0, 0}, 0, 0)
	e.Spawn()
	e.Despawn()
	v.eye = mgl64.Vec3{100, 0, 0}
	e.AttemptRerender(v)
	assert.False(t, e.IsRendered(v))
	assert.Empty(t, rec.sent)
	assert.Equal(t, mgl64.Vec3{2, 0, 0}, e.Position())

	v.eye = mgl64.Vec3{3, 0, 0}
	e.SetVisible(true)
	assert.True(t, e.IsRendered(v))
	require.Equal(t, []string{"spawn"}, rec.types())
	assert.Equal(t, mgl64.Vec3{2, 0, 0}, intentsOf[Spawn](rec)[0].Position)
}

func TestSpawnResendsCurrentPose(t *testing.T) {
	e, rec, _ := watched(t)
	e.Move(mgl64.Vec3{1, 0, 0}, 0, 0)
	rec.reset()

	e.Spawn()

	require.Equal(t, []string{"spawn"}, rec.types())
	assert.Equal(t, mgl64.Vec3{1, 0, 0}, intentsOf[Spawn](rec)[0].Position)
}

func TestDespawnKeepsRegistry(t *testing.T) {
	e, rec, v := watched(t)

	e.Despawn()

	assert.Equal(t, []string{"destroy"}, rec.types())
	assert.Equal(t, []int32{e.ID()}, intentsOf[Destroy](rec)[0].EntityIDs)
	assert.True(t, e.IsRendered(v))
}

func TestRemoveClearsRegistry(t *testing.T) {
	w := &testWorld{name: "w"}
	e, rec := newTestEntity(t, w, mgl64.Vec3{}, WithViewRadius(10))
	near := newViewer(w, 1, 0, 0)
	far := newViewer(w, 50, 0, 0)
	require.NoError(t, e.AddPlayer(near))
	require.NoError(t, e.AddPlayer(far))
	rec.reset()

	e.Remove()

	assert.Equal(t, []string{"destroy"}, rec.types())
	assert.Zero(t, e.PlayerCount())
	assert.False(t, e.ContainsPlayer(near))
}

func TestEquipment(t *testing.T) {
	w := &testWorld{name: "w"}
	e, rec := newLivingEntity(t, "armor_stand", w, mgl64.Vec3{})
	helmet := metadata.Item{ID: 298, Count: 1}

	require.NoError(t, e.SetEquipment(Helmet, helmet))
	assert.Empty(t, rec.sent)
	assert.Equal(t, helmet, e.Equipment(Helmet))

	v := newViewer(w, 1, 0, 0)
	require.NoError(t, e.AddPlayer(v))
	assert.Equal(t, []string{"spawn", "head", "equipment"}, rec.types())
	eq := intentsOf[Equipment](rec)[0]
	assert.Equal(t, Helmet, eq.Slot)
	assert.Equal(t, helmet, eq.Item)
	rec.reset()

	require.NoError(t, e.SetEquipment(MainHand, metadata.Item{ID: 276, Count: 1}))
	assert.Equal(t, []string{"equipment"}, rec.types())

	assert.ErrorIs(t, e.SetEquipment(EquipmentSlot(42), helmet), ErrInvalidSlot)
	assert.Equal(t, metadata.Item{}, e.Equipment(EquipmentSlot(42)))
}

func TestParseEquipmentSlot(t *testing.T) {
	for s := MainHand; s < equipmentSlots; s++ {
		got, err := ParseEquipmentSlot(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseEquipmentSlot("tail")
	assert.ErrorIs(t, err, ErrInvalidSlot)
}

type countingRenderer struct {
	renders, unrenders int
}

func (r *countingRenderer) Render(*Entity, Viewer)   { r.renders++ }
func (r *countingRenderer) Unrender(*Entity, Viewer) { r.unrenders++ }

func TestCustomRenderer(t *testing.T) {
	w := &testWorld{name: "w"}
	r := &countingRenderer{}
	kind := KindOf(schema(t, "item"))
	kind.Renderer = r
	rec := &recorder{}
	e, err := New(kind, w, Pose{}, &counter{}, rec, WithViewRadius(5))
	require.NoError(t, err)

	v := newViewer(w, 1, 0, 0)
	require.NoError(t, e.AddPlayer(v))
	v.eye = mgl64.Vec3{10, 0, 0}
	e.AttemptRerender(v)

	assert.Equal(t, 1, r.renders)
	assert.Equal(t, 1, r.unrenders)
	assert.Empty(t, rec.sent)
}
