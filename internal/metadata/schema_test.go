package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryIndicesByVersion(t *testing.T) {
	stand, ok := Default().Schema("armor_stand")
	require.True(t, ok)
	assert.Equal(t, int32(30), stand.TypeID)
	assert.True(t, stand.Living)

	tests := []struct {
		attr string
		v    Version
		want uint8
	}{
		{"flags", V1_8, 0},
		{"custom_name", V1_10, 2},
		{"health", V1_8, 6},
		{"health", V1_9_4, 6},
		{"health", V1_10, 7},
		{"head_pose", V1_8, 11},
		{"head_pose", V1_9, 11},
		{"head_pose", V1_10, 12},
	}
	for _, tt := range tests {
		got, err := stand.Index(tt.attr, tt.v)
		require.NoError(t, err, "%s@%s", tt.attr, tt.v)
		assert.Equal(t, tt.want, got, "%s@%s", tt.attr, tt.v)
	}
}

func TestSchemaUnsupportedAttribute(t *testing.T) {
	stand, _ := Default().Schema("armor_stand")

	_, err := stand.Index("no_gravity", V1_9_4)
	assert.ErrorIs(t, err, ErrUnsupportedAttribute)

	_, err = stand.Index("wings", V1_10)
	assert.ErrorIs(t, err, ErrUnsupportedAttribute)

	idx, err := stand.Index("no_gravity", V1_10)
	require.NoError(t, err)
	assert.Equal(t, uint8(5), idx)
}

func TestSchemaResolveChecksType(t *testing.T) {
	item, ok := Default().Schema("item")
	require.True(t, ok)
	assert.Equal(t, int32(1), item.ObjectData)
	assert.False(t, item.Living)

	idx, err := item.Resolve("item", Item{ID: 1, Count: 1}, V1_9)
	require.NoError(t, err)
	assert.Equal(t, uint8(5), idx)

	_, err = item.Resolve("item", Byte(1), V1_9)
	assert.ErrorIs(t, err, ErrUnsupportedValue)
}

func TestHologramInheritsArmorStand(t *testing.T) {
	holo, ok := Default().Schema("hologram")
	require.True(t, ok)
	assert.InDelta(t, -1.975, holo.Offset.Position[1], 1e-9)

	idx, err := holo.Index("custom_name_visible", V1_8)
	require.NoError(t, err)
	assert.Equal(t, uint8(3), idx)

	stand, _ := Default().Schema("armor_stand")
	assert.Len(t, holo.Attributes(), len(stand.Attributes()))
}

func TestLoadDirAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a_base.yaml"), `
kinds:
  - name: base
    attributes:
      - name: flags
        type: byte
        index: {"1.8": 0}
`)
	writeFile(t, filepath.Join(dir, "b_slime.yml"), `
kinds:
  - name: slime
    parent: base
    type_id: 55
    living: true
    attributes:
      - name: size
        type: byte
        index: {"1.8": 16}
      - name: flags
        type: byte
        index: {"1.8": 0, "1.10": -1}
`)

	reg, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"base", "slime"}, reg.Names())

	slime, _ := reg.Schema("slime")
	assert.Len(t, slime.Attributes(), 2)

	_, err = slime.Index("flags", V1_10)
	assert.ErrorIs(t, err, ErrUnsupportedAttribute)
	idx, err := slime.Index("flags", V1_9)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), idx)
}

func TestParseRejectsCycles(t *testing.T) {
	_, err := Parse([]byte(`
kinds:
  - name: a
    parent: b
  - name: b
    parent: a
`))
	assert.ErrorIs(t, err, errCycle)
}

func TestParseRejectsUnknownVersion(t *testing.T) {
	_, err := Parse([]byte(`
kinds:
  - name: a
    attributes:
      - name: x
        type: byte
        index: {"1.7": 0}
`))
	assert.Error(t, err)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
