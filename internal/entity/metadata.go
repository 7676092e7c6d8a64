package entity

import (
	"fmt"

	"github.com/OCharnyshevich/fakeentity/internal/metadata"
)

// SetMetadata replaces the whole attribute table and flushes it.
func (e *Entity) SetMetadata(t metadata.Table) {
	e.meta = t.Clone()
	if e.meta == nil {
		e.meta = metadata.Table{}
	}
	e.flushMetadata()
}

// UpsertMetadata overwrites the given indices, keeping all others, and
// flushes the table.
func (e *Entity) UpsertMetadata(t metadata.Table) {
	if e.meta == nil {
		e.meta = make(metadata.Table, len(t))
	}
	e.meta.Merge(t)
	e.flushMetadata()
}

// RemoveMetadata deletes the given indices and flushes the table. It does
// nothing if no table has been set yet.
func (e *Entity) RemoveMetadata(indices ...uint8) {
	if e.meta == nil {
		return
	}
	e.meta.Remove(indices...)
	e.flushMetadata()
}

// SetAttribute upserts a single attribute by name, resolving its index for
// the entity's protocol version.
func (e *Entity) SetAttribute(name string, val metadata.Value) error {
	idx, err := e.kind.Schema.Resolve(name, val, e.version)
	if err != nil {
		return fmt.Errorf("set attribute: %w", err)
	}
	e.UpsertMetadata(metadata.Table{idx: val})
	return nil
}

// Metadata returns a copy of the attribute table, or nil if none is set.
func (e *Entity) Metadata() metadata.Table {
	return e.meta.Clone()
}

// flushMetadata sends the whole table, not just the changed indices, to
// every rendered viewer.
func (e *Entity) flushMetadata() {
	update := MetadataUpdate{EntityID: e.id, Entries: e.meta.Snapshot()}
	e.forRendered(func(v Viewer) {
		e.transport.SendMetadataUpdate(v, update)
	})
}
