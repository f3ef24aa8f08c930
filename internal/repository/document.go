// Package repository provides the in-memory stores backing the document,
// the share registry, the audit log and the contact directory.
package repository

import (
	"sync"

	"cipherdoc/internal/models"
)

const (
	// defaultPageSize is used when no valid page size has been configured.
	defaultPageSize = 18
	// minPageSize is the smallest accepted page size; smaller values are
	// rejected at the boundary.
	minPageSize = 5
)

// DocumentStore holds the document as an ordered sequence of addressable
// text units and derives the page partition on demand.
type DocumentStore struct {
	mu       sync.Mutex
	units    []models.Unit
	pageSize int
}

// NewDocumentStore creates an empty document with the given page size.
// The constructor trusts its caller; only SetPageSize enforces the minimum.
// Non-positive sizes fall back to the default of 18.
func NewDocumentStore(pageSize int) *DocumentStore {
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	return &DocumentStore{pageSize: pageSize}
}

// Units returns a copy of the unit sequence in document order.
func (d *DocumentStore) Units() []models.Unit {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]models.Unit, len(d.units))
	copy(out, d.units)
	return out
}

// Unit returns the unit with the given ID, if present.
func (d *DocumentStore) Unit(id int) (models.Unit, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range d.units {
		if u.ID == id {
			return u, true
		}
	}
	return models.Unit{}, false
}

// Append adds a new unit at the end of the document and returns it.
// The new ID is one past the highest existing ID, or 0 for an empty
// document.
func (d *DocumentStore) Append(text string) models.Unit {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := 0
	for _, u := range d.units {
		if u.ID >= id {
			id = u.ID + 1
		}
	}
	unit := models.Unit{ID: id, Text: text}
	d.units = append(d.units, unit)
	return unit
}

// SetText replaces the text of the unit with the given ID.
// Returns false if no such unit exists.
func (d *DocumentStore) SetText(id int, text string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, u := range d.units {
		if u.ID == id {
			d.units[i].Text = text
			return true
		}
	}
	return false
}

// PageSize returns the current page size.
func (d *DocumentStore) PageSize() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pageSize
}

// SetPageSize updates the page size. Values below the minimum are rejected
// and the previous valid value is kept. Returns the effective page size.
func (d *DocumentStore) SetPageSize(n int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if n >= minPageSize {
		d.pageSize = n
	}
	return d.pageSize
}

// Pages returns the page partition of the document: contiguous runs of
// pageSize units, the last page possibly shorter. It is recomputed on every
// call so it always reflects the current units and page size.
func (d *DocumentStore) Pages() []models.Page {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pages()
}

func (d *DocumentStore) pages() []models.Page {
	var out []models.Page
	for i := 0; i < len(d.units); i += d.pageSize {
		end := i + d.pageSize
		if end > len(d.units) {
			end = len(d.units)
		}
		out = append(out, models.Page{Index: len(out), Start: i, End: end})
	}
	return out
}

// PageIndexOf returns the index of the page containing the unit with the
// given ID. The page index is derived from the unit's position in document
// order, not from its ID.
func (d *DocumentStore) PageIndexOf(unitID int) (int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for pos, u := range d.units {
		if u.ID == unitID {
			return pos / d.pageSize, true
		}
	}
	return 0, false
}
