package review

import (
	"fmt"

	"auxl/internal/research"
)

// Catalog is the ordered set of records of one load.
type Catalog struct {
	records []research.Record
	index   map[string]int
}

// NewCatalog builds a catalog from records. It fails with ErrDuplicateRecord
// when two records share an identity.
func NewCatalog(records []research.Record) (*Catalog, error) {
	c := &Catalog{}
	if err := c.Load(records); err != nil {
		return nil, err
	}
	return c, nil
}

// Load replaces the catalog contents wholesale. On error the catalog is left
// unchanged.
func (c *Catalog) Load(records []research.Record) error {
	index := make(map[string]int, len(records))
	for i, r := range records {
		id := r.Identity()
		if prev, ok := index[id]; ok {
			return fmt.Errorf("%w: %q at positions %d and %d", ErrDuplicateRecord, id, prev+1, i+1)
		}
		index[id] = i
	}
	c.records = append([]research.Record(nil), records...)
	c.index = index
	return nil
}

// Count returns the number of records.
func (c *Catalog) Count() int {
	if c == nil {
		return 0
	}
	return len(c.records)
}

// Get returns the record at a 0-based index.
func (c *Catalog) Get(index int) (research.Record, error) {
	if index < 0 || index >= c.Count() {
		return research.Record{}, fmt.Errorf("%w: %d not in [0,%d)", ErrOutOfRange, index, c.Count())
	}
	return c.records[index], nil
}

// IndexOf returns the position of the record with the given identity.
func (c *Catalog) IndexOf(identity string) (int, bool) {
	if c == nil {
		return 0, false
	}
	i, ok := c.index[identity]
	return i, ok
}

// Records returns a copy of the records in catalog order.
func (c *Catalog) Records() []research.Record {
	if c == nil {
		return nil
	}
	return append([]research.Record(nil), c.records...)
}

// Identities returns record identities in catalog order.
func (c *Catalog) Identities() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.records))
	for i, r := range c.records {
		out[i] = r.Identity()
	}
	return out
}
