package review

// Cursor tracks the record under review. It is inactive while the catalog is
// empty.
type Cursor struct {
	index int
	count int
}

// reset points the cursor at the first of count records.
func (c *Cursor) reset(count int) {
	c.index = 0
	c.count = count
}

// restore places the cursor at index, clamping into range.
func (c *Cursor) restore(count, index int) {
	c.count = count
	switch {
	case count == 0 || index < 0:
		c.index = 0
	case index >= count:
		c.index = count - 1
	default:
		c.index = index
	}
}

// Active reports whether there is a record under the cursor.
func (c Cursor) Active() bool {
	return c.count > 0
}

// Index returns the 0-based position. It is meaningless while inactive.
func (c Cursor) Index() int {
	return c.index
}

// Position returns the 1-based position, or 0 while inactive.
func (c Cursor) Position() int {
	if !c.Active() {
		return 0
	}
	return c.index + 1
}

// Count returns the number of records the cursor ranges over.
func (c Cursor) Count() int {
	return c.count
}

// CanAdvance reports whether a next record exists.
func (c Cursor) CanAdvance() bool {
	return c.Active() && c.index < c.count-1
}

// CanRetreat reports whether a previous record exists.
func (c Cursor) CanRetreat() bool {
	return c.Active() && c.index > 0
}

// MoveTo jumps to a 0-based index. Indexes outside the catalog are ignored.
// It reports whether the position changed.
func (c *Cursor) MoveTo(index int) bool {
	if index < 0 || index >= c.count || index == c.index {
		return false
	}
	c.index = index
	return true
}

// Next advances one record when possible.
func (c *Cursor) Next() bool { return c.MoveTo(c.index + 1) }

// Previous steps back one record when possible.
func (c *Cursor) Previous() bool { return c.MoveTo(c.index - 1) }

// First jumps to the first record.
func (c *Cursor) First() bool { return c.MoveTo(0) }

// Last jumps to the last record.
func (c *Cursor) Last() bool { return c.MoveTo(c.count - 1) }
