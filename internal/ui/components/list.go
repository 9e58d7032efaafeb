package components

// Cursor tracks a selected row in a list of Len rows.
type Cursor struct {
	Index int
	Len   int
}

// SetLen updates the row count and clamps the index.
func (c *Cursor) SetLen(n int) {
	c.Len = n
	c.clamp()
}

// Move shifts the index by delta, clamped to the list.
func (c *Cursor) Move(delta int) {
	c.Index += delta
	c.clamp()
}

func (c *Cursor) clamp() {
	if c.Index >= c.Len {
		c.Index = c.Len - 1
	}
	if c.Index < 0 {
		c.Index = 0
	}
}

// Window returns the [start, end) slice of rows to show in height lines,
// keeping the index visible.
func (c Cursor) Window(height int) (int, int) {
	if height <= 0 || c.Len <= height {
		return 0, c.Len
	}
	start := c.Index - height/2
	if start < 0 {
		start = 0
	}
	if start+height > c.Len {
		start = c.Len - height
	}
	return start, start + height
}
