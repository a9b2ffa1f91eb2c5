package regdec

import "golang.org/x/exp/constraints"

// wrap returns v modulo n in [0, n).
func wrap[T constraints.Integer](v, n T) T {
	r := v % n
	if r < 0 {
		r += n
	}
	return r
}

// Cursor tracks the selected register and whether accesses advance it.
// The index is always in [0, count).
type Cursor struct {
	index   int
	count   int
	autoInc bool
}

// NewCursor creates a cursor over a table of count registers.
func NewCursor(count int) Cursor {
	if count <= 0 {
		panic("regdec: cursor over empty register table")
	}
	return Cursor{count: count}
}

func (c *Cursor) Index() int    { return c.index }
func (c *Cursor) AutoInc() bool { return c.autoInc }

// Select points the cursor at index, wrapped into the table.
func (c *Cursor) Select(index int, autoInc bool) {
	c.index = wrap(index, c.count)
	c.autoInc = autoInc
}

// Advance moves to the next register when auto-increment is on.
func (c *Cursor) Advance() {
	if c.autoInc {
		c.index = wrap(c.index+1, c.count)
	}
}
