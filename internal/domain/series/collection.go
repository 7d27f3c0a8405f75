package series

import (
	"cmp"
	"slices"
	"sync"
)

// Collection holds the rows of one listing keyed by primary stage id. It is
// safe for concurrent use; hydration patches rows in place while readers take
// snapshots.
type Collection struct {
	mu    sync.RWMutex
	order []int64
	rows  map[int64]Row
}

// NewCollection keeps one row per primary stage id. When two rows share a key
// the first one with dates wins, then the first one seen.
func NewCollection(rows []Row) *Collection {
	c := &Collection{
		order: make([]int64, 0, len(rows)),
		rows:  make(map[int64]Row, len(rows)),
	}
	for _, row := range rows {
		key := row.PrimaryStageID()
		if key <= 0 {
			continue
		}
		existing, ok := c.rows[key]
		if !ok {
			c.order = append(c.order, key)
			c.rows[key] = row.clone()
			continue
		}
		if !existing.HasDates() && row.HasDates() {
			c.rows[key] = row.clone()
		}
	}
	return c
}

func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

func (c *Collection) Keys() []int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.order)
}

func (c *Collection) Get(primaryStageID int64) (Row, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	row, ok := c.rows[primaryStageID]
	if !ok {
		return Row{}, false
	}
	return row.clone(), true
}

// Rows returns a copy of every row in collection order.
func (c *Collection) Rows() []Row {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Row, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.rows[key].clone())
	}
	return out
}

// Apply patches the row addressed by p.PrimaryStageID. Unknown keys are
// ignored; rows are never created or removed here.
func (c *Collection) Apply(p Patch) (Row, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	row, ok := c.rows[p.PrimaryStageID]
	if !ok {
		return Row{}, false
	}
	row = row.Apply(p)
	c.rows[p.PrimaryStageID] = row
	return row.clone(), true
}

// SortByStart orders rows by start date ascending. Rows without a start go
// last; ties fall back to primary stage id.
func SortByStart(rows []Row) {
	slices.SortStableFunc(rows, func(a, b Row) int {
		switch {
		case a.StartDate == nil && b.StartDate == nil:
			return cmp.Compare(a.PrimaryStageID(), b.PrimaryStageID())
		case a.StartDate == nil:
			return 1
		case b.StartDate == nil:
			return -1
		}
		if c := a.StartDate.Compare(*b.StartDate); c != 0 {
			return c
		}
		return cmp.Compare(a.PrimaryStageID(), b.PrimaryStageID())
	})
}
