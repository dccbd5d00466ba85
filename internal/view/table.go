// Package view keeps a filtered, paginated projection of the record store up
// to date as records arrive and criteria change.
package view

import (
	"slices"
	"sync"
	"time"

	"recordbook/internal/filter"
	"recordbook/internal/model"
	"recordbook/internal/store"
)

// Source is the record store a Table observes.
type Source interface {
	All() []model.Record
	Subscribe(fn store.Subscriber) (unsubscribe func())
}

// Table holds filter criteria and the rows that currently match them.
type Table struct {
	mu       sync.Mutex
	loc      *time.Location
	pageSize int
	criteria filter.Criteria
	records  []model.Record
	filtered []model.Record
	onChange func()

	unsubscribe func()
}

// NewTable subscribes to src and computes the initial rows.
func NewTable(src Source, pageSize int, loc *time.Location) *Table {
	t := &Table{loc: loc, pageSize: pageSize}
	t.unsubscribe = src.Subscribe(t.storeChanged)

	t.mu.Lock()
	t.records = longest(t.records, src.All())
	t.recompute()
	t.mu.Unlock()
	return t
}

// OnChange sets a callback invoked after every recomputation.
func (t *Table) OnChange(fn func()) {
	t.mu.Lock()
	t.onChange = fn
	t.mu.Unlock()
}

// SetText replaces the free-text criterion.
func (t *Table) SetText(text string) {
	t.update(func(c *filter.Criteria) { c.Text = text })
}

// SetRange replaces both date bounds; nil leaves a side unconstrained.
func (t *Table) SetRange(start, end *time.Time) {
	t.update(func(c *filter.Criteria) {
		c.Start = start
		c.End = end
	})
}

// SetCriteria replaces all criteria at once.
func (t *Table) SetCriteria(c filter.Criteria) {
	t.update(func(cur *filter.Criteria) { *cur = c })
}

// Criteria returns the current criteria.
func (t *Table) Criteria() filter.Criteria {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.criteria
}

// Filtered returns a copy of the rows matching the current criteria.
func (t *Table) Filtered() []model.Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.filtered)
}

// Total returns the unfiltered record count.
func (t *Table) Total() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.records)
}

// Page returns page index (1-based) of the filtered rows.
func (t *Table) Page(index int) Page {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Paginate(t.filtered, len(t.records), t.pageSize, index)
}

// Close stops observing the store.
func (t *Table) Close() {
	t.unsubscribe()
}

func (t *Table) storeChanged(snapshot []model.Record) {
	t.mu.Lock()
	t.records = longest(t.records, snapshot)
	t.recompute()
	fn := t.onChange
	t.mu.Unlock()

	if fn != nil {
		fn()
	}
}

func (t *Table) update(change func(*filter.Criteria)) {
	t.mu.Lock()
	change(&t.criteria)
	t.recompute()
	fn := t.onChange
	t.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// recompute must be called with t.mu held.
func (t *Table) recompute() {
	t.filtered = filter.Apply(t.records, t.criteria, t.loc)
}

// longest keeps the newer of two snapshots. The store is append-only, so
// concurrent notifications arriving out of order are told apart by length.
func longest(cur, next []model.Record) []model.Record {
	if len(next) < len(cur) {
		return cur
	}
	return next
}
