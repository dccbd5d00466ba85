package store

import (
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recordbook/internal/model"
)

func record(name string) model.Record {
	return model.Record{
		FullName:      name,
		Amount:        decimal.RequireFromString("10.50"),
		PhoneNumber:   "08123456789",
		DateSubmitted: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestAppendPreservesOrder(t *testing.T) {
	s := New()
	s.Append(record("John Doe"))
	s.Append(record("Jane Smith"))
	s.Append(record("Ada Lovelace"))

	all := s.All()
	require.Len(t, all, 3)
	assert.Equal(t, "John Doe", all[0].FullName)
	assert.Equal(t, "Jane Smith", all[1].FullName)
	assert.Equal(t, "Ada Lovelace", all[2].FullName)
	assert.Equal(t, 3, s.Len())
}

func TestAppendGrowsByOneAndKeepsPrior(t *testing.T) {
	s := New()
	s.Append(record("John Doe"))
	before := s.All()

	s.Append(record("Jane Smith"))
	after := s.All()

	assert.Len(t, after, len(before)+1)
	assert.Equal(t, before, after[:len(before)])
}

func TestAllReturnsSnapshot(t *testing.T) {
	s := New()
	s.Append(record("John Doe"))

	view := s.All()
	view[0].FullName = "Mallory"
	_ = append(view, record("Intruder"))

	all := s.All()
	require.Len(t, all, 1)
	assert.Equal(t, "John Doe", all[0].FullName)
}

func TestSubscribersReceiveSnapshot(t *testing.T) {
	s := New()
	var got [][]model.Record
	unsubscribe := s.Subscribe(func(snapshot []model.Record) {
		got = append(got, snapshot)
	})

	s.Append(record("John Doe"))
	s.Append(record("Jane Smith"))
	require.Len(t, got, 2)
	assert.Len(t, got[0], 1)
	assert.Len(t, got[1], 2)
	assert.Equal(t, "Jane Smith", got[1][1].FullName)

	unsubscribe()
	unsubscribe()
	s.Append(record("Ada Lovelace"))
	assert.Len(t, got, 2)
}

func TestSubscriberMayReadStore(t *testing.T) {
	s := New()
	var lengths []int
	s.Subscribe(func([]model.Record) {
		lengths = append(lengths, s.Len())
	})

	s.Append(record("John Doe"))
	assert.Equal(t, []int{1}, lengths)
}

func TestConcurrentAppend(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Append(record("John Doe"))
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, s.Len())
}
