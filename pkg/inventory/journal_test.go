package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournal_EntryFormat(t *testing.T) {
	at := time.Date(2024, 3, 9, 14, 5, 6, 123456000, time.UTC)
	journal := &Journal{now: func() time.Time { return at }}

	s := NewStore()
	require.NoError(t, s.Add("apple", 10, journal))
	require.NoError(t, s.Add("banana", -2, journal))
	require.NoError(t, s.Add("pear", 0.5, journal))

	assert.Equal(t, []string{
		"2024-03-09 14:05:06.123456: Added 10 of apple",
		"2024-03-09 14:05:06.123456: Added -2 of banana",
		"2024-03-09 14:05:06.123456: Added 0.5 of pear",
	}, journal.Lines())
}

func TestJournal_EntriesHaveDistinctIDs(t *testing.T) {
	var journal Journal
	s := NewStore()
	require.NoError(t, s.Add("apple", 1, &journal))
	require.NoError(t, s.Add("apple", 1, &journal))

	entries := journal.Entries()
	require.Len(t, entries, 2)
	for _, e := range entries {
		_, err := uuid.Parse(e.ID)
		assert.NoError(t, err)
		assert.False(t, e.At.IsZero())
	}
	assert.NotEqual(t, entries[0].ID, entries[1].ID)

	entries[0].Item = "mutated"
	assert.Equal(t, "apple", journal.Entries()[0].Item)
}

func TestQuantity_String(t *testing.T) {
	assert.Equal(t, "7", Quantity(7).String())
	assert.Equal(t, "-2", Quantity(-2).String())
	assert.Equal(t, "2.5", Quantity(2.5).String())
	assert.Equal(t, "1000000", Quantity(1e6).String())
}
