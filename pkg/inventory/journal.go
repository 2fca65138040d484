package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// JournalTimeLayout formats entry timestamps with microsecond precision.
const JournalTimeLayout = "2006-01-02 15:04:05.000000"

// JournalEntry records one successful addition.
type JournalEntry struct {
	ID   string
	At   time.Time
	Item string
	Qty  Quantity
}

// String renders the entry as "<timestamp>: Added <qty> of <item>".
func (e JournalEntry) String() string {
	return fmt.Sprintf("%s: Added %s of %s", e.At.Format(JournalTimeLayout), e.Qty, e.Item)
}

// Journal is a caller-owned record of additions. The zero value is ready to use.
// It is not safe for concurrent use.
type Journal struct {
	now     func() time.Time
	entries []JournalEntry
}

// NewJournal returns an empty journal stamped with the wall clock.
func NewJournal() *Journal {
	return &Journal{now: time.Now}
}

func (j *Journal) record(item string, qty Quantity) {
	now := time.Now
	if j.now != nil {
		now = j.now
	}
	j.entries = append(j.entries, JournalEntry{
		ID:   uuid.NewString(),
		At:   now(),
		Item: item,
		Qty:  qty,
	})
}

// Len returns the number of recorded additions.
func (j *Journal) Len() int { return len(j.entries) }

// Entries returns a copy of the recorded additions in order.
func (j *Journal) Entries() []JournalEntry {
	out := make([]JournalEntry, len(j.entries))
	copy(out, j.entries)
	return out
}

// Lines returns the text form of every entry.
func (j *Journal) Lines() []string {
	lines := make([]string, 0, len(j.entries))
	for _, e := range j.entries {
		lines = append(lines, e.String())
	}
	return lines
}
