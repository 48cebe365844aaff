// File: internal/aggregate/freqtable.go
package aggregate

// Entry is one bucket of a FrequencyTable.
type Entry struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// FrequencyTable counts occurrences per value for one dimension while
// preserving the insertion order of first-seen values, which downstream
// presentation relies on. The zero value is not usable; construct with
// NewFrequencyTable.
type FrequencyTable struct {
	order  []string
	counts map[string]int
}

// NewFrequencyTable returns an empty table.
func NewFrequencyTable() *FrequencyTable {
	return &FrequencyTable{counts: make(map[string]int)}
}

// Inc increments the bucket for value, creating it at the end of the
// presentation order on first sight.
func (t *FrequencyTable) Inc(value string) {
	if _, ok := t.counts[value]; !ok {
		t.order = append(t.order, value)
	}
	t.counts[value]++
}

// Count returns the bucket for value, zero if the value was never seen.
func (t *FrequencyTable) Count(value string) int { return t.counts[value] }

// Len returns the number of distinct values.
func (t *FrequencyTable) Len() int { return len(t.order) }

// Total returns the sum over all buckets.
func (t *FrequencyTable) Total() int {
	total := 0
	for _, c := range t.counts {
		total += c
	}
	return total
}

// Entries returns the buckets in first-seen order.
func (t *FrequencyTable) Entries() []Entry {
	entries := make([]Entry, 0, len(t.order))
	for _, v := range t.order {
		entries = append(entries, Entry{Value: v, Count: t.counts[v]})
	}
	return entries
}

// MarshalJSON renders the table as an ordered array of entries. A plain
// map would lose the first-seen ordering.
func (t *FrequencyTable) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Entries())
}
