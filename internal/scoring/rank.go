package scoring

import (
	"fmt"
	"sort"
)

// Key orders ranking entries; Secondary breaks ties on Primary.
type Key struct {
	Primary   float64
	Secondary float64
}

// Entry is a rankable item.
type Entry struct {
	ID  string
	Key Key
}

// CompetitionRank assigns 1-based ranks in descending key order. Equal keys share a rank
// and the next distinct key takes its index in the sorted order (1, 1, 3, 4).
func CompetitionRank(entries []Entry) map[string]int {
	ranks := make(map[string]int, len(entries))
	if len(entries) == 0 {
		return ranks
	}
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	for i := range sorted {
		sorted[i].Key = Key{Primary: Round2(sorted[i].Key.Primary), Secondary: Round2(sorted[i].Key.Secondary)}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Key, sorted[j].Key
		if a.Primary != b.Primary {
			return a.Primary > b.Primary
		}
		if a.Secondary != b.Secondary {
			return a.Secondary > b.Secondary
		}
		return sorted[i].ID < sorted[j].ID
	})

	rank := 1
	for i, entry := range sorted {
		if i > 0 && entry.Key != sorted[i-1].Key {
			rank = i + 1
		}
		ranks[entry.ID] = rank
	}
	return ranks
}

// Ordinal renders 1 as "1st", 12 as "12th", 23 as "23rd".
func Ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

// PositionContext renders a position against its cohort, e.g. "3rd of 25".
func PositionContext(position *int, cohortSize int) string {
	if position == nil || *position <= 0 {
		return ""
	}
	if cohortSize <= 0 {
		return Ordinal(*position)
	}
	return fmt.Sprintf("%s of %d", Ordinal(*position), cohortSize)
}

// ValidPosition checks 1 <= position <= cohortSize.
func ValidPosition(position, cohortSize int) bool {
	return position >= 1 && position <= cohortSize
}
