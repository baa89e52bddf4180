package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompetitionRankTies(t *testing.T) {
	ranks := CompetitionRank([]Entry{
		{ID: "a", Key: Key{Primary: 90}},
		{ID: "b", Key: Key{Primary: 75}},
		{ID: "c", Key: Key{Primary: 75}},
		{ID: "d", Key: Key{Primary: 60}},
	})
	assert.Equal(t, map[string]int{"a": 1, "b": 2, "c": 2, "d": 4}, ranks)
}

func TestCompetitionRankUsesSecondaryKey(t *testing.T) {
	ranks := CompetitionRank([]Entry{
		{ID: "a", Key: Key{Primary: 300, Secondary: 75}},
		{ID: "b", Key: Key{Primary: 300, Secondary: 60}},
		{ID: "c", Key: Key{Primary: 300, Secondary: 75}},
		{ID: "d", Key: Key{Primary: 310, Secondary: 62}},
	})
	assert.Equal(t, 1, ranks["d"])
	assert.Equal(t, 2, ranks["a"])
	assert.Equal(t, 2, ranks["c"])
	assert.Equal(t, 4, ranks["b"])
}

func TestCompetitionRankLeadingTie(t *testing.T) {
	ranks := CompetitionRank([]Entry{
		{ID: "a", Key: Key{Primary: 50}},
		{ID: "b", Key: Key{Primary: 50}},
		{ID: "c", Key: Key{Primary: 40}},
		{ID: "d", Key: Key{Primary: 30}},
	})
	assert.Equal(t, map[string]int{"a": 1, "b": 1, "c": 3, "d": 4}, ranks)
}

func TestCompetitionRankEmpty(t *testing.T) {
	assert.Empty(t, CompetitionRank(nil))
}

func TestCompetitionRankIsCompetitionRanking(t *testing.T) {
	scores := []float64{55, 90, 55, 55, 12, 90, 70}
	entries := make([]Entry, len(scores))
	for i, s := range scores {
		entries[i] = Entry{ID: string(rune('a' + i)), Key: Key{Primary: s}}
	}
	ranks := CompetitionRank(entries)

	min := len(entries)
	for i, e := range entries {
		higher := 0
		for _, other := range entries {
			if other.Key.Primary > e.Key.Primary {
				higher++
			}
		}
		assert.Equal(t, higher+1, ranks[e.ID], "entry %d", i)
		if ranks[e.ID] < min {
			min = ranks[e.ID]
		}
	}
	assert.Equal(t, 1, min)
}

func TestOrdinalAndContext(t *testing.T) {
	assert.Equal(t, "1st", Ordinal(1))
	assert.Equal(t, "2nd", Ordinal(2))
	assert.Equal(t, "3rd", Ordinal(3))
	assert.Equal(t, "11th", Ordinal(11))
	assert.Equal(t, "12th", Ordinal(12))
	assert.Equal(t, "22nd", Ordinal(22))
	assert.Equal(t, "113th", Ordinal(113))

	pos := 3
	assert.Equal(t, "3rd of 25", PositionContext(&pos, 25))
	assert.Equal(t, "", PositionContext(nil, 25))
	assert.True(t, ValidPosition(3, 3))
	assert.False(t, ValidPosition(4, 3))
	assert.False(t, ValidPosition(0, 3))
}
