package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeriesAdded_JSON(t *testing.T) {
	year := 2008
	e := &SeriesAdded{
		BaseEvent: NewBaseEvent(TypeSeriesAdded, EntitySeries, 42, "alice"),
		Title:     "Breaking Bad",
		Year:      &year,
		Seasons:   5,
		Episodes:  62,
	}

	data, err := json.Marshal(e)
	require.NoError(t, err)

	var decoded SeriesAdded
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)

	assert.Equal(t, "Breaking Bad", decoded.Title)
	require.NotNil(t, decoded.Year)
	assert.Equal(t, 2008, *decoded.Year)
	assert.Equal(t, 5, decoded.Seasons)
	assert.Equal(t, 62, decoded.Episodes)
	assert.Equal(t, "alice", decoded.UserID())
}

func TestSeasonWatched_JSON(t *testing.T) {
	e := &SeasonWatched{
		BaseEvent: NewBaseEvent(TypeSeasonWatched, EntitySeason, 7, "bob"),
		Watched:   true,
		Episodes:  10,
	}

	data, err := json.Marshal(e)
	require.NoError(t, err)

	var decoded SeasonWatched
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)

	assert.True(t, decoded.Watched)
	assert.Equal(t, 10, decoded.Episodes)
	assert.Equal(t, int64(7), decoded.EntityID())
}
