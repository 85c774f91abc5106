package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEntry() *DiveEntry {
	return &DiveEntry{
		ID:       "e1",
		UserID:   "u1",
		Date:     "2025-07-14",
		Time:     "09:30",
		Location: "Blue Hole",
		Depth:    18.5,
		Rating:   4,
		Catches: []Catch{
			{ID: "c1", Species: "grouper", Quantity: 1, Method: MethodSpeargun},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*DiveEntry)
		wantErr error
	}{
		{name: "valid", mutate: func(e *DiveEntry) {}, wantErr: nil},
		{name: "missing id", mutate: func(e *DiveEntry) { e.ID = "" }, wantErr: ErrMissingID},
		{name: "missing user", mutate: func(e *DiveEntry) { e.UserID = "" }, wantErr: ErrMissingUserID},
		{name: "missing date", mutate: func(e *DiveEntry) { e.Date = "" }, wantErr: ErrMissingDate},
		{name: "unrated dive", mutate: func(e *DiveEntry) { e.Rating = 0 }, wantErr: nil},
		{name: "rating too high", mutate: func(e *DiveEntry) { e.Rating = 6 }, wantErr: ErrBadRating},
		{name: "rating negative", mutate: func(e *DiveEntry) { e.Rating = -1 }, wantErr: ErrBadRating},
		{name: "zero catch quantity", mutate: func(e *DiveEntry) { e.Catches[0].Quantity = 0 }, wantErr: ErrBadQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEntry()
			tt.mutate(e)
			err := e.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestClone_DeepCopies(t *testing.T) {
	e := validEntry()
	e.Coordinates = &Coordinates{Lat: 32.1, Lng: 34.8}
	e.Equipment.Gear = []string{"torch"}
	e.Photos = []string{"p1"}

	c := e.Clone()
	c.Coordinates.Lat = 0
	c.Equipment.Gear[0] = "knife"
	c.Catches[0].Species = "tuna"
	c.Photos[0] = "p2"

	assert.Equal(t, 32.1, e.Coordinates.Lat)
	assert.Equal(t, "torch", e.Equipment.Gear[0])
	assert.Equal(t, "grouper", e.Catches[0].Species)
	assert.Equal(t, "p1", e.Photos[0])
}

func TestNewEntryID_Unique(t *testing.T) {
	a := NewEntryID()
	b := NewEntryID()
	require.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestTimestamp_UTCAndRFC3339(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	ts := Timestamp(time.Date(2025, 7, 14, 12, 0, 0, 0, loc))
	assert.Equal(t, "2025-07-14T09:00:00Z", ts)
}
