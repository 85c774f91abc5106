// Package models defines the dive journal record types shared by the
// reconciliation store, the repositories and the presentation layer.
package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// WeatherCondition classifies the sky/sea state during a dive.
type WeatherCondition string

const (
	WeatherSunny  WeatherCondition = "sunny"
	WeatherCloudy WeatherCondition = "cloudy"
	WeatherRainy  WeatherCondition = "rainy"
	WeatherStormy WeatherCondition = "stormy"
	WeatherFoggy  WeatherCondition = "foggy"
)

// CurrentStrength grades the underwater current.
type CurrentStrength string

const (
	CurrentNone   CurrentStrength = "none"
	CurrentWeak   CurrentStrength = "weak"
	CurrentMedium CurrentStrength = "medium"
	CurrentStrong CurrentStrength = "strong"
)

// FishingMethod is how a catch was (or was attempted to be) taken.
type FishingMethod string

const (
	MethodSpeargun  FishingMethod = "speargun"
	MethodPoleSpear FishingMethod = "pole_spear"
	MethodHook      FishingMethod = "hook"
	MethodNet       FishingMethod = "net"
	MethodOther     FishingMethod = "other"
)

var (
	ErrMissingID     = errors.New("entry id is required")
	ErrMissingUserID = errors.New("entry user id is required")
	ErrMissingDate   = errors.New("entry date is required")
	ErrBadRating     = errors.New("rating must be 1-5, or 0 for unrated")
	ErrBadQuantity   = errors.New("catch quantity must be at least 1")
)

// Coordinates is an optional dive site position.
type Coordinates struct {
	Lat float64 `json:"lat" firestore:"lat"`
	Lng float64 `json:"lng" firestore:"lng"`
}

// Weather captures surface and water conditions at dive time.
type Weather struct {
	Condition        WeatherCondition `json:"condition" firestore:"condition"`
	Temperature      float64          `json:"temperature" firestore:"temperature"`
	WaterTemperature float64          `json:"waterTemperature" firestore:"waterTemperature"`
	WindSpeed        float64          `json:"windSpeed" firestore:"windSpeed"`
	WindDirection    string           `json:"windDirection" firestore:"windDirection"`
	WaveHeight       float64          `json:"waveHeight" firestore:"waveHeight"`
	Current          CurrentStrength  `json:"current" firestore:"current"`
}

// Equipment lists the gear used on a dive. Weight is in kilograms.
type Equipment struct {
	Mask   string   `json:"mask" firestore:"mask"`
	Fins   string   `json:"fins" firestore:"fins"`
	Suit   string   `json:"suit" firestore:"suit"`
	Weight float64  `json:"weight" firestore:"weight"`
	Gear   []string `json:"gear" firestore:"gear"`
}

// Catch is a single caught (or released) fish. It has no lifecycle of its
// own; it always travels embedded in its parent DiveEntry.
type Catch struct {
	ID       string        `json:"id" firestore:"id"`
	Species  string        `json:"species" firestore:"species"`
	Weight   float64       `json:"weight,omitempty" firestore:"weight,omitempty"`
	Length   float64       `json:"length,omitempty" firestore:"length,omitempty"`
	Quantity int           `json:"quantity" firestore:"quantity"`
	Method   FishingMethod `json:"method" firestore:"method"`
	Released bool          `json:"released" firestore:"released"`
	Photo    string        `json:"photo,omitempty" firestore:"photo,omitempty"`
	Notes    string        `json:"notes,omitempty" firestore:"notes,omitempty"`
}

// DiveEntry is the unit of record: one logged dive.
//
// ID is assigned client-side at creation time so an optimistic local write
// and its eventual server echo share the same identity. UserID is set at
// creation and immutable afterwards.
type DiveEntry struct {
	ID          string       `json:"id" firestore:"id"`
	UserID      string       `json:"userId" firestore:"userId"`
	Date        string       `json:"date" firestore:"date"`
	Time        string       `json:"time" firestore:"time"`
	Location    string       `json:"location" firestore:"location"`
	Coordinates *Coordinates `json:"coordinates,omitempty" firestore:"coordinates,omitempty"`

	Depth      float64 `json:"depth" firestore:"depth"`
	Duration   float64 `json:"duration" firestore:"duration"`
	Visibility float64 `json:"visibility" firestore:"visibility"`

	Weather   Weather   `json:"weather" firestore:"weather"`
	Equipment Equipment `json:"equipment" firestore:"equipment"`

	FishingType FishingMethod `json:"fishingType" firestore:"fishingType"`
	Catches     []Catch       `json:"catches" firestore:"catches"`
	Photos      []string      `json:"photos" firestore:"photos"`
	Notes       string        `json:"notes" firestore:"notes"`

	// Rating is a 1-5 star score; 0 means the dive was not rated.
	Rating int `json:"rating" firestore:"rating"`

	CreatedAt string `json:"createdAt" firestore:"createdAt"`
	UpdatedAt string `json:"updatedAt" firestore:"updatedAt"`
}

// NewEntryID returns a fresh collision-resistant entry identifier.
func NewEntryID() string {
	return uuid.NewString()
}

// Timestamp formats t the way entry timestamps are stored.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// Validate reports the first problem that makes the entry unfit for the
// store or the repository. Entries failing Validate are filtered out of
// snapshots and rejected from local writes before any network call.
func (e *DiveEntry) Validate() error {
	switch {
	case e.ID == "":
		return ErrMissingID
	case e.UserID == "":
		return ErrMissingUserID
	case e.Date == "":
		return ErrMissingDate
	}
	if e.Rating < 0 || e.Rating > 5 {
		return ErrBadRating
	}
	for i := range e.Catches {
		if e.Catches[i].Quantity < 1 {
			return ErrBadQuantity
		}
	}
	return nil
}

// Clone returns a deep copy. The store hands out clones so callers can
// never mutate its internal state in place.
func (e *DiveEntry) Clone() *DiveEntry {
	c := *e
	if e.Coordinates != nil {
		coords := *e.Coordinates
		c.Coordinates = &coords
	}
	if e.Equipment.Gear != nil {
		c.Equipment.Gear = append([]string(nil), e.Equipment.Gear...)
	}
	if e.Catches != nil {
		c.Catches = append([]Catch(nil), e.Catches...)
	}
	if e.Photos != nil {
		c.Photos = append([]string(nil), e.Photos...)
	}
	return &c
}
