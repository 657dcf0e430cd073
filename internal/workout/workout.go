package workout

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Type is the variant tag of a workout, one of:
//   - running
//   - cycling
type Type string

const (
	TypeRunning Type = "running"
	TypeCycling Type = "cycling"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case TypeRunning, TypeCycling:
		return true
	default:
		return false
	}
}

// Title returns the capitalized type name, used in descriptions.
func (t Type) Title() string {
	switch t {
	case TypeRunning:
		return "Running"
	case TypeCycling:
		return "Cycling"
	default:
		return string(t)
	}
}

func (t Type) Icon() string {
	if t == TypeRunning {
		return "🏃"
	}
	return "🚴‍♀️"
}

// PopupClass is the style class used for the map marker popup.
func (t Type) PopupClass() string {
	return fmt.Sprintf("%s-popup", t)
}

// Coords is a [lat, lng] pair, serialized as a two element JSON array.
type Coords [2]float64

func NewCoords(lat, lng float64) Coords {
	return Coords{lat, lng}
}

func (c Coords) Lat() float64 { return c[0] }
func (c Coords) Lng() float64 { return c[1] }

// Valid reports whether both values are within the geographic ranges.
func (c Coords) Valid() bool {
	return c[0] >= -90 && c[0] <= 90 && c[1] >= -180 && c[1] <= 180
}

// Workout is a single logged activity. Fields specific to one variant are left
// zero for the other one (and omitted when persisted).
type Workout struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	Coords      Coords    `json:"coordinates"`
	DistanceKm  float64   `json:"distanceKm"`  // km
	DurationMin float64   `json:"durationMin"` // min
	Type        Type      `json:"variantTag"`
	Description string    `json:"description"`

	// running
	CadenceSpm   int     `json:"cadenceSpm,omitempty"`
	PaceMinPerKm float64 `json:"paceMinPerKm,omitempty"`

	// cycling
	ElevationGainM float64 `json:"elevationGainM,omitempty"`
	SpeedKmPerHr   float64 `json:"speedKmPerHr,omitempty"`

	InteractionCount int `json:"interactionCount"`
}

// NewRunning creates a running workout. Inputs are expected to be validated by the caller.
func NewRunning(now time.Time, coords Coords, distanceKm, durationMin float64, cadenceSpm int) *Workout {
	w := newWorkout(now, TypeRunning, coords, distanceKm, durationMin)
	w.CadenceSpm = cadenceSpm
	w.Recalculate()
	return w
}

// NewCycling creates a cycling workout. Inputs are expected to be validated by the caller.
func NewCycling(now time.Time, coords Coords, distanceKm, durationMin, elevationGainM float64) *Workout {
	w := newWorkout(now, TypeCycling, coords, distanceKm, durationMin)
	w.ElevationGainM = elevationGainM
	w.Recalculate()
	return w
}

func newWorkout(now time.Time, t Type, coords Coords, distanceKm, durationMin float64) *Workout {
	return &Workout{
		ID:          uuid.NewString(),
		CreatedAt:   now.UTC(),
		Coords:      coords,
		DistanceKm:  distanceKm,
		DurationMin: durationMin,
		Type:        t,
		Description: Describe(t, now),
	}
}

// Describe builds the label shown in the list and the marker popup, e.g. "Running on October 18".
func Describe(t Type, date time.Time) string {
	return fmt.Sprintf("%s on %s %d", t.Title(), date.Month(), date.Day())
}

// Recalculate sets the derived metric of the workout from its distance and duration.
func (w *Workout) Recalculate() {
	switch w.Type {
	case TypeRunning:
		w.PaceMinPerKm = Pace(w.DistanceKm, w.DurationMin)
	case TypeCycling:
		w.SpeedKmPerHr = Speed(w.DistanceKm, w.DurationMin)
	}
}

// Metric returns the derived metric value and its unit.
func (w *Workout) Metric() (float64, string) {
	if w.Type == TypeRunning {
		return w.PaceMinPerKm, "min/km"
	}
	return w.SpeedKmPerHr, "km/h"
}

// Click counts one user visit of the workout.
func (w *Workout) Click() {
	w.InteractionCount++
}

// Pace in min/km.
func Pace(distanceKm, durationMin float64) float64 {
	return durationMin / distanceKm
}

// Speed in km/h.
func Speed(distanceKm, durationMin float64) float64 {
	return distanceKm / (durationMin / 60)
}

// Clone returns a copy safe to hand out of the owning collection.
func (w *Workout) Clone() *Workout {
	c := *w
	return &c
}
