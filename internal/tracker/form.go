package tracker

import (
	"math"
	"strconv"
	"strings"

	"github.com/2beens/mapty/internal/workout"
)

const (
	ExtraFieldCadence   = "cadence"
	ExtraFieldElevation = "elevation"
)

// FormInput holds the raw workout form values, as typed by the user.
type FormInput struct {
	Type      workout.Type
	Distance  string
	Duration  string
	Cadence   string
	Elevation string
}

// FormState is the state of the workout form: closed (idle), or open for
// the map point the user clicked.
type FormState struct {
	Open       bool           `json:"open"`
	Coords     workout.Coords `json:"coordinates"`
	Type       workout.Type   `json:"type"`
	ExtraField string         `json:"extraField"`
}

func extraFieldFor(t workout.Type) string {
	if t == workout.TypeCycling {
		return ExtraFieldElevation
	}
	return ExtraFieldCadence
}

type formValues struct {
	distance  float64
	duration  float64
	cadence   float64
	elevation float64
}

// parseNumber converts a form value to a number. An empty value is 0 and
// anything that is not a number is NaN, so both fail validation where a
// positive value is required.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func positive(values ...float64) bool {
	for _, v := range values {
		if v <= 0 {
			return false
		}
	}
	return true
}

// validate parses the inputs relevant for the given type. Distance, duration
// and cadence must be positive, cadence a whole number, elevation may be 0.
func validate(t workout.Type, in FormInput) (formValues, bool) {
	vals := formValues{
		distance: parseNumber(in.Distance),
		duration: parseNumber(in.Duration),
	}

	switch t {
	case workout.TypeRunning:
		vals.cadence = parseNumber(in.Cadence)
		if !finite(vals.distance, vals.duration, vals.cadence) {
			return vals, false
		}
		if !positive(vals.distance, vals.duration, vals.cadence) {
			return vals, false
		}
		if vals.cadence != math.Trunc(vals.cadence) || vals.cadence > math.MaxInt32 {
			return vals, false
		}
	case workout.TypeCycling:
		vals.elevation = parseNumber(in.Elevation)
		if !finite(vals.distance, vals.duration, vals.elevation) {
			return vals, false
		}
		if !positive(vals.distance, vals.duration) || vals.elevation < 0 {
			return vals, false
		}
	default:
		return vals, false
	}

	return vals, true
}
