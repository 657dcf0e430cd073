package listview

import (
	"bytes"
	"fmt"
	"html/template"
	"sync"

	"github.com/2beens/mapty/internal/workout"
)

var entriesTemplate = template.Must(template.New("workouts").Parse(`
{{- range . }}
<li class="workout workout--{{ .Type }}" data-id="{{ .ID }}">
  <h2 class="workout__title">{{ .Description }}</h2>
  <div class="workout__controls">
    <span class="workout__edit"><i class="fa fa-pencil-square ed-btn" aria-hidden="true"></i></span>
    <span class="workout__delete"><i class="fa fa-trash del-btn" aria-hidden="true"></i></span>
  </div>
  <div class="workout__details">
    <span class="workout__icon">{{ .Icon }}</span>
    <span class="workout__value">{{ .Distance }}</span>
    <span class="workout__unit">km</span>
  </div>
  <div class="workout__details">
    <span class="workout__icon">⏱</span>
    <span class="workout__value">{{ .Duration }}</span>
    <span class="workout__unit">min</span>
  </div>
  <div class="workout__details">
    <span class="workout__icon">⚡️</span>
    <span class="workout__value">{{ .Metric }}</span>
    <span class="workout__unit">{{ .MetricUnit }}</span>
  </div>
  <div class="workout__details">
    <span class="workout__icon">{{ .ExtraIcon }}</span>
    <span class="workout__value">{{ .Extra }}</span>
    <span class="workout__unit">{{ .ExtraUnit }}</span>
  </div>
</li>
{{- end }}
`))

// Entry is one rendered list item, values already formatted for display.
type Entry struct {
	ID          string
	Type        workout.Type
	Description string
	Icon        string
	Distance    string
	Duration    string
	Metric      string
	MetricUnit  string
	Extra       string
	ExtraIcon   string
	ExtraUnit   string
}

// NewEntry formats a workout for display. Rounding happens only here:
// pace with one decimal, speed without decimals.
func NewEntry(w *workout.Workout) Entry {
	e := Entry{
		ID:          w.ID,
		Type:        w.Type,
		Description: w.Description,
		Icon:        w.Type.Icon(),
		Distance:    formatNumber(w.DistanceKm),
		Duration:    formatNumber(w.DurationMin),
	}

	switch w.Type {
	case workout.TypeRunning:
		e.Metric = fmt.Sprintf("%.1f", w.PaceMinPerKm)
		e.MetricUnit = "min/km"
		e.Extra = fmt.Sprintf("%d", w.CadenceSpm)
		e.ExtraIcon = "🦶🏼"
		e.ExtraUnit = "spm"
	case workout.TypeCycling:
		e.Metric = fmt.Sprintf("%.0f", w.SpeedKmPerHr)
		e.MetricUnit = "km/h"
		e.Extra = formatNumber(w.ElevationGainM)
		e.ExtraIcon = "⛰"
		e.ExtraUnit = "m"
	}

	return e
}

func formatNumber(v float64) string {
	return fmt.Sprintf("%g", v)
}

// List keeps the rendered entries in collection order.
type List struct {
	mu      sync.RWMutex
	entries []Entry
}

func New() *List {
	return &List{}
}

func (l *List) Render(w *workout.Workout) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, NewEntry(w))
}

func (l *List) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

func (l *List) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	entries := make([]Entry, len(l.entries))
	copy(entries, l.entries)
	return entries
}

func (l *List) HTML() ([]byte, error) {
	entries := l.Entries()

	var buf bytes.Buffer
	if err := entriesTemplate.Execute(&buf, entries); err != nil {
		return nil, fmt.Errorf("execute list template: %w", err)
	}
	return buf.Bytes(), nil
}
