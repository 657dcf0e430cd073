package mapview

import (
	"errors"
	"sync"

	"github.com/2beens/mapty/internal/workout"
)

const DefaultZoomLevel = 13

var ErrNotInitialized = errors.New("map not initialized")

type ClickHandler func(coords workout.Coords) error

type Marker struct {
	Coords     workout.Coords `json:"coordinates"`
	PopupText  string         `json:"popupText"`
	StyleClass string         `json:"styleClass"`
}

// View is the state a map client renders: center, zoom and markers with popups.
type View struct {
	Initialized bool           `json:"initialized"`
	Center      workout.Coords `json:"center"`
	Zoom        int            `json:"zoom"`
	Animate     bool           `json:"animate"`
	Markers     []Marker       `json:"markers"`
}

// Map holds the server side map state. It only becomes usable once Initialize
// was called with the user position; before that clicks are rejected and
// markers are ignored.
type Map struct {
	mu           sync.RWMutex
	initialized  bool
	center       workout.Coords
	zoom         int
	animate      bool
	markers      []Marker
	clickHandler ClickHandler
}

func New() *Map {
	return &Map{}
}

func (m *Map) Initialize(center workout.Coords, zoom int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if zoom <= 0 {
		zoom = DefaultZoomLevel
	}
	m.initialized = true
	m.center = center
	m.zoom = zoom
	m.animate = false
}

func (m *Map) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

func (m *Map) OnClick(handler ClickHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clickHandler = handler
}

// Click dispatches a map click to the registered handler.
func (m *Map) Click(coords workout.Coords) error {
	m.mu.RLock()
	initialized, handler := m.initialized, m.clickHandler
	m.mu.RUnlock()

	if !initialized || handler == nil {
		return ErrNotInitialized
	}
	// handler is called without holding the map lock, it may add markers
	return handler(coords)
}

func (m *Map) AddMarker(coords workout.Coords, popupText, styleClass string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	m.markers = append(m.markers, Marker{
		Coords:     coords,
		PopupText:  popupText,
		StyleClass: styleClass,
	})
}

func (m *Map) Recenter(coords workout.Coords, animate bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	m.center = coords
	m.animate = animate
}

func (m *Map) ClearMarkers() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markers = nil
}

func (m *Map) Snapshot() View {
	m.mu.RLock()
	defer m.mu.RUnlock()

	markers := make([]Marker, len(m.markers))
	copy(markers, m.markers)
	return View{
		Initialized: m.initialized,
		Center:      m.center,
		Zoom:        m.zoom,
		Animate:     m.animate,
		Markers:     markers,
	}
}
