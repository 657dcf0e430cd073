package tracker

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/2beens/mapty/internal/listview"
	"github.com/2beens/mapty/internal/mapview"
	"github.com/2beens/mapty/internal/telemetry/metrics"
	"github.com/2beens/mapty/internal/telemetry/tracing"
	"github.com/2beens/mapty/internal/workout"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	NoticeInvalidInput        = "Inputs have to be positive numbers!"
	NoticePositionUnavailable = "Could not get your position"

	maxNotices = 20
)

var (
	ErrInvalidInput    = errors.New("inputs have to be positive numbers")
	ErrMapNotReady     = errors.New("map is not ready")
	ErrFormNotOpen     = errors.New("workout form is not open")
	ErrWorkoutNotFound = errors.New("workout not found")
)

type workoutStore interface {
	Save(ctx context.Context, workouts []*workout.Workout) error
	Load(ctx context.Context) []*workout.Workout
	Clear(ctx context.Context) error
}

type positionLocator interface {
	CurrentPosition(ctx context.Context) (workout.Coords, error)
}

type Notice struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Tracker owns the workouts collection and the form, and keeps the map and
// the list in sync with them. The collection is only changed after it was
// persisted successfully.
type Tracker struct {
	mu sync.Mutex

	store    workoutStore
	locator  positionLocator
	mapView  *mapview.Map
	listView *listview.List
	metrics  *metrics.Manager
	zoom     int
	now      func() time.Time

	workouts []*workout.Workout
	form     FormState
	notices  []Notice
}

func New(
	store workoutStore,
	locator positionLocator,
	mapView *mapview.Map,
	listView *listview.List,
	metricsManager *metrics.Manager,
	zoom int,
) *Tracker {
	return &Tracker{
		store:    store,
		locator:  locator,
		mapView:  mapView,
		listView: listView,
		metrics:  metricsManager,
		zoom:     zoom,
		now:      time.Now,
		form: FormState{
			Type:       workout.TypeRunning,
			ExtraField: ExtraFieldCadence,
		},
	}
}

// Start loads the stored workouts and renders them in the list, then asks for
// the current position in the background. Once the position is known the map
// is initialized and the markers are rendered. The returned channel is closed
// when the position request is done, successful or not.
func (t *Tracker) Start(ctx context.Context) <-chan struct{} {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.start")
	defer span.End()

	t.mu.Lock()
	t.workouts = t.store.Load(ctx)
	t.listView.Clear()
	for _, w := range t.workouts {
		t.listView.Render(w)
	}
	t.metrics.GaugeWorkouts.Set(float64(len(t.workouts)))
	span.SetAttributes(attribute.Int("workouts.loaded", len(t.workouts)))
	log.Debugf("tracker: loaded %d workouts", len(t.workouts))
	t.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		t.initMap(ctx)
	}()

	return done
}

func (t *Tracker) initMap(ctx context.Context) {
	coords, err := t.locator.CurrentPosition(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()

	if err != nil {
		log.Errorf("tracker: get current position: %s", err)
		t.metrics.CounterPositionRequests.WithLabelValues("failed").Inc()
		t.pushNotice(NoticePositionUnavailable)
		return
	}
	t.metrics.CounterPositionRequests.WithLabelValues("ok").Inc()

	t.mapView.Initialize(coords, t.zoom)
	t.mapView.OnClick(t.openForm)
	for _, w := range t.workouts {
		t.renderMarker(w)
	}
	log.Debugf("tracker: map initialized at %v", coords)
}

// MapClick delivers a click on the map. It opens the form for the clicked point.
func (t *Tracker) MapClick(coords workout.Coords) error {
	if !coords.Valid() {
		return ErrInvalidInput
	}
	if err := t.mapView.Click(coords); err != nil {
		if errors.Is(err, mapview.ErrNotInitialized) {
			return ErrMapNotReady
		}
		return err
	}
	return nil
}

func (t *Tracker) openForm(coords workout.Coords) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.form.Open = true
	t.form.Coords = coords
	return nil
}

// ToggleType switches the workout type of the form, together with its extra field.
func (t *Tracker) ToggleType(workoutType workout.Type) error {
	if !workoutType.IsValid() {
		return ErrInvalidInput
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.form.Type = workoutType
	t.form.ExtraField = extraFieldFor(workoutType)
	return nil
}

func (t *Tracker) CancelForm() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closeForm()
}

func (t *Tracker) closeForm() {
	t.form.Open = false
	t.form.Coords = workout.Coords{}
}

// Submit creates a new workout at the clicked point from the form input.
// With invalid input, the form stays open and a notice is shown.
func (t *Tracker) Submit(ctx context.Context, in FormInput) (_ *workout.Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.submit")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.form.Open {
		return nil, ErrFormNotOpen
	}

	workoutType := t.form.Type
	if in.Type != "" {
		if !in.Type.IsValid() {
			return nil, t.rejectInput()
		}
		workoutType = in.Type
	}

	vals, ok := validate(workoutType, in)
	if !ok {
		return nil, t.rejectInput()
	}

	var w *workout.Workout
	if workoutType == workout.TypeRunning {
		w = workout.NewRunning(t.now(), t.form.Coords, vals.distance, vals.duration, int(vals.cadence))
	} else {
		w = workout.NewCycling(t.now(), t.form.Coords, vals.distance, vals.duration, vals.elevation)
	}

	updated := append(slices.Clone(t.workouts), w)
	if err := t.store.Save(ctx, updated); err != nil {
		return nil, fmt.Errorf("save workouts: %w", err)
	}
	t.workouts = updated

	t.renderMarker(w)
	t.listView.Render(w)
	t.closeForm()

	t.metrics.CounterWorkoutsCreated.WithLabelValues(w.Type.String()).Inc()
	t.metrics.GaugeWorkouts.Set(float64(len(t.workouts)))
	span.SetAttributes(attribute.String("workout.id", w.ID))
	log.Debugf("tracker: new workout [%s]: %s", w.ID, w.Description)

	return w.Clone(), nil
}

// Edit updates distance, duration and the type specific field of a workout
// in place, and recomputes its pace or speed. Id, creation time, coordinates
// and type stay the same.
func (t *Tracker) Edit(ctx context.Context, id string, in FormInput) (_ *workout.Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.edit")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("workout.id", id))

	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.indexOf(id)
	if idx < 0 {
		return nil, ErrWorkoutNotFound
	}

	existing := t.workouts[idx]
	vals, ok := validate(existing.Type, in)
	if !ok {
		return nil, t.rejectInput()
	}

	edited := existing.Clone()
	edited.DistanceKm = vals.distance
	edited.DurationMin = vals.duration
	if edited.Type == workout.TypeRunning {
		edited.CadenceSpm = int(vals.cadence)
	} else {
		edited.ElevationGainM = vals.elevation
	}
	edited.Recalculate()

	updated := slices.Clone(t.workouts)
	updated[idx] = edited
	if err := t.store.Save(ctx, updated); err != nil {
		return nil, fmt.Errorf("save workouts: %w", err)
	}
	t.workouts = updated
	t.reloadViews()

	t.metrics.CounterWorkoutsEdited.Inc()
	log.Debugf("tracker: workout edited [%s]", id)

	return edited.Clone(), nil
}

// Delete removes the workout with the given id. Deleting an unknown id is a no-op.
func (t *Tracker) Delete(ctx context.Context, id string) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.delete")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("workout.id", id))

	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.indexOf(id)
	if idx < 0 {
		log.Debugf("tracker: delete, workout [%s] not found", id)
		return false, nil
	}

	updated := slices.Delete(slices.Clone(t.workouts), idx, idx+1)
	if err := t.store.Save(ctx, updated); err != nil {
		return false, fmt.Errorf("save workouts: %w", err)
	}
	t.workouts = updated
	t.reloadViews()

	t.metrics.CounterWorkoutsDeleted.Inc()
	t.metrics.GaugeWorkouts.Set(float64(len(t.workouts)))
	log.Debugf("tracker: workout deleted [%s]", id)

	return true, nil
}

// Select moves the map to the workout and counts the visit. Unknown ids are ignored,
// and without a map nothing changes.
func (t *Tracker) Select(ctx context.Context, id string) (*workout.Workout, bool) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.select")
	defer span.End()
	span.SetAttributes(attribute.String("workout.id", id))

	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.indexOf(id)
	if idx < 0 {
		return nil, false
	}

	existing := t.workouts[idx]
	if !t.mapView.Ready() {
		return existing.Clone(), true
	}

	t.mapView.Recenter(existing.Coords, true)

	clicked := existing.Clone()
	clicked.Click()
	updated := slices.Clone(t.workouts)
	updated[idx] = clicked
	if err := t.store.Save(ctx, updated); err != nil {
		log.Errorf("tracker: save workouts after select [%s]: %s", id, err)
		span.RecordError(err)
		return existing.Clone(), true
	}
	t.workouts = updated

	return clicked.Clone(), true
}

// Reset removes all workouts from the store and from every view.
func (t *Tracker) Reset(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.reset")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear workouts: %w", err)
	}

	t.workouts = nil
	t.listView.Clear()
	t.mapView.ClearMarkers()
	t.closeForm()
	t.metrics.GaugeWorkouts.Set(0)
	log.Debugln("tracker: reset")

	return nil
}

func (t *Tracker) Workouts() []*workout.Workout {
	t.mu.Lock()
	defer t.mu.Unlock()

	workouts := make([]*workout.Workout, 0, len(t.workouts))
	for _, w := range t.workouts {
		workouts = append(workouts, w.Clone())
	}
	return workouts
}

func (t *Tracker) FormState() FormState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.form
}

func (t *Tracker) Notices() []Notice {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.notices)
}

func (t *Tracker) MapSnapshot() mapview.View {
	return t.mapView.Snapshot()
}

func (t *Tracker) ListHTML() ([]byte, error) {
	return t.listView.HTML()
}

func (t *Tracker) indexOf(id string) int {
	return slices.IndexFunc(t.workouts, func(w *workout.Workout) bool {
		return w.ID == id
	})
}

func (t *Tracker) rejectInput() error {
	t.metrics.CounterInvalidInputs.Inc()
	t.pushNotice(NoticeInvalidInput)
	return ErrInvalidInput
}

func (t *Tracker) pushNotice(message string) {
	t.notices = append(t.notices, Notice{
		Message:   message,
		Timestamp: t.now(),
	})
	if len(t.notices) > maxNotices {
		t.notices = slices.Clone(t.notices[len(t.notices)-maxNotices:])
	}
}

func (t *Tracker) renderMarker(w *workout.Workout) {
	t.mapView.AddMarker(
		w.Coords,
		fmt.Sprintf("%s %s", w.Type.Icon(), w.Description),
		w.Type.PopupClass(),
	)
}

// reloadViews renders the list and the markers again from the collection.
func (t *Tracker) reloadViews() {
	t.listView.Clear()
	t.mapView.ClearMarkers()
	for _, w := range t.workouts {
		t.listView.Render(w)
		t.renderMarker(w)
	}
}
