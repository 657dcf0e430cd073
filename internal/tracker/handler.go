package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/2beens/mapty/internal/mapview"
	"github.com/2beens/mapty/internal/telemetry/tracing"
	"github.com/2beens/mapty/internal/workout"
	"github.com/2beens/mapty/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=tracker_test

type service interface {
	MapClick(coords workout.Coords) error
	ToggleType(workoutType workout.Type) error
	CancelForm()
	Submit(ctx context.Context, in FormInput) (*workout.Workout, error)
	Edit(ctx context.Context, id string, in FormInput) (*workout.Workout, error)
	Delete(ctx context.Context, id string) (bool, error)
	Select(ctx context.Context, id string) (*workout.Workout, bool)
	Reset(ctx context.Context) error
	Workouts() []*workout.Workout
	FormState() FormState
	Notices() []Notice
	MapSnapshot() mapview.View
	ListHTML() ([]byte, error)
}

type Handler struct {
	service service
}

func NewHandler(service service) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.list")
	defer span.End()

	workouts := h.service.Workouts()
	workoutsJson, err := json.Marshal(workouts)
	if err != nil {
		log.Errorf("marshal workouts error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	resJson := fmt.Sprintf(`{"workouts": %s, "total": %d}`, workoutsJson, len(workouts))
	pkg.WriteJSONResponseOK(w, resJson)
}

func (h *Handler) HandleListHTML(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.listhtml")
	defer span.End()

	listHtml, err := h.service.ListHTML()
	if err != nil {
		log.Errorf("render workouts list: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.HTML, listHtml, http.StatusOK)
}

func (h *Handler) HandleMapClick(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.map.click")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := r.ParseForm(); err != nil {
		log.Errorf("map click failed, parse form error: %s", err)
		http.Error(w, "parse form error", http.StatusBadRequest)
		return
	}

	lat, err := strconv.ParseFloat(r.Form.Get("lat"), 64)
	if err != nil {
		http.Error(w, "error, lat invalid", http.StatusBadRequest)
		return
	}
	lng, err := strconv.ParseFloat(r.Form.Get("lng"), 64)
	if err != nil {
		http.Error(w, "error, lng invalid", http.StatusBadRequest)
		return
	}

	if err := h.service.MapClick(workout.NewCoords(lat, lng)); err != nil {
		h.writeError(w, "map click", err)
		return
	}

	h.writeJSON(w, h.service.FormState(), http.StatusOK)
}

func (h *Handler) HandleMap(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.map")
	defer span.End()

	h.writeJSON(w, h.service.MapSnapshot(), http.StatusOK)
}

func (h *Handler) HandleForm(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.form")
	defer span.End()

	h.writeJSON(w, h.service.FormState(), http.StatusOK)
}

func (h *Handler) HandleFormType(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.form.type")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "parse form error", http.StatusBadRequest)
		return
	}

	if err := h.service.ToggleType(workout.Type(r.Form.Get("type"))); err != nil {
		h.writeError(w, "toggle type", err)
		return
	}

	h.writeJSON(w, h.service.FormState(), http.StatusOK)
}

func (h *Handler) HandleFormCancel(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.form.cancel")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	h.service.CancelForm()
	h.writeJSON(w, h.service.FormState(), http.StatusOK)
}

func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.new")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	in, err := readFormInput(r)
	if err != nil {
		log.Errorf("new workout failed, parse form error: %s", err)
		http.Error(w, "parse form error", http.StatusBadRequest)
		return
	}

	newWorkout, err := h.service.Submit(ctx, in)
	if err != nil {
		h.writeError(w, "new workout", err)
		return
	}

	log.Printf("new workout added: [%s] [%s]", newWorkout.ID, newWorkout.Description)
	h.writeJSON(w, newWorkout, http.StatusCreated)
}

func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.edit")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "PUT, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	in, err := readFormInput(r)
	if err != nil {
		log.Errorf("edit workout failed, parse form error: %s", err)
		http.Error(w, "parse form error", http.StatusBadRequest)
		return
	}

	edited, err := h.service.Edit(ctx, id, in)
	if err != nil {
		h.writeError(w, "edit workout", err)
		return
	}

	log.Printf("workout edited: [%s]", edited.ID)
	h.writeJSON(w, edited, http.StatusOK)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.delete")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "DELETE, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	deleted, err := h.service.Delete(ctx, id)
	if err != nil {
		h.writeError(w, "delete workout", err)
		return
	}

	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"id": %q, "deleted": %t}`, id, deleted))
}

func (h *Handler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.select")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	id := mux.Vars(r)["id"]
	selected, found := h.service.Select(ctx, id)
	if !found {
		pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"id": %q, "found": false}`, id))
		return
	}

	selectedJson, err := json.Marshal(selected)
	if err != nil {
		log.Errorf("marshal selected workout error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"id": %q, "found": true, "workout": %s}`, id, selectedJson))
}

func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.reset")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := h.service.Reset(ctx); err != nil {
		h.writeError(w, "reset", err)
		return
	}

	pkg.WriteTextResponseOK(w, "reset")
}

func (h *Handler) HandleNotices(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.notices")
	defer span.End()

	notices := h.service.Notices()
	if notices == nil {
		notices = []Notice{}
	}
	h.writeJSON(w, notices, http.StatusOK)
}

func readFormInput(r *http.Request) (FormInput, error) {
	if err := r.ParseForm(); err != nil {
		return FormInput{}, err
	}
	return FormInput{
		Type:      workout.Type(r.Form.Get("type")),
		Distance:  r.Form.Get("distance"),
		Duration:  r.Form.Get("duration"),
		Cadence:   r.Form.Get("cadence"),
		Elevation: r.Form.Get("elevation"),
	}, nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, v any, statusCode int) {
	resJson, err := json.Marshal(v)
	if err != nil {
		log.Errorf("marshal response error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resJson, statusCode)
}

func (h *Handler) writeError(w http.ResponseWriter, operation string, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrMapNotReady), errors.Is(err, ErrFormNotOpen):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrWorkoutNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		log.Errorf("%s: %s", operation, err)
		http.Error(w, fmt.Sprintf("error, %s failed", operation), http.StatusInternalServerError)
	}
}
