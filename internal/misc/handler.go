package misc

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/2beens/mapty/internal/geoip"
	"github.com/2beens/mapty/internal/telemetry/tracing"
	"github.com/2beens/mapty/internal/workout"
	"github.com/2beens/mapty/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type positionLocator interface {
	CurrentPosition(ctx context.Context) (workout.Coords, error)
}

type Handler struct {
	locator     positionLocator
	versionInfo string
}

func NewHandler(locator positionLocator, versionInfo string) *Handler {
	return &Handler{
		locator:     locator,
		versionInfo: versionInfo,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/", handler.handleRoot).Methods("GET", "POST", "OPTIONS").Name("root")
	mainRouter.HandleFunc("/version", handler.handleGetVersionInfo).Methods("GET").Name("version")
	mainRouter.HandleFunc("/whereami", handler.handleWhereAmI).Methods("GET").Name("whereami")
	mainRouter.HandleFunc("/myip", handler.handleGetMyIp).Methods("GET").Name("myip")
}

func (handler *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "mapty is up")
}

func (handler *Handler) handleGetVersionInfo(w http.ResponseWriter, _ *http.Request) {
	if handler.versionInfo == "" {
		pkg.WriteTextResponseOK(w, "unknown")
		return
	}
	pkg.WriteTextResponseOK(w, handler.versionInfo)
}

func (handler *Handler) handleWhereAmI(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.whereAmI")
	defer span.End()

	coords, err := handler.locator.CurrentPosition(ctx)
	if err != nil {
		span.SetStatus(codes.Error, fmt.Sprintf("current position: %s", err))
		if errors.Is(err, geoip.ErrPositionUnavailable) {
			http.Error(w, "position unavailable", http.StatusServiceUnavailable)
			return
		}
		log.Errorf("where am i: %s", err)
		http.Error(w, "geo ip info error", http.StatusInternalServerError)
		return
	}

	span.SetAttributes(
		attribute.Float64("position.lat", coords.Lat()),
		attribute.Float64("position.lng", coords.Lng()),
	)
	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"lat": %g, "lng": %g}`, coords.Lat(), coords.Lng()))
}

func (handler *Handler) handleGetMyIp(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.getMyIp")
	defer span.End()

	ip, err := pkg.ReadUserIP(r)
	if err != nil {
		span.SetStatus(codes.Error, fmt.Sprintf("failed to get user IP address: %s", err))
		log.Errorf("failed to get user IP address: %s", err)
		http.Error(w, "failed to get IP", http.StatusInternalServerError)
		return
	}

	span.SetAttributes(attribute.String("user.ip", ip))
	pkg.WriteTextResponseOK(w, ip)
}
