package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/2beens/mapty/internal/telemetry/tracing"
	"github.com/2beens/mapty/internal/workout"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

// IPBaseProvider resolves positions with the ipbase.com API.
type IPBaseProvider struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

func NewIPBaseProvider(endpoint, apiKey string, httpClient *http.Client) *IPBaseProvider {
	return &IPBaseProvider{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

func (p *IPBaseProvider) Position(ctx context.Context, ip string) (workout.Coords, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "geoIp.ipBase.position")
	defer span.End()

	query := url.Values{}
	query.Set("apikey", p.apiKey)
	if ip != "" {
		query.Set("ip", ip)
	}
	ipBaseUrl := fmt.Sprintf("%s/v2/info?%s", p.endpoint, query.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", ipBaseUrl, nil)
	if err != nil {
		return workout.Coords{}, err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return workout.Coords{}, fmt.Errorf("get ip base response: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return workout.Coords{}, fmt.Errorf("read ip base response bytes: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		span.SetStatus(codes.Error, resp.Status)
		return workout.Coords{}, fmt.Errorf("ip base response status %d: %s", resp.StatusCode, respBytes)
	}

	log.Debugf("ip base info for ip [%s], response: %s", ip, respBytes)

	ipInfo := &IpInfo{}
	if err := json.Unmarshal(respBytes, ipInfo); err != nil {
		span.SetStatus(codes.Error, fmt.Sprintf("unmarshal geo ip resp: %s", err))
		return workout.Coords{}, fmt.Errorf("unmarshal geo ip response bytes: %w", err)
	}

	loc := ipInfo.Data.Location
	return workout.NewCoords(loc.Latitude, loc.Longitude), nil
}

type IpInfo struct {
	Data IpInfoData `json:"data"`
}

type IpInfoData struct {
	IP       string      `json:"ip"`
	Type     string      `json:"type"`
	Location GeoLocation `json:"location"`
}

type GeoLocation struct {
	GeonamesID int     `json:"geonames_id"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Zip        string  `json:"zip"`
	Country    Country `json:"country"`
	City       City    `json:"city"`
}

type City struct {
	Name           string `json:"name"`
	NameTranslated string `json:"name_translated"`
}

type Country struct {
	Alpha2 string `json:"alpha2"`
	Alpha3 string `json:"alpha3"`
	Name   string `json:"name"`
}
