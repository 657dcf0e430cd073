package geoip

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/2beens/mapty/internal/telemetry/tracing"
	"github.com/2beens/mapty/internal/workout"

	"github.com/ipinfo/go/v2/ipinfo"
)

// IPInfoProvider resolves positions with the ipinfo.io client.
type IPInfoProvider struct {
	client *ipinfo.Client
}

func NewIPInfoProvider(token string, httpClient *http.Client) *IPInfoProvider {
	return &IPInfoProvider{
		client: ipinfo.NewClient(httpClient, nil, token),
	}
}

func (p *IPInfoProvider) Position(ctx context.Context, ip string) (workout.Coords, error) {
	_, span := tracing.GlobalTracer.Start(ctx, "geoIp.ipInfo.position")
	defer span.End()

	var netIP net.IP
	if ip != "" {
		if netIP = net.ParseIP(ip); netIP == nil {
			return workout.Coords{}, fmt.Errorf("invalid ip: %s", ip)
		}
	}

	info, err := p.client.GetIPInfo(netIP)
	if err != nil {
		span.RecordError(err)
		return workout.Coords{}, fmt.Errorf("get ip info: %w", err)
	}

	return ParseLocation(info.Location)
}

// ParseLocation parses the "lat,lng" location format.
func ParseLocation(loc string) (workout.Coords, error) {
	parts := strings.Split(loc, ",")
	if len(parts) != 2 {
		return workout.Coords{}, fmt.Errorf("invalid location: [%s]", loc)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return workout.Coords{}, fmt.Errorf("parse latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return workout.Coords{}, fmt.Errorf("parse longitude: %w", err)
	}

	return workout.NewCoords(lat, lng), nil
}
