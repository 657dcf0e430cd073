package test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/2beens/mapty/internal/mapview"
	"github.com/2beens/mapty/internal/store"
	"github.com/2beens/mapty/internal/workout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type workoutsListResponse struct {
	Workouts []*workout.Workout `json:"workouts"`
	Total    int                `json:"total"`
}

func (s *IntegrationTestSuite) doRequest(method, path string, form url.Values) (int, []byte) {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, fmt.Sprintf("%s%s", serverEndpoint, path), body)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, respBytes
}

func (s *IntegrationTestSuite) listWorkouts() workoutsListResponse {
	code, body := s.doRequest("GET", "/workouts", nil)
	require.Equal(s.T(), http.StatusOK, code)
	var listResp workoutsListResponse
	require.NoError(s.T(), json.Unmarshal(body, &listResp))
	return listResp
}

func (s *IntegrationTestSuite) TestWorkouts() {
	t := s.T()

	code, _ := s.doRequest("POST", "/reset", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, s.listWorkouts().Workouts)

	code, body := s.doRequest("GET", "/map", nil)
	require.Equal(t, http.StatusOK, code)
	var view mapview.View
	require.NoError(t, json.Unmarshal(body, &view))
	assert.True(t, view.Initialized)

	// running
	code, _ = s.doRequest("POST", "/map/click", url.Values{"lat": {"44.80"}, "lng": {"20.46"}})
	require.Equal(t, http.StatusOK, code)
	code, body = s.doRequest("POST", "/workouts", url.Values{
		"type": {"running"}, "distance": {"5"}, "duration": {"25"}, "cadence": {"180"},
	})
	require.Equal(t, http.StatusCreated, code, string(body))
	var running workout.Workout
	require.NoError(t, json.Unmarshal(body, &running))
	assert.Equal(t, 5.0, running.PaceMinPerKm)

	// cycling
	code, _ = s.doRequest("POST", "/map/click", url.Values{"lat": {"44.81"}, "lng": {"20.47"}})
	require.Equal(t, http.StatusOK, code)
	code, _ = s.doRequest("POST", "/form/type", url.Values{"type": {"cycling"}})
	require.Equal(t, http.StatusOK, code)
	code, body = s.doRequest("POST", "/workouts", url.Values{
		"distance": {"20"}, "duration": {"60"}, "elevation": {"150"},
	})
	require.Equal(t, http.StatusCreated, code, string(body))
	var cycling workout.Workout
	require.NoError(t, json.Unmarshal(body, &cycling))
	assert.Equal(t, 20.0, cycling.SpeedKmPerHr)

	// the stored value in postgres is the full ordered collection
	var stored string
	require.NoError(t, s.DB.QueryRow(
		context.Background(),
		`SELECT value FROM kv_store WHERE key = $1;`,
		"workouts",
	).Scan(&stored))
	storedWorkouts, err := store.Decode([]byte(stored))
	require.NoError(t, err)
	require.Len(t, storedWorkouts, 2)
	assert.Equal(t, running.ID, storedWorkouts[0].ID)
	assert.Equal(t, cycling.ID, storedWorkouts[1].ID)

	// reload restores the same collection, in order
	s.restartServer()
	listResp := s.listWorkouts()
	require.Equal(t, 2, listResp.Total)
	assert.Equal(t, running.ID, listResp.Workouts[0].ID)
	assert.Equal(t, cycling.ID, listResp.Workouts[1].ID)

	code, body = s.doRequest("GET", "/map", nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(body, &view))
	assert.Len(t, view.Markers, 2)

	code, _ = s.doRequest("DELETE", "/workouts/"+running.ID, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, s.listWorkouts().Total)

	code, _ = s.doRequest("POST", "/reset", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0, s.listWorkouts().Total)
}

func (s *IntegrationTestSuite) TestPositionCachedInRedis() {
	t := s.T()
	code, body := s.doRequest("GET", "/whereami", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"lat": 44.787197, "lng": 20.457273}`, string(body))
}
