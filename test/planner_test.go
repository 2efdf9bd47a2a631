//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/2beens/gymplanner/internal/auth"
	"github.com/2beens/gymplanner/internal/gymstats/events"
	"github.com/2beens/gymplanner/internal/gymstats/plans"
	"github.com/2beens/gymplanner/internal/gymstats/records"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) doRequest(
	ctx context.Context,
	method, path, token string,
	body any,
	headers map[string]string,
) *http.Response {
	var reader io.Reader
	if body != nil {
		bodyJson, err := json.Marshal(body)
		require.NoError(s.T(), err)
		reader = bytes.NewReader(bodyJson)
	}

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, reader)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	return resp
}

func (s *IntegrationTestSuite) decode(resp *http.Response, expectedStatus int, v any) {
	defer resp.Body.Close()
	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)
	require.Equal(s.T(), expectedStatus, resp.StatusCode, string(respBytes))
	if v != nil {
		require.NoError(s.T(), json.Unmarshal(respBytes, v))
	}
}

func (s *IntegrationTestSuite) issueToken(ctx context.Context, userID string) string {
	resp := s.doRequest(ctx, http.MethodPost, "/a/token", "",
		auth.TokenRequest{UserID: userID},
		map[string]string{auth.AdminSecretHeader: testAdminSecret},
	)
	var tokenResp auth.TokenResponse
	s.decode(resp, http.StatusCreated, &tokenResp)
	require.NotEmpty(s.T(), tokenResp.Token)
	return tokenResp.Token
}

func (s *IntegrationTestSuite) TestAuth() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	resp := s.doRequest(ctx, http.MethodPost, "/a/token", "",
		auth.TokenRequest{UserID: "someone"},
		map[string]string{auth.AdminSecretHeader: "wrong"},
	)
	s.decode(resp, http.StatusUnauthorized, nil)

	resp = s.doRequest(ctx, http.MethodGet, "/records", "not-a-token", nil, nil)
	s.decode(resp, http.StatusUnauthorized, nil)

	userID := gofakeit.Username()
	token := s.issueToken(ctx, userID)
	resp = s.doRequest(ctx, http.MethodGet, "/records", token, nil, nil)
	var bps []records.BestPerformance
	s.decode(resp, http.StatusOK, &bps)
	assert.Empty(t, bps)

	resp = s.doRequest(ctx, http.MethodPost, "/a/revoke", "",
		auth.TokenRequest{UserID: userID},
		map[string]string{auth.AdminSecretHeader: testAdminSecret},
	)
	s.decode(resp, http.StatusOK, nil)

	resp = s.doRequest(ctx, http.MethodGet, "/records", token, nil, nil)
	s.decode(resp, http.StatusUnauthorized, nil)
}

func (s *IntegrationTestSuite) TestPlanLifecycle() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	token := s.issueToken(ctx, gofakeit.Username())

	var plan plans.Plan
	s.decode(s.doRequest(ctx, http.MethodPost, "/plans", token, plans.CreatePlanRequest{
		Name:                 "strength block",
		BlockLength:          4,
		Frequency:            3,
		WeightRecommendation: plans.WeightRecommendationLastWeek,
	}, nil), http.StatusCreated, &plan)
	require.NotEmpty(t, plan.ID)
	require.Len(t, plan.Weeks, 4)

	otherToken := s.issueToken(ctx, gofakeit.Username())
	s.decode(s.doRequest(ctx, http.MethodGet, "/plans/"+plan.ID, otherToken, nil, nil), http.StatusNotFound, nil)

	var edit plans.EditResult
	s.decode(s.doRequest(ctx, http.MethodPatch,
		fmt.Sprintf("/plans/%s/weeks/0/days/0", plan.ID),
		token,
		plans.EditDayRequest{
			Diff: plans.Diff{
				"1.category":     "Main",
				"1.exerciseName": "Squat",
				"1.sets":         "3",
				"1.reps":         "5",
				"1.weight":       "100",
				"1.targetRPE":    "7",
				"1.actualRPE":    "8",
			},
			Version: plan.Version,
		},
		map[string]string{plans.FingerprintHeader: "integration-phone"},
	), http.StatusOK, &edit)
	require.Len(t, edit.Day.Exercises, 1)
	squat := edit.Day.Exercises[0]
	assert.Equal(t, "Squat", squat.ExerciseName)
	assert.Positive(t, squat.EstimatedMax)
	assert.Equal(t, []string{"Squat"}, edit.NewRecords)
	// the first activity signal stamps the recording fields in a second write
	assert.Equal(t, plan.Version+2, edit.Plan.Version)
	assert.True(t, edit.Day.Recording)

	// stale version
	s.decode(s.doRequest(ctx, http.MethodPatch,
		fmt.Sprintf("/plans/%s/weeks/0/days/0", plan.ID),
		token,
		plans.EditDayRequest{Diff: plans.Diff{"1.notes": "felt good"}, Version: plan.Version},
		nil,
	), http.StatusConflict, nil)

	var day plans.Day
	s.decode(s.doRequest(ctx, http.MethodGet, "/days/"+plans.NewDayID(plan.ID, 1, 0), token, nil, nil), http.StatusOK, &day)
	require.Len(t, day.Exercises, 1, "structure propagates to later weeks")
	assert.Equal(t, "Squat", day.Exercises[0].ExerciseName)
	assert.Empty(t, day.Exercises[0].ActualRPE)

	var bp records.BestPerformance
	s.decode(s.doRequest(ctx, http.MethodGet, "/records/squat", token, nil, nil), http.StatusOK, &bp)
	assert.Equal(t, squat.EstimatedMax, bp.Current.EstimatedMax)

	var eventsResp events.ListResponse
	s.decode(s.doRequest(ctx, http.MethodGet, "/events/list/page/1/size/10", token, nil, nil), http.StatusOK, &eventsResp)
	var prEvents int
	for _, e := range eventsResp.Events {
		if e.Type == events.EventTypePersonalRecord {
			prEvents++
		}
	}
	assert.Equal(t, 1, prEvents)

	var progression plans.ProgressionResponse
	s.decode(s.doRequest(ctx, http.MethodPost,
		fmt.Sprintf("/plans/%s/progression", plan.ID),
		token,
		plans.ProgressionBody{RPEIncrement: 0.5, Version: edit.Plan.Version},
		nil,
	), http.StatusOK, &progression)
	require.Len(t, progression.Plan.Weeks, 4)
	assert.Equal(t, "7.5", progression.Plan.Weeks[1].Days[0].Exercises[0].TargetRPE)
}
