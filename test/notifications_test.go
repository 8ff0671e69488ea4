package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/liftlog-app/backend/internal/notifications/history"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scheduleRequest struct {
	DelaySeconds float64 `json:"delay_seconds"`
	Title        string  `json:"title"`
	Body         string  `json:"body"`
}

type scheduleResponse struct {
	Handle *int64 `json:"handle"`
}

type historyListResponse struct {
	Events []*history.DeliveryEvent `json:"events"`
	Total  int                      `json:"total"`
}

func (s *IntegrationTestSuite) scheduleNotification(ctx context.Context, t *testing.T, req scheduleRequest) *http.Response {
	reqJson, err := json.Marshal(req)
	require.NoError(t, err)

	httpReq, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/notifications", serverEndpoint), bytes.NewBuffer(reqJson))
	require.NoError(t, err)
	httpReq.Header.Set("User-Agent", "test-agent")
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-LIFTLOG-TOKEN", testAppSecret)

	resp, err := s.httpClient.Do(httpReq)
	require.NoError(t, err)
	return resp
}

func (s *IntegrationTestSuite) TestNotifications() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t.Run("schedule without token", func(t *testing.T) {
		req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/notifications", serverEndpoint), bytes.NewBufferString(`{}`))
		require.NoError(t, err)
		req.Header.Set("User-Agent", "test-agent")
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("schedule with wrong content type", func(t *testing.T) {
		req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/notifications", serverEndpoint), bytes.NewBufferString("delay=5"))
		require.NoError(t, err)
		req.Header.Set("User-Agent", "test-agent")
		req.Header.Set("X-LIFTLOG-TOKEN", testAppSecret)

		resp, err := s.httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	var scheduledHandle int64
	t.Run("schedule and cancel", func(t *testing.T) {
		resp := s.scheduleNotification(ctx, t, scheduleRequest{
			DelaySeconds: 120,
			Title:        "Rest Over",
			Body:         "Time to get back to it",
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		respBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		var scheduleResp scheduleResponse
		require.NoError(t, json.Unmarshal(respBytes, &scheduleResp))
		require.NotNil(t, scheduleResp.Handle)
		assert.GreaterOrEqual(t, *scheduleResp.Handle, int64(1))
		scheduledHandle = *scheduleResp.Handle

		cancelReq, err := http.NewRequestWithContext(ctx, "DELETE", fmt.Sprintf("%s/notifications/%d", serverEndpoint, scheduledHandle), nil)
		require.NoError(t, err)
		cancelReq.Header.Set("User-Agent", "test-agent")
		cancelReq.Header.Set("X-LIFTLOG-TOKEN", testAppSecret)

		cancelResp, err := s.httpClient.Do(cancelReq)
		require.NoError(t, err)
		defer cancelResp.Body.Close()
		require.Equal(t, http.StatusOK, cancelResp.StatusCode)

		cancelRespBytes, err := io.ReadAll(cancelResp.Body)
		require.NoError(t, err)
		assert.Equal(t, "ok", string(cancelRespBytes))
	})

	t.Run("handles strictly increase", func(t *testing.T) {
		resp := s.scheduleNotification(ctx, t, scheduleRequest{
			DelaySeconds: 300,
			Title:        "Next Set",
			Body:         "Go",
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		respBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		var scheduleResp scheduleResponse
		require.NoError(t, json.Unmarshal(respBytes, &scheduleResp))
		require.NotNil(t, scheduleResp.Handle)
		assert.Greater(t, *scheduleResp.Handle, scheduledHandle)

		cancelReq, err := http.NewRequestWithContext(ctx, "DELETE", fmt.Sprintf("%s/notifications/%d", serverEndpoint, *scheduleResp.Handle), nil)
		require.NoError(t, err)
		cancelReq.Header.Set("User-Agent", "test-agent")
		cancelReq.Header.Set("X-LIFTLOG-TOKEN", testAppSecret)
		cancelResp, err := s.httpClient.Do(cancelReq)
		require.NoError(t, err)
		require.NoError(t, cancelResp.Body.Close())
	})

	t.Run("cancel unknown handle is fine", func(t *testing.T) {
		cancelReq, err := http.NewRequestWithContext(ctx, "DELETE", fmt.Sprintf("%s/notifications/98765", serverEndpoint), nil)
		require.NoError(t, err)
		cancelReq.Header.Set("User-Agent", "test-agent")
		cancelReq.Header.Set("X-LIFTLOG-TOKEN", testAppSecret)

		cancelResp, err := s.httpClient.Do(cancelReq)
		require.NoError(t, err)
		defer cancelResp.Body.Close()
		assert.Equal(t, http.StatusOK, cancelResp.StatusCode)
	})

	t.Run("delivery history", func(t *testing.T) {
		token := doLogin(ctx, t)

		req, err := http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/notifications/history", serverEndpoint), nil)
		require.NoError(t, err)
		req.Header.Set("User-Agent", "test-agent")
		req.Header.Set("X-LIFTLOG-TOKEN", token)

		resp, err := s.httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		respBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		var listResp historyListResponse
		require.NoError(t, json.Unmarshal(respBytes, &listResp))
		require.NotEmpty(t, listResp.Events)

		typesSeen := map[history.EventType]bool{}
		for _, event := range listResp.Events {
			typesSeen[event.Type] = true
		}
		assert.True(t, typesSeen[history.EventTypeScheduled])
		assert.True(t, typesSeen[history.EventTypeCancelled])
	})

	t.Run("titles autocomplete", func(t *testing.T) {
		token := doLogin(ctx, t)

		req, err := http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/notifications/titles?q=rest", serverEndpoint), nil)
		require.NoError(t, err)
		req.Header.Set("User-Agent", "test-agent")
		req.Header.Set("X-LIFTLOG-TOKEN", token)

		resp, err := s.httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		respBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		var titles []string
		require.NoError(t, json.Unmarshal(respBytes, &titles))
		assert.Contains(t, titles, "Rest Over")
	})

	t.Run("delivery stats", func(t *testing.T) {
		token := doLogin(ctx, t)

		req, err := http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/notifications/stats?days=7", serverEndpoint), nil)
		require.NoError(t, err)
		req.Header.Set("User-Agent", "test-agent")
		req.Header.Set("X-LIFTLOG-TOKEN", token)

		resp, err := s.httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		respBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		var stats []history.DailyStat
		require.NoError(t, json.Unmarshal(respBytes, &stats))
		require.NotEmpty(t, stats)

		totalScheduled := 0
		for _, stat := range stats {
			if stat.Type == history.EventTypeScheduled {
				totalScheduled += stat.Count
			}
		}
		assert.GreaterOrEqual(t, totalScheduled, 2)
	})
}
