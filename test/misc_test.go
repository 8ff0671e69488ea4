package test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) getPlain(ctx context.Context, t *testing.T, path string) (int, string) {
	req, err := http.NewRequestWithContext(ctx, "GET", serverEndpoint+path, nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(respBytes)
}

func (s *IntegrationTestSuite) TestMisc() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t.Run("root", func(t *testing.T) {
		status, body := s.getPlain(ctx, t, "/")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "I'm OK, thanks ;)", body)
	})

	t.Run("version", func(t *testing.T) {
		status, body := s.getPlain(ctx, t, "/version")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "test-version-info", body)
	})

	t.Run("random quote", func(t *testing.T) {
		status, body := s.getPlain(ctx, t, "/quote/random")
		assert.Equal(t, http.StatusOK, status)

		var quote struct {
			Text   string `json:"text"`
			Author string `json:"author"`
			Genre  string `json:"genre"`
		}
		require.NoError(t, json.Unmarshal([]byte(body), &quote))
		assert.NotEmpty(t, quote.Text)
		assert.NotEmpty(t, quote.Author)
	})

	t.Run("whereami", func(t *testing.T) {
		status, body := s.getPlain(ctx, t, "/whereami")
		assert.Equal(t, http.StatusOK, status)
		// requests come from localhost, the dev geo info kicks in
		assert.Equal(t, `{"city":"Berlin", "country":"DE"}`, body)
	})

	t.Run("myip", func(t *testing.T) {
		status, body := s.getPlain(ctx, t, "/myip")
		assert.Equal(t, http.StatusOK, status)
		assert.NotEmpty(t, body)
	})

	t.Run("weight convert", func(t *testing.T) {
		status, body := s.getPlain(ctx, t, "/weight/convert?value=100&from=kg&to=lb")
		assert.Equal(t, http.StatusOK, status)

		var convertResp struct {
			Value     float64 `json:"value"`
			Unit      string  `json:"unit"`
			Formatted string  `json:"formatted"`
		}
		require.NoError(t, json.Unmarshal([]byte(body), &convertResp))
		assert.InDelta(t, 220.46, convertResp.Value, 0.01)
		assert.Equal(t, "lb", convertResp.Unit)
		assert.Equal(t, "220.5 lb", convertResp.Formatted)
	})

	t.Run("weight convert, bad unit", func(t *testing.T) {
		status, _ := s.getPlain(ctx, t, "/weight/convert?value=100&from=kg&to=stone")
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("unknown path needs auth", func(t *testing.T) {
		status, _ := s.getPlain(ctx, t, "/no-such-thing")
		assert.Equal(t, http.StatusUnauthorized, status)
	})
}
