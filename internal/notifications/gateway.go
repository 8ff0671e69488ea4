package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

//go:generate mockgen -source=gateway.go -destination=gateway_mocks_test.go -package=notifications_test

// PushGateway is the remote delivery backend: the platform push service
// fires the notification at the requested wall-clock time.
type PushGateway interface {
	RequestPermission(ctx context.Context) (bool, error)
	ScheduleOne(ctx context.Context, id Handle, title, body string, fireAt time.Time) error
	Cancel(ctx context.Context, id Handle) error
}

type HTTPPushGateway struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPPushGateway(baseURL string, httpClient *http.Client) *HTTPPushGateway {
	return &HTTPPushGateway{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// NewGatewayHTTPClient builds the client-credentials authorized client used
// against the push gateway, with a traced transport underneath.
func NewGatewayHTTPClient(tokenURL, clientID, clientSecret string) *http.Client {
	ccConfig := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	}
	baseClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   30 * time.Second,
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, baseClient)
	return ccConfig.Client(ctx)
}

func (g *HTTPPushGateway) RequestPermission(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost,
		fmt.Sprintf("%s/v1/permission", g.baseURL),
		nil,
	)
	if err != nil {
		return false, err
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("request permission: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("request permission: unexpected status %d", resp.StatusCode)
	}

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("read permission response: %w", err)
	}

	var permissionResp struct {
		Granted bool `json:"granted"`
	}
	if err := json.Unmarshal(respBytes, &permissionResp); err != nil {
		return false, fmt.Errorf("unmarshal permission response: %w", err)
	}

	return permissionResp.Granted, nil
}

func (g *HTTPPushGateway) ScheduleOne(
	ctx context.Context,
	id Handle,
	title, body string,
	fireAt time.Time,
) error {
	scheduleReq := struct {
		ID     int64  `json:"id"`
		Title  string `json:"title"`
		Body   string `json:"body"`
		FireAt string `json:"fire_at"`
	}{
		ID:     int64(id),
		Title:  title,
		Body:   body,
		FireAt: fireAt.Format(time.RFC3339),
	}

	reqBytes, err := json.Marshal(scheduleReq)
	if err != nil {
		return fmt.Errorf("marshal schedule request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost,
		fmt.Sprintf("%s/v1/notifications", g.baseURL),
		bytes.NewReader(reqBytes),
	)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("schedule notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("schedule notification: unexpected status %d", resp.StatusCode)
	}

	return nil
}

func (g *HTTPPushGateway) Cancel(ctx context.Context, id Handle) error {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodDelete,
		fmt.Sprintf("%s/v1/notifications/%d", g.baseURL, id),
		nil,
	)
	if err != nil {
		return err
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("cancel notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("cancel notification: unexpected status %d", resp.StatusCode)
	}

	return nil
}
