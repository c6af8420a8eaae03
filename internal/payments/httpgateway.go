package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// HTTPGateway posts authorization requests to a remote card gateway.
type HTTPGateway struct {
	Endpoint   string
	APIKey     string
	httpClient *http.Client
}

func NewHTTPGateway(endpoint, apiKey string) *HTTPGateway {
	return &HTTPGateway{
		Endpoint:   endpoint,
		APIKey:     apiKey,
		httpClient: http.DefaultClient,
	}
}

func (g *HTTPGateway) Authorize(ctx context.Context, req AuthorizationRequest) (AuthorizationResponse, error) {
	body, _ := json.Marshal(req)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.Endpoint, bytes.NewBuffer(body))
	if err != nil {
		return AuthorizationResponse{}, fmt.Errorf("gateway authorize request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if g.APIKey != "" {
		httpReq.Header.Set("Authorization", "key "+g.APIKey)
	}

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return AuthorizationResponse{}, fmt.Errorf("gateway authorize: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	// Gateways report declines with non-2xx statuses too, so decode the
	// body regardless of HTTP status and let the caller judge the verdict.
	var res AuthorizationResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		return AuthorizationResponse{}, fmt.Errorf("gateway authorize decode: http=%d err=%w", resp.StatusCode, err)
	}
	if res.Status == "" {
		return AuthorizationResponse{}, fmt.Errorf("gateway authorize: missing status field, http=%d body=%s", resp.StatusCode, string(raw))
	}

	return res, nil
}
