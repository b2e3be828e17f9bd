package google

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/custodia-labs/deckgen-core/internal/core/domain"
	"github.com/custodia-labs/deckgen-core/internal/core/ports/driven"
)

// Ensure SlidesClient implements the interface.
var _ driven.SlidesAPI = (*SlidesClient)(nil)

const defaultSlidesBaseURL = "https://slides.googleapis.com/v1"

// SlidesConfig holds Slides API client configuration.
type SlidesConfig struct {
	// BaseURL overrides the Slides API endpoint, used by tests.
	BaseURL string

	// Timeout bounds each outbound call. Zero means 30 seconds.
	Timeout time.Duration
}

// SlidesClient talks to the Google Slides REST API.
type SlidesClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewSlidesClient creates a new Slides API client.
func NewSlidesClient(cfg SlidesConfig) *SlidesClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultSlidesBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SlidesClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CreatePresentation creates an empty presentation and returns its ID.
func (c *SlidesClient) CreatePresentation(ctx context.Context, accessToken, title string) (string, error) {
	payload, err := json.Marshal(map[string]string{"title": title})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST",
		c.baseURL+"/presentations",
		bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Creation is idempotent from the caller's view: a lost
		// response means at worst an orphaned empty deck, so any
		// transport failure reads as unavailability.
		return "", fmt.Errorf("%w: %v", domain.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", domain.ErrRemoteUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: status %d: %s", domain.ErrRemoteRejected, resp.StatusCode, truncate(body))
	}

	var created struct {
		PresentationID string `json:"presentationId"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", domain.ErrRemoteRejected, err)
	}
	if created.PresentationID == "" {
		return "", fmt.Errorf("%w: response carried no presentation id", domain.ErrRemoteRejected)
	}

	return created.PresentationID, nil
}

// BatchUpdate applies the slide operations in submission order.
func (c *SlidesClient) BatchUpdate(ctx context.Context, accessToken, presentationID string, ops []domain.SlideOperation) error {
	payload, err := json.Marshal(map[string]any{
		"requests": buildBatchRequests(ops),
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST",
		c.baseURL+"/presentations/"+presentationID+":batchUpdate",
		bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyBatchTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		// The request was accepted but the response was lost mid-read.
		return fmt.Errorf("%w: read response: %v", domain.ErrPartialApplyUnknown, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d: %s", domain.ErrRemoteRejected, resp.StatusCode, truncate(body))
	}

	return nil
}

// classifyBatchTransportError separates failures where the batch never
// left this process from failures where it may have been applied.
// Dial and DNS errors happen before anything is written; everything
// else (response timeout, reset mid-flight) leaves the outcome unknown
// and a retry could duplicate slides.
func classifyBatchTransportError(err error) error {
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return fmt.Errorf("%w: %v", domain.ErrRemoteUnavailable, err)
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return fmt.Errorf("%w: %v", domain.ErrRemoteUnavailable, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrPartialApplyUnknown, err)
}

// buildBatchRequests translates operations into Slides API request
// objects. Slide creation uses the TITLE_AND_BODY layout and maps the
// body placeholder to the client-assigned object ID so the paired
// insertText can target it within the same batch.
func buildBatchRequests(ops []domain.SlideOperation) []map[string]any {
	requests := make([]map[string]any, 0, len(ops))
	for _, op := range ops {
		switch op.Kind {
		case domain.OpCreateSlide:
			requests = append(requests, map[string]any{
				"createSlide": map[string]any{
					"objectId":       op.SlideID,
					"insertionIndex": op.Index,
					"slideLayoutReference": map[string]any{
						"predefinedLayout": "TITLE_AND_BODY",
					},
					"placeholderIdMappings": []map[string]any{
						{
							"layoutPlaceholder": map[string]any{
								"type":  "BODY",
								"index": 0,
							},
							"objectId": op.ObjectID,
						},
					},
				},
			})
		case domain.OpInsertText:
			requests = append(requests, map[string]any{
				"insertText": map[string]any{
					"objectId":       op.ObjectID,
					"insertionIndex": 0,
					"text":           op.Text,
				},
			})
		}
	}
	return requests
}

// truncate bounds error payloads included in messages.
func truncate(body []byte) string {
	const max = 256
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
