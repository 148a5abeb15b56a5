// Package directory implements the client for the remote directory
// service: the authority that maps card numbers to location names and
// stores submitted check-ins.
//
// The service exposes procedure-style endpoints that accept a JSON body
// via POST and answer with a Result/Message envelope.
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/qsswgl/patrol/internal/log"
)

// Mapping is one tag-to-location entry from the bulk directory fetch.
type Mapping struct {
	TagID    string `json:"cardNo"`
	Label    string `json:"locationName"`
	Category string `json:"type"`
}

// CheckIn is the payload for a check-in submission.
type CheckIn struct {
	TagID    string
	Label    string
	ReadTime time.Time
	DeviceID string
}

// Client is the logical interface to the remote directory.
// Connectivity is advisory: every call can fail regardless of what
// IsConnectivityAvailable reported, and callers must degrade gracefully.
type Client interface {
	// ResolveTag looks up the location name registered for a card.
	// An unregistered card resolves to "" with a nil error.
	ResolveTag(ctx context.Context, tagID string) (string, error)

	// RegisterLocation registers a new card-to-location mapping.
	// A logical rejection from the directory is returned as
	// *RejectionError; transport failures as ordinary errors.
	RegisterLocation(ctx context.Context, tagID, label string) error

	// SubmitCheckIn appends one check-in to the remote log. The remote
	// treats submissions as additive, so retries are safe. Returns true
	// only on acknowledged success.
	SubmitCheckIn(ctx context.Context, checkIn CheckIn) bool

	// FetchAllMappings bulk-fetches every known mapping for cache warming.
	FetchAllMappings(ctx context.Context) ([]Mapping, error)

	// IsConnectivityAvailable probes the service with a short timeout.
	IsConnectivityAvailable(ctx context.Context) bool

	// LatestVersion reports the newest published app version.
	LatestVersion(ctx context.Context) (string, error)
}

// RejectionError is a logical rejection reported by the directory
// (HTTP succeeded, the service refused the operation).
type RejectionError struct {
	Reason string
}

func (e *RejectionError) Error() string {
	return e.Reason
}

// Config holds client settings.
type Config struct {
	BaseURL           string
	WriteTimeout      time.Duration
	CheckTimeout      time.Duration
	RequestsPerSecond float64
}

// httpClient is the HTTP implementation of Client.
type httpClient struct {
	baseURL     string
	client      *http.Client
	checkClient *http.Client
	limiter     *rate.Limiter
}

// New creates a directory client against the configured base URL.
func New(cfg Config) Client {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	return &httpClient{
		baseURL:     cfg.BaseURL,
		client:      &http.Client{Timeout: cfg.WriteTimeout},
		checkClient: &http.Client{Timeout: cfg.CheckTimeout},
		limiter:     rate.NewLimiter(rate.Limit(rps), int(rps)+1),
	}
}

// envelope is the Result/Message response shape shared by the
// procedure endpoints. Result "0" means success, "-1" failure.
type envelope struct {
	Result  string `json:"Result"`
	Message string `json:"Message"`
}

// call POSTs a JSON body to an endpoint and decodes the envelope.
func (c *httpClient) call(ctx context.Context, endpoint string, body interface{}) (*envelope, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s: HTTP %d", endpoint, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", endpoint, err)
	}
	return &env, nil
}

// ResolveTag implements Client.
func (c *httpClient) ResolveTag(ctx context.Context, tagID string) (string, error) {
	env, err := c.call(ctx, "get_card", map[string]string{"CardNo": tagID})
	if err != nil {
		return "", err
	}
	if env.Result == "0" && env.Message != "" {
		return env.Message, nil
	}
	// Not registered; same outcome as an empty label.
	return "", nil
}

// RegisterLocation implements Client.
func (c *httpClient) RegisterLocation(ctx context.Context, tagID, label string) error {
	env, err := c.call(ctx, "insert_address", map[string]string{
		"CardNo":       tagID,
		"LocationName": label,
	})
	if err != nil {
		return err
	}
	if env.Result == "-1" {
		reason := env.Message
		if reason == "" {
			reason = "registration refused"
		}
		return &RejectionError{Reason: reason}
	}
	return nil
}

// SubmitCheckIn implements Client.
func (c *httpClient) SubmitCheckIn(ctx context.Context, checkIn CheckIn) bool {
	env, err := c.call(ctx, "insert_patrol", map[string]string{
		"CardNo":       checkIn.TagID,
		"LocationName": checkIn.Label,
		"CheckInTime":  checkIn.ReadTime.Format(time.RFC3339),
		"DeviceID":     checkIn.DeviceID,
	})
	if err != nil {
		log.Errorf("submit check-in for %s: %v", checkIn.TagID, err)
		return false
	}
	return env.Result != "-1"
}

// FetchAllMappings implements Client. The bulk endpoint answers with a
// bare JSON array instead of the envelope.
func (c *httpClient) FetchAllMappings(ctx context.Context) ([]Mapping, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/get_all_cards", bytes.NewReader([]byte("{}")))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get_all_cards: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("get_all_cards: HTTP %d", resp.StatusCode)
	}

	var mappings []Mapping
	if err := json.NewDecoder(resp.Body).Decode(&mappings); err != nil {
		return nil, fmt.Errorf("get_all_cards: decode response: %w", err)
	}
	return mappings, nil
}

// IsConnectivityAvailable implements Client. A short HEAD to the base
// URL; any HTTP response counts as reachable.
func (c *httpClient) IsConnectivityAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL, nil)
	if err != nil {
		return false
	}
	resp, err := c.checkClient.Do(req)
	if err != nil {
		return false
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return true
}

// LatestVersion implements Client.
func (c *httpClient) LatestVersion(ctx context.Context) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/latest_version", nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := c.checkClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("latest_version: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("latest_version: HTTP %d", resp.StatusCode)
	}

	var body struct {
		Version string `json:"Version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("latest_version: decode response: %w", err)
	}
	return body.Version, nil
}
