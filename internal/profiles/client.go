// Package profiles resolves player identifiers to display names through the
// public profile service, with an optional persistent cache in front.
package profiles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/louisbranch/savegraft/internal/platform/timeouts"
)

// DefaultURLTemplate is the name-history endpoint. {uuid} is replaced with
// the undashed identifier.
const DefaultURLTemplate = "https://api.mojang.com/user/profiles/{uuid}/names"

const maxResponseBytes = 1 << 20

// ErrNoName reports a well-formed response that carries no usable name.
var ErrNoName = errors.New("profile has no name")

// HTTPClient looks names up over HTTP.
type HTTPClient struct {
	URLTemplate string
	HTTP        *http.Client
}

// NewHTTPClient returns a client for urlTemplate (DefaultURLTemplate when
// empty) whose requests give up after timeout.
func NewHTTPClient(urlTemplate string, timeout time.Duration) *HTTPClient {
	if strings.TrimSpace(urlTemplate) == "" {
		urlTemplate = DefaultURLTemplate
	}
	if timeout <= 0 {
		timeout = timeouts.ProfileRequest
	}
	return &HTTPClient{
		URLTemplate: urlTemplate,
		HTTP:        &http.Client{Timeout: timeout},
	}
}

type nameEntry struct {
	Name string `json:"name"`
}

// LookupName returns the name of the first entry of the response array.
func (c *HTTPClient) LookupName(ctx context.Context, id string) (string, error) {
	tmpl := c.URLTemplate
	if tmpl == "" {
		tmpl = DefaultURLTemplate
	}
	endpoint := strings.ReplaceAll(tmpl, "{uuid}", url.PathEscape(NormalizeID(id)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build profile request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("profile request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return "", fmt.Errorf("profile request: status %d", resp.StatusCode)
	}

	var entries []nameEntry
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&entries); err != nil {
		return "", fmt.Errorf("decode profile response: %w", err)
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrNoName)
	}
	name := strings.TrimSpace(entries[0].Name)
	if name == "" {
		return "", fmt.Errorf("%w: first entry has no name", ErrNoName)
	}
	return name, nil
}

// NormalizeID returns id in the undashed lowercase form the profile service
// expects. Identifiers that are not UUIDs are returned unchanged.
func NormalizeID(id string) string {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return id
	}
	return strings.ReplaceAll(parsed.String(), "-", "")
}
