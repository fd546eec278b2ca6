package builder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"resume-builder/internal/model"
)

// StoreClient is the HTTP ProfileClient for the profile store API.
type StoreClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewStoreClient(baseURL string) *StoreClient {
	return &StoreClient{BaseURL: baseURL, HTTP: &http.Client{Timeout: 30 * time.Second}}
}

// Save posts the record to /api/profile/save and returns the stored
// post-update record.
func (c *StoreClient) Save(ctx context.Context, rec model.ProfileRecord) (*model.ProfileRecord, error) {
	body, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/profile/save", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("save profile: status %d: %s", resp.StatusCode, string(b))
	}

	var saved model.ProfileRecord
	if err := json.NewDecoder(resp.Body).Decode(&saved); err != nil {
		return nil, fmt.Errorf("decode saved profile: %w", err)
	}
	return &saved, nil
}

// FetchByEmail gets /api/profile/:email. A missing profile comes back as a
// JSON null body and is returned as (nil, nil).
func (c *StoreClient) FetchByEmail(ctx context.Context, email string) (*model.ProfileRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/profile/"+url.PathEscape(email), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch profile: status %d: %s", resp.StatusCode, string(b))
	}

	var rec *model.ProfileRecord
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return rec, nil
}
