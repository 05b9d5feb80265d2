package place

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// RemoteClient talks to the upstream places directory, a PostgREST-style
// API keyed by an anon token. The upstream data is community sourced, so
// every field read is defensive: a half-filled row still imports.
type RemoteClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewRemoteClient(baseURL, apiKey string) *RemoteClient {
	return &RemoteClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Submission is the upstream contract for proposing a new place. Image URLs
// left empty by the submitter are excluded before sending.
type Submission struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Categories  []string `json:"categories"`
	LocationURL string   `json:"location_url"`
	ImageURLs   []string `json:"image_urls"`
}

func (c *RemoteClient) Fetch(ctx context.Context) ([]Place, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/rest/v1/places?select=*", nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("remote fetch: unexpected status %d", resp.StatusCode)
	}

	var rows []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("remote fetch: %w", err)
	}

	places := []Place{}
	for _, row := range rows {
		p, ok := placeFromRow(row)
		if !ok {
			continue
		}
		places = append(places, p)
	}
	return places, nil
}

func (c *RemoteClient) Submit(ctx context.Context, sub Submission) error {
	images := make([]string, 0, len(sub.ImageURLs))
	for _, url := range sub.ImageURLs {
		if url != "" {
			images = append(images, url)
		}
	}
	sub.ImageURLs = images
	if sub.Categories == nil {
		sub.Categories = []string{}
	}

	body, err := json.Marshal(sub)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rest/v1/place_submissions", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("remote submit: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// ImportRemote pulls the upstream directory into the local catalog.
func (c *RemoteClient) ImportRemote(ctx context.Context, svc *Service) (int, error) {
	places, err := c.Fetch(ctx)
	if err != nil {
		return 0, err
	}
	for i, p := range places {
		if err := svc.Upsert(ctx, p); err != nil {
			return i, err
		}
	}
	return len(places), nil
}

func (c *RemoteClient) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

// placeFromRow maps one upstream row, tolerating missing or mistyped
// fields. A row without an id or name is unusable and skipped.
func placeFromRow(row map[string]any) (Place, bool) {
	id := stringField(row, "id")
	name := stringField(row, "name")
	if id == "" || name == "" {
		return Place{}, false
	}

	p := Place{
		ID:          id,
		Name:        name,
		Description: stringField(row, "description"),
		Location:    stringField(row, "location"),
		Category:    NormalizeCategory(stringField(row, "category")),
		Rating:      floatField(row, "rating"),
		Verified:    boolField(row, "verified"),
		ImageURL:    stringField(row, "image_url"),
		GuideName:   stringField(row, "guide_name"),
		Lat:         floatField(row, "lat"),
		Lng:         floatField(row, "lng"),
	}
	if p.ImageURL == "" {
		p.ImageURL = PlaceholderImage
	}
	if raw := stringField(row, "created_at"); raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			p.CreatedAt = ts
		}
	}
	return p, true
}

func stringField(row map[string]any, key string) string {
	switch v := row[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func floatField(row map[string]any, key string) float64 {
	switch v := row[key].(type) {
	case float64:
		return v
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	default:
		return 0
	}
}

func boolField(row map[string]any, key string) bool {
	switch v := row[key].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return false
	}
}
