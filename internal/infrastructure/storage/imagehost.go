package storage

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultImageHostURL = "https://api.imgbb.com/1/upload"

// ImageHostStorage implements ImageStorage against an imgbb-style HTTP
// image host. Deletion is not supported by the host; Delete is a no-op
// so callers can swap backends freely.
type ImageHostStorage struct {
	client  *http.Client
	apiKey  string
	baseURL string
}

// NewImageHostStorage creates an image host client
func NewImageHostStorage(apiKey, baseURL string) (*ImageHostStorage, error) {
	if apiKey == "" {
		return nil, errors.New("image host API key is required")
	}
	if baseURL == "" {
		baseURL = defaultImageHostURL
	}
	return &ImageHostStorage{
		client:  &http.Client{Timeout: 30 * time.Second},
		apiKey:  apiKey,
		baseURL: baseURL,
	}, nil
}

type imageHostResponse struct {
	Data struct {
		URL        string `json:"url"`
		DisplayURL string `json:"display_url"`
	} `json:"data"`
	Success bool `json:"success"`
	Error   struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload posts the image as base64 form data and returns the hosted URL
func (s *ImageHostStorage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyData
	}

	form := url.Values{}
	form.Set("key", s.apiKey)
	form.Set("image", base64.StdEncoding.EncodeToString(data))
	if key != "" {
		form.Set("name", key)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("image host request failed: %w", err)
	}
	defer resp.Body.Close()

	var payload imageHostResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("image host returned invalid response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || !payload.Success {
		msg := payload.Error.Message
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("image host rejected upload: %s", msg)
	}

	if payload.Data.DisplayURL != "" {
		return payload.Data.DisplayURL, nil
	}
	return payload.Data.URL, nil
}

// Delete is a no-op; the image host does not expose deletion
func (s *ImageHostStorage) Delete(ctx context.Context, key string) error {
	return nil
}

// Ensure ImageHostStorage implements ImageStorage
var _ ImageStorage = (*ImageHostStorage)(nil)
