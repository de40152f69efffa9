// file: internals/features/meetings/provider/client.go
package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

/* =========================
   Token cache (S2S OAuth)
========================= */

// accessTokenCache: token + expiry eksplisit, di-refresh lazily di bawah
// mutex. Refresh dobel karena race tidak berbahaya — token lama hanya
// tergantikan token valid yang lebih baru.
type accessTokenCache struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

/* =========================
   HTTP client provider
========================= */

type Client struct {
	BaseURL      string
	AuthURL      string
	AccountID    string
	ClientID     string
	ClientSecret string

	HTTP  *http.Client
	cache accessTokenCache
}

func NewClient(baseURL, authURL, accountID, clientID, clientSecret string) *Client {
	return &Client{
		BaseURL:      baseURL,
		AuthURL:      authURL,
		AccountID:    accountID,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		// Timeout wajib: tanpa ini satu provider hang bisa nyandera cron
		HTTP: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.cache.mu.Lock()
	defer c.cache.mu.Unlock()

	// Sisa umur < 30 detik dianggap kadaluarsa
	if c.cache.token != "" && time.Until(c.cache.expiresAt) > 30*time.Second {
		return c.cache.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "account_credentials")
	form.Set("account_id", c.AccountID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.AuthURL, bytes.NewBufferString(form.Encode()))
	if err != nil {
		return "", err
	}
	basic := base64.StdEncoding.EncodeToString([]byte(c.ClientID + ":" + c.ClientSecret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", &TransientError{Op: "oauth", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return "", &TransientError{Op: "oauth", Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("oauth token request failed: status %d: %s", resp.StatusCode, body)
	}

	var out struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}

	c.cache.token = out.AccessToken
	c.cache.expiresAt = time.Now().Add(time.Duration(out.ExpiresIn) * time.Second)
	return c.cache.token, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		buf = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &TransientError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return &TransientError{Op: method + " " + path, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("meeting provider: %s %s: not found", method, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("meeting provider: %s %s: status %d: %s", method, path, resp.StatusCode, raw)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

/* =========================
   MeetingProvider impl
========================= */

func (c *Client) CreateMeeting(ctx context.Context, topic string, start time.Time, duration time.Duration, timezone string) (*Meeting, error) {
	payload := map[string]any{
		"topic":      topic,
		"type":       2, // scheduled
		"start_time": start.UTC().Format("2006-01-02T15:04:05Z"),
		"duration":   int(duration.Minutes()),
		"timezone":   timezone,
		"settings": map[string]any{
			"join_before_host": false,
			"waiting_room":     true,
			"auto_recording":   "cloud",
		},
	}

	var out struct {
		ID       int64  `json:"id"`
		JoinURL  string `json:"join_url"`
		StartURL string `json:"start_url"`
		Password string `json:"password"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/users/me/meetings", payload, &out); err != nil {
		return nil, err
	}

	return &Meeting{
		ExternalID:  strconv.FormatInt(out.ID, 10),
		HostJoinURL: out.StartURL,
		JoinURL:     out.JoinURL,
		Passcode:    out.Password,
	}, nil
}

func (c *Client) DeleteMeeting(ctx context.Context, externalID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/meetings/"+externalID, nil, nil)
}

func (c *Client) GetRecordingDownloadURL(ctx context.Context, externalID string) (string, error) {
	var out struct {
		RecordingFiles []struct {
			DownloadURL string `json:"download_url"`
			FileType    string `json:"file_type"`
		} `json:"recording_files"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/meetings/"+externalID+"/recordings", nil, &out); err != nil {
		return "", err
	}
	for _, f := range out.RecordingFiles {
		if f.FileType == "MP4" {
			return f.DownloadURL, nil
		}
	}
	if len(out.RecordingFiles) > 0 {
		return out.RecordingFiles[0].DownloadURL, nil
	}
	return "", fmt.Errorf("meeting provider: no recording files for meeting %s", externalID)
}

func (c *Client) ListPastParticipants(ctx context.Context, externalID string) ([]Participant, error) {
	var out struct {
		Participants []struct {
			ID        string `json:"id"`
			UserEmail string `json:"user_email"`
			Name      string `json:"name"`
			JoinTime  string `json:"join_time"`
			LeaveTime string `json:"leave_time"`
		} `json:"participants"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/past_meetings/"+externalID+"/participants", nil, &out); err != nil {
		return nil, err
	}

	list := make([]Participant, 0, len(out.Participants))
	for _, p := range out.Participants {
		joined, err := time.Parse(time.RFC3339, p.JoinTime)
		if err != nil {
			continue
		}
		item := Participant{UserID: p.ID, Name: p.Name, JoinedAt: joined}
		if left, err := time.Parse(time.RFC3339, p.LeaveTime); err == nil {
			item.LeftAt = &left
		}
		list = append(list, item)
	}
	return list, nil
}
