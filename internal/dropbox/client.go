package dropbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/incomeclarity/prices-backend/internal/httputil"
)

const (
	defaultAPIBase     = "https://api.dropboxapi.com"
	defaultContentBase = "https://content.dropboxapi.com"
)

// Client wraps the handful of Dropbox v2 endpoints the dashboard's file
// maintenance needs: list a folder, move files in and out, delete, and
// refresh the short-lived access token.
type Client struct {
	accessToken string
	httpClient  *http.Client
	retry       httputil.RetryConfig

	apiBase     string
	contentBase string
}

func NewClient(accessToken string) *Client {
	return &Client{
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		retry: httputil.RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   1 * time.Second,
			MaxDelay:    10 * time.Second,
		},
		apiBase:     defaultAPIBase,
		contentBase: defaultContentBase,
	}
}

// Entry is one item from a folder listing. Tag distinguishes files from
// folders ("file" / "folder").
type Entry struct {
	Tag       string `json:".tag"`
	Name      string `json:"name"`
	PathLower string `json:"path_lower"`
	Size      int64  `json:"size"`
}

type listFolderResponse struct {
	Entries []Entry `json:"entries"`
	HasMore bool    `json:"has_more"`
	Cursor  string  `json:"cursor"`
}

// ListFolder returns the files directly under path (folders are filtered
// out). Paginates until the listing is exhausted.
func (c *Client) ListFolder(ctx context.Context, path string) ([]Entry, error) {
	body := map[string]any{
		"path":      path,
		"recursive": false,
	}

	var files []Entry
	endpoint := c.apiBase + "/2/files/list_folder"

	for {
		var page listFolderResponse
		if err := c.postJSON(ctx, endpoint, body, &page); err != nil {
			return nil, fmt.Errorf("list folder %s: %w", path, err)
		}

		for _, e := range page.Entries {
			if e.Tag == "file" {
				files = append(files, e)
			}
		}

		if !page.HasMore {
			return files, nil
		}
		endpoint = c.apiBase + "/2/files/list_folder/continue"
		body = map[string]any{"cursor": page.Cursor}
	}
}

// Download streams a remote file into w.
func (c *Client) Download(ctx context.Context, remotePath string, w io.Writer) (int64, error) {
	arg, err := json.Marshal(map[string]string{"path": remotePath})
	if err != nil {
		return 0, fmt.Errorf("marshal arg: %w", err)
	}

	resp, err := httputil.Do(ctx, c.httpClient, c.retry, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.contentBase+"/2/files/download", nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
		req.Header.Set("Dropbox-API-Arg", string(arg))
		return req, nil
	})
	if err != nil {
		return 0, fmt.Errorf("download %s: %w", remotePath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("download %s: %s", remotePath, readAPIError(resp))
	}
	return io.Copy(w, resp.Body)
}

// Upload writes r to remotePath, overwriting any existing file.
func (c *Client) Upload(ctx context.Context, remotePath string, r io.Reader) error {
	// The body is buffered so each retry attempt can replay it.
	content, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read upload content: %w", err)
	}

	arg, err := json.Marshal(map[string]any{
		"path":       remotePath,
		"mode":       "overwrite",
		"autorename": false,
	})
	if err != nil {
		return fmt.Errorf("marshal arg: %w", err)
	}

	resp, err := httputil.Do(ctx, c.httpClient, c.retry, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.contentBase+"/2/files/upload", bytes.NewReader(content))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
		req.Header.Set("Dropbox-API-Arg", string(arg))
		req.Header.Set("Content-Type", "application/octet-stream")
		return req, nil
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", remotePath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upload %s: %s", remotePath, readAPIError(resp))
	}
	return nil
}

// Delete removes a remote file.
func (c *Client) Delete(ctx context.Context, remotePath string) error {
	var result struct {
		Metadata Entry `json:"metadata"`
	}
	if err := c.postJSON(ctx, c.apiBase+"/2/files/delete_v2", map[string]string{"path": remotePath}, &result); err != nil {
		return fmt.Errorf("delete %s: %w", remotePath, err)
	}
	return nil
}

// Token is the response of an oauth2 refresh.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// RefreshAccessToken exchanges a long-lived refresh token for a new
// access token and installs it on the client.
func (c *Client) RefreshAccessToken(ctx context.Context, refreshToken, appKey, appSecret string) (*Token, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
		"client_id":     {appKey},
		"client_secret": {appSecret},
	}

	resp, err := httputil.Do(ctx, c.httpClient, c.retry, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/oauth2/token",
			strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("refresh token: %s", readAPIError(resp))
	}

	var tok Token
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("refresh token: empty access_token in response")
	}

	c.accessToken = tok.AccessToken
	return &tok, nil
}

func (c *Client) postJSON(ctx context.Context, endpoint string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	resp, err := httputil.Do(ctx, c.httpClient, c.retry, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s", readAPIError(resp))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func readAPIError(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(body))
}
