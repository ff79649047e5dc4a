package bitbucket

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"bbpr/internal/domain/model"
	"bbpr/internal/domain/port/driven"
)

// Transport performs authenticated requests against the Bitbucket API and
// maps HTTP failures onto the driven error taxonomy. It performs no retries
// and no backoff: a failed request fails the whole command.
type Transport struct {
	base  *url.URL
	http  *http.Client
	creds model.Credentials
}

func newTransport(httpClient *http.Client, baseURL string, creds model.Credentials) (*Transport, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base URL %q has no host", baseURL)
	}
	return &Transport{base: u, http: httpClient, creds: creds}, nil
}

// Do performs an HTTP request and returns the raw response body. pathOrURL is
// either a path relative to the API base (caller-constructed) or an absolute
// URL handed back by the server as a pagination link. Absolute URLs must
// point at the API host; anything else fails closed so that a malicious
// "next" link can never receive credentialed requests.
//
// A 204 or otherwise empty response yields (nil, nil).
func (t *Transport) Do(ctx context.Context, method, pathOrURL string, body any) ([]byte, error) {
	target, err := t.resolve(pathOrURL)
	if err != nil {
		return nil, err
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.SetBasicAuth(t.creds.Username, t.creds.AppPassword)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := t.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, pathOrURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	slog.Debug("bitbucket api call",
		"method", method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
	)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if resp.StatusCode == http.StatusNoContent || len(respBody) == 0 {
			return nil, nil
		}
		return respBody, nil
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return nil, driven.ErrAuth
	case http.StatusForbidden:
		return nil, driven.ErrForbidden
	case http.StatusNotFound:
		return nil, driven.ErrNotFound
	default:
		return nil, &driven.APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(respBody, resp.Status),
		}
	}
}

// resolve turns a relative path into a full URL against the API base, or
// validates an absolute server-supplied URL against the API host.
func (t *Transport) resolve(pathOrURL string) (string, error) {
	if !strings.HasPrefix(pathOrURL, "http://") && !strings.HasPrefix(pathOrURL, "https://") {
		if !strings.HasPrefix(pathOrURL, "/") {
			pathOrURL = "/" + pathOrURL
		}
		return t.base.String() + pathOrURL, nil
	}

	u, err := url.Parse(pathOrURL)
	if err != nil {
		return "", fmt.Errorf("parsing server-supplied URL: %w", err)
	}
	if u.Host != t.base.Host {
		return "", fmt.Errorf("refusing to follow server-supplied URL to foreign host %q (expected %q)", u.Host, t.base.Host)
	}
	return pathOrURL, nil
}

// errorMessage extracts the message from the conventional Bitbucket error
// envelope, falling back to the HTTP status text.
func errorMessage(body []byte, statusText string) string {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	return statusText
}
