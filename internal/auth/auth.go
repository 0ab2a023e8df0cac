// Package auth implements the Pocket OAuth handshake: obtain a request
// token, send the user to the authorization page, and trade the approved
// token for an access token via a localhost callback.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/readlater/pocket-cli/internal/tui/platform"
)

const (
	requestTokenPath = "/v3/oauth/request"
	accessTokenPath  = "/v3/oauth/authorize"
	authorizePath    = "/auth/authorize"
)

type Token struct {
	AccessToken string `json:"access_token"`
	Username    string `json:"username"`
}

type Flow struct {
	baseURL     string
	consumerKey string
	http        *http.Client

	// OpenBrowser is swappable so tests can drive the callback themselves.
	OpenBrowser func(url string) error
}

func NewFlow(baseURL, consumerKey string, httpClient *http.Client) *Flow {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Flow{
		baseURL:     strings.TrimRight(baseURL, "/"),
		consumerKey: consumerKey,
		http:        httpClient,
		OpenBrowser: platform.OpenURLInBrowser,
	}
}

// Login runs the full browser round trip and returns the access token. It
// blocks until the user approves the request or ctx is cancelled.
func (f *Flow) Login(ctx context.Context) (Token, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return Token{}, fmt.Errorf("start callback listener: %w", err)
	}
	defer listener.Close()

	redirectURI := fmt.Sprintf("http://%s/callback", listener.Addr().String())

	code, err := f.requestToken(ctx, redirectURI)
	if err != nil {
		return Token{}, err
	}

	approved := make(chan struct{})
	server := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Browsers also probe for /favicon.ico; only the redirect counts.
		if r.URL.Path != "/callback" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, "<html><body>Authorization complete. You can close this tab.</body></html>")
		select {
		case <-approved:
		default:
			close(approved)
		}
	})}
	go server.Serve(listener)
	defer server.Close()

	authorizeURL := fmt.Sprintf("%s%s?request_token=%s&redirect_uri=%s",
		f.baseURL, authorizePath, url.QueryEscape(code), url.QueryEscape(redirectURI))
	if err := f.OpenBrowser(authorizeURL); err != nil {
		return Token{}, fmt.Errorf("open authorization page: %w", err)
	}

	select {
	case <-approved:
	case <-ctx.Done():
		return Token{}, fmt.Errorf("waiting for authorization: %w", ctx.Err())
	}

	return f.accessToken(ctx, code)
}

func (f *Flow) requestToken(ctx context.Context, redirectURI string) (string, error) {
	var resp struct {
		Code string `json:"code"`
	}
	err := f.post(ctx, requestTokenPath, map[string]string{
		"consumer_key": f.consumerKey,
		"redirect_uri": redirectURI,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("obtain request token: %w", err)
	}
	if resp.Code == "" {
		return "", fmt.Errorf("obtain request token: empty code in response")
	}
	return resp.Code, nil
}

func (f *Flow) accessToken(ctx context.Context, code string) (Token, error) {
	var resp Token
	err := f.post(ctx, accessTokenPath, map[string]string{
		"consumer_key": f.consumerKey,
		"code":         code,
	}, &resp)
	if err != nil {
		return Token{}, fmt.Errorf("obtain access token: %w", err)
	}
	if resp.AccessToken == "" {
		return Token{}, fmt.Errorf("obtain access token: empty token in response")
	}
	return resp, nil
}

func (f *Flow) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	req.Header.Set("X-Accept", "application/json")

	resp, err := f.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if errCode := resp.Header.Get("X-Error"); errCode != "" {
			return fmt.Errorf("pocket auth status %d: %s", resp.StatusCode, errCode)
		}
		return fmt.Errorf("pocket auth status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
