package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLogin(t *testing.T) {
	var requestBody, authorizeBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case requestTokenPath:
			if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
				t.Errorf("decode request token body: %v", err)
			}
			w.Write([]byte(`{"code": "req-token-123"}`))
		case accessTokenPath:
			if err := json.NewDecoder(r.Body).Decode(&authorizeBody); err != nil {
				t.Errorf("decode access token body: %v", err)
			}
			w.Write([]byte(`{"access_token": "acc-token-456", "username": "reader"}`))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	flow := NewFlow(server.URL, "ckey", server.Client())
	flow.OpenBrowser = func(raw string) error {
		parsed, err := url.Parse(raw)
		if err != nil {
			return err
		}
		if got := parsed.Query().Get("request_token"); got != "req-token-123" {
			t.Errorf("request_token = %q", got)
		}
		redirect := parsed.Query().Get("redirect_uri")
		if redirect == "" {
			t.Error("redirect_uri missing from authorize URL")
		}
		// Simulate the user approving in the browser.
		go func() {
			resp, err := http.Get(redirect)
			if err == nil {
				resp.Body.Close()
			}
		}()
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	tok, err := flow.Login(ctx)
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if tok.AccessToken != "acc-token-456" || tok.Username != "reader" {
		t.Fatalf("unexpected token: %+v", tok)
	}
	if requestBody["consumer_key"] != "ckey" {
		t.Errorf("request token body: %v", requestBody)
	}
	if !strings.HasPrefix(requestBody["redirect_uri"], "http://127.0.0.1:") {
		t.Errorf("redirect_uri = %q", requestBody["redirect_uri"])
	}
	if authorizeBody["code"] != "req-token-123" {
		t.Errorf("authorize body: %v", authorizeBody)
	}
}

func TestLoginCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": "req-token-123"}`))
	}))
	defer server.Close()

	flow := NewFlow(server.URL, "ckey", server.Client())
	flow.OpenBrowser = func(string) error { return nil }

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := flow.Login(ctx); err == nil {
		t.Fatal("expected error when the user never approves")
	}
}

func TestLoginIgnoresNonCallbackRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": "req-token-123"}`))
	}))
	defer server.Close()

	flow := NewFlow(server.URL, "ckey", server.Client())
	flow.OpenBrowser = func(raw string) error {
		parsed, err := url.Parse(raw)
		if err != nil {
			return err
		}
		redirect, err := url.Parse(parsed.Query().Get("redirect_uri"))
		if err != nil {
			return err
		}
		// A browser probing for the favicon must not count as approval.
		resp, err := http.Get("http://" + redirect.Host + "/favicon.ico")
		if err != nil {
			return err
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("favicon probe status = %d, want 404", resp.StatusCode)
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if _, err := flow.Login(ctx); err == nil {
		t.Fatal("expected Login to keep waiting after a non-callback request")
	}
}

func TestLoginAuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Error", "138 Missing consumer key")
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	flow := NewFlow(server.URL, "", server.Client())
	flow.OpenBrowser = func(string) error { return nil }

	_, err := flow.Login(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Missing consumer key") {
		t.Fatalf("error %q does not carry the X-Error detail", err)
	}
}

func TestTokenStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	want := Token{AccessToken: "abc", Username: "reader"}

	if err := SaveToken(path, want); err != nil {
		t.Fatalf("SaveToken() error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat token file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("token file mode = %o, want 600", perm)
	}

	got, err := LoadToken(path)
	if err != nil {
		t.Fatalf("LoadToken() error: %v", err)
	}
	if got != want {
		t.Fatalf("LoadToken() = %+v, want %+v", got, want)
	}
}

func TestLoadTokenMissingFile(t *testing.T) {
	if _, err := LoadToken(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadTokenEmptyToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	if err := os.WriteFile(path, []byte(`{"access_token": "", "username": "x"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadToken(path); err == nil {
		t.Fatal("expected error for empty access token")
	}
}
