package pocket

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	getPath  = "/v3/get"
	sendPath = "/v3/send"

	retrieveCount = 100
)

type Client struct {
	baseURL     string
	consumerKey string
	accessToken string
	http        *http.Client
}

func NewClient(baseURL, consumerKey, accessToken string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		consumerKey: consumerKey,
		accessToken: accessToken,
		http:        httpClient,
	}
}

// RetrieveOptions narrows a /v3/get call. Since is a unix timestamp string
// and is omitted when empty; Offset is omitted when negative.
type RetrieveOptions struct {
	Since       string
	Offset      int
	OldestFirst bool
}

func (c *Client) Retrieve(ctx context.Context, opts RetrieveOptions) (ItemList, error) {
	sortOrder := "newest"
	if opts.OldestFirst {
		sortOrder = "oldest"
	}
	params := map[string]any{
		"consumer_key": c.consumerKey,
		"access_token": c.accessToken,
		"detailType":   "complete",
		"sort":         sortOrder,
		"state":        "all",
		"count":        retrieveCount,
	}
	if opts.Since != "" {
		params["since"] = opts.Since
	}
	if opts.Offset >= 0 {
		params["offset"] = opts.Offset
	}

	var list ItemList
	if err := c.post(ctx, getPath, params, &list); err != nil {
		return ItemList{}, fmt.Errorf("retrieve items: %w", err)
	}
	if list.List == nil {
		list.List = map[string]Item{}
	}
	return list, nil
}

// RetrieveAll pages through the whole remote list oldest-first until an empty
// batch, dropping items the service marked deleted.
func (c *Client) RetrieveAll(ctx context.Context) (ItemList, error) {
	all := ItemList{Status: 1, Complete: 1, List: map[string]Item{}}
	offset := 0
	for {
		batch, err := c.Retrieve(ctx, RetrieveOptions{Since: "0", Offset: offset, OldestFirst: true})
		if err != nil {
			return ItemList{}, err
		}
		if len(batch.List) == 0 {
			break
		}
		for id, item := range batch.List {
			all.List[id] = item
		}
		offset += len(batch.List)
	}
	for id, item := range all.List {
		if item.IsDeleted() {
			delete(all.List, id)
		}
	}
	return all, nil
}

// Action is a single /v3/send mutation.
type Action struct {
	Action    string `json:"action"`
	ItemID    string `json:"item_id,omitempty"`
	Tags      string `json:"tags,omitempty"`
	Title     string `json:"title,omitempty"`
	URL       string `json:"url,omitempty"`
	Time      string `json:"time,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

type ActionError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
}

type SendResponse struct {
	ActionResults json.RawMessage `json:"action_results"`
	ActionErrors  []*ActionError  `json:"action_errors"`
	Status        int             `json:"status"`
}

func (c *Client) Send(ctx context.Context, actions ...Action) (SendResponse, error) {
	payload := map[string]any{
		"consumer_key": c.consumerKey,
		"access_token": c.accessToken,
		"actions":      actions,
	}

	var resp SendResponse
	if err := c.post(ctx, sendPath, payload, &resp); err != nil {
		return SendResponse{}, fmt.Errorf("send actions: %w", err)
	}
	for _, actionErr := range resp.ActionErrors {
		if actionErr != nil {
			return SendResponse{}, fmt.Errorf("action rejected: %s (%s, code %d)", actionErr.Message, actionErr.Type, actionErr.Code)
		}
	}
	return resp, nil
}

func (c *Client) Delete(ctx context.Context, itemID string) (SendResponse, error) {
	return c.Send(ctx, Action{
		Action:    "delete",
		ItemID:    itemID,
		Timestamp: strconv.FormatInt(time.Now().Unix(), 10),
	})
}

func (c *Client) FavoriteAndArchive(ctx context.Context, itemID string) (SendResponse, error) {
	return c.Send(ctx,
		Action{Action: "favorite", ItemID: itemID},
		Action{Action: "archive", ItemID: itemID},
	)
}

func (c *Client) Favorite(ctx context.Context, itemID string) (SendResponse, error) {
	return c.Send(ctx, Action{Action: "favorite", ItemID: itemID})
}

func (c *Client) Unfavorite(ctx context.Context, itemID string) (SendResponse, error) {
	return c.Send(ctx, Action{Action: "unfavorite", ItemID: itemID})
}

func (c *Client) AddTag(ctx context.Context, itemID, tag string) (SendResponse, error) {
	return c.Send(ctx, Action{Action: "tags_add", ItemID: itemID, Tags: tag})
}

func (c *Client) RemoveTag(ctx context.Context, itemID, tag string) (SendResponse, error) {
	return c.Send(ctx, Action{Action: "tags_remove", ItemID: itemID, Tags: tag})
}

func (c *Client) Add(ctx context.Context, url, title string) (SendResponse, error) {
	return c.Send(ctx, Action{
		Action: "add",
		URL:    url,
		Title:  title,
		Time:   strconv.FormatInt(time.Now().Unix(), 10),
	})
}

// Rename re-adds an item with a new title; Pocket has no title-edit action.
func (c *Client) Rename(ctx context.Context, itemID, url, title string, timestamp int64) (SendResponse, error) {
	return c.Send(ctx, Action{
		Action: "add",
		ItemID: itemID,
		Title:  title,
		URL:    url,
		Time:   strconv.FormatInt(timestamp, 10),
	})
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	req.Header.Set("X-Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if len(detail) > 0 {
			return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(detail)))
		}
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// checkStatus maps the documented Pocket error statuses to descriptive
// errors; anything else non-2xx falls through to a generic one.
func checkStatus(code int) error {
	switch code {
	case http.StatusBadRequest:
		return fmt.Errorf("pocket API status 400: invalid request, check the request syntax")
	case http.StatusUnauthorized:
		return fmt.Errorf("pocket API status 401: problem authenticating the user")
	case http.StatusForbidden:
		return fmt.Errorf("pocket API status 403: access denied due to lack of permission or rate limiting")
	case http.StatusInternalServerError:
		return fmt.Errorf("pocket API status 500: internal server error")
	case http.StatusServiceUnavailable:
		return fmt.Errorf("pocket API status 503: sync server is down for scheduled maintenance")
	}
	if code < 200 || code > 299 {
		return fmt.Errorf("pocket API status %d", code)
	}
	return nil
}
