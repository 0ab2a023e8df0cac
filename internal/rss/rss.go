// Package rss manages feed subscriptions stored as a plain text file and
// fetches feed items so they can be saved to the reading list.
package rss

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type FeedItem struct {
	Title       string
	Link        string
	Source      string
	Description string
	PubDate     string
	ItemID      string
}

type Manager struct {
	path string
	http *http.Client
}

func NewManager(path string, httpClient *http.Client) *Manager {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Manager{path: path, http: httpClient}
}

func (m *Manager) ensureFile() error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("create feeds directory: %w", err)
	}
	f, err := os.OpenFile(m.path, os.O_CREATE|os.O_RDONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create feeds file: %w", err)
	}
	return f.Close()
}

// LoadSubscriptions returns feed URLs, one per line; blank lines and lines
// starting with # are skipped.
func (m *Manager) LoadSubscriptions() ([]string, error) {
	if err := m.ensureFile(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(m.path)
	if err != nil {
		return nil, fmt.Errorf("read feeds file: %w", err)
	}

	var subs []string
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			subs = append(subs, trimmed)
		}
	}
	return subs, nil
}

func (m *Manager) AddSubscription(url string) error {
	subs, err := m.LoadSubscriptions()
	if err != nil {
		return err
	}
	for _, s := range subs {
		if s == url {
			return nil
		}
	}
	subs = append(subs, url)
	return m.write(subs)
}

func (m *Manager) RemoveSubscription(url string) error {
	subs, err := m.LoadSubscriptions()
	if err != nil {
		return err
	}
	kept := subs[:0]
	for _, s := range subs {
		if s != url {
			kept = append(kept, s)
		}
	}
	return m.write(kept)
}

func (m *Manager) write(subs []string) error {
	content := strings.Join(subs, "\n")
	if err := os.WriteFile(m.path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write feeds file: %w", err)
	}
	return nil
}

// FetchFeed downloads and parses one feed, accepting both Atom and RSS.
func (m *Manager) FetchFeed(ctx context.Context, url string) ([]FeedItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "pocket-cli/1.0")

	resp, err := m.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("read feed body: %w", err)
	}
	return ParseFeed(body)
}

// FetchAll gathers items from every subscription. Feeds that fail to fetch
// or parse are skipped so one dead feed does not hide the rest.
func (m *Manager) FetchAll(ctx context.Context) ([]FeedItem, error) {
	subs, err := m.LoadSubscriptions()
	if err != nil {
		return nil, err
	}

	var items []FeedItem
	for _, url := range subs {
		feedItems, err := m.FetchFeed(ctx, url)
		if err != nil {
			continue
		}
		items = append(items, feedItems...)
	}
	return items, nil
}

type atomFeed struct {
	XMLName xml.Name `xml:"feed"`
	Title   string   `xml:"title"`
	Entries []struct {
		ID    string `xml:"id"`
		Title string `xml:"title"`
		Links []struct {
			Href string `xml:"href,attr"`
			Rel  string `xml:"rel,attr"`
		} `xml:"link"`
		Summary   string `xml:"summary"`
		Updated   string `xml:"updated"`
		Published string `xml:"published"`
	} `xml:"entry"`
}

type rssFeed struct {
	XMLName xml.Name `xml:"rss"`
	Channel struct {
		Title string `xml:"title"`
		Items []struct {
			GUID        string `xml:"guid"`
			Title       string `xml:"title"`
			Link        string `xml:"link"`
			Description string `xml:"description"`
			PubDate     string `xml:"pubDate"`
		} `xml:"item"`
	} `xml:"channel"`
}

// ParseFeed decodes an Atom or RSS document into feed items. Item IDs are
// prefixed with the feed title so entries from different feeds never
// collide.
func ParseFeed(data []byte) ([]FeedItem, error) {
	var atom atomFeed
	if err := xml.Unmarshal(data, &atom); err == nil && atom.XMLName.Local == "feed" {
		items := make([]FeedItem, 0, len(atom.Entries))
		for _, entry := range atom.Entries {
			link := ""
			for _, l := range entry.Links {
				if l.Rel == "" || l.Rel == "alternate" {
					link = l.Href
					break
				}
			}
			if link == "" && len(entry.Links) > 0 {
				link = entry.Links[0].Href
			}
			pubDate := entry.Published
			if pubDate == "" {
				pubDate = entry.Updated
			}
			items = append(items, FeedItem{
				Title:       strings.TrimSpace(entry.Title),
				Link:        link,
				Source:      strings.TrimSpace(atom.Title),
				Description: strings.TrimSpace(entry.Summary),
				PubDate:     pubDate,
				ItemID:      atom.Title + ":" + entry.ID,
			})
		}
		return items, nil
	}

	var rss rssFeed
	if err := xml.Unmarshal(data, &rss); err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	items := make([]FeedItem, 0, len(rss.Channel.Items))
	for _, item := range rss.Channel.Items {
		id := item.GUID
		if id == "" {
			id = item.Link
		}
		items = append(items, FeedItem{
			Title:       strings.TrimSpace(item.Title),
			Link:        strings.TrimSpace(item.Link),
			Source:      strings.TrimSpace(rss.Channel.Title),
			Description: strings.TrimSpace(item.Description),
			PubDate:     item.PubDate,
			ItemID:      rss.Channel.Title + ":" + id,
		})
	}
	return items, nil
}
