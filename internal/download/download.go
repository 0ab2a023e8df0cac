// Package download fetches saved items and stores readable local copies:
// articles as normalized markdown, PDFs as raw files.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	md "github.com/JohannesKaufmann/html-to-markdown"

	"github.com/readlater/pocket-cli/internal/markdown"
	"github.com/readlater/pocket-cli/internal/pocket"
	"github.com/readlater/pocket-cli/internal/readability"
)

const maxFetchBytes = 20 << 20

type Downloader struct {
	dir       string
	http      *http.Client
	converter *md.Converter
}

func New(dir string, httpClient *http.Client) *Downloader {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Downloader{
		dir:       dir,
		http:      httpClient,
		converter: md.NewConverter("", true, nil),
	}
}

// Download fetches the item and writes it under the download directory.
// It returns the path of the written file.
func (d *Downloader) Download(ctx context.Context, item pocket.Item) (string, error) {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return "", fmt.Errorf("create download directory: %w", err)
	}

	body, err := d.fetch(ctx, item.URL())
	if err != nil {
		return "", err
	}

	if item.ItemType() == pocket.ItemTypePDF {
		path := filepath.Join(d.dir, Slugify(item.Title())+".pdf")
		if err := os.WriteFile(path, body, 0o644); err != nil {
			return "", fmt.Errorf("write pdf: %w", err)
		}
		return path, nil
	}

	article, err := readability.Extract(string(body))
	if err != nil {
		return "", fmt.Errorf("extract article: %w", err)
	}

	converted, err := d.converter.ConvertString(article.ContentHTML)
	if err != nil {
		return "", fmt.Errorf("convert to markdown: %w", err)
	}
	normalized := markdown.Normalize(converted, article.Text)

	title := item.Title()
	if title == "[empty]" && article.Title != "" {
		title = article.Title
	}

	path := filepath.Join(d.dir, Slugify(title)+".md")
	content := "# " + title + "\n\n" + normalized + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write markdown: %w", err)
	}
	return path, nil
}

func (d *Downloader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "pocket-cli/1.0")

	resp, err := d.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// Slugify turns a title into a safe file name.
func Slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "untitled"
	}
	if len(slug) > 120 {
		slug = strings.Trim(slug[:120], "-")
	}
	return slug
}

// TitleFromText guesses a document title from extracted plain text: the
// first paragraph of reasonable length, otherwise the first ten words.
func TitleFromText(text string) string {
	const minWords, maxWords = 3, 50

	for _, para := range strings.Split(strings.TrimLeft(text, " \t\n\r"), "\n\n") {
		words := len(strings.Fields(para))
		if words >= minWords && words <= maxWords {
			return strings.TrimSpace(strings.Join(strings.Fields(para), " "))
		}
	}

	fields := strings.Fields(text)
	if len(fields) > 10 {
		fields = fields[:10]
	}
	return strings.Join(fields, " ")
}
