package pocket

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Item is the subset of Pocket item fields required by the app. Pocket's API
// encodes flags and timestamps as strings; they are kept as-is and decoded on
// demand so unknown shapes never fail a sync.
type Item struct {
	ItemID                 string     `json:"item_id"`
	Favorite               string     `json:"favorite"`
	Status                 string     `json:"status"`
	TimeAdded              string     `json:"time_added"`
	TimeUpdated            string     `json:"time_updated"`
	TimeRead               string     `json:"time_read"`
	TimeFavorited          string     `json:"time_favorited"`
	SortID                 int64      `json:"sort_id"`
	ResolvedTitle          string     `json:"resolved_title"`
	GivenTitle             string     `json:"given_title"`
	ResolvedURL            string     `json:"resolved_url"`
	GivenURL               string     `json:"given_url"`
	IsArticle              string     `json:"is_article"`
	IsIndex                string     `json:"is_index"`
	HasVideo               string     `json:"has_video"`
	HasImage               string     `json:"has_image"`
	WordCount              string     `json:"word_count"`
	Lang                   string     `json:"lang"`
	Tags                   TagSet     `json:"tags"`
	Authors                AuthorList `json:"authors"`
	ListenDurationEstimate int64      `json:"listen_duration_estimate"`
}

const (
	ItemTypeArticle = "article"
	ItemTypeVideo   = "video"
	ItemTypePDF     = "pdf"
)

// ReadTag marks an item as read; Pocket has no native read flag, so the
// client tracks it as a regular tag.
const ReadTag = "read"

func (it Item) Title() string {
	if it.GivenTitle != "" {
		return it.GivenTitle
	}
	if it.ResolvedTitle != "" {
		return it.ResolvedTitle
	}
	return "[empty]"
}

func (it Item) URL() string {
	if it.ResolvedURL != "" {
		return it.ResolvedURL
	}
	if it.GivenURL != "" {
		return it.GivenURL
	}
	return "[empty]"
}

func (it Item) ItemType() string {
	switch {
	case strings.Contains(it.URL(), "youtube.com"):
		return ItemTypeVideo
	case strings.Contains(it.URL(), "pdf"):
		return ItemTypePDF
	default:
		return ItemTypeArticle
	}
}

func (it Item) IsDeleted() bool {
	return it.Status == "2"
}

func (it Item) IsFavorite() bool {
	return it.Favorite == "1"
}

func (it Item) IsRead() bool {
	return it.Tags.Has(ReadTag)
}

func (it Item) AddedAt() time.Time {
	ts, err := strconv.ParseInt(it.TimeAdded, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}

// TagSet holds an item's tags. Pocket serializes tags as an object keyed by
// tag name; only the names matter here.
type TagSet map[string]struct{}

func (t TagSet) Has(name string) bool {
	_, ok := t[name]
	return ok
}

func (t TagSet) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (t *TagSet) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	set := make(TagSet, len(raw))
	for name := range raw {
		set[name] = struct{}{}
	}
	*t = set
	return nil
}

func (t TagSet) MarshalJSON() ([]byte, error) {
	raw := make(map[string]struct{}, len(t))
	for name := range t {
		raw[name] = struct{}{}
	}
	return json.Marshal(raw)
}

func TagSetOf(names ...string) TagSet {
	set := make(TagSet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

// AuthorList flattens Pocket's authors object (author id -> metadata) into
// display names, prefixed by the source when it is recognizable from the
// author URL.
type AuthorList []string

func (a *AuthorList) UnmarshalJSON(data []byte) error {
	var raw map[string]struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	names := make([]string, 0, len(raw))
	for _, author := range raw {
		prefix := ""
		switch {
		case strings.Contains(author.URL, "youtube"):
			prefix = "YT:"
		case strings.Contains(author.URL, "medium"):
			prefix = "medium:"
		}
		names = append(names, prefix+author.Name)
	}
	sort.Strings(names)
	*a = names
	return nil
}

func (a AuthorList) MarshalJSON() ([]byte, error) {
	return json.Marshal([]string(a))
}

// ItemList is the shape of a /v3/get response.
type ItemList struct {
	Status   int64           `json:"status"`
	Complete int64           `json:"complete"`
	Since    int64           `json:"since"`
	List     map[string]Item `json:"list"`
}

func (l ItemList) Items() []Item {
	items := make([]Item, 0, len(l.List))
	for _, item := range l.List {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ItemID < items[j].ItemID })
	return items
}

func (l *ItemList) UnmarshalJSON(data []byte) error {
	// Pocket encodes an empty list as [] instead of {}.
	type alias ItemList
	var decoded alias
	if err := json.Unmarshal(data, &decoded); err != nil {
		var fallback struct {
			Status   int64           `json:"status"`
			Complete int64           `json:"complete"`
			Since    int64           `json:"since"`
			List     json.RawMessage `json:"list"`
		}
		if ferr := json.Unmarshal(data, &fallback); ferr != nil {
			return err
		}
		decoded.Status = fallback.Status
		decoded.Complete = fallback.Complete
		decoded.Since = fallback.Since
	}
	if decoded.List == nil {
		decoded.List = map[string]Item{}
	}
	*l = ItemList(decoded)
	return nil
}
