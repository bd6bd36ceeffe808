package tweets

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// CreatedAtLayout is the layout of the created_at field emitted by the Twitter API.
const CreatedAtLayout = "Mon Jan 02 15:04:05 -0700 2006"

// ErrNotATweet is returned for lines that decode but carry no tweet, such as
// the stream's {"limit": ...} notices.
var ErrNotATweet = errors.New("record is not a tweet")

// Tweet represents a parsed tweet with all its components
type Tweet struct {
	IDStr        string    `json:"id_str"`
	CreatedAtRaw string    `json:"created_at"`
	CreatedAt    time.Time `json:"-"`
	Unix         int64     `json:"unix"`
	Text         string    `json:"text"`
	Hashtags     []string  `json:"hashtags"`

	// CleanText is Text with non-ASCII removed and escape whitespace replaced.
	CleanText string `json:"clean_text"`
	// HadUnicode reports whether Text held any non-ASCII character.
	HadUnicode bool `json:"had_unicode"`
}

type rawTweet struct {
	IDStr     string  `json:"id_str"`
	CreatedAt *string `json:"created_at"`
	Text      *string `json:"text"`
	Entities  struct {
		Hashtags []struct {
			Text string `json:"text"`
		} `json:"hashtags"`
	} `json:"entities"`
}

// ParseLine decodes a single JSON tweet line.
func ParseLine(line []byte) (*Tweet, error) {
	var raw rawTweet
	if err := json.Unmarshal(line, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode tweet: %w", err)
	}
	if raw.CreatedAt == nil || raw.Text == nil {
		return nil, ErrNotATweet
	}

	createdAt, err := ParseCreatedAt(*raw.CreatedAt)
	if err != nil {
		return nil, err
	}

	tweet := &Tweet{
		IDStr:        raw.IDStr,
		CreatedAtRaw: *raw.CreatedAt,
		CreatedAt:    createdAt,
		Unix:         createdAt.Unix(),
		Text:         *raw.Text,
	}
	for _, ht := range raw.Entities.Hashtags {
		tweet.Hashtags = append(tweet.Hashtags, ht.Text)
	}
	tweet.CleanText, tweet.HadUnicode = CleanText(tweet.Text)
	return tweet, nil
}

// ParseCreatedAt parses a created_at value and returns it in UTC.
func ParseCreatedAt(s string) (time.Time, error) {
	t, err := time.Parse(CreatedAtLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse created_at %q: %w", s, err)
	}
	return t.UTC(), nil
}

// CleanText drops every non-ASCII rune and turns \t \n \r \v \f into a single
// space each. The second result reports whether anything non-ASCII was dropped.
func CleanText(text string) (string, bool) {
	var b strings.Builder
	b.Grow(len(text))
	hadUnicode := false
	for _, r := range text {
		switch {
		case r > 127:
			hadUnicode = true
		case r == '\t', r == '\n', r == '\r', r == '\v', r == '\f':
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	return b.String(), hadUnicode
}

// GraphHashtags returns the cleaned, lowercased, distinct hashtags of the tweet
// in sorted order. Hashtags for which exclude returns true are dropped. Fewer
// than two survivors yield nil since a lone hashtag forms no edge.
func (t *Tweet) GraphHashtags(exclude func(string) bool) []string {
	seen := make(map[string]struct{}, len(t.Hashtags))
	var tags []string
	for _, ht := range t.Hashtags {
		clean, _ := CleanText(ht)
		clean = strings.ToLower(clean)
		if clean == "" {
			continue
		}
		if exclude != nil && exclude(clean) {
			continue
		}
		if _, dup := seen[clean]; dup {
			continue
		}
		seen[clean] = struct{}{}
		tags = append(tags, clean)
	}
	if len(tags) < 2 {
		return nil
	}
	sort.Strings(tags)
	return tags
}
