package tweets

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCreatedAt(t *testing.T) {
	ts, err := ParseCreatedAt("Thu Oct 29 17:51:01 +0000 2015")
	require.NoError(t, err)
	assert.Equal(t, int64(1446141061), ts.Unix())

	ts, err = ParseCreatedAt("Thu Oct 29 17:51:00 +0000 2015")
	require.NoError(t, err)
	assert.Equal(t, int64(1446141060), ts.Unix())

	// Offsets other than +0000 are normalised to UTC.
	ts, err = ParseCreatedAt("Thu Oct 29 19:51:00 +0200 2015")
	require.NoError(t, err)
	assert.Equal(t, int64(1446141060), ts.Unix())

	_, err = ParseCreatedAt("2015-10-29T17:51:00Z")
	assert.Error(t, err)
}

func TestParseLine(t *testing.T) {
	line := `{"created_at":"Thu Oct 29 17:51:01 +0000 2015","id_str":"659789756637822976",` +
		`"text":"Spark Summit East this week! #Spark #Apache",` +
		`"entities":{"hashtags":[{"text":"Spark","indices":[29,35]},{"text":"Apache","indices":[36,43]}]}}`

	tweet, err := ParseLine([]byte(line))
	require.NoError(t, err)
	assert.Equal(t, "659789756637822976", tweet.IDStr)
	assert.Equal(t, int64(1446141061), tweet.Unix)
	assert.Equal(t, "Thu Oct 29 17:51:01 +0000 2015", tweet.CreatedAtRaw)
	assert.Equal(t, []string{"Spark", "Apache"}, tweet.Hashtags)
	assert.Equal(t, "Spark Summit East this week! #Spark #Apache", tweet.CleanText)
	assert.False(t, tweet.HadUnicode)
}

func TestParseLineRejectsNonTweets(t *testing.T) {
	_, err := ParseLine([]byte(`{"limit":{"track":5,"timestamp_ms":"1446218985743"}}`))
	assert.True(t, errors.Is(err, ErrNotATweet))

	_, err = ParseLine([]byte(`not json`))
	assert.Error(t, err)

	_, err = ParseLine([]byte(`{"created_at":"yesterday","text":"hi"}`))
	assert.Error(t, err)
}

func TestCleanText(t *testing.T) {
	testCases := []struct {
		name       string
		in         string
		want       string
		hadUnicode bool
	}{
		{
			name: "ascii unchanged",
			in:   "Spark Summit East this week! #Spark #Apache",
			want: "Spark Summit East this week! #Spark #Apache",
		},
		{
			name:       "unicode removed",
			in:         "I'm at Terminal de Integração do Varadouro in João Pessoa, PB https://t.co/HOl34REL1a",
			want:       "I'm at Terminal de Integrao do Varadouro in Joo Pessoa, PB https://t.co/HOl34REL1a",
			hadUnicode: true,
		},
		{
			name: "escape whitespace replaced",
			in:   "Spark/ Summit\\ East this\tweek! #Spark\n#Apache",
			want: "Spark/ Summit\\ East this week! #Spark #Apache",
		},
		{
			name: "each escape becomes one space",
			in:   "a\r\n\v\fb",
			want: "a    b",
		},
		{
			name:       "emoji only",
			in:         "\U0001F600",
			want:       "",
			hadUnicode: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, hadUnicode := CleanText(tc.in)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.hadUnicode, hadUnicode)
		})
	}
}

func TestGraphHashtags(t *testing.T) {
	tweet := &Tweet{Hashtags: []string{"Spark", "Apache", "spark"}}
	assert.Equal(t, []string{"apache", "spark"}, tweet.GraphHashtags(nil))

	// A single distinct hashtag forms no edge.
	tweet = &Tweet{Hashtags: []string{"Apache", "APACHE"}}
	assert.Nil(t, tweet.GraphHashtags(nil))

	// Hashtags that clean to nothing are ignored.
	tweet = &Tweet{Hashtags: []string{"日本", "Apache"}}
	assert.Nil(t, tweet.GraphHashtags(nil))

	tweet = &Tweet{Hashtags: []string{"Café", "Apache"}}
	assert.Equal(t, []string{"apache", "caf"}, tweet.GraphHashtags(nil))

	exclude := func(tag string) bool { return strings.HasPrefix(tag, "rt") }
	tweet = &Tweet{Hashtags: []string{"RT", "Apache", "Hadoop"}}
	assert.Equal(t, []string{"apache", "hadoop"}, tweet.GraphHashtags(exclude))
}
