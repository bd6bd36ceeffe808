package filter

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// HashtagFilter holds a set of hashtags that never enter the graph
type HashtagFilter struct {
	filteredTags map[string]bool
}

// NewHashtagFilter creates a new empty HashtagFilter
func NewHashtagFilter() *HashtagFilter {
	return &HashtagFilter{
		filteredTags: make(map[string]bool),
	}
}

// LoadFromFile loads filtered hashtags from a file.
// Each line holds one hashtag with or without its leading '#'. A line that is
// a lone '#' or starts with "# " is a comment.
func (hf *HashtagFilter) LoadFromFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open filter file %s: %w", filename, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || isComment(line) {
			continue
		}

		hf.AddTag(line)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading filter file %s at line %d: %w", filename, lineNum, err)
	}

	return nil
}

func isComment(line string) bool {
	if !strings.HasPrefix(line, "#") {
		return false
	}
	rest := line[1:]
	return rest == "" || rest[0] == ' ' || rest[0] == '\t'
}

func normalize(tag string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
}

// IsFiltered checks if a hashtag should be kept out of the graph
func (hf *HashtagFilter) IsFiltered(tag string) bool {
	return hf.filteredTags[normalize(tag)]
}

// Count returns the number of hashtags in the filter
func (hf *HashtagFilter) Count() int {
	return len(hf.filteredTags)
}

// AddTag adds a single hashtag to the filter
func (hf *HashtagFilter) AddTag(tag string) {
	if t := normalize(tag); t != "" {
		hf.filteredTags[t] = true
	}
}

// RemoveTag removes a hashtag from the filter
func (hf *HashtagFilter) RemoveTag(tag string) {
	delete(hf.filteredTags, normalize(tag))
}
