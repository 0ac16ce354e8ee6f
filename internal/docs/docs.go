// Package docs embeds the on-demand help topics shown by `deskplan docs`.
package docs

import (
	"embed"
	"sort"
	"strings"
)

//go:embed content/*.md
var contentFS embed.FS

// Topics lists the available topic names, sorted.
func Topics() []string {
	entries, err := contentFS.ReadDir("content")
	if err != nil {
		return nil
	}
	topics := make([]string, 0, len(entries))
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), ".md")
		if name != "" && name != e.Name() {
			topics = append(topics, name)
		}
	}
	sort.Strings(topics)
	return topics
}

// Get returns a topic's markdown body. Lookup is case-insensitive.
func Get(topic string) (string, bool) {
	topic = strings.ToLower(strings.TrimSpace(topic))
	if topic == "" {
		return "", false
	}
	b, err := contentFS.ReadFile("content/" + topic + ".md")
	if err != nil {
		return "", false
	}
	return string(b), true
}
