// Package prompttmpl performs the literal @filename substitution used to
// inject knowledge-file contents into a stored system prompt. It is a plain
// textual replacement, not a templating language: no escaping, no recursion.
package prompttmpl

import (
	"regexp"
	"sort"
	"strings"
)

// Attachment pairs a knowledge-file name with its extracted text content.
// Attachments with empty content leave their placeholder untouched.
type Attachment struct {
	Name    string
	Content string
}

var fileRefPattern = regexp.MustCompile(`@([\w.-]+\.\w+)`)

// Render replaces the first occurrence of each "@<name>" placeholder with the
// attachment's content. Longer names are substituted first so that a file
// whose name is a prefix of another never clobbers the longer placeholder.
func Render(text string, attachments []Attachment) string {
	ordered := make([]Attachment, len(attachments))
	copy(ordered, attachments)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i].Name) > len(ordered[j].Name)
	})

	for _, att := range ordered {
		if att.Content == "" {
			continue
		}
		placeholder := "@" + att.Name
		if strings.Contains(text, placeholder) {
			text = strings.Replace(text, placeholder, att.Content, 1)
		}
	}
	return text
}

// FileRefs returns the file names referenced as "@name.ext" tokens in text,
// in order of appearance, without duplicates.
func FileRefs(text string) []string {
	matches := fileRefPattern.FindAllStringSubmatch(text, -1)
	seen := make(map[string]struct{}, len(matches))
	var names []string
	for _, m := range matches {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		names = append(names, m[1])
	}
	return names
}
