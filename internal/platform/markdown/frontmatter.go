// Package markdown reads and writes the YAML-frontmatter notes studydesk
// produces (session journal entries, progress reports).
package markdown

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

const fence = "---"

// leadingKeys are rendered first, in this order; the rest follow sorted.
var leadingKeys = []string{"schema_version", "id", "type"}

// SplitFrontmatter separates a note into its frontmatter and body. A note
// without a leading fence has empty metadata. CRLF line endings are accepted.
func SplitFrontmatter(content string) (map[string]any, string, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(content, fence+"\n") {
		return map[string]any{}, content, nil
	}
	rest := content[len(fence)+1:]

	var raw, body string
	switch {
	case strings.HasPrefix(rest, fence+"\n"):
		body = rest[len(fence)+1:]
	case rest == fence:
	default:
		idx := strings.Index(rest, "\n"+fence+"\n")
		if idx >= 0 {
			raw, body = rest[:idx], rest[idx+len(fence)+2:]
		} else if strings.HasSuffix(rest, "\n"+fence) {
			raw = strings.TrimSuffix(rest, "\n"+fence)
		} else {
			return nil, "", fmt.Errorf("invalid frontmatter: missing closing %q", fence)
		}
	}

	meta := map[string]any{}
	if err := yaml.Unmarshal([]byte(raw), &meta); err != nil {
		return nil, "", fmt.Errorf("unmarshal frontmatter: %w", err)
	}
	if meta == nil {
		meta = map[string]any{}
	}
	return meta, body, nil
}

// RenderFrontmatter writes meta as a frontmatter block followed by body.
func RenderFrontmatter(meta map[string]any, body string) (string, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range orderedKeys(meta) {
		val := &yaml.Node{}
		if err := val.Encode(meta[k]); err != nil {
			return "", fmt.Errorf("encode frontmatter %s: %w", k, err)
		}
		doc.Content = append(doc.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: k}, val)
	}

	var buf bytes.Buffer
	buf.WriteString(fence + "\n")
	if len(meta) > 0 {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return "", fmt.Errorf("marshal frontmatter: %w", err)
		}
		if err := enc.Close(); err != nil {
			return "", fmt.Errorf("marshal frontmatter: %w", err)
		}
	}
	buf.WriteString(fence + "\n")
	if !strings.HasPrefix(body, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString(body)
	return buf.String(), nil
}

func orderedKeys(meta map[string]any) []string {
	keys := make([]string, 0, len(meta))
	for k := range meta {
		if !slices.Contains(leadingKeys, k) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	var lead []string
	for _, k := range leadingKeys {
		if _, ok := meta[k]; ok {
			lead = append(lead, k)
		}
	}
	return append(lead, keys...)
}
