package roast

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
)

// RenderHTML converts a section body from markdown to an HTML fragment.
func RenderHTML(body string) (string, error) {
	if body == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("render section: %w", err)
	}
	return buf.String(), nil
}

// RenderSectionsHTML renders every section in sections, keyed as given.
func RenderSectionsHTML(sections map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(sections))
	for key, body := range sections {
		html, err := RenderHTML(body)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		out[key] = html
	}
	return out, nil
}
