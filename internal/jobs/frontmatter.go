package jobs

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.yaml.in/yaml/v3"
)

const frontMatterFence = "---"

// splitFrontMatter separates a leading "---" fenced YAML block from the body.
func splitFrontMatter(content string) (string, string, bool) {
	content = strings.TrimPrefix(content, "\ufeff")
	normalized := strings.ReplaceAll(content, "\r\n", "\n")

	if !strings.HasPrefix(normalized, frontMatterFence+"\n") {
		return "", content, false
	}

	rest := normalized[len(frontMatterFence)+1:]
	if strings.HasPrefix(rest, frontMatterFence+"\n") || rest == frontMatterFence {
		return "", strings.TrimPrefix(rest[len(frontMatterFence):], "\n"), true
	}

	end := strings.Index(rest, "\n"+frontMatterFence)
	if end == -1 {
		return "", content, false
	}

	header := rest[:end]
	body := rest[end+len(frontMatterFence)+1:]
	if nl := strings.IndexByte(body, '\n'); nl != -1 {
		body = body[nl+1:]
	} else {
		body = ""
	}

	return header, body, true
}

// decodeFrontMatter fills posting fields from a YAML header.
func decodeFrontMatter(header string, posting *Posting) error {
	if strings.TrimSpace(header) == "" {
		return nil
	}

	var raw map[string]any
	if err := yaml.Unmarshal([]byte(header), &raw); err != nil {
		return fmt.Errorf("parse front matter: %w", err)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           posting,
	})
	if err != nil {
		return fmt.Errorf("create front matter decoder: %w", err)
	}

	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("decode front matter: %w", err)
	}

	return nil
}
