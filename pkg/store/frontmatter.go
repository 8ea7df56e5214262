package store

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/stefanpenner/cadence/pkg/task"
)

const frontmatterDelimiter = "---"

// ParseFrontmatter splits a task file into YAML frontmatter and a markdown
// body, which becomes the task's notes.
func ParseFrontmatter(content string) (*task.Task, error) {
	content = strings.TrimSpace(content)

	if !strings.HasPrefix(content, frontmatterDelimiter) {
		// No frontmatter; the whole file is notes
		return &task.Task{Notes: content}, nil
	}

	rest := content[len(frontmatterDelimiter):]
	idx := strings.Index(rest, "\n"+frontmatterDelimiter)
	if idx == -1 {
		return nil, fmt.Errorf("unclosed frontmatter delimiter")
	}

	yamlContent := rest[:idx]
	body := rest[idx+len("\n"+frontmatterDelimiter):]
	body = strings.TrimLeft(body, "\n")

	var t task.Task
	if err := yaml.Unmarshal([]byte(yamlContent), &t); err != nil {
		return nil, fmt.Errorf("parsing frontmatter YAML: %w", err)
	}
	if t.Status == "" {
		t.Status = task.StatusPending
	}
	if t.Kind == "" {
		t.Kind = task.KindTask
	}

	t.Notes = body
	return &t, nil
}

// SerializeFrontmatter renders a task back to markdown with YAML frontmatter.
func SerializeFrontmatter(t *task.Task) (string, error) {
	yamlBytes, err := yaml.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("serializing frontmatter YAML: %w", err)
	}

	var b strings.Builder
	b.WriteString(frontmatterDelimiter)
	b.WriteString("\n")
	b.WriteString(strings.TrimRight(string(yamlBytes), "\n"))
	b.WriteString("\n")
	b.WriteString(frontmatterDelimiter)
	b.WriteString("\n")
	if t.Notes != "" {
		b.WriteString("\n")
		b.WriteString(t.Notes)
		if !strings.HasSuffix(t.Notes, "\n") {
			b.WriteString("\n")
		}
	}

	return b.String(), nil
}
