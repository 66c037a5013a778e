package checklist

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"chronix/internal/model"
)

const (
	// Captures indent, optional checkbox state and text.
	// Example: "  - [x] Task name" → groups: ["  ", "x", "Task name"]
	BulletPattern = `^(\s*)[-*+] (?:\[([ xX])\] )?(.+)$`

	strikeDelimiter = "~~"
)

var (
	bulletPattern  = regexp.MustCompile(BulletPattern)
	headingPattern = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*#*\s*$`)

	fencedCodeBlockPattern = regexp.MustCompile("(?s)```.*?```")
	inlineCodePattern      = regexp.MustCompile("`[^`]+`")
	slugPattern            = regexp.MustCompile(`[^a-z0-9]+`)
)

// sanitizeContent removes code blocks before checkbox parsing
// Prevents matching fake checkboxes in code examples
func sanitizeContent(content string) string {
	sanitized := fencedCodeBlockPattern.ReplaceAllString(content, "")
	return inlineCodePattern.ReplaceAllString(sanitized, "")
}

// ParseMarkdown converts a note into a document tree.
//
// "# X" (first occurrence) names the document and "## X" opens a tab.
// Consecutive bullet lines form one list; blank lines do not break a list.
// A checked box strikes the bullet, ~~text~~ strikes a run.
func (s *service) ParseMarkdown(id, content string) model.Document {
	doc := model.Document{
		ID:     id,
		Source: model.SourceMarkdown,
	}

	var (
		current  = model.Tab{Index: 0}
		listNo   int
		inList   bool
		slugSeen = map[string]int{}
	)
	flush := func() {
		if current.ID != "" || len(current.Paragraphs) > 0 {
			doc.Tabs = append(doc.Tabs, current)
		}
	}

	for _, raw := range strings.Split(sanitizeContent(content), "\n") {
		line := strings.TrimRight(raw, " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if m := headingPattern.FindStringSubmatch(line); m != nil {
			level, text := len(m[1]), m[2]
			inList = false
			switch {
			case level == 1 && doc.Title == "":
				doc.Title = text
			case level == 2:
				flush()
				current = model.Tab{
					ID:    uniqueSlug(text, slugSeen),
					Title: text,
					Index: len(doc.Tabs),
				}
			default:
				current.Paragraphs = append(current.Paragraphs, model.Paragraph{
					Runs:  []model.TextRun{{Content: text}},
					Style: fmt.Sprintf("HEADING_%d", level),
				})
			}
			continue
		}

		if m := bulletPattern.FindStringSubmatch(line); m != nil {
			if !inList {
				listNo++
				inList = true
			}
			current.Paragraphs = append(current.Paragraphs, model.Paragraph{
				Runs: splitStrikethrough(m[3]),
				Bullet: &model.Bullet{
					ListID:        fmt.Sprintf("md-list-%d", listNo),
					NestingLevel:  len(strings.ReplaceAll(m[1], "\t", "  ")) / 2,
					Strikethrough: strings.EqualFold(m[2], "x"),
				},
				Style: model.StyleNormal,
			})
			continue
		}

		inList = false
		current.Paragraphs = append(current.Paragraphs, model.Paragraph{
			Runs:  splitStrikethrough(strings.TrimSpace(line)),
			Style: model.StyleNormal,
		})
	}
	flush()

	if doc.Title == "" {
		base := filepath.Base(id)
		doc.Title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return doc
}

// splitStrikethrough turns "a ~~b~~ c" into runs; unbalanced markers are kept literally.
func splitStrikethrough(text string) []model.TextRun {
	parts := strings.Split(text, strikeDelimiter)
	if len(parts)%2 == 0 {
		return []model.TextRun{{Content: text}}
	}
	runs := make([]model.TextRun, 0, len(parts))
	for i, part := range parts {
		if part == "" {
			continue
		}
		runs = append(runs, model.TextRun{Content: part, Strikethrough: i%2 == 1})
	}
	return runs
}

func uniqueSlug(title string, seen map[string]int) string {
	slug := strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if slug == "" {
		slug = "tab"
	}
	seen[slug]++
	if n := seen[slug]; n > 1 {
		return fmt.Sprintf("%s-%d", slug, n)
	}
	return slug
}
