package model

import "strings"

// Paragraph styles the parser cares about. Other values are treated as normal text.
const (
	StyleNormal   = "NORMAL_TEXT"
	StyleTitle    = "TITLE"
	StyleHeading1 = "HEADING_1"
	StyleHeading2 = "HEADING_2"
	StyleHeading3 = "HEADING_3"
)

// Document is the provider-neutral tree the parser reads.
type Document struct {
	ID       string
	Title    string
	Revision string
	Source   Source
	Tabs     []Tab
}

// Tab is one tab of a document. Documents without tabs are converted to a
// single tab with an empty ID.
type Tab struct {
	ID         string
	Title      string
	Index      int
	Paragraphs []Paragraph
}

type Paragraph struct {
	Runs   []TextRun
	Bullet *Bullet
	Style  string
}

// TextRun is a run of uniformly styled text.
// Suggested marks runs that only exist as pending suggestions.
type TextRun struct {
	Content       string
	Strikethrough bool
	Suggested     bool
}

type Bullet struct {
	ListID        string
	NestingLevel  int
	Strikethrough bool
}

// Text concatenates the accepted runs and trims the result.
func (p Paragraph) Text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		if r.Suggested {
			continue
		}
		b.WriteString(r.Content)
	}
	return strings.TrimSpace(b.String())
}

// IsHeading reports whether the paragraph carries a title or heading style.
func (p Paragraph) IsHeading() bool {
	return p.Style == StyleTitle || strings.HasPrefix(p.Style, "HEADING_")
}
