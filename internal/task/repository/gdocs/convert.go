package gdocs

import (
	"google.golang.org/api/docs/v1"

	"chronix/internal/model"
)

func convertDocument(d *docs.Document) model.Document {
	out := model.Document{
		ID:       d.DocumentId,
		Title:    d.Title,
		Revision: d.RevisionId,
		Source:   model.SourceGoogleDocs,
	}

	// Documents fetched without tab content only carry the legacy body.
	if len(d.Tabs) == 0 {
		out.Tabs = []model.Tab{{Paragraphs: convertBody(d.Body)}}
		return out
	}

	var walk func(tabs []*docs.Tab)
	walk = func(tabs []*docs.Tab) {
		for _, t := range tabs {
			if t == nil {
				continue
			}
			tab := model.Tab{Index: len(out.Tabs)}
			if t.TabProperties != nil {
				tab.ID = t.TabProperties.TabId
				tab.Title = t.TabProperties.Title
			}
			if t.DocumentTab != nil {
				tab.Paragraphs = convertBody(t.DocumentTab.Body)
			}
			out.Tabs = append(out.Tabs, tab)
			walk(t.ChildTabs)
		}
	}
	walk(d.Tabs)

	return out
}

func convertBody(b *docs.Body) []model.Paragraph {
	if b == nil {
		return nil
	}
	return convertElements(b.Content)
}

// convertElements flattens table cells in reading order.
func convertElements(elems []*docs.StructuralElement) []model.Paragraph {
	var out []model.Paragraph
	for _, e := range elems {
		if e == nil {
			continue
		}
		switch {
		case e.Paragraph != nil:
			out = append(out, convertParagraph(e.Paragraph))
		case e.Table != nil:
			for _, row := range e.Table.TableRows {
				for _, cell := range row.TableCells {
					out = append(out, convertElements(cell.Content)...)
				}
			}
		}
	}
	return out
}

func convertParagraph(p *docs.Paragraph) model.Paragraph {
	out := model.Paragraph{Style: model.StyleNormal}
	if p.ParagraphStyle != nil && p.ParagraphStyle.NamedStyleType != "" {
		out.Style = p.ParagraphStyle.NamedStyleType
	}

	if p.Bullet != nil {
		out.Bullet = &model.Bullet{
			ListID:        p.Bullet.ListId,
			NestingLevel:  int(p.Bullet.NestingLevel),
			Strikethrough: p.Bullet.TextStyle != nil && p.Bullet.TextStyle.Strikethrough,
		}
	}

	for _, el := range p.Elements {
		if el == nil || el.TextRun == nil {
			continue
		}
		tr := el.TextRun
		out.Runs = append(out.Runs, model.TextRun{
			Content:       tr.Content,
			Strikethrough: tr.TextStyle != nil && tr.TextStyle.Strikethrough,
			Suggested:     len(tr.SuggestedInsertionIds) > 0 || len(tr.SuggestedDeletionIds) > 0,
		})
	}

	return out
}
