package usecase

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"chronix/internal/model"
)

const shortIDLength = 8

// taskID derives a stable id from where the task was read. n is the number
// of hex characters to keep; callers lengthen it on collision.
func taskID(loc model.Location, n int) string {
	name := fmt.Sprintf("%s|%s|%s|%d", loc.Source, loc.DocumentID, loc.TabID, loc.Position)
	id := strings.ReplaceAll(uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String(), "-", "")
	if n <= 0 || n > len(id) {
		n = len(id)
	}
	return id[:n]
}

// projectID slugs a document title, falling back to the document id.
func projectID(name, documentID string, seen map[string]int) string {
	slug := strings.Join(strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}), "-")
	if slug == "" {
		slug = strings.ToLower(documentID)
	}
	seen[slug]++
	if n := seen[slug]; n > 1 {
		return fmt.Sprintf("%s-%d", slug, n)
	}
	return slug
}
