package usecase

import (
	"testing"

	"chronix/internal/model"
)

func TestTaskID(t *testing.T) {
	loc := model.Location{Source: model.SourceGoogleDocs, DocumentID: "doc-1", TabID: "t.0", Position: 3}

	id := taskID(loc, shortIDLength)
	if len(id) != shortIDLength {
		t.Fatalf("expected %d characters, got %q", shortIDLength, id)
	}
	if taskID(loc, shortIDLength) != id {
		t.Error("id is not deterministic")
	}
	if long := taskID(loc, 12); long[:shortIDLength] != id {
		t.Errorf("longer id %q should extend %q", long, id)
	}
	if len(taskID(loc, 0)) != 32 {
		t.Error("n <= 0 should return the full id")
	}

	moved := loc
	moved.Position = 4
	if taskID(moved, shortIDLength) == id {
		t.Error("different positions should give different ids")
	}
}

func TestProjectID(t *testing.T) {
	seen := map[string]int{}
	tests := []struct {
		name, docID, want string
	}{
		{"Chronix Backend", "d1", "chronix-backend"},
		{"Chronix: Backend!", "d2", "chronix-backend-2"},
		{"", "Doc-3", "doc-3"},
		{"日本", "D4", "d4"},
	}
	for _, tt := range tests {
		if got := projectID(tt.name, tt.docID, seen); got != tt.want {
			t.Errorf("projectID(%q, %q) = %q, want %q", tt.name, tt.docID, got, tt.want)
		}
	}
}
