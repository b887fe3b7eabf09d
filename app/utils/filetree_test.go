package utils

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutputTree(t *testing.T) {
	root := filepath.Join("home", "jane", "profile")
	files := []string{
		filepath.Join(root, "README.md"),
		filepath.Join(root, "cards", "card.png"),
	}
	got := OutputTree(root, files, func(p string) string {
		if filepath.Base(p) == "README.md" {
			return "(new)"
		}
		return ""
	})
	want := "📂 profile\n" +
		"┣ 📜 README.md (new)\n" +
		"┗ 📂 cards\n" +
		"   ┗ 📜 card.png"
	assert.Equal(t, want, got)
}
