package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"removes invalid characters", `KJV<>:"/\|?*notes`, "KJVnotes"},
		{"replaces newlines and tabs", "Highlights\nKJV\t2024", "Highlights KJV 2024"},
		{"collapses spaces", "Highlights   KJV", "Highlights KJV"},
		{"removes hashtags", "#notes #KJV", "notes KJV"},
		{"replaces square brackets", "Notes [KJV]", "Notes (KJV)"},
		{"empty becomes Untitled", "  ", "Untitled"},
		{"truncates long names", strings.Repeat("a", 250), strings.Repeat("a", 200)},
		{"keeps unicode", "和合本 笔记", "和合本 笔记"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "Joshua annotations (KJV).epub", ExportFilename("Joshua annotations [KJV]", ".epub"))
	assert.Equal(t, "Untitled.md", ExportFilename("", ".md"))
}
