package contract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/codecritic/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetColorGrade(t *testing.T) {
	tests := []struct {
		name  string
		score int
		label string
	}{
		{"excellent", 95, schema.ExcellentGrade},
		{"good", 80, schema.GoodGrade},
		{"fair", 55, schema.FairGrade},
		{"poor", 10, schema.PoorGrade},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, GetColorGrade(tt.score), tt.label)
		})
	}
}

func TestGetColorSeverity(t *testing.T) {
	for _, s := range []schema.Severity{schema.SeverityHigh, schema.SeverityMedium, schema.SeverityLow} {
		assert.Contains(t, GetColorSeverity(s), string(s))
	}
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path returns stdout", func(t *testing.T) {
		f, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, f)
	})

	t.Run("path creates file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.json")
		f, err := SelectOutputFile(path)
		require.NoError(t, err)
		require.NoError(t, f.Close())
		_, err = os.Stat(path)
		assert.NoError(t, err)
	})

	t.Run("missing directory fails", func(t *testing.T) {
		_, err := SelectOutputFile(filepath.Join(t.TempDir(), "nope", "out.json"))
		assert.Error(t, err)
	})
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", TruncateText("short", 10))
	assert.Equal(t, "abcd...", TruncateText("abcdefghij", 7))
	assert.Equal(t, "abcdefghij", TruncateText("abcdefghij", 3))
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "x = 1", FirstLine("\n\n  x = 1  \ny = 2"))
	assert.Empty(t, FirstLine("   \n\t"))
}

func TestParseBoolString(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
		wantErr  bool
	}{
		{"yes", true, false},
		{"YES", true, false},
		{"true", true, false},
		{"1", true, false},
		{"no", false, false},
		{"False", false, false},
		{"0", false, false},
		{"maybe", false, true},
		{"", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBoolString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestGetReviewDBFilePath(t *testing.T) {
	assert.Equal(t, ".codecritic.db", filepath.Base(GetReviewDBFilePath()))
}
