package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateLines(t *testing.T) {
	t.Run("short code untouched", func(t *testing.T) {
		assert.Equal(t, "a\nb", TruncateLines("a\nb", 5))
	})

	t.Run("exact limit untouched", func(t *testing.T) {
		assert.Equal(t, "a\nb\nc", TruncateLines("a\nb\nc", 3))
	})

	t.Run("long code cut with note", func(t *testing.T) {
		got := TruncateLines("1\n2\n3\n4\n5", 2)
		assert.Equal(t, "1\n2\n\n... (code truncated after 2 lines)", got)
	})

	t.Run("non-positive limit disables truncation", func(t *testing.T) {
		assert.Equal(t, "1\n2\n3", TruncateLines("1\n2\n3", 0))
	})
}

func TestBuildReviewPrompt(t *testing.T) {
	code := "def f():\n    return 1"
	prompt := BuildReviewPrompt(code, "python", 300)

	assert.Contains(t, prompt, "following python code")
	assert.Contains(t, prompt, "```python\n"+code+"\n```")
	assert.Contains(t, prompt, "AI-Generated: N%")
	assert.Contains(t, prompt, "## SUGGESTIONS & IMPROVEMENTS")
	assert.NotContains(t, prompt, "%!")
}

func TestBuildReviewPromptTruncates(t *testing.T) {
	code := strings.Repeat("x = 1\n", 400)
	prompt := BuildReviewPrompt(code, "python", 300)
	assert.Contains(t, prompt, "... (code truncated after 300 lines)")
}

func TestBuildTaskPrompt(t *testing.T) {
	for _, task := range []Task{TaskSecurity, TaskTests, TaskExplain, TaskQuality} {
		t.Run(string(task), func(t *testing.T) {
			prompt, err := BuildTaskPrompt(task, "print(1)", "python", 300)
			require.NoError(t, err)
			assert.Contains(t, prompt, "python code")
			assert.Contains(t, prompt, "print(1)")
			assert.NotContains(t, prompt, "%!")
		})
	}

	_, err := BuildTaskPrompt(Task("poetry"), "print(1)", "python", 300)
	assert.Error(t, err)
}
