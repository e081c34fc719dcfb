package llm

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/huangsam/codecritic/schema"
)

// DefaultAIScore is used when a reply mentions a quality score that cannot be read.
const DefaultAIScore = 85

const maxAISuggestions = 5

var (
	scorePattern        = regexp.MustCompile(`Score[:\s]*(\d+)`)
	aiPercentPattern    = regexp.MustCompile(`AI-Generated[:\s]*(\d+)%`)
	humanPercentPattern = regexp.MustCompile(`Human-Written[:\s]*(\d+)%`)
	confidencePattern   = regexp.MustCompile(`(?i)Confidence[:\s]*(Low|Medium|High)`)
	indicatorsPattern   = regexp.MustCompile(`Indicators[:\s]*([^\n]+)`)
	verdictPattern      = regexp.MustCompile(`Verdict[:\s]*([^\n]+)`)
	suggestionsPattern  = regexp.MustCompile(`(?s)SUGGESTIONS[^\n]+(.*?)(?:##|\z)`)
	riskLevelPattern    = regexp.MustCompile(`(?i)Risk Level[*:\s]*(High|Medium|Low)`)
)

// verdictScores is checked in order when no numeric score is present.
var verdictScores = []struct {
	word  string
	score int
}{
	{"Excellent", 95},
	{"Good", 80},
	{"Fair", 60},
	{"Poor", 40},
}

// ParsedReview is the structured data extracted from a review reply.
type ParsedReview struct {
	Score       int
	Detection   schema.AIDetection
	Suggestions []string
}

// ParseReview extracts the score, authorship estimate and suggestions.
func ParseReview(text string) ParsedReview {
	return ParsedReview{
		Score:       ParseScore(text),
		Detection:   ParseDetection(text),
		Suggestions: ParseSuggestions(text),
	}
}

// ParseScore reads "Score: N" from a reply mentioning a quality score,
// falling back to the verdict word and then DefaultAIScore.
func ParseScore(text string) int {
	if !strings.Contains(text, "Quality Score") && !strings.Contains(text, "Score:") {
		return DefaultAIScore
	}
	if m := scorePattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return min(n, 100)
		}
	}
	for _, v := range verdictScores {
		if strings.Contains(text, v.word) {
			return v.score
		}
	}
	return DefaultAIScore
}

// DefaultDetection is reported when the reply has no authorship section.
func DefaultDetection() schema.AIDetection {
	return schema.AIDetection{
		AIGeneratedPercentage:  0,
		HumanWrittenPercentage: 100,
		Confidence:             "Unknown",
		Indicators:             []string{},
		Verdict:                "Unable to determine code authorship",
	}
}

// ParseDetection reads the AI-vs-human estimate.
func ParseDetection(text string) schema.AIDetection {
	d := DefaultDetection()
	if !strings.Contains(text, "AI vs HUMAN CODE ANALYSIS") && !strings.Contains(text, "AI-Generated") {
		return d
	}
	if m := aiPercentPattern.FindStringSubmatch(text); m != nil {
		d.AIGeneratedPercentage = percent(m[1])
	}
	if m := humanPercentPattern.FindStringSubmatch(text); m != nil {
		d.HumanWrittenPercentage = percent(m[1])
	}
	if m := confidencePattern.FindStringSubmatch(text); m != nil {
		d.Confidence = capitalize(m[1])
	}
	if m := indicatorsPattern.FindStringSubmatch(text); m != nil {
		d.Indicators = splitList(m[1])
	}
	if m := verdictPattern.FindStringSubmatch(text); m != nil {
		d.Verdict = strings.TrimSpace(m[1])
	}
	return d
}

// ParseSuggestions returns up to five bullet or numbered lines from the
// suggestions section, or nil when there are none.
func ParseSuggestions(text string) []string {
	m := suggestionsPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	var out []string
	for line := range strings.SplitSeq(m[1], "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•") || unicode.IsDigit([]rune(line)[0]) {
			out = append(out, line)
		}
		if len(out) == maxAISuggestions {
			break
		}
	}
	return out
}

// ParseRiskLevel reads the risk level from a security reply, defaulting to Medium.
func ParseRiskLevel(text string) string {
	if m := riskLevelPattern.FindStringSubmatch(text); m != nil {
		return capitalize(m[1])
	}
	return string(schema.SeverityMedium)
}

func percent(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return min(n, 100)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	s = strings.ToLower(s)
	return strings.ToUpper(s[:1]) + s[1:]
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(strings.TrimSpace(s), ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if out == nil {
		return []string{}
	}
	return out
}
