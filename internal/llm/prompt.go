package llm

import (
	"fmt"
	"strings"
)

// Task names a single-purpose model request.
type Task string

// All supported tasks.
const (
	TaskSecurity Task = "security-analysis"
	TaskTests    Task = "generate-tests"
	TaskExplain  Task = "explain"
	TaskQuality  Task = "quality-prediction"
)

// TruncateLines keeps the first maxLines lines of code and appends a note
// when anything was cut.
func TruncateLines(code string, maxLines int) string {
	if maxLines <= 0 {
		return code
	}
	lines := strings.Split(code, "\n")
	if len(lines) <= maxLines {
		return code
	}
	return strings.Join(lines[:maxLines], "\n") + fmt.Sprintf("\n\n... (code truncated after %d lines)", maxLines)
}

// BuildReviewPrompt builds the structured review prompt. The reply format
// matches what ParseReview extracts.
func BuildReviewPrompt(code, language string, maxLines int) string {
	return fmt.Sprintf(reviewPrompt, language, language, language, TruncateLines(code, maxLines))
}

// BuildTaskPrompt builds the prompt for a single-purpose task.
func BuildTaskPrompt(task Task, code, language string, maxLines int) (string, error) {
	tmpl, ok := taskPrompts[task]
	if !ok {
		return "", fmt.Errorf("unknown AI task %q", task)
	}
	return fmt.Sprintf(tmpl, language, TruncateLines(code, maxLines)), nil
}

var taskPrompts = map[Task]string{
	TaskSecurity: `Analyze this %s code for security vulnerabilities.
Provide a security assessment with:
1. Potential security issues (injection, XSS, authentication flaws and similar)
2. Risk Level: High, Medium or Low
3. A recommended fix for each issue

Code:
%s`,
	TaskTests: `Write unit tests for this %s code.
Cover:
1. Basic functionality
2. Edge cases
3. Error handling
Use the usual testing framework for the language.

Code:
%s`,
	TaskExplain: `Explain what this %s code does, step by step.
Describe its purpose in one line, then how data flows through it,
what each function or class is for, and any risky assumptions.

Code:
%s`,
	TaskQuality: `Rate this %s code with a quality score from 0 to 100.
Evaluate structure, adherence to best practices, readability,
performance and documentation. Start your reply with "Score: N".

Code:
%s`,
}

const reviewPrompt = `You are a senior code reviewer. Analyze the following %s code and reply in Markdown using exactly these sections.

## CODE EXPLANATION
What the code does, step by step: its purpose, how data flows, what each function or class does.

## AI vs HUMAN CODE ANALYSIS
Estimate whether the code was written by an AI assistant or a person. Reply with these lines:
- AI-Generated: N%%
- Human-Written: N%%
- Confidence: Low, Medium or High
- Indicators: comma separated patterns you noticed
- Verdict: one sentence about authorship

## LOGIC ISSUES
Runtime or logical errors, wrong variable use, missing edge cases, infinite loops. Explain why each is a problem.

## SUGGESTIONS & IMPROVEMENTS
A bulleted list of specific improvements: performance, readability, structure, error handling, security.

## CODE QUALITY SCORE
Break down readability, optimization, error handling, modularity and security, then give the final line as "Quality Score: N" where N is 0 to 100, followed by a verdict of Excellent, Good, Fair or Poor.

## ISSUE SUMMARY
Total syntax errors, total logic issues, best practice violations, and what to fix first.

## LANGUAGE INSIGHT
Tips specific to %s.

## PREVIEW
The corrected code only, in a fenced block.

Code:
` + "```%s\n%s\n```"
