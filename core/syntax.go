package core

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/huangsam/codecritic/schema"
)

// CheckSyntax parses Python code and reports at most one finding. Other
// languages are not validated and yield no findings.
func CheckSyntax(ctx context.Context, code, language string) []schema.Finding {
	if !isPython(language) {
		return []schema.Finding{}
	}
	line, msg, err := parsePython(ctx, code)
	if err != nil {
		return []schema.Finding{{
			Type:     schema.ParseErrorType,
			Message:  err.Error(),
			Line:     schema.IntPtr(0),
			Severity: schema.SeverityHigh,
		}}
	}
	if msg == "" {
		return []schema.Finding{}
	}
	return []schema.Finding{{
		Type:     schema.SyntaxErrorType,
		Message:  msg,
		Line:     schema.IntPtr(line),
		Severity: schema.SeverityHigh,
	}}
}

// syntaxIssue is one candidate error with its 1-based line.
type syntaxIssue struct {
	line int
	msg  string
}

func (s syntaxIssue) String() string {
	return fmt.Sprintf("%s (<unknown>, line %d)", s.msg, s.line)
}

// closers maps a closing bracket to the bracket it closes.
var closers = map[string]string{")": "(", "]": "[", "}": "{"}

// parsePython returns the 1-based line and message of the earliest syntax
// error, or an empty message when the source parses cleanly. The grammar
// accepts Python 2 statements and loose indentation, so both are checked
// separately.
func parsePython(ctx context.Context, code string) (int, string, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	src := []byte(code)
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return 0, "", fmt.Errorf("python parser failed: %w", err)
	}
	defer tree.Close()

	// Indentation errors win ties.
	var issues []syntaxIssue
	if issue, ok := checkIndentation(code); ok {
		issues = append(issues, issue)
	}
	root := tree.RootNode()
	if issue, ok := legacyStatement(root, src); ok {
		issues = append(issues, issue)
	}
	if root.HasError() {
		issues = append(issues, treeIssue(root))
	}
	if len(issues) == 0 {
		return 0, "", nil
	}

	first := issues[0]
	for _, issue := range issues[1:] {
		if issue.line < first.line {
			first = issue
		}
	}
	return first.line, first.String(), nil
}

// treeIssue describes the first ERROR or MISSING node of a tree with errors.
func treeIssue(root *sitter.Node) syntaxIssue {
	node := firstErrorNode(root)
	if node == nil {
		node = root
	}
	line := int(node.StartPoint().Row) + 1
	if !node.IsMissing() {
		return syntaxIssue{line: line, msg: "invalid syntax"}
	}
	if opener, ok := closers[node.Type()]; ok {
		if open := openingBracket(node, opener); open != nil {
			line = int(open.StartPoint().Row) + 1
		}
		return syntaxIssue{line: line, msg: fmt.Sprintf("'%s' was never closed", opener)}
	}
	return syntaxIssue{line: line, msg: fmt.Sprintf("expected '%s'", node.Type())}
}

// firstErrorNode walks the subtrees that contain errors and returns the
// earliest ERROR or MISSING node.
func firstErrorNode(n *sitter.Node) *sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || !child.HasError() {
			continue
		}
		if found := firstErrorNode(child); found != nil {
			return found
		}
	}
	return nil
}

// openingBracket finds the sibling that opened the bracket a MISSING node closes.
func openingBracket(missing *sitter.Node, opener string) *sitter.Node {
	parent := missing.Parent()
	if parent == nil {
		return nil
	}
	for i := 0; i < int(parent.ChildCount()); i++ {
		if child := parent.Child(i); child != nil && child.Type() == opener {
			return child
		}
	}
	return nil
}

// legacyStatement reports the first Python 2 print or exec statement.
func legacyStatement(n *sitter.Node, src []byte) (syntaxIssue, bool) {
	var keyword string
	switch n.Type() {
	case "print_statement":
		keyword = "print"
	case "exec_statement":
		keyword = "exec"
	}
	if keyword != "" {
		rest := strings.TrimSpace(strings.TrimPrefix(n.Content(src), keyword))
		if !strings.HasPrefix(rest, "(") {
			return syntaxIssue{
				line: int(n.StartPoint().Row) + 1,
				msg:  fmt.Sprintf("Missing parentheses in call to '%s'. Did you mean %s(...)?", keyword, keyword),
			}, true
		}
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if issue, ok := legacyStatement(n.NamedChild(i), src); ok {
			return issue, true
		}
	}
	return syntaxIssue{}, false
}

// indentLevel is an indentation width measured with tabs to the next
// multiple of eight (col) and with tabs as one column (alt).
type indentLevel struct {
	col, alt int
}

// checkIndentation tracks indent levels over logical lines and reports the
// first indentation error.
func checkIndentation(code string) (syntaxIssue, bool) {
	stack := []indentLevel{{}}
	var sc lineScanner
	opensBlock := false

	for i, raw := range strings.Split(code, "\n") {
		lineNo := i + 1
		if sc.continued() {
			sc.scan(raw)
			if !sc.continued() {
				opensBlock = sc.endsWithColon
			}
			continue
		}

		level, body := measureIndent(raw)
		if body == "" || strings.HasPrefix(body, "#") {
			continue
		}

		top := stack[len(stack)-1]
		switch {
		case level.col > top.col:
			if level.alt <= top.alt {
				return syntaxIssue{line: lineNo, msg: "inconsistent use of tabs and spaces in indentation"}, true
			}
			if !opensBlock {
				return syntaxIssue{line: lineNo, msg: "unexpected indent"}, true
			}
			stack = append(stack, level)
		case level.col == top.col:
			if level.alt != top.alt {
				return syntaxIssue{line: lineNo, msg: "inconsistent use of tabs and spaces in indentation"}, true
			}
			if opensBlock {
				return syntaxIssue{line: lineNo, msg: "expected an indented block"}, true
			}
		default:
			if opensBlock {
				return syntaxIssue{line: lineNo, msg: "expected an indented block"}, true
			}
			for len(stack) > 1 && level.col < stack[len(stack)-1].col {
				stack = stack[:len(stack)-1]
			}
			top = stack[len(stack)-1]
			if level.col != top.col {
				return syntaxIssue{line: lineNo, msg: "unindent does not match any outer indentation level"}, true
			}
			if level.alt != top.alt {
				return syntaxIssue{line: lineNo, msg: "inconsistent use of tabs and spaces in indentation"}, true
			}
		}

		sc.scan(body)
		opensBlock = !sc.continued() && sc.endsWithColon
	}
	return syntaxIssue{}, false
}

// measureIndent returns the indentation of a physical line and the rest of it.
func measureIndent(line string) (indentLevel, string) {
	var level indentLevel
	for i, r := range line {
		switch r {
		case ' ':
			level.col++
			level.alt++
		case '\t':
			level.col = (level.col/8 + 1) * 8
			level.alt++
		case '\f':
			level = indentLevel{}
		case '\r':
		default:
			return level, strings.TrimRight(line[i:], " \t\r")
		}
	}
	return level, ""
}

// lineScanner follows strings, comments and brackets across physical lines
// to find where a logical line ends.
type lineScanner struct {
	depth         int
	quote         string
	backslash     bool
	endsWithColon bool
}

// continued reports whether the logical line carries on past the last scanned line.
func (s *lineScanner) continued() bool {
	return s.depth > 0 || s.quote != "" || s.backslash
}

func (s *lineScanner) scan(line string) {
	s.backslash = false
	last := byte(0)
	for i := 0; i < len(line); i++ {
		c := line[i]
		if s.quote != "" {
			switch {
			case c == '\\':
				i++
				if i >= len(line) && len(s.quote) == 1 {
					s.backslash = true
				}
			case strings.HasPrefix(line[i:], s.quote):
				i += len(s.quote) - 1
				s.quote = ""
				last = c
			}
			continue
		}
		switch c {
		case '#':
			i = len(line)
			continue
		case '"', '\'':
			if strings.HasPrefix(line[i:], strings.Repeat(string(c), 3)) {
				s.quote = strings.Repeat(string(c), 3)
				i += 2
			} else {
				s.quote = string(c)
			}
		case '(', '[', '{':
			s.depth++
		case ')', ']', '}':
			if s.depth > 0 {
				s.depth--
			}
		case '\\':
			if i == len(line)-1 {
				s.backslash = true
			}
		}
		if c != ' ' && c != '\t' && c != '\r' {
			last = c
		}
	}
	// An unterminated single-quoted string ends at the line break.
	if len(s.quote) == 1 && !s.backslash {
		s.quote = ""
	}
	s.endsWithColon = last == ':'
}
