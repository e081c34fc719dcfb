package core

import (
	"fmt"
	"strings"

	"github.com/huangsam/codecritic/schema"
)

// Explain selects a fixed explanation template from the language, whether
// the corrector changed the code and which output tokens are present.
func Explain(code, corrected, language string) string {
	var text string
	if corrected != code {
		text = explainCorrection(code, corrected, language)
	} else {
		text = explainUnchanged(code, language)
	}
	return strings.TrimSpace(text)
}

func explainCorrection(code, corrected, language string) string {
	switch {
	case isPython(language) && containsAny(code, "cout", "cin"):
		return fmt.Sprintf(pythonMismatchTemplate, language, code, corrected)
	case isCpp(language):
		if m := coutExpression.FindStringSubmatch(code); m != nil {
			payload := strings.TrimSpace(m[1])
			return fmt.Sprintf(cppFixedTemplate, code, payload, payload, corrected, payload, payload)
		}
	}
	return fmt.Sprintf("**Code Corrected:**\nOriginal: `%s`\nCorrected: `%s`", code, corrected)
}

func explainUnchanged(code, language string) string {
	switch {
	case isCpp(language) || strings.Contains(code, "cout"):
		if !strings.Contains(code, "cout <<") {
			return fmt.Sprintf("**C++ Code Analysis:**\n%s\n\nThis looks like C++. Include the headers it needs, such as `#include <iostream>`, and quote string literals.", code)
		}
		if m := coutExpression.FindStringSubmatch(code); m != nil {
			return fmt.Sprintf(cppValidTemplate, strings.TrimSpace(m[1]), code, strings.TrimSpace(m[1]))
		}
		return "**C++ Code:** Output goes through the cout stream. Check string quoting and terminating semicolons."
	case isPython(language):
		if strings.Contains(code, "print(") {
			return fmt.Sprintf(pythonPrintTemplate, code)
		}
		return fmt.Sprintf("**Python Code:**\n%s\n\nThis looks like Python. Check syntax and indentation.", code)
	case schema.NormalizeLanguage(language) == schema.JavaScriptLanguage:
		if strings.Contains(code, "console.") {
			return fmt.Sprintf(javascriptConsoleTemplate, code)
		}
		return fmt.Sprintf("**JavaScript Code:**\n%s\n\nJavaScript code for web applications.", code)
	default:
		return fmt.Sprintf("**Code Explanation:**\nAnalyzing %s code...\n\nThe code appears to be %s syntax. Check formatting and language conventions.", language, language)
	}
}

const pythonMismatchTemplate = `
**Code Language Mismatch:**
You selected %s but the code is C++.

**Original Code (C++):**
%s

**Corrected Python Code:**
%s

**Key Differences:**
- C++ writes output with ` + "`cout <<`" + `, Python uses ` + "`print()`" + `
- C++ can stream bare tokens, Python needs quoted string literals
- Python ends each print with a newline, so ` + "`endl`" + ` is not needed

**The corrected code prints the same text using Python syntax.**
`

const cppFixedTemplate = `
**C++ Code Explanation:**

**What the code does:**
This C++ code writes text to the console through the standard output stream.

**Original Code:**
%s

**Problems detected:**
1. Missing quotes: ` + "`%s`" + ` should be ` + "`\"%s\"`" + `
2. Missing semicolon at the end

**Corrected Code:**
%s

**How it works:**
- ` + "`cout`" + ` is the standard output stream from <iostream>
- ` + "`<<`" + ` is the stream insertion operator
- String literals go in double quotes
- Every C++ statement ends with a semicolon

**Full working example:**
` + "```cpp" + `
#include <iostream>
using namespace std;

int main() {
    cout << "%s";
    return 0;
}
` + "```" + `

Running it prints "%s" to the console.
`

const cppValidTemplate = `
**C++ Code Explanation:**

**What the code does:**
This C++ code writes %s to the console.

**Code:**
%s

**How it works:**
- ` + "`cout`" + ` is the standard output stream object
- ` + "`<<`" + ` is the stream insertion operator
- The value ` + "`%s`" + ` is written to the console
- A semicolon ends the statement

**Note:** It needs the iostream header and a main function to compile.
`

const pythonPrintTemplate = `
**Python Code Explanation:**

**What the code does:**
This Python code prints output to the console.

**Code:**
%s

**How it works:**
- ` + "`print()`" + ` is the built-in output function
- Arguments are converted to strings automatically
- Each call ends with a newline
- String literals need single or double quotes
`

const javascriptConsoleTemplate = `
**JavaScript Code Explanation:**

**What the code does:**
This JavaScript code writes to the developer console.

**Code:**
%s

**How it works:**
- ` + "`console.log()`" + ` prints to the browser or Node.js console
- It is handy for debugging and status messages
- String literals need quotes
`
