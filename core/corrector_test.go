package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorrect(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		language string
		expected string
	}{
		{"bare payload to python", "cout << Ravi Singhal", "python", `print("Ravi Singhal")`},
		{"quoted payload to python", `cout << "Hi there"`, "python", `print("Hi there")`},
		{"compact operator is left alone", "cout<<Hello", "python", "cout<<Hello"},
		{"input only stays", "cin >> name", "python", "cin >> name"},
		{"bare payload in cpp", "cout << Hello", "cpp", `cout << "Hello";`},
		{"quoted without terminator in cpp", `cout << "Hello"`, "cpp", `cout << "Hello";`},
		{"already correct cpp", `cout << "Hello";`, "cpp", `cout << "Hello";`},
		{"cpp replaces whole input", "int main() {\n  cout << Hi\n}", "cpp", `cout << "Hi";`},
		{"python untouched", `print("hi")`, "python", `print("hi")`},
		{"other language untouched", "cout << Hello", "ruby", "cout << Hello"},
		{"language is case insensitive", "cout << Hello", "CPP", `cout << "Hello";`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Correct(tt.code, tt.language))
		})
	}
}

func TestCorrectIsDeterministic(t *testing.T) {
	code := "cout << Ravi Singhal"
	assert.Equal(t, Correct(code, "python"), Correct(code, "python"))
}
