package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/codecritic/internal/contract"
	"github.com/huangsam/codecritic/internal/outwriter"
	"github.com/huangsam/codecritic/internal/store"
	"github.com/huangsam/codecritic/schema"
	"github.com/spf13/cobra"
)

// stdinArg reads the code from standard input.
const stdinArg = "-"

// readSource loads the code to review and infers its language and filename.
func readSource(path, language string) (schema.AnalysisRequest, error) {
	var data []byte
	var err error
	if path == stdinArg {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return schema.AnalysisRequest{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	req := schema.AnalysisRequest{Code: string(data), Language: language}
	if path != stdinArg {
		req.Filename = filepath.Base(path)
		if req.Language == "" {
			req.Language = schema.LanguageExtensions[strings.ToLower(filepath.Ext(path))]
		}
	}
	return req, nil
}

// reviewCmd reviews a single file from the command line.
var reviewCmd = &cobra.Command{
	Use:   "review <file>",
	Short: "Score a source file and print its findings",
	Long: `Run the heuristic review on one file and print the score, grade,
syntax errors, logic issues and suggestions.

The language is taken from --language, or else from the file extension.
Pass - to read the code from standard input. When a model is configured
and --ai-enrich-reviews is set, the AI second opinion is included.

Examples:
  # Review a Python file
  codecritic review app.py

  # Review C++ from stdin and keep it in history
  cat main.cpp | codecritic review - --language cpp --save

  # Machine-readable output
  codecritic review app.py --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		req, err := readSource(args[0], cfg.Language)
		if err != nil {
			contract.LogFatal("Failed to load code", err)
		}

		var reviews contract.ReviewStore
		if cfg.Save {
			reviews = store.Manager.GetReviewStore()
		}

		start := time.Now()
		result, err := newReviewer(reviews).Review(rootCtx, req)
		if err != nil {
			contract.LogFatal("Review failed", err)
		}
		if err := outwriter.NewOutWriter().WriteReview(req, result, cfg, time.Since(start)); err != nil {
			contract.LogFatal("Failed to write review", err)
		}
	},
}
