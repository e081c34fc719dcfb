package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/huangsam/codecritic/core"
	"github.com/huangsam/codecritic/internal/llm"
	"github.com/huangsam/codecritic/schema"
)

type aiRequest struct {
	Code     string `json:"code"`
	Language string `json:"language" validate:"omitempty,max=32"`
}

// assist runs a model task and writes the error response when it fails.
// ok is false when a response has already been written.
func (s *Server) assist(w http.ResponseWriter, r *http.Request, task llm.Task) (text, language string, ok bool) {
	var req aiRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", "", false
	}

	language = schema.NormalizeLanguage(req.Language)
	if language == "" {
		language = schema.PythonLanguage
	}
	text, err := s.reviewer.Assist(r.Context(), task, req.Code, language)
	if err == nil {
		return text, language, true
	}

	var ce *llm.ClassifiedError
	switch {
	case errors.Is(err, core.ErrEmptyCode):
		writeError(w, http.StatusBadRequest, "No code provided")
	case errors.As(err, &ce):
		writeError(w, ce.HTTPStatus(), ce.Message)
	case errors.Is(err, llm.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, llm.UnavailableMessage)
	default:
		writeError(w, http.StatusInternalServerError, "AI analysis failed: "+err.Error())
	}
	return "", "", false
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func (s *Server) handleSecurityAnalysis(w http.ResponseWriter, r *http.Request) {
	text, _, ok := s.assist(w, r, llm.TaskSecurity)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"security_analysis": text,
		"risk_level":        llm.ParseRiskLevel(text),
		"timestamp":         timestamp(),
	})
}

func (s *Server) handleGenerateTests(w http.ResponseWriter, r *http.Request) {
	text, language, ok := s.assist(w, r, llm.TaskTests)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"tests":     text,
		"language":  language,
		"timestamp": timestamp(),
	})
}

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	text, _, ok := s.assist(w, r, llm.TaskExplain)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"explanation": text,
		"timestamp":   timestamp(),
	})
}

func (s *Server) handleQualityPrediction(w http.ResponseWriter, r *http.Request) {
	text, _, ok := s.assist(w, r, llm.TaskQuality)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"prediction":      text,
		"predicted_score": llm.ParseScore(text),
		"timestamp":       timestamp(),
	})
}
