package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"clario-backend/legal"
	"clario-backend/service"

	"github.com/gin-gonic/gin"
)

// SummaryHandler serves the summarize, red-flag and clause endpoints
type SummaryHandler struct {
	summaries *service.SummaryService
}

// NewSummaryHandler creates a new summary handler
func NewSummaryHandler(summaries *service.SummaryService) *SummaryHandler {
	return &SummaryHandler{summaries: summaries}
}

// TextRequest is the body of the text endpoints
type TextRequest struct {
	Text string `json:"text"`
}

// bindText reads a non-blank text body; it writes the error response itself
func bindText(c *gin.Context) (string, bool) {
	var req TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return "", false
	}
	if strings.TrimSpace(req.Text) == "" {
		respondError(c, http.StatusBadRequest, "EMPTY_TEXT", "Please provide some legal text")
		return "", false
	}
	if len(req.Text) > maxTextBytes {
		respondError(c, http.StatusRequestEntityTooLarge, "TEXT_TOO_LARGE",
			fmt.Sprintf("Text exceeds maximum of %d bytes", maxTextBytes))
		return "", false
	}
	return req.Text, true
}

// Summarize handles POST /api/summarize
func (h *SummaryHandler) Summarize(c *gin.Context) {
	text, ok := bindText(c)
	if !ok {
		return
	}

	result := h.summaries.Summarize(c.Request.Context(), service.SummarizeRequest{Text: text})
	flags, _ := h.summaries.RedFlags(text)

	respondData(c, http.StatusOK, gin.H{
		"summary":    result.Summary,
		"used_model": result.UsedModel,
		"outcome":    result.Outcome,
		"chunks":     result.Chunks,
		"cached":     result.Cached,
		"red_flags":  flags,
	})
}

// RedFlags handles POST /api/red-flags
func (h *SummaryHandler) RedFlags(c *gin.Context) {
	text, ok := bindText(c)
	if !ok {
		return
	}

	flags, warnings := h.summaries.RedFlags(text)
	respondData(c, http.StatusOK, gin.H{
		"warnings": warnings,
		"flags":    flags,
	})
}

// AssessClausesRequest accepts either a list of clauses or text to split
type AssessClausesRequest struct {
	Text    string   `json:"text"`
	Clauses []string `json:"clauses"`
}

// AssessClauses handles POST /api/clauses/assess
func (h *SummaryHandler) AssessClauses(c *gin.Context) {
	var req AssessClausesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	var assessments []legal.ClauseAssessment
	switch {
	case len(req.Clauses) > 0:
		clauses := make([]string, 0, len(req.Clauses))
		for _, clause := range req.Clauses {
			if strings.TrimSpace(clause) != "" {
				clauses = append(clauses, strings.TrimSpace(clause))
			}
		}
		assessments = h.summaries.Rulebook().AssessClauses(clauses)
	case strings.TrimSpace(req.Text) != "":
		assessments = h.summaries.AssessClauses(req.Text)
	}

	if len(assessments) == 0 {
		respondError(c, http.StatusBadRequest, "EMPTY_TEXT", "Please provide at least one clause")
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"clauses":      assessments,
		"overall_risk": legal.OverallRisk(assessments),
	})
}
