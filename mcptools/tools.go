// Package mcptools exposes the summarizer, red-flag detector, clause grader
// and legal Q&A as MCP tools.
package mcptools

import (
	"context"
	"fmt"
	"strings"

	"clario-backend/legal"
	"clario-backend/service"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MetadataSummarize describes the summarize tool.
var MetadataSummarize = &mcp.Tool{
	Name: "summarize",
	Description: "Summarize legal text in plain language. The text is summarized extractively, " +
		"optionally rewritten by a language model, and legal jargon is replaced with everyday words. " +
		"The outcome field tells whether the model rewrite was used.",
}

// MetadataRedFlags describes the red_flags tool.
var MetadataRedFlags = &mcp.Tool{
	Name:        "red_flags",
	Description: "List the risky clauses (termination at will, unpaid work, confidentiality, liability...) found in legal text.",
}

// MetadataAssessClauses describes the assess_clauses tool.
var MetadataAssessClauses = &mcp.Tool{
	Name: "assess_clauses",
	Description: "Grade each clause of a contract as safe, risky or dangerous. " +
		"Pass either a list of clauses or text, which is split into sentences.",
}

// MetadataAsk describes the ask tool.
var MetadataAsk = &mcp.Tool{
	Name: "ask",
	Description: "Answer a general legal question in simple language. Known topics are answered " +
		"from a curated knowledge base; other questions go to a language model when one is configured.",
}

// InputText is the input of the summarize and red_flags tools.
type InputText struct {
	Text string `json:"text" jsonschema:"the legal text to analyze"`
}

// OutputSummarize is the output of the summarize tool.
type OutputSummarize struct {
	Summary   string   `json:"summary"`
	UsedModel bool     `json:"used_model"`
	Outcome   string   `json:"outcome"`
	Chunks    int      `json:"chunks"`
	RedFlags  []string `json:"red_flags"`
}

// OutputRedFlags is the output of the red_flags tool.
type OutputRedFlags struct {
	Flags    []string `json:"flags"`
	Warnings string   `json:"warnings"`
}

// InputAssessClauses is the input of the assess_clauses tool.
type InputAssessClauses struct {
	Text    string   `json:"text,omitempty" jsonschema:"contract text; each sentence is graded as a clause"`
	Clauses []string `json:"clauses,omitempty" jsonschema:"clauses to grade, used instead of text when given"`
}

// OutputAssessClauses is the output of the assess_clauses tool.
type OutputAssessClauses struct {
	Clauses     []legal.ClauseAssessment `json:"clauses"`
	OverallRisk legal.RiskLevel          `json:"overall_risk"`
}

// InputAsk is the input of the ask tool.
type InputAsk struct {
	Question string `json:"question" jsonschema:"the legal question"`
	Simple   bool   `json:"simple,omitempty" jsonschema:"ask for an explanation a fifteen year old would follow"`
}

// OutputAsk is the output of the ask tool.
type OutputAsk struct {
	Answer string `json:"answer"`
	Source string `json:"source"`
	Topic  string `json:"topic,omitempty"`
}

// Tools holds the services behind the MCP tools.
type Tools struct {
	summaries *service.SummaryService
	chat      *service.ChatService
}

// New creates the tool set.
func New(summaries *service.SummaryService, chat *service.ChatService) *Tools {
	return &Tools{summaries: summaries, chat: chat}
}

// Register adds every tool to server.
func (t *Tools) Register(server *mcp.Server) {
	mcp.AddTool(server, MetadataSummarize, t.Summarize)
	mcp.AddTool(server, MetadataRedFlags, t.RedFlags)
	mcp.AddTool(server, MetadataAssessClauses, t.AssessClauses)
	mcp.AddTool(server, MetadataAsk, t.Ask)
}

// Summarize runs the summary pipeline over the input text.
func (t *Tools) Summarize(ctx context.Context, _ *mcp.CallToolRequest, input InputText) (*mcp.CallToolResult, OutputSummarize, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, OutputSummarize{}, fmt.Errorf("text is required")
	}

	result := t.summaries.Summarize(ctx, service.SummarizeRequest{Text: input.Text})
	flags, _ := t.summaries.RedFlags(input.Text)

	return nil, OutputSummarize{
		Summary:   result.Summary,
		UsedModel: result.UsedModel,
		Outcome:   string(result.Outcome),
		Chunks:    result.Chunks,
		RedFlags:  flags,
	}, nil
}

// RedFlags lists the warnings raised by the input text.
func (t *Tools) RedFlags(_ context.Context, _ *mcp.CallToolRequest, input InputText) (*mcp.CallToolResult, OutputRedFlags, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, OutputRedFlags{}, fmt.Errorf("text is required")
	}

	flags, warnings := t.summaries.RedFlags(input.Text)
	return nil, OutputRedFlags{Flags: flags, Warnings: warnings}, nil
}

// AssessClauses grades the given clauses, or the sentences of the given text.
func (t *Tools) AssessClauses(_ context.Context, _ *mcp.CallToolRequest, input InputAssessClauses) (*mcp.CallToolResult, OutputAssessClauses, error) {
	var assessments []legal.ClauseAssessment
	if len(input.Clauses) > 0 {
		clauses := make([]string, 0, len(input.Clauses))
		for _, c := range input.Clauses {
			if c = strings.TrimSpace(c); c != "" {
				clauses = append(clauses, c)
			}
		}
		assessments = t.summaries.Rulebook().AssessClauses(clauses)
	} else {
		assessments = t.summaries.AssessClauses(input.Text)
	}

	if len(assessments) == 0 {
		return nil, OutputAssessClauses{}, fmt.Errorf("text or clauses is required")
	}
	return nil, OutputAssessClauses{
		Clauses:     assessments,
		OverallRisk: legal.OverallRisk(assessments),
	}, nil
}

// Ask answers a legal question.
func (t *Tools) Ask(ctx context.Context, _ *mcp.CallToolRequest, input InputAsk) (*mcp.CallToolResult, OutputAsk, error) {
	result := t.chat.Ask(ctx, service.AskRequest{Question: input.Question, Simple: input.Simple})
	return nil, OutputAsk{
		Answer: result.Answer,
		Source: string(result.Source),
		Topic:  result.Topic,
	}, nil
}
