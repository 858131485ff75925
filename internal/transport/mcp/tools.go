// Package mcp exposes screening as a Model Context Protocol tool.
package mcp

import (
	"context"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/rankdex/internal/domain/document"
	"github.com/kailas-cloud/rankdex/internal/report"
	screeninguc "github.com/kailas-cloud/rankdex/internal/usecase/screening"
	"github.com/kailas-cloud/rankdex/internal/version"
)

// ToolName is the name of the screening tool.
const ToolName = "screen_resumes"

// ResumeInput is one resume passed to the tool.
type ResumeInput struct {
	ID   string `json:"id" jsonschema:"unique identifier for the resume, e.g. the file name"`
	Text string `json:"text" jsonschema:"plain text of the resume"`
}

// ScreenInput is the argument object of screen_resumes.
type ScreenInput struct {
	JobDescription string        `json:"job_description" jsonschema:"job description the resumes are ranked against (at least 10 characters)"`
	Resumes        []ResumeInput `json:"resumes" jsonschema:"resumes to rank; identifiers must be unique"`
	TopN           int           `json:"top_n,omitempty" jsonschema:"matched keywords reported per resume (default 5, max 50)"`
}

// ScreenOutput is the structured result of screen_resumes.
type ScreenOutput struct {
	Results []report.Row `json:"results"`
	Summary string       `json:"summary"`
}

// NewServer creates an MCP server with the screening tool registered.
func NewServer(svc *screeninguc.Service, logger *zap.Logger) *sdk.Server {
	server := sdk.NewServer(&sdk.Implementation{
		Name:    "rankdex",
		Version: version.Version,
	}, nil)
	Register(server, svc, logger)
	return server
}

// Register adds screen_resumes to server.
func Register(server *sdk.Server, svc *screeninguc.Service, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	sdk.AddTool(server, &sdk.Tool{
		Name: ToolName,
		Description: "Rank resumes against a job description by TF-IDF cosine similarity. " +
			"Returns every resume with its rank, similarity score in [0,1], the job description " +
			"terms it repeats most, and a short excerpt.",
		Annotations: &sdk.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *sdk.CallToolRequest, in ScreenInput) (*sdk.CallToolResult, ScreenOutput, error) {
		candidates := make([]document.Candidate, len(in.Resumes))
		for i, r := range in.Resumes {
			candidates[i] = document.Candidate{ID: r.ID, Text: r.Text}
		}

		ranking, err := svc.Screen(ctx, in.JobDescription, candidates, in.TopN)
		if err != nil {
			logger.Debug("screen_resumes rejected", zap.Error(err))
			return nil, ScreenOutput{}, err //nolint:wrapcheck // surfaced as tool error text
		}

		return nil, ScreenOutput{
			Results: report.Rows(ranking.Results),
			Summary: summarize(ranking),
		}, nil
	})
}

func summarize(r screeninguc.Ranking) string {
	if len(r.Results) == 0 {
		return "No resumes ranked."
	}
	top := r.Results[0]
	s := fmt.Sprintf("Ranked %d resumes over %d terms; best match %s (score %.4f).",
		len(r.Results), r.Stats.VocabularySize, top.ID(), top.Score())
	if r.Stats.DegenerateQuery {
		s += " The job description has no scorable terms, so every score is 0."
	}
	return s
}

// RunStdio serves server over stdin/stdout until ctx is done or the client disconnects.
func RunStdio(ctx context.Context, server *sdk.Server) error {
	if err := server.Run(ctx, &sdk.StdioTransport{}); err != nil {
		return fmt.Errorf("mcp stdio: %w", err)
	}
	return nil
}
