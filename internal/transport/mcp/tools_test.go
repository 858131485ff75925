package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kailas-cloud/rankdex/internal/analysis"
	"github.com/kailas-cloud/rankdex/internal/domain/screening/request"
	screeninguc "github.com/kailas-cloud/rankdex/internal/usecase/screening"
)

func connect(t *testing.T) *sdk.ClientSession {
	t.Helper()
	ctx := context.Background()

	normalizer := analysis.NewNormalizer(analysis.DefaultStopWords())
	svc := screeninguc.New(screeninguc.NewPipeline(normalizer, 0, 0), request.Limits{}, nil)
	server := NewServer(svc, nil)

	ct, st := sdk.NewInMemoryTransports()
	ss, err := server.Connect(ctx, st, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	t.Cleanup(func() { _ = ss.Close() })

	client := sdk.NewClient(&sdk.Implementation{Name: "test", Version: "v0"}, nil)
	cs, err := client.Connect(ctx, ct, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func TestListTools(t *testing.T) {
	cs := connect(t)
	res, err := cs.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	if len(res.Tools) != 1 || res.Tools[0].Name != ToolName {
		t.Fatalf("tools = %+v", res.Tools)
	}
	if res.Tools[0].Annotations == nil || !res.Tools[0].Annotations.ReadOnlyHint {
		t.Error("screen_resumes should be read-only")
	}
}

func TestScreenResumes(t *testing.T) {
	cs := connect(t)
	res, err := cs.CallTool(context.Background(), &sdk.CallToolParams{
		Name: ToolName,
		Arguments: map[string]any{
			"job_description": "Senior Python Developer with AWS experience",
			"resumes": []map[string]string{
				{"id": "B", "text": "Marketing specialist with social media experience"},
				{"id": "A", "text": "I am a Python developer skilled in AWS and Docker"},
			},
			"top_n": 2,
		},
	})
	if err != nil {
		t.Fatalf("call tool: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %+v", res.Content)
	}

	data, err := json.Marshal(res.StructuredContent)
	if err != nil {
		t.Fatal(err)
	}
	var out ScreenOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("decode structured content: %v", err)
	}
	if len(out.Results) != 2 || out.Results[0].ID != "A" {
		t.Fatalf("results = %+v", out.Results)
	}
	if strings.Join(out.Results[0].TopKeywords, ",") != "python,developer" {
		t.Errorf("keywords = %v", out.Results[0].TopKeywords)
	}
	if !strings.Contains(out.Summary, "best match A") {
		t.Errorf("summary = %q", out.Summary)
	}
}

func TestScreenResumes_InvalidInput(t *testing.T) {
	cs := connect(t)
	res, err := cs.CallTool(context.Background(), &sdk.CallToolParams{
		Name: ToolName,
		Arguments: map[string]any{
			"job_description": "short",
			"resumes":         []map[string]string{{"id": "a", "text": "x"}},
		},
	})
	if err != nil {
		t.Fatalf("call tool: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected tool error for short job description")
	}
	text, ok := res.Content[0].(*sdk.TextContent)
	if !ok || !strings.Contains(text.Text, "invalid input") {
		t.Errorf("error content = %+v", res.Content)
	}
}
