package judge

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"aegis/internal/assess"
	"aegis/internal/faults"
)

// Gemini judges controls with a Gemini model. Temperature is pinned to 0 so
// reruns over unchanged evidence stay stable.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini builds a Gemini-backed judge.
func NewGemini(ctx context.Context, apiKey, modelName string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(0)
	model.ResponseMIMEType = "application/json"
	return &Gemini{client: client, model: model}, nil
}

// Close releases the API client.
func (g *Gemini) Close() error { return g.client.Close() }

// geminiVerdict is the JSON shape the model is instructed to return: one
// finding per evidence item it considers relevant.
type geminiVerdict struct {
	Findings []assess.Finding `json:"findings"`
}

func (g *Gemini) Judge(ctx context.Context, req Request) (assess.Judgment, error) {
	prompt := buildPrompt(req)
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		// Provider errors are transient from the pipeline's point of view:
		// the run retries, and on exhaustion fails without corrupting state.
		return assess.Judgment{}, faults.New(faults.Transient, "judge", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return assess.Judgment{}, faults.Newf(faults.Transient, "judge", "empty response for %s", req.Control.ID)
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}

	var verdict geminiVerdict
	if err := json.Unmarshal([]byte(text.String()), &verdict); err != nil {
		return assess.Judgment{}, faults.Newf(faults.Transient, "judge", "unparseable verdict for %s: %v", req.Control.ID, err)
	}

	known := make(map[int64]string, len(req.Evidence))
	for _, e := range req.Evidence {
		known[e.ID] = e.Type
	}
	findings := verdict.Findings[:0]
	for _, f := range verdict.Findings {
		evType, ok := known[f.ItemID]
		if !ok {
			continue // hallucinated item id
		}
		// The tier comes from the ingestion type, not from the model.
		f.Tier = assess.TierForType(evType)
		findings = append(findings, f)
	}

	return assess.Merge(req.Control.ID, findings), nil
}

func buildPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You assess whether submitted evidence covers security control %s (%s).\n", req.Control.ID, req.Control.Name)
	fmt.Fprintf(&b, "Requirement: %s\n\nEvidence items:\n", req.Control.Text)
	for _, e := range req.Evidence {
		fmt.Fprintf(&b, "- id=%d name=%q type=%s note=%q\n", e.ID, e.Name, e.Type, e.Note)
	}
	b.WriteString(`
Return JSON: {"findings": [{"item_id": <id>, "matches": <bool>, "complete": <bool>, "rationale": "<one sentence>"}]}.
"matches" means the item addresses the control at all; "complete" means it demonstrates the full requirement.
Omit items that are unrelated to the control. Do not invent item ids.`)
	return b.String()
}
