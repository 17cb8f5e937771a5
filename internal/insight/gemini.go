package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// BaseURL is the Gemini REST endpoint.
const BaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Generator asks a remote model for insights and falls back to Local.
type Generator struct {
	APIKey  string
	Model   string
	BaseURL string
	Client  *http.Client
}

type generateRequest struct {
	Contents []content `json:"contents"`
	Config   struct {
		ResponseMimeType string `json:"responseMimeType"`
	} `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func prompt(in Input) string {
	subjects, _ := json.Marshal(in.Subjects)
	return fmt.Sprintf(`Analyze the student's attendance and return insights.

DATA:
- Overall Attendance: %d%% over %d counted records
- Subjects: %s
- Target Attendance: %d%%
- Danger Threshold: %d%%

RULES:
- CRITICAL: attendance below danger threshold
- WARNING: attendance below target
- HEALTH: attendance is safe

Return ONLY a JSON array of objects with "type" (CRITICAL, WARNING, STRATEGY or HEALTH), "title" and "message".`,
		in.Overall, in.Counted, subjects, in.Target, in.DangerThreshold)
}

// Generate returns remote insights, or the local rules when no API key is set or the call
// fails for any reason.
func (g Generator) Generate(ctx context.Context, in Input) []Insight {
	if g.APIKey == "" || in.Counted == 0 {
		return Local(in)
	}
	insights, err := g.fetch(ctx, in)
	if err != nil {
		slog.Warn("remote insights unavailable, using local insights", "error", err)
		return Local(in)
	}
	return insights
}

func (g Generator) fetch(ctx context.Context, in Input) ([]Insight, error) {
	base := g.BaseURL
	if base == "" {
		base = BaseURL
	}
	client := g.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	var body generateRequest
	body.Contents = []content{{Parts: []part{{Text: prompt(in)}}}}
	body.Config.ResponseMimeType = "application/json"
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	apiURL := fmt.Sprintf("%s/models/%s:generateContent", base, g.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.APIKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch insights: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini API returned status %d", resp.StatusCode)
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini API returned no candidates")
	}

	var insights []Insight
	if err := json.Unmarshal([]byte(genResp.Candidates[0].Content.Parts[0].Text), &insights); err != nil {
		return nil, fmt.Errorf("failed to parse insights JSON: %w", err)
	}
	if len(insights) == 0 {
		return nil, fmt.Errorf("gemini API returned no insights")
	}
	return insights, nil
}
