package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/takeline-labs/takeline/internal/takeoff"
)

// DefaultModel is the multimodal model used when none is configured.
const DefaultModel = "gemini-2.0-flash"

const countPrompt = `You are counting electrical devices on a construction drawing page.
Count only distinct device symbols, not dimension text or notes.
%s
Return STRICT JSON mapping category to item counts, categories limited to
fixtures, controls, power, demo, technology, panel:
{
  "fixtures": {"F2": 12},
  "power": {"Duplex Receptacle": 30}
}
Return {} if the page shows no countable devices.`

// Gemini counts devices by sending the rendered page to the Gemini
// generateContent endpoint.
type Gemini struct {
	apiKey string
	model  string
	httpc  *http.Client
	logger *slog.Logger
}

// NewGemini builds a counter for the given API key. An empty model
// falls back to DefaultModel; a nil logger discards.
func NewGemini(apiKey, model string, logger *slog.Logger) *Gemini {
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Gemini{
		apiKey: apiKey,
		model:  model,
		httpc:  &http.Client{Timeout: 60 * time.Second},
		logger: logger,
	}
}

func (g *Gemini) Count(ctx context.Context, image []byte, instructions string) (takeoff.CountSnapshot, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("vision: api key is empty")
	}

	body := map[string]any{
		"contents": []any{
			map[string]any{
				"parts": []any{
					map[string]any{"text": fmt.Sprintf(countPrompt, instructions)},
					map[string]any{"inline_data": map[string]any{
						"mime_type": http.DetectContentType(image),
						"data":      base64.StdEncoding.EncodeToString(image),
					}},
				},
			},
		},
		"generationConfig": map[string]any{"temperature": 0},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("vision: encoding request: %w", err)
	}

	url := fmt.Sprintf("https://generativelanguage.googleapis.com/v1/models/%s:generateContent?key=%s", g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vision: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("vision: gemini %d: %s", resp.StatusCode, string(msg))
	}

	var out struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("vision: decoding response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return takeoff.NewCountSnapshot(), nil
	}

	text := strings.TrimSpace(out.Candidates[0].Content.Parts[0].Text)
	return g.parseCounts(text), nil
}

// parseCounts decodes the model's JSON into a snapshot. Text the model
// returns instead of JSON, and categories outside the known set, are
// dropped with a warning rather than failing the page.
func (g *Gemini) parseCounts(text string) takeoff.CountSnapshot {
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var raw map[string]map[string]int
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		g.logger.Warn("vision response was not valid JSON", "error", err)
		return takeoff.NewCountSnapshot()
	}

	known := make(map[takeoff.Category]bool)
	for _, cat := range takeoff.Categories() {
		known[cat] = true
	}

	counts := takeoff.NewCountSnapshot()
	for cat, items := range raw {
		category := takeoff.Category(cat)
		if !known[category] {
			g.logger.Warn("vision response used unknown category", "category", cat)
			continue
		}
		for item, n := range items {
			if n < 0 {
				continue
			}
			counts.Add(category, item, n)
		}
	}
	return counts
}
