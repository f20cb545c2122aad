package receipt

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

// GeminiScanner reads receipts with a Gemini multimodal model.
type GeminiScanner struct {
	client *genai.Client
	model  string
	now    func() time.Time
}

// NewGeminiScanner creates a scanner for the Gemini API backend.
func NewGeminiScanner(ctx context.Context, apiKey, model string) (*GeminiScanner, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("create genai client: missing API key")
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiScanner{client: client, model: model, now: time.Now}, nil
}

func (s *GeminiScanner) Scan(ctx context.Context, img Image, categoryNames []string) (Candidate, error) {
	prompt := buildPrompt(categoryNames, s.now())

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
				{
					InlineData: &genai.Blob{
						MIMEType: img.MIMEType,
						Data:     img.Data,
					},
				},
			},
		},
	}

	start := time.Now()
	resp, err := s.client.Models.GenerateContent(ctx, s.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return Candidate{}, fmt.Errorf("generate content: %w", err)
	}
	slog.DebugContext(ctx, "Receipt model responded", "model", s.model, "duration", time.Since(start))

	return parseCandidate(resp.Text())
}

// buildPrompt lists the categories and pins today's date so the model has
// a fallback for undated receipts.
func buildPrompt(categoryNames []string, now time.Time) string {
	today := now.Format("2006-01-02")
	return "Analyze this invoice/receipt image and extract the following information in JSON format:\n" +
		"{\n" +
		"  \"description\": \"Brief description of the purchase/service\",\n" +
		"  \"amount\": \"Total amount as a number (convert to Indonesian Rupiah if needed)\",\n" +
		"  \"vendor\": \"Store/vendor name\",\n" +
		"  \"date\": \"Date in YYYY-MM-DD format (use today's date if not found)\",\n" +
		"  \"suggestedCategory\": \"Best matching category from: " + strings.Join(categoryNames, ", ") + "\"\n" +
		"}\n\n" +
		"Rules:\n" +
		"- Extract the total amount, not individual item prices\n" +
		"- Use today's date (" + today + ") if date is not clearly visible\n" +
		"- For description, use the main item/service or vendor name\n" +
		"- Choose the most appropriate category from the provided list\n" +
		"- Return only valid JSON, no additional text\n"
}

// parseCandidate keeps the span from the first '{' to the last '}' and
// decodes it. Markdown fences and chatter around the object are ignored.
func parseCandidate(raw string) (Candidate, error) {
	if strings.TrimSpace(raw) == "" {
		return Candidate{}, ErrEmptyResponse
	}
	obj, err := extractJSON(raw)
	if err != nil {
		return Candidate{}, err
	}
	var c Candidate
	if err := json.Unmarshal([]byte(obj), &c); err != nil {
		return Candidate{}, fmt.Errorf("%w: %v", ErrNoJSON, err)
	}
	return c, nil
}

func extractJSON(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return "", ErrNoJSON
	}
	return raw[start : end+1], nil
}
