package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"contactiq/internal/models"
)

const analyzerPrompt = `You are a contact-profile analyst. Given an email
address, a display name and recent message subjects, infer what you can about
the person. Respond with a single JSON object using only these keys (omit any
you cannot infer): job_title, company, industry, department, seniority_level,
location. No prose, JSON only.`

// costPerAnalysis is the flat per-call cost charged against the enrichment
// budget for a completion.
const costPerAnalysis = 0.002

// AIAnalyzer infers profile fields from a contact's message history using an
// OpenAI chat completion.
type AIAnalyzer struct {
	client *openai.Client
	model  string
}

// NewAIAnalyzer creates the analyzer source. An empty API key leaves the
// source disabled rather than failing.
func NewAIAnalyzer(apiKey, model string) *AIAnalyzer {
	a := &AIAnalyzer{model: model}
	if model == "" {
		a.model = string(openai.GPT4oMini)
	}
	if apiKey != "" {
		a.client = openai.NewClient(apiKey)
	}
	return a
}

func (a *AIAnalyzer) ID() string { return "ai_analysis" }

func (a *AIAnalyzer) Enabled() bool { return a.client != nil }

// Enrich asks the model for profile fields inferred from the contact's
// address and recent subjects.
func (a *AIAnalyzer) Enrich(ctx context.Context, contact *models.Contact) (Result, error) {
	if a.client == nil {
		return Result{}, fmt.Errorf("ai analyzer not configured")
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: analyzerPrompt},
			{Role: openai.ChatMessageRoleUser, Content: a.describe(contact)},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return Result{}, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, fmt.Errorf("chat completion returned no choices")
	}

	fields, err := parseAnalysis(resp.Choices[0].Message.Content)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Fields:     fields,
		Source:     a.ID(),
		Confidence: 0.6,
		Cost:       costPerAnalysis,
	}, nil
}

// describe summarizes a contact for the model: identity plus up to five
// recent subjects.
func (a *AIAnalyzer) describe(contact *models.Contact) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Email: %s\n", contact.Email)
	if contact.Name != "" {
		fmt.Fprintf(&b, "Name: %s\n", contact.Name)
	}

	subjects := 0
	for i := len(contact.Interactions) - 1; i >= 0 && subjects < 5; i-- {
		if subject := contact.Interactions[i].Subject; subject != "" {
			fmt.Fprintf(&b, "Subject: %s\n", subject)
			subjects++
		}
	}
	return b.String()
}

// allowed keys the model may return; anything else is dropped before the
// fields reach ApplyEnrichment.
var analysisKeys = []string{"job_title", "company", "industry", "department", "seniority_level", "location"}

func parseAnalysis(content string) (map[string]string, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var raw map[string]string
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &raw); err != nil {
		return nil, fmt.Errorf("unparseable analysis response: %w", err)
	}

	fields := make(map[string]string)
	for _, key := range analysisKeys {
		if value := strings.TrimSpace(raw[key]); value != "" {
			fields[key] = value
		}
	}
	return fields, nil
}
