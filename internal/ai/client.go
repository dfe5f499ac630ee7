// Package ai wraps the Groq chat-completions API used for grievance
// classification and closure verification. Groq speaks the OpenAI wire
// format, so the client is built on the openai SDK with an overridden base
// URL.
package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"grievance-service/internal/config"
	"grievance-service/internal/model"
)

type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
	log     zerolog.Logger
}

func NewClient(cfg config.AIConfig, log zerolog.Logger) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	apiCfg.BaseURL = cfg.BaseURL
	return &Client{
		api:     openai.NewClientWithConfig(apiCfg),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		log:     log,
	}
}

func (c *Client) complete(ctx context.Context, prompt string, temperature float32) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// StructureGrievance rewrites an informal complaint into the sectioned
// government format.
func (c *Client) StructureGrievance(ctx context.Context, text, city, area string) (string, error) {
	prompt := fmt.Sprintf(`Convert this informal grievance into structured government complaint format with sections:

Issue Summary:
Detailed Description:
Impact/Urgency:
Location:
Expected Resolution:

Location context: %s, %s

Grievance: %s`, area, city, text)

	return c.complete(ctx, prompt, 0.3)
}

// ClassifyDepartment routes the complaint to exactly one known department.
// Unrecognized answers collapse to Other.
func (c *Client) ClassifyDepartment(ctx context.Context, text string) (model.Department, error) {
	names := make([]string, 0, len(model.AllDepartments()))
	for _, d := range model.AllDepartments() {
		names = append(names, string(d))
	}
	prompt := fmt.Sprintf(`Classify grievance into ONE department only:

%s

Return only the department name.

Grievance: %s`, strings.Join(names, ", "), text)

	answer, err := c.complete(ctx, prompt, 0)
	if err != nil {
		return "", err
	}
	for _, d := range model.AllDepartments() {
		if strings.Contains(strings.ToLower(answer), strings.ToLower(string(d))) {
			return d, nil
		}
	}
	return model.DepartmentOther, nil
}

// AssignPriority rates urgency as low, medium, or high; anything
// unrecognized becomes medium.
func (c *Client) AssignPriority(ctx context.Context, text string) (model.Priority, error) {
	prompt := fmt.Sprintf(`Rate urgency as ONLY one word: high, medium, or low.

Grievance: %s`, text)

	answer, err := c.complete(ctx, prompt, 0)
	if err != nil {
		return "", err
	}
	lower := strings.ToLower(answer)
	switch {
	case strings.Contains(lower, "high"):
		return model.PriorityHigh, nil
	case strings.Contains(lower, "low"):
		return model.PriorityLow, nil
	case strings.Contains(lower, "medium"):
		return model.PriorityMedium, nil
	}
	return model.PriorityMedium, nil
}

// Verdict is the gate's answer for a proposed closure.
type Verdict struct {
	Approved bool
	Reason   string
}

// VerifyClosure asks the model whether the resolution genuinely addresses
// the grievance. Callers must treat any returned error as a rejection;
// approval is never the default on uncertainty.
func (c *Client) VerifyClosure(ctx context.Context, description, resolutionNote, proofURL string) (Verdict, error) {
	prompt := fmt.Sprintf(`Check if resolution is valid.

Grievance:
%s

Resolution:
%s

Proof artifact: %s

Return only: APPROVED or REJECTED with reason.`, description, resolutionNote, proofURL)

	answer, err := c.complete(ctx, prompt, 0)
	if err != nil {
		return Verdict{}, err
	}

	upper := strings.ToUpper(answer)
	if strings.HasPrefix(upper, "APPROVED") {
		return Verdict{Approved: true}, nil
	}
	reason := answer
	if idx := strings.Index(upper, "REJECTED"); idx >= 0 {
		reason = strings.TrimLeft(strings.TrimSpace(answer[idx+len("REJECTED"):]), "-: ")
	}
	if reason == "" {
		reason = "resolution not accepted"
	}
	return Verdict{Approved: false, Reason: reason}, nil
}
