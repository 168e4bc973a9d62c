package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/olcay-sar/discord-bot-gemini/llm"
)

const defaultRequestTimeout = 90 * time.Second

type Options struct {
	APIKey         string
	Model          string
	RequestTimeout time.Duration
}

// Client implements llm.Client on the Google Gemini API.
type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func New(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: opts.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{
		client:  client,
		model:   strings.TrimSpace(opts.Model),
		timeout: timeout,
	}, nil
}

// Generate sends the full prior history plus the new user parts in one call.
// Every call is bounded by the configured request timeout; deadline expiry
// surfaces as an ordinary call error.
func (c *Client) Generate(ctx context.Context, req llm.Request) (llm.Result, error) {
	start := time.Now()

	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = c.model
	}
	if model == "" {
		return llm.Result{}, fmt.Errorf("gemini model is required")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	contents := make([]*genai.Content, 0, len(req.History)+1)
	for _, turn := range req.History {
		contents = append(contents, contentFromTurn(turn))
	}
	contents = append(contents, contentFromTurn(llm.Turn{Role: llm.RoleUser, Parts: req.Parts}))

	cfg := &genai.GenerateContentConfig{}
	if req.SystemInstruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return llm.Result{}, fmt.Errorf("gemini generate: %w", err)
	}

	return llm.Result{
		Text:     resp.Text(),
		Usage:    usageFromResponse(resp),
		Duration: time.Since(start),
	}, nil
}

func contentFromTurn(turn llm.Turn) *genai.Content {
	parts := make([]*genai.Part, 0, len(turn.Parts))
	for _, p := range turn.Parts {
		if p.IsMedia() {
			parts = append(parts, genai.NewPartFromBytes(p.Data, p.MIMEType))
			continue
		}
		parts = append(parts, genai.NewPartFromText(p.Text))
	}
	role := genai.RoleUser
	if turn.Role == llm.RoleModel {
		role = genai.RoleModel
	}
	return genai.NewContentFromParts(parts, genai.Role(role))
}

func usageFromResponse(resp *genai.GenerateContentResponse) llm.Usage {
	if resp == nil || resp.UsageMetadata == nil {
		return llm.Usage{}
	}
	return llm.Usage{
		InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
		OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		TotalTokens:  int(resp.UsageMetadata.TotalTokenCount),
	}
}
