package ai

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/mrz1836/olympus/internal/constants"
	olyerrors "github.com/mrz1836/olympus/internal/errors"
)

type anthropicCompleter struct {
	inner     anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

func newAnthropicCompleter(apiKey, model string, maxTokens int) *anthropicCompleter {
	m := anthropic.Model(model)
	if model == "" {
		m = anthropic.ModelClaudeSonnet4_20250514
	}
	if maxTokens <= 0 {
		maxTokens = constants.DefaultMaxTokens
	}
	return &anthropicCompleter{
		inner:     anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:     m,
		maxTokens: int64(maxTokens),
	}
}

func (a *anthropicCompleter) complete(ctx context.Context, system, prompt string) (string, error) {
	resp, err := a.inner.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(variant.Text)
		}
	}
	if b.Len() == 0 {
		return "", olyerrors.ErrMalformedResponse
	}
	return b.String(), nil
}
