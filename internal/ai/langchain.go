package ai

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/prompts"
)

// chainPrompt joins the system and user parts into one completion prompt.
const chainPrompt = "{{.System}}\n\n{{.Prompt}}"

// langChainCompleter runs prompts through a langchaingo LLM chain backed by
// OpenAI. Credentials and model come from OPENAI_API_KEY / OPENAI_MODEL.
type langChainCompleter struct {
	chain chains.Chain
}

func newLangChainCompleter() (*langChainCompleter, error) {
	llm, err := openai.New()
	if err != nil {
		return nil, err
	}
	tmpl := prompts.NewPromptTemplate(chainPrompt, []string{"System", "Prompt"})
	return &langChainCompleter{chain: chains.NewLLMChain(llm, tmpl)}, nil
}

func (l *langChainCompleter) complete(ctx context.Context, system, prompt string) (string, error) {
	out, err := chains.Call(ctx, l.chain, map[string]any{"System": system, "Prompt": prompt})
	if err != nil {
		return "", fmt.Errorf("call: %w", err)
	}
	text, ok := out["text"].(string)
	if !ok {
		return "", fmt.Errorf("unexpected chain output %T", out["text"])
	}
	return text, nil
}
