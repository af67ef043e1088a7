package narrate

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/huangsam/archmine/internal/contract"
	"github.com/huangsam/archmine/schema"
)

// OpenAIConfig holds the settings for the LLM narrator. The base URL knob
// makes any OpenAI-compatible endpoint usable, not just api.openai.com.
type OpenAIConfig struct {
	BaseURL string
	Model   string
	APIKey  string
}

// OpenAIConfigFromEnv reads narrator settings from environment variables:
// ARCHMINE_LLM_BASE_URL, ARCHMINE_LLM_MODEL, and OPENAI_API_KEY.
func OpenAIConfigFromEnv() OpenAIConfig {
	cfg := OpenAIConfig{
		BaseURL: os.Getenv("ARCHMINE_LLM_BASE_URL"),
		Model:   os.Getenv("ARCHMINE_LLM_MODEL"),
		APIKey:  os.Getenv("OPENAI_API_KEY"),
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	return cfg
}

// OpenAI narrates clusters through an OpenAI-compatible chat model via
// langchaingo. The model only sees the evidence package and only returns the
// free-text narrative fields.
type OpenAI struct {
	llm llms.Model
}

var _ contract.Narrator = &OpenAI{} // Compile-time check

// NewOpenAI creates the LLM narrator from its config.
func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai narrator requires OPENAI_API_KEY")
	}
	llm, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithModel(cfg.Model),
		openai.WithToken(cfg.APIKey),
	)
	if err != nil {
		return nil, fmt.Errorf("creating OpenAI client: %w", err)
	}
	return &OpenAI{llm: llm}, nil
}

// Name implements the contract.Narrator interface.
func (o *OpenAI) Name() string { return "openai" }

const narrativePrompt = `You are documenting an architecture decision record from git history evidence.
Given the JSON evidence below, respond with ONLY a JSON object with these keys:
"context" (string), "decision" (string), "consequences" (array of strings), "alternatives" (array of strings).
Ground every statement in the evidence. Do not invent commits, files, or libraries.

Evidence:
%s`

// Synthesize implements the contract.Narrator interface.
func (o *OpenAI) Synthesize(ctx context.Context, pkg schema.EvidencePackage) (schema.Narrative, error) {
	evidence, err := json.Marshal(pkg)
	if err != nil {
		return schema.Narrative{}, fmt.Errorf("%w: encoding evidence: %v", contract.ErrNarrative, err)
	}

	completion, err := llms.GenerateFromSinglePrompt(ctx, o.llm,
		fmt.Sprintf(narrativePrompt, evidence),
		llms.WithJSONMode())
	if err != nil {
		return schema.Narrative{}, fmt.Errorf("%w: %v", contract.ErrNarrative, err)
	}

	var narrative schema.Narrative
	if err := json.Unmarshal([]byte(extractJSON(completion)), &narrative); err != nil {
		return schema.Narrative{}, fmt.Errorf("%w: decoding completion: %v", contract.ErrNarrative, err)
	}
	return narrative, nil
}

// extractJSON strips markdown fences some models wrap around JSON output.
func extractJSON(completion string) string {
	s := strings.TrimSpace(completion)
	if after, ok := strings.CutPrefix(s, "```json"); ok {
		s = after
	} else if after, ok := strings.CutPrefix(s, "```"); ok {
		s = after
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
