// Package narrate implements the narrative collaborators that turn evidence
// packages into ADR prose.
package narrate

import (
	"fmt"

	"github.com/huangsam/archmine/internal/contract"
	"github.com/huangsam/archmine/schema"
)

// NewNarrator builds the narrator selected in the config.
func NewNarrator(cfg *contract.Config) (contract.Narrator, error) {
	switch cfg.Narrator {
	case schema.TemplateNarrator:
		return NewTemplate(), nil
	case schema.OpenAINarrator:
		return NewOpenAI(OpenAIConfigFromEnv())
	default:
		return nil, fmt.Errorf("unknown narrator: %s", cfg.Narrator)
	}
}
