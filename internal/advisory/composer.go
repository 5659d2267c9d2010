package advisory

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/otaviopl/infra-agricultura-app/internal/agritec"
)

// ModelBackend sends one composition request to a language model.
type ModelBackend interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Provider names accepted by ADVISORY_MODEL_PROVIDER.
const (
	ProviderOpenAI  = "openai"
	ProviderBedrock = "bedrock"
)

// ProviderName returns the configured model provider, defaulting to OpenAI.
func ProviderName() string {
	p := strings.ToLower(strings.TrimSpace(os.Getenv("ADVISORY_MODEL_PROVIDER")))
	if p == "" {
		return ProviderOpenAI
	}
	return p
}

// Composer turns aggregated conditions and a culture list into a narrative
// interpretation.
type Composer struct {
	backend ModelBackend
}

func NewComposer(backend ModelBackend) *Composer {
	return &Composer{backend: backend}
}

// Compose builds the prompt and requests one narrative completion.
func (c *Composer) Compose(ctx context.Context, conds Conditions, cultures []agritec.Culture) (string, error) {
	prompt := BuildPrompt(conds, cultures)

	text, err := c.backend.Complete(ctx, SystemInstruction, prompt)
	if err != nil {
		return "", fmt.Errorf("compose advisory: %w", err)
	}
	return text, nil
}
