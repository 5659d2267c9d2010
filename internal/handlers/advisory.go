package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/otaviopl/infra-agricultura-app/internal/advisory"
	"github.com/otaviopl/infra-agricultura-app/internal/agritec"
	"github.com/otaviopl/infra-agricultura-app/internal/climate"
)

// AdvisoryHandler serves stand-alone narrative composition: the caller
// supplies the weather conditions and culture list directly.
type AdvisoryHandler struct {
	NewBackend func(ctx context.Context) (advisory.ModelBackend, error)
}

func NewAdvisoryHandler(newBackend func(ctx context.Context) (advisory.ModelBackend, error)) *AdvisoryHandler {
	return &AdvisoryHandler{NewBackend: newBackend}
}

type advisoryRequest struct {
	Conditions map[string]*float64 `json:"conditions"`
	Cultures   []agritec.Culture   `json:"cultures"`
}

func (h *AdvisoryHandler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if strings.TrimSpace(req.Body) == "" {
		return errResp(400, "Request body is required.")
	}

	var body advisoryRequest
	if err := json.Unmarshal([]byte(req.Body), &body); err != nil {
		return errResp(400, "Request body must be valid JSON.")
	}
	if len(body.Conditions) == 0 {
		return errResp(400, "Weather conditions are required.")
	}

	conds := make(advisory.Conditions, len(climate.Variables))
	for _, v := range climate.Variables {
		val, ok := body.Conditions[string(v)]
		if !ok || val == nil {
			conds[v] = advisory.Condition{Unavailable: true}
			continue
		}
		conds[v] = advisory.Condition{Value: *val}
	}

	backend, err := h.NewBackend(ctx)
	if err != nil {
		log.Printf("advisory backend init failed: %v", err)
		return errResp(500, "Advisory model is unavailable.")
	}

	text, err := advisory.NewComposer(backend).Compose(ctx, conds, body.Cultures)
	if err != nil {
		var ue *advisory.UpstreamError
		switch {
		case errors.As(err, &ue):
			log.Printf("advisory upstream returned %d: %s", ue.Status, ue.Body)
			return errResp(502, "Advisory model request failed.")
		case errors.Is(err, advisory.ErrMalformedResponse):
			log.Printf("advisory response malformed: %v", err)
			return errResp(502, "Advisory model returned an unexpected response.")
		default:
			log.Printf("advisory composition failed: %v", err)
			return errResp(500, "Failed to compose advisory.")
		}
	}

	return jsonResp(200, map[string]string{"interpretation": text})
}

// NewModelBackend builds the configured advisory backend. The OpenAI key is
// resolved fresh per invocation via the secret provider.
func NewModelBackend(secrets climate.SecretResolver, newBedrock func() (advisory.ModelBackend, error)) func(ctx context.Context) (advisory.ModelBackend, error) {
	return func(ctx context.Context) (advisory.ModelBackend, error) {
		switch advisory.ProviderName() {
		case advisory.ProviderBedrock:
			return newBedrock()
		default:
			key, err := secrets.Resolve(ctx, advisory.OpenAIKeyParam())
			if err != nil {
				return nil, err
			}
			return advisory.NewOpenAIBackend(key), nil
		}
	}
}
