package handlers

import (
	"context"
	"errors"
	"log"

	"github.com/aws/aws-lambda-go/events"

	"github.com/otaviopl/infra-agricultura-app/internal/agritec"
	"github.com/otaviopl/infra-agricultura-app/internal/climate"
)

// CulturesHandler serves the zoning-eligible culture listing.
type CulturesHandler struct {
	Secrets    climate.SecretResolver
	NewCatalog func(token string) CultureLister
}

func NewCulturesHandler(secrets climate.SecretResolver) *CulturesHandler {
	return &CulturesHandler{
		Secrets: secrets,
		NewCatalog: func(token string) CultureLister {
			return agritec.NewClient(token)
		},
	}
}

func (h *CulturesHandler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	token, err := h.Secrets.Resolve(ctx, agritec.TokenParamName())
	if err != nil {
		log.Printf("agritec token resolution failed: %v", err)
		return errResp(500, "Catalog API token is unavailable.")
	}

	cultures, err := h.NewCatalog(token).ListEligibleCultures(ctx)
	if err != nil {
		var ue *agritec.UpstreamError
		if errors.As(err, &ue) {
			log.Printf("culture catalog returned %d: %s", ue.Status, ue.Body)
			return errResp(502, "Culture catalog is unavailable.")
		}
		log.Printf("culture listing failed: %v", err)
		return errResp(500, "Failed to list cultures.")
	}

	return jsonResp(200, map[string]any{"cultures": cultures})
}
