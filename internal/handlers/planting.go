package handlers

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/otaviopl/infra-agricultura-app/internal/agritec"
)

type plantingRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	PlantType string   `json:"plantType" validate:"required"`
}

// PlantingPeriods suggests planting windows for a plant type at a location.
func PlantingPeriods(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if strings.TrimSpace(req.Body) == "" {
		return errResp(400, "Request body is required.")
	}

	var body plantingRequest
	if err := json.Unmarshal([]byte(req.Body), &body); err != nil {
		return errResp(400, "Request body must be valid JSON.")
	}
	if err := validate.Struct(body); err != nil {
		return errResp(400, "Latitude, longitude, and plant type are required.")
	}

	return jsonResp(200, agritec.SuggestPlantingPeriods(body.PlantType))
}
