package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/go-playground/validator/v10"

	"github.com/otaviopl/infra-agricultura-app/internal/users"
)

var validate = validator.New()

// UserLocationHandler serves get and upsert of a user's stored location on
// one route, dispatched by method.
type UserLocationHandler struct {
	DDB users.LocationClient
}

func NewUserLocationHandler(ddb users.LocationClient) *UserLocationHandler {
	return &UserLocationHandler{DDB: ddb}
}

type upsertLocationRequest struct {
	Username string `json:"username" validate:"required"`
	Location struct {
		Address   string   `json:"address" validate:"required"`
		Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
		Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	} `json:"location" validate:"required"`
}

func (h *UserLocationHandler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	switch req.RequestContext.HTTP.Method {
	case "GET":
		return h.get(ctx, req)
	case "PUT", "POST":
		return h.upsert(ctx, req)
	default:
		return errResp(405, "Method not allowed.")
	}
}

func (h *UserLocationHandler) get(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	username := strings.TrimSpace(req.QueryStringParameters["username"])
	if username == "" {
		return errResp(400, "The 'username' parameter is required.")
	}

	loc, err := users.GetLocation(ctx, h.DDB, username)
	if err != nil {
		if errors.Is(err, users.ErrLocationNotFound) {
			return errResp(404, "No location found for this user.")
		}
		log.Printf("get location failed: %v", err)
		return errResp(500, "Failed to fetch location.")
	}

	return jsonResp(200, map[string]any{
		"message":  "Location found.",
		"location": loc,
	})
}

func (h *UserLocationHandler) upsert(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	var body upsertLocationRequest
	if err := json.Unmarshal([]byte(req.Body), &body); err != nil {
		return errResp(400, "Request body must be valid JSON.")
	}
	if err := validate.Struct(body); err != nil {
		return errResp(400, "Username and a location with address, latitude, and longitude are required.")
	}

	updated, err := users.UpsertLocation(ctx, h.DDB, body.Username, users.Location{
		Address:   body.Location.Address,
		Latitude:  *body.Location.Latitude,
		Longitude: *body.Location.Longitude,
	})
	if err != nil {
		log.Printf("upsert location failed: %v", err)
		return errResp(500, "Failed to update location.")
	}

	return jsonResp(200, map[string]any{
		"message":           "Location updated.",
		"updatedAttributes": updated,
	})
}
