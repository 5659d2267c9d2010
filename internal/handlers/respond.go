package handlers

import (
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
)

// corsHeaders are attached to every response; the API is consumed directly
// by browser front ends on other origins.
func corsHeaders() map[string]string {
	return map[string]string{
		"Content-Type":                 "application/json",
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "POST, GET, PUT, OPTIONS",
		"Access-Control-Allow-Headers": "Content-Type, Authorization",
	}
}

func jsonResp(status int, v any) (events.APIGatewayV2HTTPResponse, error) {
	b, _ := json.Marshal(v)
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    corsHeaders(),
		Body:       string(b),
	}, nil
}

// errResp returns a structured error body. msg must be human-readable and
// free of internal detail; upstream bodies and stack traces stay in logs.
func errResp(status int, msg string) (events.APIGatewayV2HTTPResponse, error) {
	return jsonResp(status, map[string]any{"error": msg})
}
