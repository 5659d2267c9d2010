package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/otaviopl/infra-agricultura-app/internal/security"
	"github.com/otaviopl/infra-agricultura-app/internal/users"
)

// invalidCredentialsMsg is returned for both unknown users and wrong
// passwords; the two cases must stay indistinguishable.
const invalidCredentialsMsg = "Invalid credentials."

// UserStore combines the credential and location slices of the DynamoDB
// client the auth handlers need.
type UserStore interface {
	users.CredentialsClient
	users.LocationClient
}

// RegisterHandler creates a user record and bootstraps the weather-alerts
// subscription.
type RegisterHandler struct {
	DDB UserStore
	SNS users.SNSAPI
}

func NewRegisterHandler(ddb UserStore, snsClient users.SNSAPI) *RegisterHandler {
	return &RegisterHandler{DDB: ddb, SNS: snsClient}
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *RegisterHandler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	var body registerRequest
	if err := json.Unmarshal([]byte(req.Body), &body); err != nil {
		return errResp(400, "Request body must be valid JSON.")
	}
	if err := validate.Struct(body); err != nil {
		return errResp(400, "Username, email, and password are required.")
	}

	hash, err := security.HashPassword(body.Password)
	if err != nil {
		log.Printf("password hash failed: %v", err)
		return errResp(500, "Failed to register user.")
	}

	if err := users.PutUser(ctx, h.DDB, users.Record{
		Username:     body.Username,
		Email:        body.Email,
		PasswordHash: hash,
	}); err != nil {
		log.Printf("register user failed: %v", err)
		return errResp(500, "Failed to register user.")
	}

	if h.SNS != nil {
		if _, err := users.EnsureWeatherAlerts(ctx, h.DDB, h.SNS, body.Username, body.Email); err != nil {
			// Alerts are best-effort at registration; the account exists.
			log.Printf("alerts bootstrap failed for %s: %v", body.Username, err)
		}
	}

	return jsonResp(201, map[string]string{"message": "User registered successfully."})
}

// LoginHandler verifies credentials and issues a session token.
type LoginHandler struct {
	DDB       users.CredentialsClient
	JWTSecret string
}

func NewLoginHandler(ddb users.CredentialsClient) *LoginHandler {
	return &LoginHandler{
		DDB:       ddb,
		JWTSecret: strings.TrimSpace(os.Getenv("JWT_SECRET")),
	}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *LoginHandler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	var body loginRequest
	if err := json.Unmarshal([]byte(req.Body), &body); err != nil {
		return errResp(400, "Request body must be valid JSON.")
	}
	if err := validate.Struct(body); err != nil {
		return errResp(400, "Username and password are required.")
	}

	rec, err := users.GetUser(ctx, h.DDB, body.Username)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return errResp(401, invalidCredentialsMsg)
		}
		log.Printf("login lookup failed: %v", err)
		return errResp(500, "Failed to log in.")
	}

	if !security.CheckPassword(rec.PasswordHash, body.Password) {
		return errResp(401, invalidCredentialsMsg)
	}

	token, err := security.SignSessionToken(h.JWTSecret, rec.Username, rec.Email)
	if err != nil {
		log.Printf("token signing failed: %v", err)
		return errResp(500, "Failed to log in.")
	}

	return jsonResp(200, map[string]string{"token": token})
}
