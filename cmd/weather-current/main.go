package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"

	"github.com/otaviopl/infra-agricultura-app/internal/handlers"
	"github.com/otaviopl/infra-agricultura-app/internal/secrets"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		log.Fatalf("load aws config: %v", err)
	}

	h := handlers.NewWeatherCurrentHandler(secrets.NewProvider(cfg))

	lambda.Start(h.Handle)
}
