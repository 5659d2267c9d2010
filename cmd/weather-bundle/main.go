package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"

	"github.com/otaviopl/infra-agricultura-app/internal/advisory"
	"github.com/otaviopl/infra-agricultura-app/internal/agritec"
	"github.com/otaviopl/infra-agricultura-app/internal/climate"
	"github.com/otaviopl/infra-agricultura-app/internal/handlers"
	"github.com/otaviopl/infra-agricultura-app/internal/secrets"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		log.Fatalf("load aws config: %v", err)
	}

	provider := secrets.NewProvider(cfg)

	advisor := &handlers.ComposerRunner{
		Secrets: provider,
		NewCatalog: func(token string) handlers.CultureLister {
			return agritec.NewClient(token)
		},
		NewBackend: handlers.NewModelBackend(provider, func() (advisory.ModelBackend, error) {
			return advisory.NewBedrockBackend(cfg)
		}),
	}

	h := handlers.NewWeatherBundleHandler(climate.NewService(provider), advisor)

	lambda.Start(h.Handle)
}
