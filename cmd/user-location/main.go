package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/otaviopl/infra-agricultura-app/internal/db"
	"github.com/otaviopl/infra-agricultura-app/internal/handlers"
)

func main() {
	ctx := context.Background()

	ddb, err := db.NewDynamoClient(ctx)
	if err != nil {
		log.Fatalf("init dynamodb: %v", err)
	}

	h := handlers.NewUserLocationHandler(ddb)

	lambda.Start(h.Handle)
}
