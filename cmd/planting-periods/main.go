package main

import (
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/otaviopl/infra-agricultura-app/internal/handlers"
)

func main() {
	lambda.Start(handlers.PlantingPeriods)
}
