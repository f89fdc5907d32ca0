package main

import (
	"context"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/clumio-code/acm-status-writer/functions/statuswriter"
	"log"
)

func main() {
	awsCfg, err := config.LoadDefaultConfig(context.Background())
	if err != nil {
		log.Fatalf("error loading default AWS config - %s", err.Error())
	}

	lambda.Start(statuswriter.NewHandler(s3.NewFromConfig(awsCfg)).HandleRequest)
}
