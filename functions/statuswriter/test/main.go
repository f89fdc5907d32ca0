package main

import (
	"context"
	"encoding/json"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/clumio-code/acm-status-writer/functions/statuswriter"
	"log"
	"os"
)

// usage: BUCKET_NAME=<bucket> go run ./functions/statuswriter/test <envelope.json>
func main() {
	if len(os.Args) != 2 {
		log.Fatalf("usage: %s <envelope.json>", os.Args[0])
	}

	envelope, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		log.Fatal(err)
	}

	err = statuswriter.NewHandler(s3.NewFromConfig(awsCfg)).HandleRequest(ctx, json.RawMessage(envelope))
	if err != nil {
		log.Fatal(err)
	}
	log.Println("no error")
}
