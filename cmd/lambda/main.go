package main

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/mindsgn-studio/price-watch/internal/config"
	"github.com/mindsgn-studio/price-watch/internal/logger"
	"github.com/mindsgn-studio/price-watch/watch"
)

// handler reconnects to the store on every invocation; nothing is kept
// between runs.
func handler(ctx context.Context) (events.APIGatewayProxyResponse, error) {
	log := logger.New(false)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Error().Err(err).Msg("config")
		return events.APIGatewayProxyResponse{}, err
	}

	resp, err := watch.Handle(ctx, cfg, log)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Body:       resp.Body,
	}, nil
}

func main() {
	lambda.Start(handler)
}
