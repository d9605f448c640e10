package handler

import (
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

func respond(status int, body map[string]string) events.APIGatewayProxyResponse {
	payload, err := json.Marshal(body)
	if err != nil {
		// map[string]string always marshals
		panic(err)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(payload),
	}
}

func healthy() events.APIGatewayProxyResponse {
	return respond(http.StatusOK, map[string]string{"status": "healthy"})
}

func created(id string) events.APIGatewayProxyResponse {
	return respond(http.StatusOK, map[string]string{"id": id})
}

func failed(f *Failure) events.APIGatewayProxyResponse {
	return respond(http.StatusInternalServerError, map[string]string{"error": f.Message()})
}
