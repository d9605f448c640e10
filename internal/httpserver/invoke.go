package httpserver

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
)

const maxBodyBytes = 1 << 20

// Invoker is anything that serves a raw Lambda payload.
type Invoker interface {
	Handle(ctx context.Context, payload json.RawMessage) (events.APIGatewayProxyResponse, error)
}

// InvocationHandler serves HTTP requests by handing them to inv as API
// Gateway proxy events, the same shape a deployed function receives.
func InvocationHandler(inv Invoker, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		clientIP := extractClientIP(r)

		logger.Debug("Received request",
			slog.String("from", clientIP),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("request_id", requestID))

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
				return
			}
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}

		event := events.APIGatewayProxyRequest{
			Resource:                        r.URL.Path,
			Path:                            r.URL.Path,
			HTTPMethod:                      r.Method,
			Headers:                         flatten(r.Header),
			MultiValueHeaders:               r.Header,
			QueryStringParameters:           flatten(r.URL.Query()),
			MultiValueQueryStringParameters: r.URL.Query(),
			Body:                            string(body),
			RequestContext: events.APIGatewayProxyRequestContext{
				RequestID:  requestID,
				Stage:      "local",
				HTTPMethod: r.Method,
				Path:       r.URL.Path,
				Identity: events.APIGatewayRequestIdentity{
					SourceIP:  clientIP,
					UserAgent: r.UserAgent(),
				},
			},
		}

		payload, err := json.Marshal(event)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		ctx := lambdacontext.NewContext(r.Context(), &lambdacontext.LambdaContext{AwsRequestID: requestID})

		resp, err := inv.Handle(ctx, payload)
		if err != nil {
			// A deployed function would surface this as an invocation error.
			logger.Error("Invocation error", slog.Any("err", err), slog.String("request_id", requestID))
			http.Error(w, "invocation failed", http.StatusBadGateway)
			return
		}

		writeResponse(w, resp, logger)
	}
}

func writeResponse(w http.ResponseWriter, resp events.APIGatewayProxyResponse, logger *slog.Logger) {
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	for k, vs := range resp.MultiValueHeaders {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}

	body := []byte(resp.Body)
	if resp.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(resp.Body)
		if err != nil {
			logger.Error("Invalid base64 response body", slog.Any("err", err))
			http.Error(w, "invalid response body", http.StatusBadGateway)
			return
		}
		body = decoded
	}

	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}

	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		logger.Warn("Failed to write response", slog.Any("err", err))
	}
}

func flatten(values map[string][]string) map[string]string {
	if len(values) == 0 {
		return nil
	}

	flat := make(map[string]string, len(values))
	for k, vs := range values {
		if len(vs) > 0 {
			flat[k] = vs[len(vs)-1]
		}
	}
	return flat
}

func extractClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}

	host, _, _ := net.SplitHostPort(r.RemoteAddr)
	return host
}
