package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/lambdacontext"
)

func New(lvl string, addSource bool, enviroment string) *slog.Logger {
	return NewWithWriter(os.Stdout, lvl, addSource, enviroment)
}

// NewWithWriter is New with an explicit destination. CloudWatch picks up
// stdout, so only tests need anything else.
func NewWithWriter(w io.Writer, lvl string, addSource bool, enviroment string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(lvl),
		AddSource: addSource,
	}
	var handler slog.Handler

	if strings.ToLower(enviroment) == "prod" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler).With(
		slog.String("environment", enviroment),
	)
}

// FromLambdaContext returns log annotated with the invocation's request ID and
// function ARN when ctx carries a Lambda context. Otherwise log is returned
// unchanged.
func FromLambdaContext(ctx context.Context, log *slog.Logger) *slog.Logger {
	lc, ok := lambdacontext.FromContext(ctx)
	if !ok {
		return log
	}

	return log.With(
		slog.String("aws_request_id", lc.AwsRequestID),
		slog.String("function_arn", lc.InvokedFunctionArn),
	)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
