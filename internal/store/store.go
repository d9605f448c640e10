package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
)

// Record is the item written to the table for each identifier.
type Record struct {
	ID string `dynamodbav:"id"`
}

type ObjectWriter interface {
	PutObject(ctx context.Context, bucket, key string, body []byte) error
}

type ObjectDeleter interface {
	DeleteObject(ctx context.Context, bucket, key string) error
}

type RecordWriter interface {
	PutRecord(ctx context.Context, table string, rec Record) error
}

const (
	TargetS3       = "s3"
	TargetDynamoDB = "dynamodb"
)

// Error describes a failed remote call.
type Error struct {
	Op     string
	Target string
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s %s: %s: %v", e.Target, e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Target, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Unreachable reports whether the call failed before the service answered.
func (e *Error) Unreachable() bool {
	switch e.Code {
	case request.ErrCodeRequestError, request.ErrCodeResponseTimeout, request.CanceledErrorCode:
		return true
	}
	return false
}

func wrap(target, op string, err error) error {
	if err == nil {
		return nil
	}

	e := &Error{Op: op, Target: target, Err: err}

	var aerr awserr.Error
	if errors.As(err, &aerr) {
		e.Code = aerr.Code()
	}

	return e
}
