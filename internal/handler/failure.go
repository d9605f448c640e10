package handler

import (
	"errors"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	ErrConfigMissing    = errors.New("missing configuration")
	ErrObjectStoreWrite = errors.New("failed to write object to storage")
	ErrTableWrite       = errors.New("failed to write record to table")
)

type FailureKind int

const (
	FailureConfigMissing FailureKind = iota + 1
	FailureObjectStoreWrite
	FailureTableWrite
)

func (k FailureKind) String() string {
	switch k {
	case FailureConfigMissing:
		return "config_missing"
	case FailureObjectStoreWrite:
		return "object_store_write_failed"
	case FailureTableWrite:
		return "table_write_failed"
	default:
		return "unknown"
	}
}

func (k FailureKind) sentinel() error {
	switch k {
	case FailureConfigMissing:
		return ErrConfigMissing
	case FailureObjectStoreWrite:
		return ErrObjectStoreWrite
	default:
		return ErrTableWrite
	}
}

// Failure is a write path invocation that did not complete. Err is the cause;
// both the cause and the kind's sentinel match with errors.Is.
type Failure struct {
	Kind FailureKind
	Err  error
}

func (f *Failure) Error() string {
	return f.Kind.sentinel().Error() + ": " + f.Err.Error()
}

func (f *Failure) Unwrap() []error {
	return []error{f.Kind.sentinel(), f.Err}
}

// Message is the text returned to the caller. Remote error details stay in
// the logs.
func (f *Failure) Message() string {
	if f.Kind == FailureConfigMissing {
		return ErrConfigMissing.Error() + ": " + describeConfigError(f.Err)
	}
	return f.Kind.sentinel().Error()
}

func describeConfigError(err error) string {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	sort.Strings(msgs)

	return strings.Join(msgs, "; ")
}
