package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes carried by the errors Handler.Execute returns.
const (
	CodeInvalidMessage = "PAGELIST_COMMAND_INVALID"
	CodeCanceled       = "PAGELIST_COMMAND_CANCELED"
	CodeTimeout        = "PAGELIST_COMMAND_TIMEOUT"
	CodeContext        = "PAGELIST_COMMAND_CONTEXT"
	CodeFailed         = "PAGELIST_COMMAND_FAILED"
)

type failure struct {
	category goerrors.Category
	code     string
	message  string
}

var (
	rejected = failure{goerrors.CategoryValidation, CodeInvalidMessage, "pagelist command rejected"}
	failed   = failure{goerrors.CategoryCommand, CodeFailed, "pagelist command failed"}
)

func contextFailure(err error) failure {
	switch {
	case errors.Is(err, context.Canceled):
		return failure{goerrors.CategoryCommand, CodeCanceled, "pagelist command cancelled"}
	case errors.Is(err, context.DeadlineExceeded):
		return failure{goerrors.CategoryCommand, CodeTimeout, "pagelist command timed out"}
	default:
		return failure{goerrors.CategoryCommand, CodeContext, "pagelist command context error"}
	}
}

// wrap categorises err. Errors already wrapped by go-errors keep their category.
func (f failure) wrap(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, f.category, f.message).WithTextCode(f.code)
}
