package services

import (
	"errors"
	"io"
	"time"

	"github.com/clintmariano/careerlog/internal/models"
	"github.com/clintmariano/careerlog/internal/utils"
	"github.com/sirupsen/logrus"
)

// TotalCountSince is the cutoff used for the "total applications" figure.
var TotalCountSince = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

type Option func(*options)

type options struct {
	now func() time.Time
	log logrus.FieldLogger
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) { o.log = l }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, fn := range opts {
		fn(&o)
	}
	if o.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		o.log = l
	}
	return o
}

// wrap maps repository and model errors onto the AppError contract. Errors
// that already are AppErrors pass through untouched.
func wrap(op, entity, msg string, err error) error {
	if err == nil {
		return nil
	}
	var ae *utils.AppError
	switch {
	case errors.As(err, &ae):
		return err
	case errors.Is(err, utils.ErrNotFound):
		return utils.NotFoundOrDenied(op, entity)
	case errors.Is(err, utils.ErrDuplicate):
		return utils.E(utils.CodeConflict, op, "duplicate "+entity+" already exists", err)
	case models.IsValidation(err):
		return utils.E(utils.CodeInvalidArgument, op, err.Error(), err)
	default:
		return utils.E(utils.CodeInternal, op, msg, err)
	}
}

func requireUser(op, userID string) error {
	if userID == "" {
		return utils.E(utils.CodeUnauthorized, op, "user_id is required", nil)
	}
	return nil
}
