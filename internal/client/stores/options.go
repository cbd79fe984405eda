package stores

import (
	"errors"

	"github.com/dmitrijs2005/bhojanbox/internal/client/client"
	"github.com/dmitrijs2005/bhojanbox/internal/logging"
)

type options struct {
	logger logging.Logger
}

type Option func(*options)

func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(opts []Option) options {
	o := options{logger: logging.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// errorMessage is the human-readable text kept in LastError.
func errorMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
