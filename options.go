package table

import (
	"io"

	"github.com/charmbracelet/log"
)

var discardLogger = log.New(io.Discard)

type options struct {
	logger *log.Logger
}

// Option configures a Table created by New.
type Option func(*options)

// WithLogger makes the table report rehashes to l at debug level.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
