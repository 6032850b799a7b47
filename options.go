package rider

import (
	"go.uber.org/zap"

	"github.com/tsawler/rider/clause"
)

// Options holds configuration shared by every edit on a Contract.
type Options struct {
	logger *zap.Logger

	// Skip content sniffing on open
	skipFormatCheck bool
}

// defaultOptions returns the default options: no logging, content checked.
func defaultOptions() Options {
	return Options{
		logger: zap.NewNop(),
	}
}

// clauseOptions converts o into options for the clause package.
func (o Options) clauseOptions() []clause.Option {
	return []clause.Option{clause.WithLogger(o.logger)}
}
