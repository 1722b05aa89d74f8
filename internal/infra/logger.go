// README: Structured logger construction.
package infra

import "go.uber.org/zap"

// NewLogger returns a JSON production logger on stdout, or a console
// development logger when production is false.
func NewLogger(production bool) (*zap.Logger, error) {
	if !production {
		return zap.NewDevelopment()
	}
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{"stdout"}
	return config.Build()
}
