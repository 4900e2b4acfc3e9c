package fix

import (
	"log/slog"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
)

var logger = slog.New(zapslog.NewHandler(zap.Must(zap.NewProduction()).Core()))

// SetLogger allows setting a custom logger
func SetLogger(l *slog.Logger) {
	logger = l
}
