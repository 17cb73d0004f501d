package app

import (
	"os"

	"parcel-dispatch/internal/config"
	"parcel-dispatch/internal/logx"
)

// NewLogger builds the process logger from the log settings.
func NewLogger(cfg *config.Config) (logx.Logger, error) {
	return logx.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)
}
