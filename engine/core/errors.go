package core

import (
	"errors"
)

var (
	ErrEngineShuttingDown = errors.New("engine is shutting down")
	ErrUnknown            = errors.New("unknown")
)
