package state

import (
	"os"
	"time"

	"go.uber.org/zap"
)

// newLocalEnv creates a new LocalEnv instance with default values: results go
// to stdout and nothing is logged until configuration is loaded.
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		Log:   zap.NewNop(),
		Out:   os.Stdout,
		start: time.Now(),
	}
}
