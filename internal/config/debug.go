package config

import (
	"os"
	"strconv"
)

// IsDebug reads RECALL_DEBUG directly, the logger is set up before any
// config struct is parsed.
func IsDebug() bool {
	v, _ := strconv.ParseBool(os.Getenv("RECALL_DEBUG"))
	return v
}
