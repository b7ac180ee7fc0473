//go:build !statsview

package statsview

import "github.com/retroenv/retrogolib/log"

// Launch logs that the statistics server is not compiled in.
func Launch(logger *log.Logger) {
	logger.Warn("Stats server not available, rebuild with the statsview build tag")
}

// Available returns whether the statistics server is compiled in.
func Available() bool {
	return false
}
