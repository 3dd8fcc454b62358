package middleware

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// Logger returns a Fiber access log that only records slow or failed
// requests. GitHub redelivers webhooks often enough that logging every 200
// drowns the interesting lines.
func Logger() fiber.Handler {
	return logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path}\n",
		TimeFormat: "15:04:05",
		Output:     newFilteredWriter(os.Stdout),
	})
}

// filteredWriter drops access log lines for fast, successful requests. Lines
// have the form:
//
//	"15:04:05 | 200 | 1.23ms | GET /path\n"
type filteredWriter struct {
	dest             io.Writer
	slowThreshold    time.Duration
	errorStatusFloor int
}

func newFilteredWriter(dest io.Writer) *filteredWriter {
	return &filteredWriter{
		dest:             dest,
		slowThreshold:    500 * time.Millisecond,
		errorStatusFloor: 400,
	}
}

func (w *filteredWriter) Write(p []byte) (n int, err error) {
	parts := strings.Split(string(p), " | ")
	if len(parts) < 3 {
		return w.dest.Write(p)
	}

	status, _ := strconv.Atoi(strings.TrimSpace(parts[1]))
	if status >= w.errorStatusFloor {
		return w.dest.Write(p)
	}

	latency, err := time.ParseDuration(strings.TrimSpace(parts[2]))
	if err == nil && latency >= w.slowThreshold {
		return w.dest.Write(p)
	}

	return len(p), nil
}
