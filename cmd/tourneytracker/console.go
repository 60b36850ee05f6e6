package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/abrezinsky/tourneytracker/internal/logger"
)

// ANSI escape codes
const (
	reset  = "\033[0m"
	yellow = "\033[33m"
	red    = "\033[31m"
	green  = "\033[32m"
	cyan   = "\033[36m"
	bold   = "\033[1m"
)

// console maps single key presses to operator actions
type console struct {
	log      *logger.SlogLogger
	backup   func(ctx context.Context) (string, error)
	quit     chan struct{}
	quitOnce sync.Once
	out      io.Writer
}

func (c *console) printf(format string, args ...any) {
	if c.out != nil {
		fmt.Fprintf(c.out, format, args...)
		return
	}
	fmt.Printf(format, args...)
}

// listen reads keys from in until it fails or quit is requested
func (c *console) listen(in io.Reader) {
	restore := enterRawMode(in)
	defer restore()

	buf := make([]byte, 1)
	for {
		n, err := in.Read(buf)
		if err != nil {
			return
		}
		if n == 0 {
			continue
		}
		if !c.handleKey(buf[0]) {
			return
		}
	}
}

// handleKey performs the action bound to key and reports whether to keep
// listening
func (c *console) handleKey(key byte) bool {
	switch strings.ToLower(string(key)) {
	case "b":
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		path, err := c.backup(ctx)
		if err != nil {
			c.printf("%sBackup failed: %v%s\n", red, err, reset)
		} else {
			c.printf("%sBackup written to %s%s\n", green, path, reset)
		}
	case "h":
		if c.log.IsHTTPLoggingEnabled() {
			c.log.DisableHTTPLogging()
			c.printf("%sHTTP logging disabled%s\n", yellow, reset)
		} else {
			c.log.EnableHTTPLogging()
			c.printf("%sHTTP logging enabled%s\n", green, reset)
		}
	case "l":
		next := nextLogLevel(c.log.GetLevel())
		c.log.SetLevel(next)
		c.printf("%sLog level: %s%s%s\n", green, yellow, strings.ToLower(next.String()), reset)
	case "q", "\x03": // Ctrl+C arrives as a byte in raw mode
		c.printf("%sShutting down server...%s\n", yellow, reset)
		c.quitOnce.Do(func() { close(c.quit) })
		return false
	case "?":
		printKeyboardHelp()
	}
	return true
}

// nextLogLevel cycles through debug -> info -> warn -> error
func nextLogLevel(current slog.Level) slog.Level {
	switch current {
	case slog.LevelDebug:
		return slog.LevelInfo
	case slog.LevelInfo:
		return slog.LevelWarn
	case slog.LevelWarn:
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}

func printBanner(addr string) {
	fmt.Printf("\n  %s%sTourneyTracker%s %s listening on %s%s\n", bold, cyan, reset, version, addr, reset)
}

// printKeyboardHelp displays all available keyboard shortcuts
func printKeyboardHelp() {
	fmt.Printf("\n%s%s  Keyboard Shortcuts:%s\n", bold, green, reset)
	fmt.Printf("    %sb%s      - Write a backup now\n", cyan, reset)
	fmt.Printf("    %sh%s      - Toggle HTTP request logging\n", cyan, reset)
	fmt.Printf("    %sl%s      - Cycle log level (debug → info → warn → error)\n", cyan, reset)
	fmt.Printf("    %sq%s      - Quit server\n", cyan, reset)
	fmt.Printf("    %s?%s      - Show this help\n\n", cyan, reset)
}
