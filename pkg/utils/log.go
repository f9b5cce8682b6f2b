package utils

import (
	"flag"
	"log/slog"
	"os"
	"strings"
)

var (
	logLevelFlag  = flag.String("log_level", "info", "Log level: debug/info/warn/error")
	logFormatFlag = flag.String("log_format", "json", "Log output format: json/text")
)

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// InitLogging configures the default slog logger from the --log_level and
// --log_format flags. Must be called after flag.Parse().
func InitLogging() {
	level, ok := logLevels[strings.ToLower(*logLevelFlag)]
	if !ok {
		RaiseInvariant("log", "unsupported_log_level", "Got an unsupported log level.",
			"logLevel", *logLevelFlag)
		level = slog.LevelInfo
	}

	options := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch format := strings.ToLower(*logFormatFlag); format {
	case "text":
		handler = slog.NewTextHandler(os.Stdout, options)
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, options)
	default:
		RaiseInvariant("log", "unsupported_log_format", "Got an unsupported log format.",
			"logFormat", format)
		handler = slog.NewJSONHandler(os.Stdout, options)
	}

	// `SetDefault` is safe to call from multiple goroutines.
	slog.SetDefault(slog.New(handler))
	slog.Debug("Log handler configured successfully.", "format", *logFormatFlag, "level", *logLevelFlag)
}
