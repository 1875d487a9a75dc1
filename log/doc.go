// Package log provides a simplified structured logging interface based on
// [log/slog].
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("parse complete", slog.Int("dictionary_count", 3))
//
// The package also keeps a default logger writing to [os.Stderr], used by the
// package-level functions such as [Info] and [DebugContext]. It is
// reconfigured in place with [Config]:
//
//	log.Config(log.WithLevel(log.LevelDebug), log.WithFormat(log.FormatJSON))
//
// # Levels
//
// Five levels are supported: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. Messages below the configured level are
// discarded. The zero [Logger] discards everything, so types may embed one
// without initializing it.
//
// # Output Formats
//
// [FormatText] (default) and [FormatJSON] are supported. Text output is
// styled with lipgloss when [WithPretty] is enabled and the output is a
// terminal; otherwise it is plain.
//
// # Time Formatting
//
// [WithTimeLayout] accepts any named layout of the [time] package, such as
// "RFC3339" or "Kitchen", or a custom layout. "none" disables timestamps.
package log
