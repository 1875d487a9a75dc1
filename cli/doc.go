// Package cli contains the command line interface for confxml.
//
// # Usage
//
// Without a command, sources are converted to XML:
//
//	confxml input.txt                 # XML to stdout
//	confxml -o output.xml input.txt   # XML to output.xml
//	confxml < input.txt
//
// Other commands render, query or explore the same document:
//
//	confxml fmt json input.txt
//	confxml get SERVER.PORT input.txt
//	confxml eval 'SERVER.PORT + 1' -f input.txt
//	confxml repl input.txt
//
// # Configuration File
//
// Flag defaults are read from the file "config" in the user configuration
// directory, written in the confxml language itself. Its CONFIG dictionary
// holds one entry per flag, keyed by the flag name upper-cased without
// hyphens. "confxml init" writes the current values. A "config.json" file
// beside it is also honored.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output on a terminal
//
// # Parser Options
//
//   - --parse-max-depth: Maximum nested dictionary depth
//   - --parse-comment: Text starting a comment, empty to disable
//   - --parse-word-comments: Only a marker standing as a word outside strings
//     starts a comment
//   - --parse-nested-openers: Count nested openers like begin in nested bodies
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o confxml .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory
package cli
