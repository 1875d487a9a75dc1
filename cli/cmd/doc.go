// Package cmd implements the confxml subcommands.
//
// Every command reads one or more sources ("-" for stdin), parses them as a
// single document, and writes to standard output unless told otherwise.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"

	// ConfigDictionary is the dictionary of the configuration file holding
	// flag defaults.
	ConfigDictionary = "CONFIG"
)
