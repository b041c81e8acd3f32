package utils

// EmptyString represents a reusable empty string constant.
const EmptyString = ""

// ErrorLogFormat defines the formatting string for error log messages.
const ErrorLogFormat = "Error: %v"

// LoggerInitializationFailedMessageFormat formats logger construction failures.
const LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"

// Shared file and directory names used across the folderwalk CLI.
const (
	// ApplicationName is the canonical binary name.
	ApplicationName = "folderwalk"
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "folderwalk.yaml"
	// GlobalConfigDirectoryName is the directory under the user's home holding the global configuration file.
	GlobalConfigDirectoryName = ".folderwalk"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
	// DefaultOutputFileName is the artifact written into the walked root unless stdout output is requested.
	DefaultOutputFileName = "files.txt"
)
