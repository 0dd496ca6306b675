// Package logging provides a simple leveled logging interface for the
// banner cache.
//
// It supports the following log levels:
//   - TRACE: Per-banner cache traffic (loads, cache hits, texture creation)
//   - DEBUG: Verbose debugging information
//   - INFO: General operational messages
//   - WARN: Warning conditions, including user-content problems via UserLog
//   - ERROR: Error conditions
//   - FATAL: Fatal errors that terminate the application
//
// The log level is configured via the LOG_LEVEL environment variable, or
// DEBUG=true as a shortcut for the debug level.
package logging
