// ABOUTME: Logger package documentation
// ABOUTME: Describes the zap and lumberjack setup shared by binaries
// Package logger builds the zap loggers used by the command-line tools.
// Library packages never log through it; binaries construct one logger in
// main and pass it down.
package logger
