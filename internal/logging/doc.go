// Package logging constructs the slog loggers used throughout aircheck and
// provides small typed attribute helpers.
package logging
