// Package log builds the slog logger used by workshopgen.
//
// Progress messages go to standard error so that the console fallback on
// standard output stays machine readable. The level follows the command
// line: quiet shows errors only, verbose adds debug output such as HTTP
// request traces.
//
// Session cookies returned by the Workshop site show up in verbose request
// traces, so the handler masks cookie and authorization attributes before
// they reach the output.
package log
