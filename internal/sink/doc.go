// Package sink writes generated output to a file, falling back to the
// console when the file cannot be opened.
package sink
