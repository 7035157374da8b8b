// Package report renders the generation history.
//
// Three writers cover the history subcommand: SimpleWriter for the
// terminal, MarkdownWriter for sharing and JSONWriter for scripts. Each can
// render the list of recorded collections, the runs of one collection and
// the difference between two runs.
package report
