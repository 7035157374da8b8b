// Package pipeline runs the generation cycle as an ordered list of steps.
//
// The default pipeline fetches the collection page, extracts its items,
// renders the Lua file, writes it and records the run in the history
// database. Every step receives the same model.Run and fills in its part.
// A failing step stops the pipeline, so nothing is written when the fetch
// or the extraction fails.
//
// Generator wraps a pipeline for callers that may request the same
// collection concurrently: requests for one collection identifier share a
// single in-flight cycle.
package pipeline
