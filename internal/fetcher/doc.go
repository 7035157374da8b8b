// Package fetcher downloads a Steam Workshop collection page.
//
// A Fetcher performs exactly one GET per call. It has no retries and no
// timeout of its own; cancellation comes from the caller's context. A
// response is accepted only when the status is 200 and the body carries
// the collection marker, which rejects single-item pages passed in place
// of a collection.
package fetcher
