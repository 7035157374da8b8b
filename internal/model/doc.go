// Package model defines the core data structures used throughout workshopgen.
//
// This package contains the following main types:
//   - Page: the fetched collection page
//   - Collection and Item: the scraped collection and its entries
//   - Run: the state of one fetch/extract/format/write cycle
//   - CollectionDiff: what changed between two collections
//
// The models live in their own package because fetcher, extractor, format,
// pipeline, database and report all share them.
package model
