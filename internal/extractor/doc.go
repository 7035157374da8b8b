// Package extractor reads the collection title and entries out of a
// Steam Workshop collection page.
//
// Only two class selectors are used: .workshopItemTitle for the title and
// .collectionItemDetails for the entries. Document order is preserved and
// duplicate entries are kept.
package extractor
