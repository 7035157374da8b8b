package extractor

import "fmt"

// MissingTitleError is returned when the page has no title container.
type MissingTitleError struct {
	URL string
}

// Error implements the error interface.
func (e *MissingTitleError) Error() string {
	return fmt.Sprintf("no %s element found in %s", TitleSelector, e.URL)
}

// MalformedItemError is returned when an item container has no hyperlink.
type MalformedItemError struct {
	URL string

	// Index is the 1-based position of the container on the page.
	Index int
}

// Error implements the error interface.
func (e *MalformedItemError) Error() string {
	return fmt.Sprintf("collection item %d in %s has no link", e.Index, e.URL)
}
