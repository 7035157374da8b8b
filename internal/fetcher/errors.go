package fetcher

import (
	"fmt"
	"net/http"
)

// FetchError is returned when the collection page answers with a status
// other than 200 OK.
type FetchError struct {
	// URL is the requested page URL.
	URL string

	// StatusCode is the HTTP status the server returned.
	StatusCode int
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("%s returned status %d %s, expected 200 (is the collection id correct?)",
		e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// InvalidCollectionError is returned when the page was fetched but is not
// a collection page, for example the id of a single workshop item.
type InvalidCollectionError struct {
	// URL is the requested page URL.
	URL string

	// Marker is the substring that was expected in the page.
	Marker string
}

// Error implements the error interface.
func (e *InvalidCollectionError) Error() string {
	return fmt.Sprintf("%s is not a workshop collection page (marker %q not found)", e.URL, e.Marker)
}
