package model

import "strings"

// Item is one workshop entry of a collection.
type Item struct {
	// ID is the workshop identifier taken from the item link.
	ID string `json:"id"`

	// Name is the visible text of the item link.
	Name string `json:"name"`
}

// NewItem creates an Item from a raw link target and link text.
// The base URL prefix is stripped from href to obtain the identifier.
// text is stored as given.
func NewItem(baseURL, href, text string) Item {
	return Item{
		ID:   StripBaseURL(baseURL, href),
		Name: text,
	}
}

// Collection is the scraped content of one collection page.
type Collection struct {
	// ID is the collection identifier the page was requested with.
	ID string `json:"id"`

	// Title is the collection title shown on the page.
	Title string `json:"title"`

	// URL is the collection page URL.
	URL string `json:"url"`

	// Items are the collection entries in page order. Duplicates are kept.
	Items []Item `json:"items"`
}

// NewCollection creates an empty Collection.
func NewCollection(id, title, url string) *Collection {
	return &Collection{
		ID:    id,
		Title: title,
		URL:   url,
		Items: make([]Item, 0),
	}
}

// AddItem appends an item, keeping page order.
func (c *Collection) AddItem(item Item) {
	c.Items = append(c.Items, item)
}

// Len returns the number of items.
func (c *Collection) Len() int {
	return len(c.Items)
}

// StripBaseURL removes baseURL from the front of href.
// This is plain prefix removal: href is not parsed as a URL, and stripping
// an already stripped value returns it unchanged.
func StripBaseURL(baseURL, href string) string {
	if baseURL == "" {
		return href
	}
	return strings.TrimPrefix(href, baseURL)
}
