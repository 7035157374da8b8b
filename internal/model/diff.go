package model

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Rename records an item whose name changed while its ID stayed the same.
type Rename struct {
	ID      string `json:"id"`
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
}

// CollectionDiff describes how a collection changed between two runs.
type CollectionDiff struct {
	// Added are items present only in the newer collection, in its order.
	Added []Item `json:"added"`

	// Removed are items present only in the older collection, in its order.
	Removed []Item `json:"removed"`

	// Renamed are items present in both with different names.
	Renamed []Rename `json:"renamed"`

	// Reordered is true when the shared items appear in a different order.
	Reordered bool `json:"reordered"`
}

// HasChanges reports whether the diff contains any change.
func (d *CollectionDiff) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0 || len(d.Renamed) > 0 || d.Reordered
}

// DiffCollections compares two collections by item ID.
// Either side may be nil, which is treated as an empty collection.
// Duplicate IDs are compared by their first occurrence. Names that differ
// only in surrounding whitespace or Unicode normalization are not renames.
func DiffCollections(older, newer *Collection) *CollectionDiff {
	diff := &CollectionDiff{
		Added:   make([]Item, 0),
		Removed: make([]Item, 0),
		Renamed: make([]Rename, 0),
	}

	oldItems := itemsOf(older)
	newItems := itemsOf(newer)

	oldByID := firstByID(oldItems)
	newByID := firstByID(newItems)

	seen := make(map[string]bool, len(newItems))
	for _, item := range newItems {
		if seen[item.ID] {
			continue
		}
		seen[item.ID] = true

		prev, ok := oldByID[item.ID]
		switch {
		case !ok:
			diff.Added = append(diff.Added, item)
		case !sameName(prev.Name, item.Name):
			diff.Renamed = append(diff.Renamed, Rename{ID: item.ID, OldName: prev.Name, NewName: item.Name})
		}
	}

	seen = make(map[string]bool, len(oldItems))
	for _, item := range oldItems {
		if seen[item.ID] {
			continue
		}
		seen[item.ID] = true

		if _, ok := newByID[item.ID]; !ok {
			diff.Removed = append(diff.Removed, item)
		}
	}

	diff.Reordered = sharedOrderChanged(oldItems, newItems, oldByID, newByID)

	return diff
}

func sameName(a, b string) bool {
	return norm.NFC.String(strings.TrimSpace(a)) == norm.NFC.String(strings.TrimSpace(b))
}

func itemsOf(c *Collection) []Item {
	if c == nil {
		return nil
	}
	return c.Items
}

func firstByID(items []Item) map[string]Item {
	m := make(map[string]Item, len(items))
	for _, item := range items {
		if _, ok := m[item.ID]; !ok {
			m[item.ID] = item
		}
	}
	return m
}

// sharedOrderChanged compares the relative order of IDs present on both sides.
func sharedOrderChanged(oldItems, newItems []Item, oldByID, newByID map[string]Item) bool {
	shared := func(items []Item, other map[string]Item) []string {
		seen := make(map[string]bool)
		ids := make([]string, 0, len(items))
		for _, item := range items {
			if _, ok := other[item.ID]; ok && !seen[item.ID] {
				seen[item.ID] = true
				ids = append(ids, item.ID)
			}
		}
		return ids
	}

	a := shared(oldItems, newByID)
	b := shared(newItems, oldByID)
	for i := range a {
		if a[i] != b[i] {
			return true
		}
	}
	return false
}
