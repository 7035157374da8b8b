package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/nao1215/workshopgen/internal/model"
)

// TimestampLayout is the layout of the generation time in the header.
const TimestampLayout = "2006-01-02 15:04:05"

// Header returns the three header lines: the title comment, the
// generation time comment and an empty line.
func Header(c *model.Collection, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "-- Auto-generated workshop file of collection %s (%s)\n", c.Title, c.URL)
	fmt.Fprintf(&b, "-- Generated on %s\n", now.Format(TimestampLayout))
	b.WriteString("\n")
	return b.String()
}

// Line returns the body line of a single item, including the newline.
func Line(item model.Item) string {
	return fmt.Sprintf("resource.AddWorkshop(\"%s\") -- %s\n", item.ID, item.Name)
}

// Body returns one line per item in collection order.
func Body(c *model.Collection) string {
	var b strings.Builder
	for _, item := range c.Items {
		b.WriteString(Line(item))
	}
	return b.String()
}

// Format returns the full file content for c generated at now.
// The same collection and time always yield the same text.
func Format(c *model.Collection, now time.Time) string {
	return Header(c, now) + Body(c)
}
