package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nao1215/workshopgen/internal/model"
	"golang.org/x/net/html"
)

// CSS selectors of the two containers the extractor relies on.
const (
	// TitleSelector matches the element holding the collection title.
	// The first match on the page is the collection itself.
	TitleSelector = ".workshopItemTitle"

	// ItemSelector matches one container per collection entry.
	ItemSelector = ".collectionItemDetails"

	// linkSelector matches the entry hyperlink inside an item container.
	linkSelector = "a[href]"
)

// Extractor turns a collection page into a model.Collection.
type Extractor struct {
	// baseURL is stripped from item links to obtain their identifiers.
	baseURL string

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// New creates an Extractor that strips baseURL from item links.
func New(baseURL string, opts ...Option) *Extractor {
	e := &Extractor{
		baseURL: baseURL,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Extract parses page and returns its collection.
// collectionID is recorded on the result as given.
func (e *Extractor) Extract(ctx context.Context, collectionID string, page *model.Page) (*model.Collection, error) {
	root, err := html.Parse(strings.NewReader(page.Body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", page.URL, err)
	}
	doc := goquery.NewDocumentFromNode(root)

	title, err := e.title(doc, page.URL)
	if err != nil {
		return nil, err
	}

	containers := doc.Find(ItemSelector)
	e.logger.InfoContext(ctx, fmt.Sprintf("Found %d different collection items...", containers.Length()))

	collection := model.NewCollection(collectionID, title, page.URL)

	var itemErr error
	containers.EachWithBreak(func(i int, container *goquery.Selection) bool {
		link := container.Find(linkSelector).First()
		if link.Length() == 0 {
			itemErr = &MalformedItemError{URL: page.URL, Index: i + 1}
			return false
		}

		href, _ := link.Attr("href")
		item := model.NewItem(e.baseURL, href, link.Text())

		e.logger.InfoContext(ctx, fmt.Sprintf("%d. %s ==> %s", i+1, item.Name, href))
		collection.AddItem(item)
		return true
	})
	if itemErr != nil {
		return nil, itemErr
	}

	return collection, nil
}

// title returns the text of the first title container.
func (e *Extractor) title(doc *goquery.Document, url string) (string, error) {
	sel := doc.Find(TitleSelector).First()
	if sel.Length() == 0 {
		return "", &MissingTitleError{URL: url}
	}
	return sel.Text(), nil
}
