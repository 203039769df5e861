// Package parser decodes RSS, Atom and JSON feed documents with gofeed.
package parser

import (
	"io"

	"github.com/mmcdole/gofeed"
	"github.com/pkg/errors"
)

const defaultMaxDocumentSize = 10 << 20

// Config tweaks the parser's capacity limits.
type Config struct {
	// MaxDocumentSize caps how many bytes of a document are read. Zero
	// applies the default cap.
	MaxDocumentSize int64
}

// FeedParser is safe for concurrent use.
type FeedParser struct {
	fp      *gofeed.Parser
	maxSize int64
}

func New(config Config) *FeedParser {
	fp := gofeed.NewParser()
	fp.RSSTranslator = NewCustomTranslator()

	maxSize := config.MaxDocumentSize
	if maxSize <= 0 {
		maxSize = defaultMaxDocumentSize
	}

	return &FeedParser{fp: fp, maxSize: maxSize}
}

func (p *FeedParser) Parse(r io.Reader) (*gofeed.Feed, error) {
	feed, err := p.fp.Parse(io.LimitReader(r, p.maxSize))
	if err != nil {
		return nil, errors.Wrap(err, "error parsing the feed document")
	}

	return feed, nil
}
