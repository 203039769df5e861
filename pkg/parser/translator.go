package parser

import (
	"fmt"

	"github.com/mmcdole/gofeed"
	"github.com/mmcdole/gofeed/rss"
)

// customTranslator extends gofeed's default RSS translation by preserving
// the per-item <comments> element in Item.Custom.
type customTranslator struct {
	defaultTranslator *gofeed.DefaultRSSTranslator
}

func NewCustomTranslator() *customTranslator {
	return &customTranslator{defaultTranslator: &gofeed.DefaultRSSTranslator{}}
}

func (ct *customTranslator) Translate(feed interface{}) (*gofeed.Feed, error) {
	rssFeed, found := feed.(*rss.Feed)
	if !found {
		return nil, fmt.Errorf("feed did not match expected type of *rss.Feed")
	}

	f, err := ct.defaultTranslator.Translate(rssFeed)
	if err != nil {
		return nil, err
	}

	for i, item := range rssFeed.Items {
		if item.Comments == "" {
			continue
		}
		if f.Items[i].Custom == nil {
			f.Items[i].Custom = make(map[string]string)
		}
		f.Items[i].Custom["comments"] = item.Comments
	}

	return f, nil
}
