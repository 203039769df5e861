package app

import (
	"github.com/mmcdole/gofeed"
	"github.com/piraces/feedstash/pkg/registry"
	"github.com/pkg/errors"
)

type HandlerLoadFeed struct {
	loader FeedLoader
}

func NewHandlerLoadFeed(loader FeedLoader) *HandlerLoadFeed {
	return &HandlerLoadFeed{loader: loader}
}

// Handle returns (nil, nil) when neither the network nor the cache has
// anything to offer for the address.
func (h *HandlerLoadFeed) Handle(address registry.Address) (*gofeed.Feed, error) {
	feed, err := h.loader.Load(address.String())
	if err != nil {
		return nil, errors.Wrap(err, "error loading feed")
	}

	return feed, nil
}
