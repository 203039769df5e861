package app

import (
	"github.com/mmcdole/gofeed"
	"github.com/piraces/feedstash/pkg/discovery"
	"github.com/piraces/feedstash/pkg/metrics"
	"github.com/piraces/feedstash/pkg/registry"
	"github.com/pkg/errors"
)

type HandlerSubscribeFeed struct {
	loader       FeedLoader
	feedRegistry FeedRegistry
}

func NewHandlerSubscribeFeed(loader FeedLoader, feedRegistry FeedRegistry) *HandlerSubscribeFeed {
	return &HandlerSubscribeFeed{loader: loader, feedRegistry: feedRegistry}
}

// Handle resolves pageUrl to the feed it advertises, loads it once to prove
// it parses, and registers it for the refresh loop.
func (h *HandlerSubscribeFeed) Handle(pageUrl string) (*gofeed.Feed, registry.Address, error) {
	metrics.SubscribeRequests.Inc()

	feedUrl := discovery.FindFeedURL(pageUrl)
	if feedUrl == "" {
		return nil, registry.Address{}, errors.New("could not find a feed URL in there")
	}

	address, err := registry.NewAddress(feedUrl)
	if err != nil {
		return nil, registry.Address{}, errors.Wrap(err, "error creating address from feed url")
	}

	parsedFeed, err := h.loader.Load(address.String())
	if err != nil {
		return nil, registry.Address{}, errors.Wrap(err, "error parsing feed")
	}
	if parsedFeed == nil {
		return nil, registry.Address{}, errors.New("feed has nothing available yet")
	}

	if err := h.feedRegistry.Put(address); err != nil {
		return nil, registry.Address{}, errors.Wrap(err, "error saving the feed definition")
	}

	return parsedFeed, address, nil
}
