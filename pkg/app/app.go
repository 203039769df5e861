// Package app wires the loader, registry and discovery into the operations
// the HTTP surface exposes.
package app

import (
	"github.com/mmcdole/gofeed"
	"github.com/piraces/feedstash/pkg/registry"
)

type App struct {
	LoadFeed      *HandlerLoadFeed
	SubscribeFeed *HandlerSubscribeFeed
	RefreshFeeds  *HandlerRefreshFeeds
}

// FeedLoader produces a feed for a URL, from the network or from the
// offline cache. A (nil, nil) result means nothing is available.
type FeedLoader interface {
	Load(url string) (*gofeed.Feed, error)
}

// FeedRegistry keeps the subscribed feed URLs.
type FeedRegistry interface {
	Put(address registry.Address) error
	List() ([]registry.Address, error)
	Delete(address registry.Address)
}
