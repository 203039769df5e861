package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFeedServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte("<rss><channel><title>stub</title></channel></rss>"))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestSubscribeRegistersTheDiscoveredFeed(t *testing.T) {
	server := newFeedServer(t)
	loader := newFakeLoader()
	loader.feeds[server.URL] = &gofeed.Feed{Title: "stub", Link: server.URL}
	feedRegistry := &fakeRegistry{}
	h := NewHandlerSubscribeFeed(loader, feedRegistry)

	feed, address, err := h.Handle(server.URL)

	require.NoError(t, err)
	require.NotNil(t, feed)
	assert.Equal(t, "stub", feed.Title)
	require.Len(t, feedRegistry.addresses, 1)
	assert.Equal(t, server.URL, address.String())
}

func TestSubscribeFailsWhenNoFeedCanBeDiscovered(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><head></head><body>no feed here</body></html>"))
	}))
	defer server.Close()

	h := NewHandlerSubscribeFeed(newFakeLoader(), &fakeRegistry{})

	feed, _, err := h.Handle(server.URL)

	assert.Nil(t, feed)
	assert.ErrorContains(t, err, "could not find a feed URL")
}

func TestSubscribeFailsWhenTheFeedDoesNotLoad(t *testing.T) {
	server := newFeedServer(t)
	loader := newFakeLoader()
	loader.failing[server.URL] = assert.AnError
	h := NewHandlerSubscribeFeed(loader, &fakeRegistry{})

	feed, _, err := h.Handle(server.URL)

	assert.Nil(t, feed)
	assert.Error(t, err)
}

func TestSubscribeDoesNotRegisterWhenPutFails(t *testing.T) {
	server := newFeedServer(t)
	loader := newFakeLoader()
	feedRegistry := &fakeRegistry{putErr: assert.AnError}
	h := NewHandlerSubscribeFeed(loader, feedRegistry)

	feed, _, err := h.Handle(server.URL)

	assert.Nil(t, feed)
	assert.ErrorContains(t, err, "error saving the feed definition")
}
