// Package loader retrieves syndication feeds over HTTP and keeps one cached
// copy of the raw response body per feed URL so a previously seen feed stays
// readable while offline.
package loader

import (
	"bytes"
	"io"
	"log"
	"net/http"

	"github.com/mmcdole/gofeed"
	"github.com/piraces/feedstash/pkg/metrics"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Transport issues an HTTP GET for a feed URL. A non-nil error means a
// protocol or I/O fault, which is distinct from a non-OK status code.
// Implementations must be safe for concurrent use.
type Transport interface {
	Get(url string) (*Response, error)
	Close() error
}

// Response is the subset of an HTTP response the loader inspects. Body is
// nil when the server sent no readable body.
type Response struct {
	StatusCode int
	Status     string
	Body       io.ReadCloser
}

// Parser decodes a feed document. Implementations must be safe for
// concurrent use.
type Parser interface {
	Parse(r io.Reader) (*gofeed.Feed, error)
}

// CacheStore persists raw feed bodies keyed by slot name. A slot holds at
// most one body; the newest write overwrites.
type CacheStore interface {
	Write(slot string, data []byte) error
	Read(slot string) ([]byte, error)
}

// ConnectivityOracle answers whether the network is usable right now. It is
// consulted at most once per Load.
type ConnectivityOracle interface {
	IsConnected() bool
}

// OracleFunc adapts a plain function to a ConnectivityOracle.
type OracleFunc func() bool

func (f OracleFunc) IsConnected() bool { return f() }

// SlotResolver maps a feed URL to a cache slot name. An empty string means
// the URL has no slot and nothing will be cached for it.
type SlotResolver interface {
	Resolve(url string) string
}

// SlotResolverFunc adapts a plain function to a SlotResolver.
type SlotResolverFunc func(url string) string

func (f SlotResolverFunc) Resolve(url string) string { return f(url) }

// Loader fetches feeds, preferring the network and degrading to the cached
// copy. Load may be called concurrently; there is no deduplication, so two
// concurrent loads of the same URL may both fetch and race to overwrite the
// same slot (last writer wins, the cache holds advisory data only).
type Loader struct {
	transport Transport
	parser    Parser
	store     CacheStore
	oracle    ConnectivityOracle
	resolver  SlotResolver
}

type Option func(*Loader)

// WithConnectivityOracle installs the caller's network-state callback.
// Without one the loader assumes it is connected.
func WithConnectivityOracle(oracle ConnectivityOracle) Option {
	return func(l *Loader) {
		l.oracle = oracle
	}
}

// WithSlotResolver installs the caller's URL-to-slot mapping. Without one no
// feed is ever cached and offline loads return nothing.
func WithSlotResolver(resolver SlotResolver) Option {
	return func(l *Loader) {
		l.resolver = resolver
	}
}

func New(transport Transport, parser Parser, store CacheStore, opts ...Option) *Loader {
	l := &Loader{
		transport: transport,
		parser:    parser,
		store:     store,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load fetches and parses the feed at url. When the oracle reports no
// connectivity, or when the server answers OK with no readable body, the
// cached copy is served instead; a never-cached feed yields (nil, nil).
// A non-OK status is reported as *RemoteError and is never retried here;
// retry policy belongs to the caller. Transport and cache-write faults are
// fatal and never fall back to the cache.
func (l *Loader) Load(url string) (*gofeed.Feed, error) {
	metrics.LoadRequests.Inc()

	connected := true
	if l.oracle != nil {
		connected = l.oracle.IsConnected()
	}

	if !connected {
		feed := l.loadCached(l.resolveSlot(url))
		return l.defaultLink(feed, url), nil
	}

	slot := l.resolveSlot(url)

	metrics.FetchRequests.Inc()
	resp, err := l.transport.Get(url)
	if err != nil {
		metrics.AppErrors.With(prometheus.Labels{"type": "TRANSPORT"}).Inc()
		return nil, errors.Wrapf(err, "error fetching feed at url %q", url)
	}
	defer closeQuietly(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, &RemoteError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	if resp.Body == nil {
		// No readable body is a soft failure, same as being offline.
		feed := l.loadCached(slot)
		return l.defaultLink(feed, url), nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.AppErrors.With(prometheus.Labels{"type": "TRANSPORT"}).Inc()
		return nil, errors.Wrapf(err, "error reading feed body at url %q", url)
	}

	feed, err := l.parseAndCache(raw, slot)
	if err != nil {
		return nil, err
	}

	return l.defaultLink(feed, url), nil
}

// Close releases the transport's connection resources. Load must not be
// called afterwards.
func (l *Loader) Close() error {
	return l.transport.Close()
}

// parseAndCache hands the buffered body to the parser and persists the same
// bytes to the slot. The cache write does not depend on the parse outcome:
// both consumers read from the one buffer, since the transport stream is not
// rewindable.
func (l *Loader) parseAndCache(raw []byte, slot string) (*gofeed.Feed, error) {
	feed, parseErr := l.parser.Parse(bytes.NewReader(raw))

	if slot != "" {
		if err := l.store.Write(slot, raw); err != nil {
			metrics.AppErrors.With(prometheus.Labels{"type": "CACHE_WRITE"}).Inc()
			return nil, errors.Wrap(err, "error caching feed body")
		}
	}

	if parseErr != nil {
		metrics.AppErrors.With(prometheus.Labels{"type": "PARSE"}).Inc()
		return nil, errors.Wrap(parseErr, "error parsing feed")
	}

	return feed, nil
}

// loadCached serves the slot's bytes on a best-effort basis. Read and parse
// failures are logged and swallowed: the fallback offers whatever it has,
// which may be nothing.
func (l *Loader) loadCached(slot string) *gofeed.Feed {
	if slot == "" {
		return nil
	}

	raw, err := l.store.Read(slot)
	if err != nil {
		log.Printf("[DEBUG] no cached copy for slot %q: %v", slot, err)
		metrics.CacheMiss.Inc()
		return nil
	}

	feed, err := l.parser.Parse(bytes.NewReader(raw))
	if err != nil {
		log.Printf("[ERROR] failure to parse cached feed: %v", err)
		metrics.AppErrors.With(prometheus.Labels{"type": "CACHE_PARSE"}).Inc()
		return nil
	}

	metrics.CacheHits.Inc()
	metrics.FallbackReads.Inc()
	return feed
}

func (l *Loader) resolveSlot(url string) string {
	if l.resolver == nil {
		return ""
	}
	return l.resolver.Resolve(url)
}

// defaultLink sets the canonical link to the requested URL when the parsed
// document did not carry one.
func (l *Loader) defaultLink(feed *gofeed.Feed, url string) *gofeed.Feed {
	if feed != nil && feed.Link == "" {
		feed.Link = url
	}
	return feed
}

func closeQuietly(c io.Closer) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		log.Printf("[DEBUG] failure to close response body: %v", err)
	}
}
