package app

import (
	"context"
	"log"

	"github.com/hashicorp/go-multierror"
	"github.com/piraces/feedstash/pkg/metrics"
	"github.com/piraces/feedstash/pkg/registry"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const numWorkers = 10

type HandlerRefreshFeeds struct {
	deleteFailingFeeds bool

	loader       FeedLoader
	feedRegistry FeedRegistry
}

func NewHandlerRefreshFeeds(deleteFailingFeeds bool, loader FeedLoader, feedRegistry FeedRegistry) *HandlerRefreshFeeds {
	return &HandlerRefreshFeeds{
		deleteFailingFeeds: deleteFailingFeeds,
		loader:             loader,
		feedRegistry:       feedRegistry,
	}
}

// Handle loads every registered feed once so each cache slot holds a recent
// body before the network goes away.
func (h *HandlerRefreshFeeds) Handle(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	addresses, err := h.feedRegistry.List()
	if err != nil {
		return errors.Wrap(err, "error getting feed definitions")
	}

	chIn := make(chan registry.Address)
	chOut := make(chan addressWithError)

	go func() {
		for _, address := range addresses {
			address := address
			select {
			case chIn <- address:
				continue
			case <-ctx.Done():
				return
			}
		}
	}()

	h.startWorkers(ctx, chIn, chOut)

	counterSuccess := 0
	counterError := 0

	var resultErr error
	for i := 0; i < len(addresses); i++ {
		select {
		case result := <-chOut:
			if err := result.Err; err != nil {
				resultErr = multierror.Append(resultErr, err)
				counterError++
				if h.deleteFailingFeeds {
					h.feedRegistry.Delete(result.Address)
				}
			} else {
				counterSuccess++
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	metrics.RefreshResults.With(prometheus.Labels{"result": "success"}).Set(float64(counterSuccess))
	metrics.RefreshResults.With(prometheus.Labels{"result": "error"}).Set(float64(counterError))
	log.Printf("[INFO] refreshing feeds result success=%d error=%d", counterSuccess, counterError)

	return resultErr
}

func (h *HandlerRefreshFeeds) startWorkers(ctx context.Context, chIn chan registry.Address, chOut chan addressWithError) {
	for i := 0; i < numWorkers; i++ {
		go h.startWorker(ctx, chIn, chOut)
	}
}

func (h *HandlerRefreshFeeds) startWorker(ctx context.Context, chIn chan registry.Address, chOut chan addressWithError) {
	for {
		select {
		case address := <-chIn:
			err := h.refreshFeed(address)
			select {
			case chOut <- addressWithError{
				Address: address,
				Err:     err,
			}:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (h *HandlerRefreshFeeds) refreshFeed(address registry.Address) error {
	if _, err := h.loader.Load(address.String()); err != nil {
		return errors.Wrapf(err, "error refreshing feed '%s'", address.String())
	}

	return nil
}

type addressWithError struct {
	Address registry.Address
	Err     error
}
