package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/piraces/feedstash/pkg/app"
	"github.com/piraces/feedstash/pkg/converter"
	"github.com/piraces/feedstash/pkg/loader"
	"github.com/piraces/feedstash/pkg/metrics"
	"github.com/piraces/feedstash/pkg/registry"
	"github.com/pkg/errors"
)

type feedResponse struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Link        string   `json:"link"`
	ItemCount   int      `json:"item_count"`
	Items       []string `json:"items,omitempty"`
}

type subscribeResponse struct {
	FeedUrl string `json:"feed_url"`
	Title   string `json:"title"`
}

type listResponse struct {
	Count uint64   `json:"count"`
	Feeds []string `json:"feeds"`
}

func HandleFeed(w http.ResponseWriter, r *http.Request, application app.App) {
	address, ok := addressFromQuery(w, r)
	if !ok {
		return
	}

	feed, err := application.LoadFeed.Handle(address)
	if err != nil {
		writeLoadError(w, address, err)
		return
	}
	if feed == nil {
		http.Error(w, "nothing available for this feed", http.StatusNotFound)
		return
	}

	writeJSON(w, feed)
}

func HandlePreview(w http.ResponseWriter, r *http.Request, application app.App, renderer *converter.ItemRenderer) {
	metrics.PreviewRequests.Inc()

	address, ok := addressFromQuery(w, r)
	if !ok {
		return
	}

	feed, err := application.LoadFeed.Handle(address)
	if err != nil {
		writeLoadError(w, address, err)
		return
	}
	if feed == nil {
		http.Error(w, "nothing available for this feed", http.StatusNotFound)
		return
	}

	response := feedResponse{
		Title:       feed.Title,
		Description: feed.Description,
		Link:        feed.Link,
		ItemCount:   len(feed.Items),
	}
	for _, item := range feed.Items {
		response.Items = append(response.Items, renderer.Render(item))
	}

	writeJSON(w, response)
}

func HandleSubscribe(w http.ResponseWriter, r *http.Request, application app.App) {
	if r.Method != http.MethodPost {
		http.Error(w, "only POST is allowed", http.StatusMethodNotAllowed)
		return
	}

	urlParam := r.URL.Query().Get("url")
	if urlParam == "" {
		http.Error(w, "Please provide a URL in the 'url' parameter", http.StatusBadRequest)
		return
	}

	feed, address, err := application.SubscribeFeed.Handle(urlParam)
	if err != nil {
		log.Printf("[ERROR] failure to subscribe to feed at url %q: %v", urlParam, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, subscribeResponse{FeedUrl: address.String(), Title: feed.Title})
}

func HandleList(w http.ResponseWriter, r *http.Request, feedRegistry *registry.Registry) {
	count, err := feedRegistry.CountTotal()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	addresses, err := feedRegistry.List()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	response := listResponse{Count: uint64(count)}
	for _, address := range addresses {
		response.Feeds = append(response.Feeds, address.String())
	}

	writeJSON(w, response)
}

func addressFromQuery(w http.ResponseWriter, r *http.Request) (registry.Address, bool) {
	urlParam := r.URL.Query().Get("url")

	address, err := registry.NewAddress(urlParam)
	if err != nil {
		http.Error(w, "Please provide a valid URL in the 'url' parameter", http.StatusBadRequest)
		return registry.Address{}, false
	}

	return address, true
}

func writeLoadError(w http.ResponseWriter, address registry.Address, err error) {
	var remoteErr *loader.RemoteError
	if errors.As(err, &remoteErr) {
		http.Error(w, remoteErr.Error(), http.StatusBadGateway)
		return
	}

	log.Printf("[ERROR] failure to load feed at url %q: %v", address.String(), err)
	http.Error(w, "failed to load feed", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] failure to encode response: %v", err)
	}
}
