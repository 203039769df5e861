package cache

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/piraces/feedstash/pkg/loader"
)

// SlotFromURL derives a deterministic slot name for a feed URL. The sha256
// hex form is safe to use as a file name or a table key.
func SlotFromURL(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

// NewSlotResolver resolves every URL to its SlotFromURL name.
func NewSlotResolver() loader.SlotResolver {
	return loader.SlotResolverFunc(SlotFromURL)
}
