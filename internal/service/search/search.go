// Package search resolves web queries through a provider fallback
// chain fronted by a TTL cache.
package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Result is the uniform record every provider response is normalized
// into at the boundary.
type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Provider is one search backend.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string) ([]Result, error)
}

// Normalize canonicalizes a query for cache keying.
func Normalize(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

// CacheKey derives the store key for a query.
func CacheKey(query string) string {
	sum := sha256.Sum256([]byte(Normalize(query)))
	return "search:" + hex.EncodeToString(sum[:])
}
