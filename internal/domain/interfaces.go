package domain

import (
	"context"
	"time"
)

// Asset is a produced build artifact exposing its text
type Asset interface {
	// Source returns the asset content
	Source() ([]byte, error)
}

// RawAsset is an in-memory asset
type RawAsset []byte

// Source returns the raw bytes
func (a RawAsset) Source() ([]byte, error) {
	return a, nil
}

// StringAsset is an in-memory asset backed by a string
type StringAsset string

// Source returns the string bytes
func (a StringAsset) Source() ([]byte, error) {
	return []byte(a), nil
}

//go:generate mockgen -source=interfaces.go -destination=../mocks/interfaces_mock.go -package=mocks

// Cache defines the interface for the copy fingerprint cache
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores a value in cache with TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Has checks if a key exists in cache
	Has(ctx context.Context, key string) bool
	// Delete removes a key from cache
	Delete(ctx context.Context, key string) error
	// Close releases cache resources
	Close() error
}
