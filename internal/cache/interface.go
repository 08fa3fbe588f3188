package cache

import (
	"github.com/lineCode/import-weapp-component/internal/domain"
)

// Ensure BadgerCache implements domain.Cache
var _ domain.Cache = (*BadgerCache)(nil)

// Options contains cache configuration options
type Options struct {
	// Directory holds the database; empty uses ~/.wxcomp/cache
	Directory string
	InMemory  bool
	// Logger enables badger's own logging
	Logger bool
}

// DefaultOptions returns default cache options
func DefaultOptions() Options {
	return Options{
		Directory: "",
		InMemory:  false,
		Logger:    false,
	}
}
