package repository

import (
	"github.com/okian/rosterlens/internal/adapters/source"
	"github.com/okian/rosterlens/internal/domain/identity"
	"github.com/okian/rosterlens/pkg/logger"
)

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithLogger sets the logger used for load warnings.
func WithLogger(l logger.Logger) Option {
	return func(s *MemoryStore) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMatchMode sets how the player index matches names across tables.
func WithMatchMode(mode identity.MatchMode) Option {
	return func(s *MemoryStore) {
		s.matchMode = mode
	}
}

// WithLoadWorkers bounds the number of files parsed concurrently.
func WithLoadWorkers(n int) Option {
	return func(s *MemoryStore) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithDiscovery passes options to source discovery (directory names, categories).
func WithDiscovery(opts ...source.Option) Option {
	return func(s *MemoryStore) {
		s.discovery = append(s.discovery, opts...)
	}
}
