// Package keypool rotates requests across a fixed set of API credentials.
package keypool

import (
	"errors"
	"strings"
	"sync/atomic"
)

// ErrNoKeys is returned when a pool is built without any usable key.
var ErrNoKeys = errors.New("keypool: no API keys configured")

// Pool hands out keys round-robin. It is safe for concurrent use.
type Pool struct {
	keys   []string
	cursor atomic.Uint64
}

// New builds a pool from keys, ignoring blank entries.
func New(keys []string) (*Pool, error) {
	cleaned := make([]string, 0, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			cleaned = append(cleaned, k)
		}
	}
	if len(cleaned) == 0 {
		return nil, ErrNoKeys
	}
	return &Pool{keys: cleaned}, nil
}

// Next returns the next key in rotation.
func (p *Pool) Next() string {
	n := p.cursor.Add(1) - 1
	return p.keys[n%uint64(len(p.keys))]
}

// Size reports how many keys are in rotation.
func (p *Pool) Size() int {
	return len(p.keys)
}
