package restore

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/patrickmn/go-cache"

	"trmnl/internal/content"
)

// Memo keeps generated bodies in memory for a bounded time. A nil *Memo is
// valid and never hits.
type Memo struct {
	cache *cache.Cache
}

// NewMemo returns a memo with the given TTL, or nil when ttl is not positive.
func NewMemo(ttl time.Duration) *Memo {
	if ttl <= 0 {
		return nil
	}
	return &Memo{cache: cache.New(ttl, 2*ttl)}
}

// Get returns the memoized result for item.
func (m *Memo) Get(item content.Item) (Result, bool) {
	if m == nil {
		return Result{}, false
	}
	value, ok := m.cache.Get(memoKey(item))
	if !ok {
		return Result{}, false
	}
	result, ok := value.(Result)
	return result, ok
}

// Set stores result for item. Skip results are ignored.
func (m *Memo) Set(item content.Item, result Result) {
	if m == nil || result.Decision == DecisionSkip {
		return
	}
	m.cache.SetDefault(memoKey(item), result)
}

// Len reports how many unexpired entries the memo holds.
func (m *Memo) Len() int {
	if m == nil {
		return 0
	}
	return m.cache.ItemCount()
}

func memoKey(item content.Item) string {
	sum := sha256.New()
	sum.Write([]byte(item.Title))
	sum.Write([]byte{0})
	sum.Write([]byte(item.Body))
	return hex.EncodeToString(sum.Sum(nil))
}
