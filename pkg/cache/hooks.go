package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/timestack/pkg/observability"
)

type hooked struct {
	Cache
}

// WithHooks reports c's hits, misses and writes to the registered
// observability cache hooks. The key type passed to the hooks is the key's
// kind prefix, such as "ticks".
func WithHooks(c Cache) Cache {
	return hooked{Cache: c}
}

func (h hooked) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := h.Cache.Get(ctx, key)
	if err == nil {
		if ok {
			observability.Cache().OnCacheHit(ctx, keyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, keyType(key))
		}
	}
	return data, ok, err
}

func (h hooked) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := h.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	return nil
}

// keyType returns the kind segment of a key, skipping any scope prefix.
func keyType(key string) string {
	for _, kind := range []string{"ticks", "measure"} {
		if strings.Contains(key, kind+":") {
			return kind
		}
	}
	return "other"
}
