package cache

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"time"
)

// DefaultTTL keeps cached responses for a day; ingestion clears the
// namespace anyway, so staleness is bounded by whichever comes first.
const DefaultTTL = 24 * time.Hour

// Store is a response cache for GET endpoints. Implementations must treat
// failures as soft: callers log and fall through to the database.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Clear drops every key in the store's namespace.
	Clear(ctx context.Context) error
}

// Key builds a canonical cache key from the request line. Query parameters
// are sorted by name and, within a name, by value, so the two spellings of
// the same query share an entry.
func Key(method, path string, params url.Values) string {
	var b strings.Builder
	b.WriteString(strings.ToUpper(method))
	b.WriteByte(':')
	b.WriteString(path)

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		values := append([]string(nil), params[name]...)
		sort.Strings(values)
		for _, v := range values {
			b.WriteByte(':')
			b.WriteString(name)
			b.WriteByte('=')
			b.WriteString(v)
		}
	}
	return b.String()
}
