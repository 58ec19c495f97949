// Package rdns annotates hosts with their reverse DNS name. Answers, including
// negative ones, are cached so repeated sweeps of the same range stay cheap.
package rdns

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/projectdiscovery/gcache"
)

// Resolver looks up PTR names through an LRU cache.
type Resolver struct {
	cache   gcache.Cache[string, string]
	timeout time.Duration
	lookup  func(ctx context.Context, addr string) ([]string, error)
}

// New returns a resolver caching up to size answers for ttl.
func New(size int, ttl, timeout time.Duration) *Resolver {
	return &Resolver{
		cache:   gcache.New[string, string](size).LRU().Expiration(ttl).Build(),
		timeout: timeout,
		lookup:  net.DefaultResolver.LookupAddr,
	}
}

// Lookup returns the first PTR name for ip without the trailing dot, or an
// empty string when there is none.
func (r *Resolver) Lookup(ctx context.Context, ip string) string {
	if name, err := r.cache.Get(ip); err == nil {
		return name
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	names, err := r.lookup(ctx, ip)
	if err != nil && !isNotFound(err) {
		// transient failures are not cached
		return ""
	}
	name := ""
	if len(names) > 0 {
		name = strings.TrimSuffix(names[0], ".")
	}
	_ = r.cache.Set(ip, name)
	return name
}

func isNotFound(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr) && dnsErr.IsNotFound
}
