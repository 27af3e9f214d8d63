package portalclient

import "sync"

// Entity names the cacheable resource families. The names double as the API
// path segments.
type Entity string

const (
	EntityCompany     Entity = "company"
	EntityDepartment  Entity = "department"
	EntityJob         Entity = "job"
	EntityApplication Entity = "application"
	EntityInterview   Entity = "interview"
	EntityPredicted   Entity = "predicted-candidates"
)

// QueryKey identifies one cached read. ID zero means the list query.
type QueryKey struct {
	Entity Entity
	ID     uint
}

type cacheEntry struct {
	value any
	stale bool
}

// QueryCache holds last-fetched values with a staleness flag. Stale entries
// are kept and refetched on next read rather than evicted, so readers can
// still show the previous value while refreshing.
type QueryCache struct {
	mu      sync.Mutex
	entries map[QueryKey]cacheEntry
}

func NewQueryCache() *QueryCache {
	return &QueryCache{entries: map[QueryKey]cacheEntry{}}
}

// Get returns the cached value and whether it is still fresh.
func (c *QueryCache) Get(key QueryKey) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return e.value, !e.stale
}

func (c *QueryCache) Put(key QueryKey, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value}
}

// Stale reports whether key is present and flagged stale.
func (c *QueryCache) Stale(key QueryKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return ok && e.stale
}

// MarkEntityStale flags the list query and every detail query of entity.
func (c *QueryCache) MarkEntityStale(entity Entity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if key.Entity == entity {
			e.stale = true
			c.entries[key] = e
		}
	}
	// The list key goes stale even if nothing cached it yet, so a later
	// subscriber sees the flag.
	list := QueryKey{Entity: entity}
	if _, ok := c.entries[list]; !ok {
		c.entries[list] = cacheEntry{stale: true}
	}
}
