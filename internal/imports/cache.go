package imports

// Cache memoizes a Scope per absolute key (spec.md §4.7 "Results are
// cached per absolute path; a second import of the same path returns
// the cached result without re-compiling"), mirroring the teacher's
// Loader.LoadedModules map in internal/modules/loader.go. Also tracks
// which keys are mid-resolution, for cycle detection
// (internal/modules/loader.go's Processing map).
type Cache struct {
	entries    map[string]Scope
	processing map[string]bool
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: map[string]Scope{}, processing: map[string]bool{}}
}

// Get returns the cached Scope for key, if any.
func (c *Cache) Get(key string) (Scope, bool) {
	sc, ok := c.entries[key]
	return sc, ok
}

// Put records sc as the result for key.
func (c *Cache) Put(key string, sc Scope) {
	c.entries[key] = sc
}

// Enter marks key as being resolved, returning false if it already
// was (a cycle).
func (c *Cache) Enter(key string) bool {
	if c.processing[key] {
		return false
	}
	c.processing[key] = true
	return true
}

// Leave clears key's in-progress marker.
func (c *Cache) Leave(key string) {
	delete(c.processing, key)
}
