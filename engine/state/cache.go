package state

import "sort"

// Cache is a write-buffering overlay over a Writer. The engine runs every
// execute phase against a Cache and commits it only when the whole phase
// succeeded, so a handler either fully applies or leaves no trace.
type Cache struct {
	parent Writer
	// nil value marks a pending delete
	writes map[string][]byte
}

var _ Writer = (*Cache)(nil)

// NewCache returns an empty overlay over parent.
func NewCache(parent Writer) *Cache {
	return &Cache{
		parent: parent,
		writes: make(map[string][]byte),
	}
}

// Get implements Reader, consulting pending writes first.
func (c *Cache) Get(path string) ([]byte, error) {
	if value, ok := c.writes[path]; ok {
		if value == nil {
			return nil, nil
		}
		cp := make([]byte, len(value))
		copy(cp, value)
		return cp, nil
	}
	return c.parent.Get(path)
}

// Has implements Reader.
func (c *Cache) Has(path string) (bool, error) {
	if value, ok := c.writes[path]; ok {
		return value != nil, nil
	}
	return c.parent.Has(path)
}

// Set implements Writer, buffering the write.
func (c *Cache) Set(path string, value []byte) error {
	cp := make([]byte, len(value))
	copy(cp, value)
	c.writes[path] = cp
	return nil
}

// Delete implements Writer, buffering the delete.
func (c *Cache) Delete(path string) error {
	c.writes[path] = nil
	return nil
}

// Commit flushes pending writes to the parent in sorted path order, so the
// commit sequence is identical on every replica.
func (c *Cache) Commit() error {
	paths := make([]string, 0, len(c.writes))
	for path := range c.writes {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		value := c.writes[path]
		if value == nil {
			if err := c.parent.Delete(path); err != nil {
				return err
			}
			continue
		}
		if err := c.parent.Set(path, value); err != nil {
			return err
		}
	}
	c.writes = make(map[string][]byte)
	return nil
}
