package match

import (
	"regexp"
	"sync"
)

// patternCache compiles start-anchored patterns once and shares them.
// Safe for concurrent use.
type patternCache struct {
	mu       sync.RWMutex
	patterns map[string]*regexp.Regexp
}

func newPatternCache() *patternCache {
	return &patternCache{
		patterns: make(map[string]*regexp.Regexp),
	}
}

// compile returns pattern anchored at the start of the input only, the way a
// prefix match reads: "hipp" matches "hippocampus".
func (c *patternCache) compile(pattern string) (*regexp.Regexp, error) {
	c.mu.RLock()
	if compiled, ok := c.patterns[pattern]; ok {
		c.mu.RUnlock()
		return compiled, nil
	}
	c.mu.RUnlock()

	compiled, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.patterns[pattern] = compiled
	c.mu.Unlock()

	return compiled, nil
}
