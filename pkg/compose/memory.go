package compose

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// MemorySource is a Source over in-process collections. Documents keep
// their insertion order unless a sort is requested.
type MemorySource struct {
	mu          sync.RWMutex
	collections map[string][]Document
	// fail holds injected errors per collection.
	fail map[string]error
}

func NewMemorySource() *MemorySource {
	return &MemorySource{
		collections: make(map[string][]Document),
		fail:        make(map[string]error),
	}
}

func (m *MemorySource) Insert(collection string, docs ...Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range docs {
		m.collections[collection] = append(m.collections[collection], cloneDoc(d))
	}
}

// Delete removes the documents matching filter and returns how many were
// removed.
func (m *MemorySource) Delete(collection string, filter Filter) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.collections[collection][:0]
	removed := 0
	for _, d := range m.collections[collection] {
		if matchAll(d, filter) {
			removed++
			continue
		}
		kept = append(kept, d)
	}
	m.collections[collection] = kept
	return removed
}

// FailWith makes every lookup on collection return err. A nil err clears it.
func (m *MemorySource) FailWith(collection string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.fail, collection)
		return
	}
	m.fail[collection] = err
}

func (m *MemorySource) Find(ctx context.Context, collection string, filter Filter, opts FindOptions) ([]Document, error) {
	matched, err := m.match(ctx, collection, filter)
	if err != nil {
		return nil, err
	}
	if len(opts.Sort) > 0 {
		sort.SliceStable(matched, func(i, j int) bool {
			for _, s := range opts.Sort {
				c := compareValues(matched[i][s.Field], matched[j][s.Field])
				if c == 0 {
					continue
				}
				if s.Direction == Ascending {
					return c < 0
				}
				return c > 0
			}
			return false
		})
	}
	if opts.Offset > 0 {
		if opts.Offset >= len(matched) {
			return []Document{}, nil
		}
		matched = matched[opts.Offset:]
	}
	if opts.Limit > 0 && len(matched) > opts.Limit {
		matched = matched[:opts.Limit]
	}
	return matched, nil
}

func (m *MemorySource) Count(ctx context.Context, collection string, filter Filter) (int64, error) {
	matched, err := m.match(ctx, collection, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(matched)), nil
}

func (m *MemorySource) Exists(ctx context.Context, collection string, filter Filter) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.fail[collection]; err != nil {
		return false, err
	}
	for _, d := range m.collections[collection] {
		if matchAll(d, filter) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemorySource) match(ctx context.Context, collection string, filter Filter) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.fail[collection]; err != nil {
		return nil, err
	}
	out := []Document{}
	for _, d := range m.collections[collection] {
		if matchAll(d, filter) {
			out = append(out, cloneDoc(d))
		}
	}
	return out, nil
}

func matchAll(d Document, filter Filter) bool {
	for _, c := range filter {
		if !matchCond(d, c) {
			return false
		}
	}
	return true
}

func matchCond(d Document, c Cond) bool {
	switch c.Op {
	case OpEq:
		return equalValues(d[c.Field], c.Value)
	case OpIn:
		for _, v := range c.Values {
			if equalValues(d[c.Field], v) {
				return true
			}
		}
		return false
	case OpMatch:
		term := strings.ToLower(fmt.Sprint(c.Value))
		for _, f := range c.Fields {
			if s, ok := d[f].(string); ok && strings.Contains(strings.ToLower(s), term) {
				return true
			}
		}
		return false
	}
	return false
}
