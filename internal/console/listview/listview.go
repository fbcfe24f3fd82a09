package listview

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/vova4o/labconsole/internal/console/models"
)

// Options configure a ListView
type Options[T models.Entity] struct {
	// PageSize defaults to 5
	PageSize int
	// Field is the value the search term is matched against
	Field func(T) string
	// Filter keeps an item for a non-empty filter key
	Filter func(item T, key string) bool
	// Less orders the collection after every refresh
	Less func(a, b T) bool
	// Fetch loads the full collection
	Fetch func(ctx context.Context) ([]T, error)
}

// ListView holds a fetched collection and its searched, filtered and paged view
type ListView[T models.Entity] struct {
	opts Options[T]

	mu        sync.RWMutex
	items     []T
	search    string
	filter    string
	page      int
	listeners []listener
	nextID    int
}

type listener struct {
	id int
	fn func()
}

// New creates a ListView
func New[T models.Entity](opts Options[T]) *ListView[T] {
	if opts.PageSize <= 0 {
		opts.PageSize = 5
	}
	return &ListView[T]{opts: opts, page: 1}
}

// Refresh replaces the collection with a fresh fetch. On failure the
// previous collection is kept.
func (v *ListView[T]) Refresh(ctx context.Context) error {
	items, err := v.opts.Fetch(ctx)
	if err != nil {
		return err
	}
	v.Replace(items)
	return nil
}

// Replace swaps in a new collection
func (v *ListView[T]) Replace(items []T) {
	copied := append([]T(nil), items...)
	if v.opts.Less != nil {
		sort.SliceStable(copied, func(i, j int) bool { return v.opts.Less(copied[i], copied[j]) })
	}

	v.mu.Lock()
	v.items = copied
	v.page = clampPage(v.page, v.totalPagesLocked())
	v.mu.Unlock()

	v.changed()
}

// SetSearch changes the search term and goes back to the first page
func (v *ListView[T]) SetSearch(term string) {
	v.mu.Lock()
	v.search = term
	v.page = 1
	v.mu.Unlock()

	v.changed()
}

// SetFilter changes the filter key and goes back to the first page.
// An empty key disables filtering.
func (v *ListView[T]) SetFilter(key string) {
	v.mu.Lock()
	v.filter = key
	v.page = 1
	v.mu.Unlock()

	v.changed()
}

// Search returns the current search term
func (v *ListView[T]) Search() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.search
}

// FilterKey returns the current filter key
func (v *ListView[T]) FilterKey() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.filter
}

// Filtered returns every item matching the search term and the filter
func (v *ListView[T]) Filtered() []T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.filteredLocked()
}

func (v *ListView[T]) filteredLocked() []T {
	term := strings.ToLower(strings.TrimSpace(v.search))
	out := make([]T, 0, len(v.items))
	for _, item := range v.items {
		if term != "" && v.opts.Field != nil && !strings.Contains(strings.ToLower(v.opts.Field(item)), term) {
			continue
		}
		if v.filter != "" && v.opts.Filter != nil && !v.opts.Filter(item, v.filter) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Page returns the items of the current page
func (v *ListView[T]) Page() []T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return pageOf(v.filteredLocked(), v.page, v.opts.PageSize)
}

// PageAt returns the items of page n without moving to it
func (v *ListView[T]) PageAt(n int) []T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return pageOf(v.filteredLocked(), n, v.opts.PageSize)
}

func pageOf[T any](items []T, page, size int) []T {
	start := (page - 1) * size
	if page < 1 || start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return append([]T(nil), items[start:end]...)
}

// PageIndex returns the current 1-based page
func (v *ListView[T]) PageIndex() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.page
}

// PageSize returns the number of items per page
func (v *ListView[T]) PageSize() int {
	return v.opts.PageSize
}

// TotalPages returns ceil(filtered / page size), zero for an empty view
func (v *ListView[T]) TotalPages() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.totalPagesLocked()
}

func (v *ListView[T]) totalPagesLocked() int {
	n := len(v.filteredLocked())
	return (n + v.opts.PageSize - 1) / v.opts.PageSize
}

func clampPage(page, total int) int {
	if page > total {
		page = total
	}
	if page < 1 {
		page = 1
	}
	return page
}

// SetPage moves to page n, clamped to the available pages
func (v *ListView[T]) SetPage(n int) {
	v.mu.Lock()
	v.page = clampPage(n, v.totalPagesLocked())
	v.mu.Unlock()

	v.changed()
}

// Next moves one page forward
func (v *ListView[T]) Next() {
	v.SetPage(v.PageIndex() + 1)
}

// Prev moves one page back
func (v *ListView[T]) Prev() {
	v.SetPage(v.PageIndex() - 1)
}

// Items returns a copy of the full collection
func (v *ListView[T]) Items() []T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]T(nil), v.items...)
}

// Len returns the size of the full collection
func (v *ListView[T]) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.items)
}

// Find returns the item with id
func (v *ListView[T]) Find(id int) (T, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	for _, item := range v.items {
		if item.EntityID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Any reports whether an item other than excludeID satisfies pred.
// Pass 0 as excludeID when nothing is being edited.
func (v *ListView[T]) Any(pred func(T) bool, excludeID int) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	for _, item := range v.items {
		if excludeID != 0 && item.EntityID() == excludeID {
			continue
		}
		if pred(item) {
			return true
		}
	}
	return false
}

// OnChange registers a listener called after every change of the view.
// The returned func removes it again; calling it twice is harmless.
func (v *ListView[T]) OnChange(fn func()) (remove func()) {
	v.mu.Lock()
	v.nextID++
	id := v.nextID
	v.listeners = append(v.listeners, listener{id: id, fn: fn})
	v.mu.Unlock()

	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		for i, l := range v.listeners {
			if l.id == id {
				v.listeners = append(v.listeners[:i:i], v.listeners[i+1:]...)
				return
			}
		}
	}
}

func (v *ListView[T]) changed() {
	v.mu.RLock()
	listeners := append([]listener(nil), v.listeners...)
	v.mu.RUnlock()

	for _, l := range listeners {
		l.fn()
	}
}
