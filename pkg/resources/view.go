package resources

import "github.com/provide-io/playground/go/sandbox/pkg/android"

// View is the read-only result of a lookup for one (namespace, type).
// Names are sorted; each name holds its variants grouped by configuration,
// most specific group first, and within a group by source priority.
type View struct {
	typ     android.ResourceType
	names   []string
	entries map[string][]bucket
	size    int
}

var emptyView = &View{}

// Type is the resource type the view was built for.
func (v *View) Type() android.ResourceType { return v.typ }

// Names returns the sorted resource names.
func (v *View) Names() []string { return v.names }

// Len is the number of distinct names.
func (v *View) Len() int { return len(v.names) }

// Size is the number of items across all names.
func (v *View) Size() int { return v.size }

func (v *View) Contains(name string) bool {
	_, ok := v.entries[name]
	return ok
}

// Get returns every variant of name in merged order.
func (v *View) Get(name string) []*Item {
	buckets := v.entries[name]
	if len(buckets) == 0 {
		return nil
	}
	var items []*Item
	for _, b := range buckets {
		items = append(items, b.items...)
	}
	return items
}

// Winners returns the first item of every configuration group: the one a
// caller observes for that configuration.
func (v *View) Winners(name string) []*Item {
	buckets := v.entries[name]
	if len(buckets) == 0 {
		return nil
	}
	items := make([]*Item, 0, len(buckets))
	for _, b := range buckets {
		items = append(items, b.items[0])
	}
	return items
}

// First is the overall winner for name, or nil.
func (v *View) First(name string) *Item {
	buckets := v.entries[name]
	if len(buckets) == 0 {
		return nil
	}
	return buckets[0].items[0]
}

// Each calls fn for every name in order until fn returns false.
func (v *View) Each(fn func(name string, items []*Item) bool) {
	for _, name := range v.names {
		if !fn(name, v.Get(name)) {
			return
		}
	}
}
