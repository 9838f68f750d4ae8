package resources

import (
	"slices"
	"sort"

	"github.com/provide-io/playground/go/sandbox/pkg/android"
)

// bucket holds the variants of one name that share a configuration.
type bucket struct {
	config Configuration
	items  []*Item
}

// viewBuilder accumulates items into a View. Regular types keep per-name
// buckets sorted by configuration with a binary search and insert into a
// bucket by rank with a short scan from the end. Plain types (id and
// styleable) just concatenate.
type viewBuilder struct {
	typ     android.ResourceType
	plain   bool
	rank    func(*Item) int
	entries map[string][]bucket
	size    int
}

func isPlainType(t android.ResourceType) bool {
	return t == android.TypeID || t == android.TypeStyleable
}

func newViewBuilder(t android.ResourceType, rank func(*Item) int) *viewBuilder {
	if rank == nil {
		rank = func(*Item) int { return 0 }
	}
	return &viewBuilder{
		typ:     t,
		plain:   isPlainType(t),
		rank:    rank,
		entries: make(map[string][]bucket),
	}
}

func (b *viewBuilder) add(item *Item) {
	b.size++
	buckets := b.entries[item.Name]
	if b.plain {
		b.entries[item.Name] = append(buckets, bucket{config: item.Config, items: []*Item{item}})
		return
	}

	i, found := slices.BinarySearchFunc(buckets, item.Config, func(bk bucket, c Configuration) int {
		return bk.config.Compare(c)
	})
	if !found {
		buckets = slices.Insert(buckets, i, bucket{config: item.Config, items: []*Item{item}})
		b.entries[item.Name] = buckets
		return
	}

	nested := buckets[i].items
	r := b.rank(item)
	j := len(nested) - 1
	for j >= 0 && b.rank(nested[j]) > r {
		j--
	}
	buckets[i].items = slices.Insert(nested, j+1, item)
}

// addView merges every item of v in v's order.
func (b *viewBuilder) addView(v *View) {
	for _, name := range v.names {
		for _, bk := range v.entries[name] {
			for _, item := range bk.items {
				b.add(item)
			}
		}
	}
}

func (b *viewBuilder) build() *View {
	names := make([]string, 0, len(b.entries))
	for name := range b.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return &View{typ: b.typ, names: names, entries: b.entries, size: b.size}
}

// mergeViews merges leaf views in priority order. A leaf's rank is its index
// in leaves.
func mergeViews(t android.ResourceType, leaves []*Store, views []*View) *View {
	ranks := make(map[*Store]int, len(leaves))
	for i, leaf := range leaves {
		ranks[leaf] = i
	}
	b := newViewBuilder(t, func(item *Item) int { return ranks[item.leaf] })
	for _, v := range views {
		b.addView(v)
	}
	return b.build()
}
