package models

// ViewedItems maps an opaque listing id to the epoch-millis time it was first seen.
type ViewedItems map[string]int64

func (vi ViewedItems) Clone() ViewedItems {
	copyMap := make(ViewedItems, len(vi))
	for k, v := range vi {
		copyMap[k] = v
	}
	return copyMap
}

// Has reports whether id is registered with a non-zero timestamp.
// A zero timestamp counts as absent, matching how the popup treats falsy values.
func (vi ViewedItems) Has(id string) bool {
	return vi[id] != 0
}
