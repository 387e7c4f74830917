package reconcile

import (
	"sort"

	"github.com/shandysiswandi/otpkit/internal/authenticator/entity"
)

// EntryWithOrder is an entry in a manual ordering.
type EntryWithOrder struct {
	Entry      entity.Entry
	ModifyTime int64
	Order      int
}

// MergeOrder merges two orderings by entry id, local items first.
//
// The first occurrence of an id is kept. A later occurrence replaces it only
// when its Order differs and its ModifyTime is strictly greater, so equal
// modify times keep the first one. The result is sorted by (Order,
// ModifyTime) and renumbered 0..N-1.
func MergeOrder(local, remote []EntryWithOrder) []EntryWithOrder {
	index := make(map[string]int, len(local)+len(remote))
	merged := make([]EntryWithOrder, 0, len(local)+len(remote))

	for _, item := range append(append([]EntryWithOrder(nil), local...), remote...) {
		i, ok := index[item.Entry.ID]
		if !ok {
			index[item.Entry.ID] = len(merged)
			merged = append(merged, item)
			continue
		}

		kept := merged[i]
		if kept.Order != item.Order && item.ModifyTime > kept.ModifyTime {
			merged[i] = item
		}
	}

	sort.SliceStable(merged, func(a, b int) bool {
		if merged[a].Order != merged[b].Order {
			return merged[a].Order < merged[b].Order
		}
		return merged[a].ModifyTime < merged[b].ModifyTime
	})

	for i := range merged {
		merged[i].Order = i
	}

	return merged
}
