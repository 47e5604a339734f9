package domain

import "sort"

// SelectAssets filters assets to those whose identifier parses to a date
// inside the window, sorted ascending by date. Identifiers that do not parse
// are dropped. The sort is stable: assets sharing a date keep their catalog
// order, so repeated runs produce identical batches.
func SelectAssets(assets []AssetRecord, window DateWindow) []SelectedAsset {
	selected := make([]SelectedAsset, 0, len(assets))
	for _, a := range assets {
		d, ok := ParseAssetDate(a.Identifier)
		if !ok {
			continue
		}
		if !window.Contains(d) {
			continue
		}
		selected = append(selected, SelectedAsset{Date: d, Record: a})
	}
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Date.Before(selected[j].Date)
	})
	return selected
}
