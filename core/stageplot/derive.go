package stageplot

import "sort"

// ChannelItems returns the items holding a channel number, sorted ascending.
// Items sharing a number keep their input order (stable).
func ChannelItems(items []Item) []Item {
	assigned := make([]Item, 0, len(items))
	for _, it := range items {
		if it.HasChannel() {
			assigned = append(assigned, it)
		}
	}
	sort.SliceStable(assigned, func(i, j int) bool {
		return assigned[i].ChannelNumber.Int < assigned[j].ChannelNumber.Int
	})
	return assigned
}

// UnassignedItems returns the items without a channel number, in input order.
func UnassignedItems(items []Item) []Item {
	unassigned := make([]Item, 0, len(items))
	for _, it := range items {
		if !it.HasChannel() {
			unassigned = append(unassigned, it)
		}
	}
	return unassigned
}

// ChannelChange is one item's new channel number after a renumbering.
type ChannelChange struct {
	ID            string `json:"id"`
	ChannelNumber int    `json:"channel_number"`
}

// RenumberChanges recomputes channel numbers as a dense 1..N sequence over
// the given display order, returning only the items whose number actually
// changes. Pre-existing duplicates dissolve as a side effect of the dense
// reassignment.
func RenumberChanges(ordered []Item) []ChannelChange {
	changes := make([]ChannelChange, 0, len(ordered))
	for i, it := range ordered {
		want := i + 1
		if !it.ChannelNumber.Valid || it.ChannelNumber.Int != want {
			changes = append(changes, ChannelChange{ID: it.ID, ChannelNumber: want})
		}
	}
	return changes
}

// EquipmentRow is one consolidated line of the printable equipment summary.
type EquipmentRow struct {
	IconType   IconType   `json:"icon_type"`
	Label      string     `json:"label"`
	MicType    string     `json:"mic_type,omitempty"`
	ProvidedBy ProvidedBy `json:"provided_by"`
	Count      int        `json:"count"`
}

type equipmentKey struct {
	iconType   IconType
	label      string
	micType    string
	providedBy ProvidedBy
}

// ConsolidateEquipment groups visually-identical items (same type, effective
// label, mic type and provider) into counted rows. Rows come out in
// first-seen scan order.
func ConsolidateEquipment(items []Item) []EquipmentRow {
	rows := make([]EquipmentRow, 0, len(items))
	index := make(map[equipmentKey]int, len(items))

	for _, it := range items {
		key := equipmentKey{
			iconType:   it.IconType,
			label:      it.EffectiveLabel(),
			micType:    it.MicType.String,
			providedBy: it.ProvidedBy,
		}
		if i, ok := index[key]; ok {
			rows[i].Count++
			continue
		}
		index[key] = len(rows)
		rows = append(rows, EquipmentRow{
			IconType:   key.iconType,
			Label:      key.label,
			MicType:    key.micType,
			ProvidedBy: key.providedBy,
			Count:      1,
		})
	}
	return rows
}
