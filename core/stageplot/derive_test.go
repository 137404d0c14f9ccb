package stageplot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"
)

func chItem(id string, channel int) Item {
	it := Item{ID: id, IconType: IconMicShort}
	if channel > 0 {
		it.ChannelNumber = null.IntFrom(channel)
	}
	return it
}

func Test_ChannelItems_sortedAscending(t *testing.T) {
	items := []Item{chItem("a", 5), chItem("b", 0), chItem("c", 2), chItem("d", 9), chItem("e", 0)}

	assigned := ChannelItems(items)

	if len(assigned) != 3 {
		t.Fatalf("len(assigned) = %d; want 3", len(assigned))
	}
	wantOrder := []string{"c", "a", "d"}
	for i, want := range wantOrder {
		if assigned[i].ID != want {
			t.Errorf("assigned[%d].ID = %s; want %s", i, assigned[i].ID, want)
		}
	}
}

func Test_channelPartition_exhaustiveAndDisjoint(t *testing.T) {
	items := []Item{chItem("a", 3), chItem("b", 0), chItem("c", 3), chItem("d", 1), chItem("e", 0)}

	assigned := ChannelItems(items)
	unassigned := UnassignedItems(items)

	if len(assigned)+len(unassigned) != len(items) {
		t.Errorf("partition not exhaustive: %d + %d != %d", len(assigned), len(unassigned), len(items))
	}
	seen := make(map[string]bool)
	for _, it := range assigned {
		seen[it.ID] = true
	}
	for _, it := range unassigned {
		if seen[it.ID] {
			t.Errorf("item %s appears in both partitions", it.ID)
		}
	}
}

func Test_RenumberChanges_denseAndOrdered(t *testing.T) {
	// channel items [5, 2, 9] reordered to [item9, item2, item5]
	ordered := []Item{chItem("item9", 9), chItem("item2", 2), chItem("item5", 5)}

	changes := RenumberChanges(ordered)

	want := []ChannelChange{
		{ID: "item9", ChannelNumber: 1},
		// item2 keeps 2: position 2 of the new order
		{ID: "item5", ChannelNumber: 3},
	}
	assert.Equal(t, want, changes)
}

func Test_RenumberChanges_noopWhenAlreadyDense(t *testing.T) {
	ordered := []Item{chItem("a", 1), chItem("b", 2), chItem("c", 3)}
	if changes := RenumberChanges(ordered); len(changes) != 0 {
		t.Errorf("RenumberChanges() = %v; want no changes", changes)
	}
}

func Test_RenumberChanges_resolvesDuplicates(t *testing.T) {
	ordered := []Item{chItem("a", 2), chItem("b", 2), chItem("c", 2)}

	changes := RenumberChanges(ordered)

	want := []ChannelChange{
		{ID: "a", ChannelNumber: 1},
		{ID: "c", ChannelNumber: 3},
	}
	assert.Equal(t, want, changes)
}

func Test_ConsolidateEquipment(t *testing.T) {
	mic := func(providedBy ProvidedBy) Item {
		return Item{
			IconType:   IconMicShort,
			MicType:    null.StringFrom("SM58"),
			ProvidedBy: providedBy,
		}
	}
	items := []Item{mic(ProvidedByArtist), mic(ProvidedByArtist), mic(ProvidedByArtist), mic(ProvidedByVenue)}

	rows := ConsolidateEquipment(items)

	want := []EquipmentRow{
		{IconType: IconMicShort, Label: "Mic (Short Stand)", MicType: "SM58", ProvidedBy: ProvidedByArtist, Count: 3},
		{IconType: IconMicShort, Label: "Mic (Short Stand)", MicType: "SM58", ProvidedBy: ProvidedByVenue, Count: 1},
	}
	assert.Equal(t, want, rows)
}

func Test_ConsolidateEquipment_labelOverrideSplitsRows(t *testing.T) {
	items := []Item{
		{IconType: IconGuitar, ProvidedBy: ProvidedByArtist},
		{IconType: IconGuitar, Label: null.StringFrom("Nile's Strat"), ProvidedBy: ProvidedByArtist},
		{IconType: IconGuitar, ProvidedBy: ProvidedByArtist},
	}

	rows := ConsolidateEquipment(items)

	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d; want 2", len(rows))
	}
	// first-seen order
	if rows[0].Label != "Electric Guitar" || rows[0].Count != 2 {
		t.Errorf("rows[0] = %+v; want default-labeled row with count 2", rows[0])
	}
	if rows[1].Label != "Nile's Strat" || rows[1].Count != 1 {
		t.Errorf("rows[1] = %+v; want overridden row with count 1", rows[1])
	}
}

func Test_EffectiveLabel(t *testing.T) {
	it := Item{IconType: IconMonitorWedge}
	if got := it.EffectiveLabel(); got != "Monitor Wedge" {
		t.Errorf("EffectiveLabel() = %q; want %q", got, "Monitor Wedge")
	}
	it.Label = null.StringFrom("Drum Wedge")
	if got := it.EffectiveLabel(); got != "Drum Wedge" {
		t.Errorf("EffectiveLabel() = %q; want %q", got, "Drum Wedge")
	}
}
