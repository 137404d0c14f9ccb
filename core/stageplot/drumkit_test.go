package stageplot

import (
	"fmt"
	"testing"
)

func Test_DrumKitItems(t *testing.T) {
	const base = 12
	items := DrumKitItems("doc1", 50, 40, base)

	if len(items) != 9 {
		t.Fatalf("len(items) = %d; want 9", len(items))
	}

	offsets := make(map[string]bool, len(items))
	for i, it := range items {
		if it.DocumentID != "doc1" {
			t.Errorf("items[%d].DocumentID = %s; want doc1", i, it.DocumentID)
		}
		if !it.ChannelNumber.Valid || it.ChannelNumber.Int != base+i {
			t.Errorf("items[%d].ChannelNumber = %v; want %d", i, it.ChannelNumber, base+i)
		}
		if !it.Label.Valid || it.Label.String == "" {
			t.Errorf("items[%d] has no label", i)
		}

		// every piece gets its own spot around the drop point
		key := fmt.Sprintf("%v,%v", it.PositionX, it.PositionY)
		if offsets[key] {
			t.Errorf("items[%d] shares position %s with another piece", i, key)
		}
		offsets[key] = true
	}
}

func Test_DrumKitItems_offsetsAreRelativeToDropPoint(t *testing.T) {
	a := DrumKitItems("doc1", 10, 10, 1)
	b := DrumKitItems("doc1", 60, 30, 1)

	for i := range a {
		dx := b[i].PositionX - a[i].PositionX
		dy := b[i].PositionY - a[i].PositionY
		if dx != 50 || dy != 20 {
			t.Errorf("piece %d not translated with drop point: delta = (%v, %v)", i, dx, dy)
		}
	}
}
