package stageplot

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// drumKitPiece is one of the 9 items the drum kit helper expands into.
// Offsets are in canvas percent, relative to the drop point.
type drumKitPiece struct {
	icon    IconType
	label   string
	micType string
	dx, dy  float64
}

// The standard 9-piece close-mic layout, channel order matching the usual
// input-list convention (kick first, overheads last).
var drumKitPieces = [9]drumKitPiece{
	{IconKickDrum, "Kick", "Beta 52", 0, 4},
	{IconSnare, "Snare Top", "SM57", -4, 1},
	{IconSnare, "Snare Bottom", "SM57", -4, 3},
	{IconHiHat, "Hi-Hat", "SM81", -7, 0},
	{IconRackTom, "Rack Tom 1", "e604", -2, -2},
	{IconRackTom, "Rack Tom 2", "e604", 2, -2},
	{IconFloorTom, "Floor Tom", "e604", 5, 2},
	{IconOverhead, "Overhead L", "C414", -6, -5},
	{IconOverhead, "Overhead R", "C414", 6, -5},
}

// DrumKitItems builds the 9 pre-positioned, pre-labeled items of the drum
// kit expansion around the drop point (x, y), with sequential channel
// numbers starting at baseChannel. IDs are left for the store to assign.
func DrumKitItems(documentID string, x, y float64, baseChannel int) []Item {
	now := time.Now().UTC()
	items := make([]Item, 0, len(drumKitPieces))
	for i, piece := range drumKitPieces {
		items = append(items, Item{
			DocumentID:    documentID,
			IconType:      piece.icon,
			Label:         null.StringFrom(piece.label),
			PositionX:     x + piece.dx,
			PositionY:     y + piece.dy,
			ProvidedBy:    ProvidedByUnspecified,
			MicType:       null.StringFrom(piece.micType),
			ChannelNumber: null.IntFrom(baseChannel + i),
			PhantomPower:  piece.icon == IconOverhead, // condensers
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}
	return items
}
