package stageplot

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/stagedock/stagedock/core"
)

// ProvidedBy says who brings a piece of equipment to the show.
type ProvidedBy string

const (
	ProvidedByArtist      ProvidedBy = "artist"
	ProvidedByVenue       ProvidedBy = "venue"
	ProvidedByUnspecified ProvidedBy = "unspecified"
)

var AllProvidedBy = []ProvidedBy{ProvidedByArtist, ProvidedByVenue, ProvidedByUnspecified}

// IconType is the closed set of equipment categories a plot item can be.
type IconType string

const (
	IconGuitar       IconType = "guitar"
	IconBass         IconType = "bass"
	IconAcoustic     IconType = "acoustic_guitar"
	IconKeyboard     IconType = "keyboard"
	IconMicShort     IconType = "mic_short"
	IconMicTall      IconType = "mic_tall"
	IconDIBox        IconType = "di_box"
	IconAmp          IconType = "amp"
	IconMonitorWedge IconType = "monitor_wedge"
	IconIEM          IconType = "iem"
	IconDrumKit      IconType = "drum_kit"
	IconKickDrum     IconType = "kick_drum"
	IconSnare        IconType = "snare"
	IconHiHat        IconType = "hi_hat"
	IconRackTom      IconType = "rack_tom"
	IconFloorTom     IconType = "floor_tom"
	IconOverhead     IconType = "overhead"
	IconPerson       IconType = "person"
	IconPowerDrop    IconType = "power_drop"
	IconRiser        IconType = "riser"
)

// IconDef describes an icon type's default rendering and which optional
// item fields apply to it. Capability flags replace per-handler string
// comparisons on the raw type.
type IconDef struct {
	Type                    IconType `json:"type"`
	DefaultLabel            string   `json:"default_label"`
	SupportsMicType         bool     `json:"supports_mic_type"`
	SupportsChannelSettings bool     `json:"supports_channel_settings"`
	Pairable                bool     `json:"pairable"`
}

var iconCatalog = map[IconType]IconDef{
	IconGuitar:       {IconGuitar, "Electric Guitar", false, true, false},
	IconBass:         {IconBass, "Bass Guitar", false, true, false},
	IconAcoustic:     {IconAcoustic, "Acoustic Guitar", false, true, false},
	IconKeyboard:     {IconKeyboard, "Keyboard", false, true, false},
	IconMicShort:     {IconMicShort, "Mic (Short Stand)", true, true, false},
	IconMicTall:      {IconMicTall, "Mic (Tall Stand)", true, true, false},
	IconDIBox:        {IconDIBox, "DI Box", true, true, false},
	IconAmp:          {IconAmp, "Amp", false, true, false},
	IconMonitorWedge: {IconMonitorWedge, "Monitor Wedge", false, false, true},
	IconIEM:          {IconIEM, "IEM Pack", false, false, true},
	IconDrumKit:      {IconDrumKit, "Drum Kit", false, false, false},
	IconKickDrum:     {IconKickDrum, "Kick Drum", true, true, false},
	IconSnare:        {IconSnare, "Snare", true, true, false},
	IconHiHat:        {IconHiHat, "Hi-Hat", true, true, false},
	IconRackTom:      {IconRackTom, "Rack Tom", true, true, false},
	IconFloorTom:     {IconFloorTom, "Floor Tom", true, true, false},
	IconOverhead:     {IconOverhead, "Overhead", true, true, false},
	IconPerson:       {IconPerson, "Band Member", false, false, false},
	IconPowerDrop:    {IconPowerDrop, "Power Drop", false, false, false},
	IconRiser:        {IconRiser, "Riser", false, false, false},
}

// IconDefFor looks up the catalog definition of an icon type.
func IconDefFor(t IconType) (IconDef, bool) {
	def, ok := iconCatalog[t]
	return def, ok
}

// DefaultLabelFor returns the catalog label of an icon type; empty if unknown.
func DefaultLabelFor(t IconType) string {
	return iconCatalog[t].DefaultLabel
}

// IconDefs returns all catalog entries in a stable order (for the palette API).
func IconDefs() []IconDef {
	order := []IconType{
		IconGuitar, IconBass, IconAcoustic, IconKeyboard,
		IconMicShort, IconMicTall, IconDIBox, IconAmp,
		IconMonitorWedge, IconIEM,
		IconDrumKit, IconKickDrum, IconSnare, IconHiHat, IconRackTom, IconFloorTom, IconOverhead,
		IconPerson, IconPowerDrop, IconRiser,
	}
	defs := make([]IconDef, 0, len(order))
	for _, t := range order {
		defs = append(defs, iconCatalog[t])
	}
	return defs
}

// Item is a positioned piece of equipment on a stage plot.
type Item struct {
	ID             string      `json:"id"`
	DocumentID     string      `json:"document_id"`
	IconType       IconType    `json:"icon_type"`
	Label          null.String `json:"label"`
	PositionX      float64     `json:"position_x"` // percent of canvas width, from left
	PositionY      float64     `json:"position_y"` // percent of canvas height, from top
	Rotation       int         `json:"rotation"`   // degrees, [0,360)
	ProvidedBy     ProvidedBy  `json:"provided_by"`
	MicType        null.String `json:"mic_type"`
	ChannelNumber  null.Int    `json:"channel_number"`
	PhantomPower   bool        `json:"phantom_power"`
	InsertRequired bool        `json:"insert_required"`
	MonitorMixes   []string    `json:"monitor_mixes"`
	FxSends        []string    `json:"fx_sends"`
	PairedWithID   null.String `json:"paired_with_id"`
	Notes          null.String `json:"notes"`
	CreatedAt      time.Time   `json:"created_at"` // UTC
	UpdatedAt      time.Time   `json:"updated_at"` // UTC
}

// EffectiveLabel is the label shown on the plot: the user override if set,
// else the icon's catalog label.
func (it Item) EffectiveLabel() string {
	if it.Label.Valid && it.Label.String != "" {
		return it.Label.String
	}
	return DefaultLabelFor(it.IconType)
}

func (it Item) HasChannel() bool {
	return it.ChannelNumber.Valid
}

func (it Item) IsPaired() bool {
	return it.PairedWithID.Valid && it.PairedWithID.String != ""
}

func (it Item) IsPairable() bool {
	return iconCatalog[it.IconType].Pairable
}

// NewItem contains information needed to drop a new item on the canvas.
type NewItem struct {
	IconType      IconType    `json:"icon_type" validate:"required,icontype"`
	PositionX     float64     `json:"position_x"`
	PositionY     float64     `json:"position_y"`
	Label         null.String `json:"label"`
	ProvidedBy    ProvidedBy  `json:"provided_by" validate:"omitempty,providedby"`
	MicType       null.String `json:"mic_type"`
	ChannelNumber null.Int    `json:"channel_number" validate:"omitempty,channelnum"`
	Notes         null.String `json:"notes"`
}

func (ni *NewItem) Validate() error {
	return core.Validate.Struct(ni)
}

// UpdateItem defines what may be changed on an existing item.
// Nil/invalid fields are left untouched.
type UpdateItem struct {
	Label          null.String `json:"label"`
	PositionX      *float64    `json:"position_x"`
	PositionY      *float64    `json:"position_y"`
	Rotation       *int        `json:"rotation" validate:"omitempty,min=0,max=359"`
	ProvidedBy     ProvidedBy  `json:"provided_by" validate:"omitempty,providedby"`
	MicType        null.String `json:"mic_type"`
	ChannelNumber  null.Int    `json:"channel_number" validate:"omitempty,channelnum"`
	PhantomPower   *bool       `json:"phantom_power"`
	InsertRequired *bool       `json:"insert_required"`
	MonitorMixes   []string    `json:"monitor_mixes"`
	FxSends        []string    `json:"fx_sends"`
	Notes          null.String `json:"notes"`
}

func (ui *UpdateItem) Validate() error {
	return core.Validate.Struct(ui)
}

// NewDrumKit is the payload of the 9-piece drum kit expansion helper.
type NewDrumKit struct {
	PositionX   float64 `json:"position_x"`
	PositionY   float64 `json:"position_y"`
	BaseChannel int     `json:"base_channel" validate:"required,min=1"`
}

func (nk *NewDrumKit) Validate() error {
	return core.Validate.Struct(nk)
}

// ReorderChannels is the payload of the channel list drag-reorder: the ids of
// the channel-assigned items in their new display order.
type ReorderChannels struct {
	OrderedIDs []string `json:"ordered_ids" validate:"required,min=1,dive,required"`
}

func (rc *ReorderChannels) Validate() error {
	return core.Validate.Struct(rc)
}

// PairRequest targets the item to pair the URL item with.
type PairRequest struct {
	TargetID string `json:"target_id" validate:"required"`
}

func (pr *PairRequest) Validate() error {
	return core.Validate.Struct(pr)
}
