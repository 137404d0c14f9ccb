package stageplot

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/stagedock/stagedock/core"
)

var (
	// errors
	ErrNotFound        = errors.New("item not found")
	ErrUnknownItems    = errors.New("unknown items in reorder")
	ErrChannelConflict = errors.New("channel number already assigned")
)

type (
	// Repository is the remote item store. Multi-row operations (pairing,
	// renumbering, deletes of paired items) are atomic: they either apply
	// to all affected rows or none.
	Repository interface {
		ListItems(ctx context.Context, documentID string) ([]Item, error)
		GetItem(ctx context.Context, id string) (Item, error)
		CreateItem(ctx context.Context, item Item) (Item, error)
		// CreateItems inserts all items in one transaction.
		CreateItems(ctx context.Context, items []Item) ([]Item, error)
		UpdateItem(ctx context.Context, item Item) (Item, error)
		// DeleteItem removes the item and clears PairedWithID on any partner.
		DeleteItem(ctx context.Context, id string) error
		// SetPairing links both items to each other in one transaction.
		SetPairing(ctx context.Context, idA, idB string) error
		// ClearPairing unlinks the item and its partner in one transaction.
		ClearPairing(ctx context.Context, id string) error
		// RenumberItems applies all channel changes in one transaction.
		RenumberItems(ctx context.Context, changes []ChannelChange) error
		DeleteDocumentItems(ctx context.Context, documentID string) error
	}

	Service struct {
		repo Repository

		// strictChannels rejects duplicate channel numbers on create/update.
		// The reorder path is exempt: it always reassigns a dense sequence.
		strictChannels bool
	}
)

func NewService(repo Repository, conf *core.Config) *Service {
	return &Service{repo: repo, strictChannels: conf.StrictChannelNumbers}
}

func (svc *Service) List(ctx context.Context, documentID string) ([]Item, error) {
	return svc.repo.ListItems(ctx, documentID)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Item, error) {
	return svc.repo.GetItem(ctx, id)
}

func (svc *Service) Create(ctx context.Context, documentID string, ni NewItem) (Item, error) {
	providedBy := ni.ProvidedBy
	if providedBy == "" {
		providedBy = ProvidedByUnspecified
	}

	// same capability gating as Update: a palette drop cannot carry settings
	// the icon type does not support
	def, _ := IconDefFor(ni.IconType)
	if !def.SupportsMicType {
		ni.MicType = null.String{}
	}
	if ni.ChannelNumber.Valid && !def.SupportsChannelSettings {
		return Item{}, core.NewValidationError(nil, core.FieldError{
			Field: "channel_number", Error: "this item type has no channel settings",
		})
	}

	now := time.Now().UTC()
	item := Item{
		DocumentID:    documentID,
		IconType:      ni.IconType,
		Label:         ni.Label,
		PositionX:     ni.PositionX,
		PositionY:     ni.PositionY,
		ProvidedBy:    providedBy,
		MicType:       ni.MicType,
		ChannelNumber: ni.ChannelNumber,
		Notes:         ni.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := svc.checkChannelConflict(ctx, documentID, "", item.ChannelNumber.Ptr()); err != nil {
		return Item{}, err
	}
	return svc.repo.CreateItem(ctx, item)
}

func (svc *Service) Update(ctx context.Context, id string, ui UpdateItem) (Item, error) {
	item, err := svc.repo.GetItem(ctx, id)
	if err != nil {
		return Item{}, err
	}

	def, _ := IconDefFor(item.IconType)

	if ui.Label.Valid {
		item.Label = ui.Label
	}
	if ui.PositionX != nil {
		item.PositionX = *ui.PositionX
	}
	if ui.PositionY != nil {
		item.PositionY = *ui.PositionY
	}
	if ui.Rotation != nil {
		item.Rotation = *ui.Rotation
	}
	if ui.ProvidedBy != "" {
		item.ProvidedBy = ui.ProvidedBy
	}
	if ui.MicType.Valid && def.SupportsMicType {
		item.MicType = ui.MicType
	}
	if ui.ChannelNumber.Valid {
		if !def.SupportsChannelSettings {
			return Item{}, core.NewValidationError(nil, core.FieldError{
				Field: "channel_number", Error: "this item type has no channel settings",
			})
		}
		if err := svc.checkChannelConflict(ctx, item.DocumentID, item.ID, ui.ChannelNumber.Ptr()); err != nil {
			return Item{}, err
		}
		item.ChannelNumber = ui.ChannelNumber
	}
	if ui.PhantomPower != nil {
		item.PhantomPower = *ui.PhantomPower
	}
	if ui.InsertRequired != nil {
		item.InsertRequired = *ui.InsertRequired
	}
	if ui.MonitorMixes != nil {
		item.MonitorMixes = ui.MonitorMixes
	}
	if ui.FxSends != nil {
		item.FxSends = ui.FxSends
	}
	if ui.Notes.Valid {
		item.Notes = ui.Notes
	}
	item.UpdatedAt = time.Now().UTC()

	return svc.repo.UpdateItem(ctx, item)
}

// Move persists a canvas drop of an existing item.
func (svc *Service) Move(ctx context.Context, id string, x, y float64) (Item, error) {
	return svc.Update(ctx, id, UpdateItem{PositionX: &x, PositionY: &y})
}

// Rotate steps the item's rotation by 15 degrees in the given direction.
func (svc *Service) Rotate(ctx context.Context, id string, dir RotateDirection) (Item, error) {
	item, err := svc.repo.GetItem(ctx, id)
	if err != nil {
		return Item{}, err
	}
	next := NextRotation(item.Rotation, dir)
	return svc.Update(ctx, id, UpdateItem{Rotation: &next})
}

// Delete removes an item. The repository clears the partner's back-reference
// in the same transaction, so no dangling pairing survives a delete.
func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteItem(ctx, id)
}

// Pair links two monitor items bidirectionally in one atomic write.
// An already-paired endpoint is first unlinked from its old partner.
func (svc *Service) Pair(ctx context.Context, sourceID, targetID string) error {
	if sourceID == targetID {
		return core.NewValidationError(ErrPairWithSelf)
	}

	source, err := svc.repo.GetItem(ctx, sourceID)
	if err != nil {
		return errors.Wrap(err, "finding source item")
	}
	target, err := svc.repo.GetItem(ctx, targetID)
	if err != nil {
		return errors.Wrap(err, "finding target item")
	}

	if source.DocumentID != target.DocumentID {
		return core.NewValidationError(ErrCrossDocument)
	}
	if !source.IsPairable() || !target.IsPairable() {
		return core.NewValidationError(ErrNotPairable)
	}

	if source.IsPaired() && source.PairedWithID.String != targetID {
		if err := svc.repo.ClearPairing(ctx, source.ID); err != nil {
			return errors.Wrap(err, "clearing source pairing")
		}
	}
	if target.IsPaired() && target.PairedWithID.String != sourceID {
		if err := svc.repo.ClearPairing(ctx, target.ID); err != nil {
			return errors.Wrap(err, "clearing target pairing")
		}
	}

	return svc.repo.SetPairing(ctx, sourceID, targetID)
}

// Unpair clears the pairing on the item and its partner in one atomic write.
func (svc *Service) Unpair(ctx context.Context, id string) error {
	item, err := svc.repo.GetItem(ctx, id)
	if err != nil {
		return err
	}
	if !item.IsPaired() {
		return core.NewValidationError(ErrNotPaired)
	}
	return svc.repo.ClearPairing(ctx, id)
}

// Channels partitions a document's items into the sorted channel list and
// the unassigned list.
func (svc *Service) Channels(ctx context.Context, documentID string) (assigned, unassigned []Item, err error) {
	items, err := svc.repo.ListItems(ctx, documentID)
	if err != nil {
		return nil, nil, err
	}
	return ChannelItems(items), UnassignedItems(items), nil
}

// Renumber applies a drag-reorder of the channel list: the items named by
// orderedIDs get dense channel numbers 1..N in that order, written as one
// batch. Only rows whose number changes are touched.
func (svc *Service) Renumber(ctx context.Context, documentID string, orderedIDs []string) ([]Item, error) {
	items, err := svc.repo.ListItems(ctx, documentID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	ordered := make([]Item, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		it, ok := byID[id]
		if !ok {
			return nil, core.NewValidationError(ErrUnknownItems, core.FieldError{
				Field: "ordered_ids", Error: "item " + id + " does not belong to this document",
			})
		}
		ordered = append(ordered, it)
	}

	changes := RenumberChanges(ordered)
	if len(changes) > 0 {
		if err := svc.repo.RenumberItems(ctx, changes); err != nil {
			return nil, err
		}
	}
	return svc.repo.ListItems(ctx, documentID)
}

// Equipment derives the consolidated, printable equipment summary.
func (svc *Service) Equipment(ctx context.Context, documentID string) ([]EquipmentRow, error) {
	items, err := svc.repo.ListItems(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return ConsolidateEquipment(items), nil
}

// ExpandDrumKit creates the 9-piece drum kit around the drop point in one
// transaction, channels numbered base..base+8.
func (svc *Service) ExpandDrumKit(ctx context.Context, documentID string, nk NewDrumKit) ([]Item, error) {
	if svc.strictChannels {
		for i := 0; i < 9; i++ {
			ch := nk.BaseChannel + i
			if err := svc.checkChannelConflict(ctx, documentID, "", &ch); err != nil {
				return nil, err
			}
		}
	}
	return svc.repo.CreateItems(ctx, DrumKitItems(documentID, nk.PositionX, nk.PositionY, nk.BaseChannel))
}

// checkChannelConflict enforces the optional duplicate-channel rule.
// excludeID skips the item being updated.
func (svc *Service) checkChannelConflict(ctx context.Context, documentID, excludeID string, channel *int) error {
	if !svc.strictChannels || channel == nil {
		return nil
	}
	items, err := svc.repo.ListItems(ctx, documentID)
	if err != nil {
		return err
	}
	for _, it := range items {
		if it.ID == excludeID {
			continue
		}
		if it.HasChannel() && it.ChannelNumber.Int == *channel {
			return core.NewValidationError(ErrChannelConflict, core.FieldError{
				Field: "channel_number", Error: ErrChannelConflict.Error(),
			})
		}
	}
	return nil
}
