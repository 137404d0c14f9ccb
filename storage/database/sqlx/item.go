package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/stagedock/stagedock/core/stageplot"
)

type dbItem struct {
	ID             string         `db:"id"`
	DocumentID     string         `db:"document_id"`
	IconType       string         `db:"icon_type"`
	Label          null.String    `db:"label"`
	PositionX      float64        `db:"position_x"`
	PositionY      float64        `db:"position_y"`
	Rotation       int            `db:"rotation"`
	ProvidedBy     string         `db:"provided_by"`
	MicType        null.String    `db:"mic_type"`
	ChannelNumber  null.Int       `db:"channel_number"`
	PhantomPower   bool           `db:"phantom_power"`
	InsertRequired bool           `db:"insert_required"`
	MonitorMixes   pq.StringArray `db:"monitor_mixes"`
	FxSends        pq.StringArray `db:"fx_sends"`
	PairedWithID   null.String    `db:"paired_with_id"`
	Notes          null.String    `db:"notes"`
	CreatedAt      null.Time      `db:"created_at"`
	UpdatedAt      null.Time      `db:"updated_at"`
}

func (it dbItem) unpack() stageplot.Item {
	return stageplot.Item{
		ID:             it.ID,
		DocumentID:     it.DocumentID,
		IconType:       stageplot.IconType(it.IconType),
		Label:          it.Label,
		PositionX:      it.PositionX,
		PositionY:      it.PositionY,
		Rotation:       it.Rotation,
		ProvidedBy:     stageplot.ProvidedBy(it.ProvidedBy),
		MicType:        it.MicType,
		ChannelNumber:  it.ChannelNumber,
		PhantomPower:   it.PhantomPower,
		InsertRequired: it.InsertRequired,
		MonitorMixes:   it.MonitorMixes,
		FxSends:        it.FxSends,
		PairedWithID:   it.PairedWithID,
		Notes:          it.Notes,
		CreatedAt:      it.CreatedAt.Time,
		UpdatedAt:      it.UpdatedAt.Time,
	}
}

func packItem(item stageplot.Item) dbItem {
	return dbItem{
		ID:             item.ID,
		DocumentID:     item.DocumentID,
		IconType:       string(item.IconType),
		Label:          item.Label,
		PositionX:      item.PositionX,
		PositionY:      item.PositionY,
		Rotation:       item.Rotation,
		ProvidedBy:     string(item.ProvidedBy),
		MicType:        item.MicType,
		ChannelNumber:  item.ChannelNumber,
		PhantomPower:   item.PhantomPower,
		InsertRequired: item.InsertRequired,
		MonitorMixes:   item.MonitorMixes,
		FxSends:        item.FxSends,
		PairedWithID:   item.PairedWithID,
		Notes:          item.Notes,
		CreatedAt:      null.NewTime(item.CreatedAt.UTC(), !item.CreatedAt.IsZero()),
		UpdatedAt:      null.NewTime(item.UpdatedAt.UTC(), !item.UpdatedAt.IsZero()),
	}
}

type itemRepository struct {
	db *sqlx.DB
}

var _ stageplot.Repository = (*itemRepository)(nil)

func NewItemRepository(db *sqlx.DB) *itemRepository {
	return &itemRepository{db: db}
}

func (repo itemRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return stageplot.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

// inTx runs fn inside a transaction, rolling back on error.
func (repo itemRepository) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "committing transaction")
}

const insertItemQuery = `
INSERT INTO stage_plot_item (
	id, document_id, icon_type, label, position_x, position_y, rotation, provided_by,
	mic_type, channel_number, phantom_power, insert_required, monitor_mixes, fx_sends,
	paired_with_id, notes, created_at, updated_at
) VALUES (
	:id, :document_id, :icon_type, :label, :position_x, :position_y, :rotation, :provided_by,
	:mic_type, :channel_number, :phantom_power, :insert_required, :monitor_mixes, :fx_sends,
	:paired_with_id, :notes, :created_at, :updated_at
)`

func (repo itemRepository) ListItems(ctx context.Context, documentID string) ([]stageplot.Item, error) {
	var items []dbItem
	if err := repo.db.SelectContext(
		ctx, &items,
		`SELECT * FROM stage_plot_item WHERE document_id = $1 ORDER BY created_at, id`, documentID,
	); err != nil {
		return nil, errors.Wrap(err, "querying items")
	}

	res := make([]stageplot.Item, 0, len(items))
	for _, it := range items {
		res = append(res, it.unpack())
	}
	return res, nil
}

func (repo itemRepository) GetItem(ctx context.Context, id string) (stageplot.Item, error) {
	if _, err := uuid.Parse(id); err != nil {
		return stageplot.Item{}, stageplot.ErrNotFound
	}
	var it dbItem
	if err := repo.db.GetContext(ctx, &it, `SELECT * FROM stage_plot_item WHERE id = $1`, id); err != nil {
		return stageplot.Item{}, repo.trapNoRowsErr(err, "finding item by ID")
	}
	return it.unpack(), nil
}

func (repo itemRepository) CreateItem(ctx context.Context, item stageplot.Item) (stageplot.Item, error) {
	item.ID = uuid.New().String()
	it := packItem(item)
	if _, err := repo.db.NamedExecContext(ctx, insertItemQuery, it); err != nil {
		return stageplot.Item{}, errors.Wrap(err, "inserting item")
	}
	return it.unpack(), nil
}

func (repo itemRepository) CreateItems(ctx context.Context, items []stageplot.Item) ([]stageplot.Item, error) {
	created := make([]stageplot.Item, 0, len(items))
	err := repo.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, item := range items {
			item.ID = uuid.New().String()
			it := packItem(item)
			if _, err := tx.NamedExecContext(ctx, insertItemQuery, it); err != nil {
				return errors.Wrap(err, "inserting item")
			}
			created = append(created, it.unpack())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (repo itemRepository) UpdateItem(ctx context.Context, item stageplot.Item) (stageplot.Item, error) {
	it := packItem(item)
	var updated dbItem
	if err := repo.db.GetContext(
		ctx, &updated,
		`UPDATE stage_plot_item SET
			label = $2, position_x = $3, position_y = $4, rotation = $5, provided_by = $6,
			mic_type = $7, channel_number = $8, phantom_power = $9, insert_required = $10,
			monitor_mixes = $11, fx_sends = $12, notes = $13, updated_at = $14
		 WHERE id = $1 RETURNING *`,
		it.ID, it.Label, it.PositionX, it.PositionY, it.Rotation, it.ProvidedBy,
		it.MicType, it.ChannelNumber, it.PhantomPower, it.InsertRequired,
		it.MonitorMixes, it.FxSends, it.Notes, it.UpdatedAt,
	); err != nil {
		return stageplot.Item{}, repo.trapNoRowsErr(err, "updating item")
	}
	return updated.unpack(), nil
}

func (repo itemRepository) DeleteItem(ctx context.Context, id string) error {
	return repo.inTx(ctx, func(tx *sqlx.Tx) error {
		// clear the partner's back-reference before the row goes away
		if _, err := tx.ExecContext(
			ctx,
			`UPDATE stage_plot_item SET paired_with_id = NULL, updated_at = $2 WHERE paired_with_id = $1`,
			id, time.Now().UTC(),
		); err != nil {
			return errors.Wrap(err, "clearing partner pairing")
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM stage_plot_item WHERE id = $1`, id)
		if err != nil {
			return errors.Wrap(err, "deleting item")
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return stageplot.ErrNotFound
		}
		return nil
	})
}

func (repo itemRepository) SetPairing(ctx context.Context, idA, idB string) error {
	return repo.inTx(ctx, func(tx *sqlx.Tx) error {
		now := time.Now().UTC()
		for _, pair := range [][2]string{{idA, idB}, {idB, idA}} {
			res, err := tx.ExecContext(
				ctx,
				`UPDATE stage_plot_item SET paired_with_id = $2, updated_at = $3 WHERE id = $1`,
				pair[0], pair[1], now,
			)
			if err != nil {
				return errors.Wrap(err, "setting pairing")
			}
			if n, err := res.RowsAffected(); err == nil && n == 0 {
				return stageplot.ErrNotFound
			}
		}
		return nil
	})
}

func (repo itemRepository) ClearPairing(ctx context.Context, id string) error {
	return repo.inTx(ctx, func(tx *sqlx.Tx) error {
		now := time.Now().UTC()
		if _, err := tx.ExecContext(
			ctx,
			`UPDATE stage_plot_item SET paired_with_id = NULL, updated_at = $2 WHERE paired_with_id = $1`,
			id, now,
		); err != nil {
			return errors.Wrap(err, "clearing partner pairing")
		}
		res, err := tx.ExecContext(
			ctx,
			`UPDATE stage_plot_item SET paired_with_id = NULL, updated_at = $2 WHERE id = $1`,
			id, now,
		)
		if err != nil {
			return errors.Wrap(err, "clearing pairing")
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return stageplot.ErrNotFound
		}
		return nil
	})
}

func (repo itemRepository) RenumberItems(ctx context.Context, changes []stageplot.ChannelChange) error {
	return repo.inTx(ctx, func(tx *sqlx.Tx) error {
		now := time.Now().UTC()
		for _, ch := range changes {
			res, err := tx.ExecContext(
				ctx,
				`UPDATE stage_plot_item SET channel_number = $2, updated_at = $3 WHERE id = $1`,
				ch.ID, ch.ChannelNumber, now,
			)
			if err != nil {
				return errors.Wrap(err, "renumbering item")
			}
			if n, err := res.RowsAffected(); err == nil && n == 0 {
				return stageplot.ErrNotFound
			}
		}
		return nil
	})
}

func (repo itemRepository) DeleteDocumentItems(ctx context.Context, documentID string) error {
	if _, err := repo.db.ExecContext(
		ctx, `DELETE FROM stage_plot_item WHERE document_id = $1`, documentID,
	); err != nil {
		return errors.Wrap(err, "deleting document items")
	}
	return nil
}
