package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/stagedock/stagedock/core/stageplot"
)

type itemRepository struct {
	db *itemTable
}

var _ stageplot.Repository = (*itemRepository)(nil)

func NewItemRepository(db *DB) *itemRepository {
	return &itemRepository{db: db.item}
}

func (repo *itemRepository) query(documentID string) []stageplot.Item {
	items := make([]stageplot.Item, 0, len(repo.db.table))
	for _, it := range repo.db.table {
		if documentID == "" || it.DocumentID == documentID {
			items = append(items, *it)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items
}

func (repo *itemRepository) create(it stageplot.Item) stageplot.Item {
	it.ID = uuid.New().String()
	repo.db.table[it.ID] = &it
	return it
}

func (repo *itemRepository) ListItems(_ context.Context, documentID string) ([]stageplot.Item, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(documentID), nil
}

func (repo *itemRepository) GetItem(_ context.Context, id string) (stageplot.Item, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if it, ok := repo.db.table[id]; ok {
		return *it, nil
	}
	return stageplot.Item{}, stageplot.ErrNotFound
}

func (repo *itemRepository) CreateItem(_ context.Context, item stageplot.Item) (stageplot.Item, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	return repo.create(item), nil
}

func (repo *itemRepository) CreateItems(_ context.Context, items []stageplot.Item) ([]stageplot.Item, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	created := make([]stageplot.Item, 0, len(items))
	for _, it := range items {
		created = append(created, repo.create(it))
	}
	return created, nil
}

func (repo *itemRepository) UpdateItem(_ context.Context, item stageplot.Item) (stageplot.Item, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[item.ID]
	if !ok {
		return stageplot.Item{}, stageplot.ErrNotFound
	}
	item.DocumentID = orig.DocumentID
	item.CreatedAt = orig.CreatedAt
	item.PairedWithID = orig.PairedWithID // only SetPairing/ClearPairing touch links
	repo.db.table[item.ID] = &item
	return item, nil
}

func (repo *itemRepository) DeleteItem(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	it, ok := repo.db.table[id]
	if !ok {
		return stageplot.ErrNotFound
	}
	if it.PairedWithID.Valid {
		if partner, ok := repo.db.table[it.PairedWithID.String]; ok {
			partner.PairedWithID = null.String{}
			partner.UpdatedAt = time.Now().UTC()
		}
	}
	delete(repo.db.table, id)
	return nil
}

func (repo *itemRepository) SetPairing(_ context.Context, idA, idB string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	a, ok := repo.db.table[idA]
	if !ok {
		return stageplot.ErrNotFound
	}
	b, ok := repo.db.table[idB]
	if !ok {
		return stageplot.ErrNotFound
	}

	now := time.Now().UTC()
	a.PairedWithID = null.StringFrom(idB)
	a.UpdatedAt = now
	b.PairedWithID = null.StringFrom(idA)
	b.UpdatedAt = now
	return nil
}

func (repo *itemRepository) ClearPairing(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	it, ok := repo.db.table[id]
	if !ok {
		return stageplot.ErrNotFound
	}

	now := time.Now().UTC()
	if it.PairedWithID.Valid {
		if partner, ok := repo.db.table[it.PairedWithID.String]; ok {
			partner.PairedWithID = null.String{}
			partner.UpdatedAt = now
		}
	}
	it.PairedWithID = null.String{}
	it.UpdatedAt = now
	return nil
}

func (repo *itemRepository) RenumberItems(_ context.Context, changes []stageplot.ChannelChange) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	// all-or-nothing: verify before touching anything
	for _, ch := range changes {
		if _, ok := repo.db.table[ch.ID]; !ok {
			return stageplot.ErrNotFound
		}
	}

	now := time.Now().UTC()
	for _, ch := range changes {
		it := repo.db.table[ch.ID]
		it.ChannelNumber = null.IntFrom(ch.ChannelNumber)
		it.UpdatedAt = now
	}
	return nil
}

func (repo *itemRepository) DeleteDocumentItems(_ context.Context, documentID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for id, it := range repo.db.table {
		if it.DocumentID == documentID {
			delete(repo.db.table, id)
		}
	}
	return nil
}
