package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/stagedock/stagedock/core/document"
)

type documentRepository struct {
	db    *documentTable
	items *itemTable
}

var _ document.Repository = (*documentRepository)(nil)

func NewDocumentRepository(db *DB) *documentRepository {
	return &documentRepository{db: db.document, items: db.item}
}

func (repo *documentRepository) query() []document.Document {
	docs := make([]document.Document, 0, len(repo.db.table))
	for _, d := range repo.db.table {
		docs = append(docs, *d)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].CreatedAt.Before(docs[j].CreatedAt) })
	return docs
}

func (repo *documentRepository) CreateDocument(_ context.Context, doc document.Document) (document.Document, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	doc.ID = uuid.New().String()
	repo.db.table[doc.ID] = &doc
	return doc, nil
}

func (repo *documentRepository) GetDocumentByID(_ context.Context, id string) (document.Document, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if doc, ok := repo.db.table[id]; ok {
		return *doc, nil
	}
	return document.Document{}, document.ErrNotFound
}

func (repo *documentRepository) QueryAllDocuments(_ context.Context) ([]document.Document, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *documentRepository) QueryOwnerDocuments(_ context.Context, ownerID string) ([]document.Document, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	docs := make([]document.Document, 0)
	for _, doc := range repo.query() {
		if doc.OwnerID == ownerID {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func (repo *documentRepository) UpdateDocument(_ context.Context, doc document.Document) (document.Document, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[doc.ID]
	if !ok {
		return document.Document{}, document.ErrNotFound
	}
	if doc.Name != "" {
		orig.Name = doc.Name
	}
	if doc.Venue.Valid {
		orig.Venue = doc.Venue
	}
	if doc.EventDate.Valid {
		orig.EventDate = doc.EventDate
	}
	if doc.Notes.Valid {
		orig.Notes = doc.Notes
	}
	orig.UpdatedAt = doc.UpdatedAt

	repo.db.table[doc.ID] = orig
	return *orig, nil
}

func (repo *documentRepository) DeleteDocument(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	delete(repo.db.table, id)

	// cascade to plot items
	repo.items.Lock()
	defer repo.items.Unlock()
	for itemID, it := range repo.items.table {
		if it.DocumentID == id {
			delete(repo.items.table, itemID)
		}
	}
	return nil
}
