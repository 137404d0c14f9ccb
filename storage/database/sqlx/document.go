package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/stagedock/stagedock/core/document"
)

type dbDocument struct {
	ID        string      `db:"id"`
	OwnerID   string      `db:"owner_id"`
	Name      string      `db:"name"`
	Venue     null.String `db:"venue"`
	EventDate null.Time   `db:"event_date"`
	Notes     null.String `db:"notes"`
	CreatedAt null.Time   `db:"created_at"`
	UpdatedAt null.Time   `db:"updated_at"`
}

func (d dbDocument) unpack() document.Document {
	return document.Document{
		ID:        d.ID,
		OwnerID:   d.OwnerID,
		Name:      d.Name,
		Venue:     d.Venue,
		EventDate: d.EventDate,
		Notes:     d.Notes,
		CreatedAt: d.CreatedAt.Time,
		UpdatedAt: d.UpdatedAt.Time,
	}
}

func packDocument(doc document.Document) dbDocument {
	return dbDocument{
		ID:        doc.ID,
		OwnerID:   doc.OwnerID,
		Name:      doc.Name,
		Venue:     doc.Venue,
		EventDate: doc.EventDate,
		Notes:     doc.Notes,
		CreatedAt: null.NewTime(doc.CreatedAt.UTC(), !doc.CreatedAt.IsZero()),
		UpdatedAt: null.NewTime(doc.UpdatedAt.UTC(), !doc.UpdatedAt.IsZero()),
	}
}

type documentRepository struct {
	db *sqlx.DB
}

var _ document.Repository = (*documentRepository)(nil)

func NewDocumentRepository(db *sqlx.DB) *documentRepository {
	return &documentRepository{db: db}
}

func (repo documentRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return document.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo documentRepository) CreateDocument(ctx context.Context, doc document.Document) (document.Document, error) {
	doc.ID = uuid.New().String()
	d := packDocument(doc)
	_, err := repo.db.NamedExecContext(
		ctx,
		`INSERT INTO document (id, owner_id, name, venue, event_date, notes, created_at, updated_at)
		 VALUES (:id, :owner_id, :name, :venue, :event_date, :notes, :created_at, :updated_at)`,
		d,
	)
	if err != nil {
		return document.Document{}, errors.Wrap(err, "inserting document")
	}
	return d.unpack(), nil
}

func (repo documentRepository) GetDocumentByID(ctx context.Context, id string) (document.Document, error) {
	if _, err := uuid.Parse(id); err != nil {
		return document.Document{}, document.ErrNotFound
	}
	var d dbDocument
	if err := repo.db.GetContext(ctx, &d, `SELECT * FROM document WHERE id = $1`, id); err != nil {
		return document.Document{}, repo.trapNoRowsErr(err, "finding document by ID")
	}
	return d.unpack(), nil
}

func (repo documentRepository) QueryAllDocuments(ctx context.Context) ([]document.Document, error) {
	var docs []dbDocument
	if err := repo.db.SelectContext(ctx, &docs, `SELECT * FROM document ORDER BY created_at`); err != nil {
		return nil, errors.Wrap(err, "querying documents")
	}
	return unpackDocuments(docs), nil
}

func (repo documentRepository) QueryOwnerDocuments(ctx context.Context, ownerID string) ([]document.Document, error) {
	var docs []dbDocument
	if err := repo.db.SelectContext(
		ctx, &docs, `SELECT * FROM document WHERE owner_id = $1 ORDER BY created_at`, ownerID,
	); err != nil {
		return nil, errors.Wrap(err, "querying owner documents")
	}
	return unpackDocuments(docs), nil
}

func (repo documentRepository) UpdateDocument(ctx context.Context, doc document.Document) (document.Document, error) {
	d := packDocument(doc)
	var updated dbDocument
	if err := repo.db.GetContext(
		ctx, &updated,
		`UPDATE document SET name = $2, venue = $3, event_date = $4, notes = $5, updated_at = $6
		 WHERE id = $1 RETURNING *`,
		d.ID, d.Name, d.Venue, d.EventDate, d.Notes, d.UpdatedAt,
	); err != nil {
		return document.Document{}, repo.trapNoRowsErr(err, "updating document")
	}
	return updated.unpack(), nil
}

func (repo documentRepository) DeleteDocument(ctx context.Context, id string) error {
	// plot items cascade via FK
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM document WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting document")
	}
	return nil
}

func unpackDocuments(docs []dbDocument) []document.Document {
	res := make([]document.Document, 0, len(docs))
	for _, d := range docs {
		res = append(res, d.unpack())
	}
	return res
}
