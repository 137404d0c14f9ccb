package document

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("document not found")

type (
	Repository interface {
		CreateDocument(ctx context.Context, doc Document) (Document, error)
		GetDocumentByID(ctx context.Context, id string) (Document, error)
		QueryAllDocuments(ctx context.Context) ([]Document, error)
		QueryOwnerDocuments(ctx context.Context, ownerID string) ([]Document, error)
		UpdateDocument(ctx context.Context, doc Document) (Document, error)
		// DeleteDocument removes the document and all its plot items.
		DeleteDocument(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, ownerID string, nd NewDocument) (Document, error) {
	now := time.Now().UTC()
	doc := Document{
		OwnerID:   ownerID,
		Name:      nd.Name,
		Venue:     nd.Venue,
		EventDate: nd.EventDate,
		Notes:     nd.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateDocument(ctx, doc)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Document, error) {
	return svc.repo.GetDocumentByID(ctx, id)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Document, error) {
	return svc.repo.QueryAllDocuments(ctx)
}

func (svc *Service) QueryOwned(ctx context.Context, ownerID string) ([]Document, error) {
	return svc.repo.QueryOwnerDocuments(ctx, ownerID)
}

func (svc *Service) Update(ctx context.Context, id string, ud UpdateDocument) (Document, error) {
	doc, err := svc.repo.GetDocumentByID(ctx, id)
	if err != nil {
		return Document{}, err
	}
	doc.Name = ud.Name
	if ud.Venue.Valid {
		doc.Venue = ud.Venue
	}
	if ud.EventDate.Valid {
		doc.EventDate = ud.EventDate
	}
	if ud.Notes.Valid {
		doc.Notes = ud.Notes
	}
	doc.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateDocument(ctx, doc)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteDocument(ctx, id)
}
