package document

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/stagedock/stagedock/core"
)

// Document is a tech spec: the parent of a stage plot's items.
type Document struct {
	ID        string      `json:"id"`
	OwnerID   string      `json:"owner_id"`
	Name      string      `json:"name"`
	Venue     null.String `json:"venue"`
	EventDate null.Time   `json:"event_date"`
	Notes     null.String `json:"notes"`
	CreatedAt time.Time   `json:"created_at"` // UTC
	UpdatedAt time.Time   `json:"updated_at"` // UTC
}

// NewDocument contains information needed to create a new Document.
type NewDocument struct {
	Name      string      `json:"name" validate:"required"`
	Venue     null.String `json:"venue"`
	EventDate null.Time   `json:"event_date"`
	Notes     null.String `json:"notes"`
}

func (nd *NewDocument) Validate() error {
	nd.Name = core.CleanString(nd.Name)
	return core.Validate.Struct(nd)
}

// UpdateDocument defines what may be changed on an existing Document.
type UpdateDocument struct {
	Name      string      `json:"name"`
	Venue     null.String `json:"venue"`
	EventDate null.Time   `json:"event_date"`
	Notes     null.String `json:"notes"`
}

func (ud *UpdateDocument) Validate(orig Document) error {
	name := core.CleanString(ud.Name)
	if name != "" {
		ud.Name = name
	} else {
		ud.Name = orig.Name
	}
	return core.Validate.Struct(ud)
}
