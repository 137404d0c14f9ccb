package dummydb

import (
	"sync"

	"github.com/stagedock/stagedock/core/document"
	"github.com/stagedock/stagedock/core/stageplot"
	"github.com/stagedock/stagedock/core/user"
)

// DB is an in-memory store used in tests and local dev without Postgres.
type (
	DB struct {
		user     *userTable
		document *documentTable
		item     *itemTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	documentTable struct {
		sync.RWMutex
		table map[string]*document.Document
	}

	itemTable struct {
		sync.RWMutex
		table map[string]*stageplot.Item
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:     &userTable{table: make(map[string]*user.User)},
		document: &documentTable{table: make(map[string]*document.Document)},
		item:     &itemTable{table: make(map[string]*stageplot.Item)},
	}
	return db, nil
}
