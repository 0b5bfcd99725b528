package repository

import (
	"context"
	"errors"
)

// Collections the storefront touches.
const (
	CollectionUsers        = "users"
	CollectionTransactions = "transactions"
	CollectionProducts     = "products"
)

var ErrDocumentNotFound = errors.New("document not found")

// DocumentStore is the database collaborator: documents addressed by
// collection and id. Write replaces the whole document.
type DocumentStore interface {
	Write(ctx context.Context, collection, id string, doc any) error
	Read(ctx context.Context, collection, id string, out any) error
	// List decodes every document of the collection into out, a pointer to a slice.
	List(ctx context.Context, collection string, out any) error
	Close(ctx context.Context) error
}
