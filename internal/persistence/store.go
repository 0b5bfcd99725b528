package persistence

import (
	"context"
	"errors"
)

// LocalStore is the client-side key/value storage a browsing session owns.
type LocalStore interface {
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

var ErrNoItem = errors.New("no item stored under key")
