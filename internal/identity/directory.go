package identity

import (
	"context"
	"errors"
	"time"

	"github.com/ivancliff029/engaato-online/internal/config"
	"github.com/ivancliff029/engaato-online/internal/domain"
	"github.com/ivancliff029/engaato-online/internal/repository"
	"go.uber.org/zap"
)

const profileReadTimeout = 3 * time.Second

// profile is the part of a users/<uid> document checkout reads.
type profile struct {
	Phone     string `json:"phone" bson:"phone"`
	Username  string `json:"username,omitempty" bson:"username,omitempty"`
	FirstName string `json:"firstName,omitempty" bson:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty" bson:"lastName,omitempty"`
}

// Directory resolves who is paying. Guests get placeholder contact details
// so checkout stays usable without an account.
type Directory struct {
	store repository.DocumentStore
	guest config.GuestConfig
	log   *zap.Logger
}

func NewDirectory(store repository.DocumentStore, guest config.GuestConfig, log *zap.Logger) *Directory {
	return &Directory{store: store, guest: guest, log: log}
}

func (d *Directory) Guest() domain.Customer {
	return domain.Customer{Name: d.guest.Name, Email: d.guest.Email, Phone: d.guest.Phone}
}

// Customer builds checkout contact details for u, or for a guest when u is nil.
func (d *Directory) Customer(ctx context.Context, u *User) domain.Customer {
	c := d.Guest()
	if u == nil {
		return c
	}

	if u.Email != "" {
		c.Email = u.Email
	}
	if u.DisplayName != "" {
		c.Name = u.DisplayName
	}

	ctx, cancel := context.WithTimeout(ctx, profileReadTimeout)
	defer cancel()

	var p profile
	err := d.store.Read(ctx, repository.CollectionUsers, u.UID, &p)
	switch {
	case errors.Is(err, repository.ErrDocumentNotFound):
		return c
	case err != nil:
		d.log.Warn("failed to read user profile", zap.String("uid", u.UID), zap.Error(err))
		return c
	}

	if p.Phone != "" {
		c.Phone = p.Phone
	}
	if u.DisplayName == "" {
		if name := fullName(p); name != "" {
			c.Name = name
		}
	}
	return c
}

func fullName(p profile) string {
	switch {
	case p.FirstName != "" && p.LastName != "":
		return p.FirstName + " " + p.LastName
	case p.FirstName != "":
		return p.FirstName
	default:
		return p.Username
	}
}
