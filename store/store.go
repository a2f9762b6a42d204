package store

import (
	"gorm.io/gorm"
)

// Store bundles the entity repositories over one gorm handle.
type Store struct {
	db *gorm.DB

	Users       UserRepository
	Channels    ChannelRepository
	Memberships MembershipRepository
	Payments    PaymentRepository
	InviteLinks InviteLinkRepository
}

func New(db *gorm.DB) *Store {
	return &Store{
		db:          db,
		Users:       &userRepository{db: db},
		Channels:    &channelRepository{db: db},
		Memberships: &membershipRepository{db: db},
		Payments:    &paymentRepository{db: db},
		InviteLinks: &inviteLinkRepository{db: db},
	}
}

// Transaction runs fn against a Store bound to a single database
// transaction. Any error from fn rolls the whole transaction back.
func (s *Store) Transaction(fn func(tx *Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}
