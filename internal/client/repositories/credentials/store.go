package credentials

import (
	"bytes"
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/gobarber/internal/dbx"
)

const (
	TokenKey = "@GoBarber:token"
	UserKey  = "@GoBarber:user"
)

// ErrTokenChanged is returned by SaveUser when the stored token is gone or
// is no longer the one the user belongs to.
var ErrTokenChanged = errors.New("stored token changed")

// Store reads and writes the token/user pair. Writes and removals of the
// pair happen in one transaction so other readers never see half of it.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Load returns the persisted token and user from one snapshot of the
// table. Either may be nil when absent.
func (s *Store) Load(ctx context.Context) (token []byte, user []byte, err error) {
	repo := NewSQLiteRepository(s.db)

	all, err := repo.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	return all[TokenKey], all[UserKey], nil
}

// Save writes both keys.
func (s *Store) Save(ctx context.Context, token []byte, user []byte) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)
		if err := repo.Set(ctx, TokenKey, token); err != nil {
			return err
		}
		return repo.Set(ctx, UserKey, user)
	})
}

// SaveUser rewrites only the user key, and only while token is still the
// stored token. Otherwise nothing is written and ErrTokenChanged is returned.
func (s *Store) SaveUser(ctx context.Context, token []byte, user []byte) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)
		current, err := repo.Get(ctx, TokenKey)
		if err != nil {
			return err
		}
		if current == nil || !bytes.Equal(current, token) {
			return ErrTokenChanged
		}
		return repo.Set(ctx, UserKey, user)
	})
}

// Remove deletes both keys.
func (s *Store) Remove(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return NewSQLiteRepository(tx).Delete(ctx, TokenKey, UserKey)
	})
}
