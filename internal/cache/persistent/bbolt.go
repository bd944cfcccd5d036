package persistent

import (
	"context"

	"go.etcd.io/bbolt"

	"github.com/mpeix-go/schedule-backend/pkg/apperrors"
)

var bucketName = []byte("schedule_cache")

// BboltStore is an embedded alternative to FilesystemStore, grounded on
// cuemby-warren and KurtSkinny-telegram-userbot's use of go.etcd.io/bbolt,
// for single-binary deployments that want the persistent cache tier
// without a bare directory of loose files.
type BboltStore struct {
	db *bbolt.DB
}

// NewBboltStore opens (creating if needed) a bbolt database at path.
func NewBboltStore(path string) (*BboltStore, error) {
	db, err := bbolt.Open(path, 0o644, nil)
	if err != nil {
		return nil, apperrors.NewInternal("open bbolt cache database", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, apperrors.NewInternal("create bbolt cache bucket", err)
	}
	return &BboltStore{db: db}, nil
}

func (s *BboltStore) Close() error {
	return s.db.Close()
}

func (s *BboltStore) Get(_ context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		v := b.Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}
		value = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *BboltStore) Put(_ context.Context, key string, blob []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		return b.Put([]byte(key), blob)
	})
}
