// Package boltdb implements the secret store on BoltDB with tokens
// encrypted at rest.
package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/Gustavohps10/timelapse-sub001/internal/crypto"
	"github.com/Gustavohps10/timelapse-sub001/internal/secrets"
)

var (
	// BoltDB bucket names
	bucketTokens = []byte("tokens")
	bucketMeta   = []byte("meta")

	keySalt = []byte("salt")
)

// Store is the BoltDB secret store. Tokens are AES-256-GCM encrypted with
// a key derived from the passphrase and a per-store random salt.
type Store struct {
	db  *bbolt.DB
	key []byte
}

// New opens (or creates) the secret store at dbPath. The passphrase seeds
// the encryption key; opening an existing store with a different
// passphrase makes every stored token unreadable (ErrTokenCorrupt).
func New(ctx context.Context, dbPath, passphrase string) (*Store, error) {
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	store := &Store{db: db}

	if err := store.init(passphrase); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// init creates the buckets and derives the encryption key, generating and
// persisting the salt on first open.
func (s *Store) init(passphrase string) error {
	var salt []byte

	err := s.db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketTokens); err != nil {
			return fmt.Errorf("failed to create tokens bucket: %w", err)
		}
		meta, err := tx.CreateBucketIfNotExists(bucketMeta)
		if err != nil {
			return fmt.Errorf("failed to create meta bucket: %w", err)
		}

		if stored := meta.Get(keySalt); stored != nil {
			salt = append([]byte(nil), stored...)
			return nil
		}

		fresh, err := crypto.GenerateSalt()
		if err != nil {
			return err
		}
		if err := meta.Put(keySalt, fresh); err != nil {
			return fmt.Errorf("failed to persist salt: %w", err)
		}
		salt = fresh
		return nil
	})
	if err != nil {
		return err
	}

	key, err := crypto.DeriveStoreKey(passphrase, salt)
	if err != nil {
		return err
	}
	s.key = key
	return nil
}

// SaveToken stores a token. Fails if one already exists for the key.
func (s *Store) SaveToken(ctx context.Context, service, account, token string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketTokens)
		if bucket == nil {
			return fmt.Errorf("tokens bucket not found")
		}

		key := tokenKey(service, account)
		if bucket.Get(key) != nil {
			return fmt.Errorf("token already exists for %s/%s", service, account)
		}
		return s.put(bucket, key, token)
	})
}

// ReplaceToken stores a token, overwriting any existing one.
func (s *Store) ReplaceToken(ctx context.Context, service, account, token string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketTokens)
		if bucket == nil {
			return fmt.Errorf("tokens bucket not found")
		}
		return s.put(bucket, tokenKey(service, account), token)
	})
}

// GetToken retrieves and decrypts a stored token.
func (s *Store) GetToken(ctx context.Context, service, account string) (string, error) {
	var token string

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketTokens)
		if bucket == nil {
			return fmt.Errorf("tokens bucket not found")
		}

		encrypted := bucket.Get(tokenKey(service, account))
		if encrypted == nil {
			return secrets.ErrTokenNotFound
		}

		plaintext, err := crypto.Decrypt(encrypted, s.key)
		if err != nil {
			return secrets.ErrTokenCorrupt
		}
		token = string(plaintext)
		return nil
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// DeleteToken removes a stored token.
func (s *Store) DeleteToken(ctx context.Context, service, account string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketTokens)
		if bucket == nil {
			return fmt.Errorf("tokens bucket not found")
		}

		key := tokenKey(service, account)
		if bucket.Get(key) == nil {
			return secrets.ErrTokenNotFound
		}
		return bucket.Delete(key)
	})
}

// HasToken reports whether a token exists for the key.
func (s *Store) HasToken(ctx context.Context, service, account string) (bool, error) {
	var exists bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketTokens)
		if bucket == nil {
			return fmt.Errorf("tokens bucket not found")
		}
		exists = bucket.Get(tokenKey(service, account)) != nil
		return nil
	})
	return exists, err
}

func (s *Store) put(bucket *bbolt.Bucket, key []byte, token string) error {
	encrypted, err := crypto.Encrypt([]byte(token), s.key)
	if err != nil {
		return fmt.Errorf("failed to encrypt token: %w", err)
	}
	if err := bucket.Put(key, encrypted); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

func tokenKey(service, account string) []byte {
	return []byte(service + "/" + account)
}
