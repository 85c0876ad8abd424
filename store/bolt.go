package store

import (
	"time"

	bolt "github.com/boltdb/bolt"
)

const bucketName = "records"

// BoltBackend keeps every collection in a single bucket of an embedded bolt
// file. No external database process is required.
type BoltBackend struct {
	db *bolt.DB
}

// OpenBolt opens (or creates) a bolt database at path and ensures the records
// bucket exists.
func OpenBolt(path string) (*BoltBackend, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltBackend{db: db}, nil
}

// Close releases the database file lock.
func (b *BoltBackend) Close() error {
	return b.db.Close()
}

// Get returns a copy of the value stored under key. It is idempotent.
func (b *BoltBackend) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketName)).Get([]byte(key))
		if v == nil {
			return nil
		}
		// Bolt values are only valid for the life of the transaction.
		value = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return value, value != nil, nil
}

// Put writes value in its own transaction. Bolt fsyncs on commit, so the
// value is on disk when Put returns.
func (b *BoltBackend) Put(key string, value []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(key), value)
	})
}

// Delete removes key in its own transaction. It is idempotent.
func (b *BoltBackend) Delete(key string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		// Deleting a missing key is a no-op in bolt.
		return tx.Bucket([]byte(bucketName)).Delete([]byte(key))
	})
}
