package database

import (
	"github.com/pkg/errors"

	"github.com/iotaledger/hive.go/kvstore"
)

const (
	// StorePrefixHealth is the realm of the health status within a store.
	StorePrefixHealth byte = 255
)

var (
	keyCorrupted = []byte("dbCorrupted")
	keyVersion   = []byte("dbVersion")
)

// StoreHealthTracker marks a store as corrupted while it is in use,
// so an unclean shutdown can be detected on the next start.
type StoreHealthTracker struct {
	store   kvstore.KVStore
	version byte
}

// NewStoreHealthTracker creates a tracker and stores the version if the store is fresh.
func NewStoreHealthTracker(store kvstore.KVStore, version byte) (*StoreHealthTracker, error) {
	s := &StoreHealthTracker{
		store:   store.WithRealm([]byte{StorePrefixHealth}),
		version: version,
	}

	if err := s.setDatabaseVersion(version); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *StoreHealthTracker) MarkCorrupted() error {

	if err := s.store.Set(keyCorrupted, []byte{}); err != nil {
		return errors.Wrap(err, "failed to set database health status")
	}
	return s.store.Flush()
}

func (s *StoreHealthTracker) MarkHealthy() error {

	if err := s.store.Delete(keyCorrupted); err != nil {
		return errors.Wrap(err, "failed to set database health status")
	}
	return s.store.Flush()
}

func (s *StoreHealthTracker) IsCorrupted() (bool, error) {

	contains, err := s.store.Has(keyCorrupted)
	if err != nil {
		return true, errors.Wrap(err, "failed to read database health status")
	}
	return contains, nil
}

// DatabaseVersion returns the database version.
func (s *StoreHealthTracker) DatabaseVersion() (byte, error) {

	value, err := s.store.Get(keyVersion)
	if err != nil {
		return 0, errors.Wrap(err, "failed to read database version")
	}

	if len(value) < 1 {
		return 0, errors.New("failed to read database version: empty value")
	}

	return value[0], nil
}

func (s *StoreHealthTracker) setDatabaseVersion(version byte) error {

	_, err := s.store.Get(keyVersion)
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		// only create the entry, if it doesn't exist already (fresh database)
		if err := s.store.Set(keyVersion, []byte{version}); err != nil {
			return errors.Wrap(err, "failed to set database version")
		}
		return nil
	}
	return err
}

// CheckCorrectDatabaseVersion tells whether the stored version matches the expected one.
func (s *StoreHealthTracker) CheckCorrectDatabaseVersion() (bool, error) {

	version, err := s.DatabaseVersion()
	if err != nil {
		return false, err
	}

	return version == s.version, nil
}
