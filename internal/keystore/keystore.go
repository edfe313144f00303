// Package keystore persists wallet seed records in a local pebble
// database. It is a collaborator at the wallet core's boundary: the core
// never reads it, the CLI resolves signing keys through it.
package keystore

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/ugorji/go/codec"
)

// ErrNotFound is returned when no record exists for an address.
var ErrNotFound = errors.New("keystore: no record for address")

// recordPrefix namespaces seed records inside the database.
const recordPrefix = "seed/"

// Record is one stored signing identity. The seed is kept in its encoded
// family-seed form; everything else is derivable but stored for listing
// without key derivation.
type Record struct {
	Address   string `codec:"address"`
	Seed      string `codec:"seed"`
	Algorithm string `codec:"algorithm"`
	Label     string `codec:"label"`
	CreatedAt int64  `codec:"created_at"`
}

// Store is a pebble-backed keystore. Safe for concurrent use.
type Store struct {
	db     *pebble.DB
	handle codec.Handle
}

// Open opens or creates the keystore at the given path.
func Open(path string) (*Store, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("keystore: open %s: %w", path, err)
	}
	return &Store{db: db, handle: &codec.MsgpackHandle{}}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores or replaces the record for its address.
func (s *Store) Put(record Record) error {
	if record.Address == "" {
		return errors.New("keystore: record has no address")
	}
	if record.Seed == "" {
		return errors.New("keystore: record has no seed")
	}
	if record.CreatedAt == 0 {
		record.CreatedAt = time.Now().Unix()
	}

	var buf []byte
	if err := codec.NewEncoderBytes(&buf, s.handle).Encode(record); err != nil {
		return fmt.Errorf("keystore: encode record: %w", err)
	}
	if err := s.db.Set(recordKey(record.Address), buf, pebble.Sync); err != nil {
		return fmt.Errorf("keystore: store %s: %w", record.Address, err)
	}
	return nil
}

// Get returns the record for an address.
func (s *Store) Get(address string) (Record, error) {
	value, closer, err := s.db.Get(recordKey(address))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return Record{}, fmt.Errorf("%w: %s", ErrNotFound, address)
		}
		return Record{}, fmt.Errorf("keystore: read %s: %w", address, err)
	}
	defer closer.Close()

	var record Record
	if err := codec.NewDecoderBytes(value, s.handle).Decode(&record); err != nil {
		return Record{}, fmt.Errorf("keystore: decode record for %s: %w", address, err)
	}
	return record, nil
}

// List returns every stored record.
func (s *Store) List() ([]Record, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(recordPrefix),
		UpperBound: []byte(recordPrefix + "\xff"),
	})
	if err != nil {
		return nil, fmt.Errorf("keystore: iterate: %w", err)
	}
	defer iter.Close()

	var records []Record
	for iter.First(); iter.Valid(); iter.Next() {
		var record Record
		if err := codec.NewDecoderBytes(iter.Value(), s.handle).Decode(&record); err != nil {
			return nil, fmt.Errorf("keystore: decode record %q: %w", iter.Key(), err)
		}
		records = append(records, record)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("keystore: iterate: %w", err)
	}
	return records, nil
}

// Delete removes the record for an address. Deleting a missing record is
// a no-op.
func (s *Store) Delete(address string) error {
	if err := s.db.Delete(recordKey(address), pebble.Sync); err != nil {
		return fmt.Errorf("keystore: delete %s: %w", address, err)
	}
	return nil
}

func recordKey(address string) []byte {
	return []byte(recordPrefix + strings.TrimSpace(address))
}
