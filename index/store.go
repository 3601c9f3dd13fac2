// Copyright 2025 AICam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package index

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

// Key prefix for persisted units.
const unitPrefix = "unit:"

// UnitStore persists built units in BadgerDB so the resolver can start
// without re-embedding.
type UnitStore struct {
	db     *badger.DB
	logger *slog.Logger
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenUnitStore opens a BadgerDB unit store at the specified path.
// Creates the directory if it doesn't exist. inMemory is for tests and
// throwaway sessions.
func OpenUnitStore(filePath string, inMemory bool) (*UnitStore, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	logger := slog.Default().With("component", "unitstore")
	opts.Logger = &badgerLoggerAdapter{logger: logger}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &UnitStore{
		db:     db,
		logger: logger,
	}, nil
}

func makeUnitKey(key string) []byte {
	return []byte(unitPrefix + key)
}

// PutUnits writes units, replacing any previous versions under the same
// keys. Badger caps a transaction's size, so large sets commit in several
// transactions.
func (s *UnitStore) PutUnits(units []Unit) error {
	if s.db.IsClosed() {
		return ErrStoreClosed
	}
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for i := range units {
		if units[i].Key == "" {
			return ErrEmptyUnit
		}
		if err := wb.Set(makeUnitKey(units[i].Key), MarshalUnit(&units[i])); err != nil {
			return err
		}
	}
	return wb.Flush()
}

// LoadUnits reads every persisted unit, ordered by key.
func (s *UnitStore) LoadUnits() ([]Unit, error) {
	if s.db.IsClosed() {
		return nil, ErrStoreClosed
	}
	var units []Unit
	err := s.db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(unitPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				unit, err := UnmarshalUnit(val)
				if err != nil {
					return err
				}
				units = append(units, *unit)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return units, nil
}

// Clear removes every persisted unit.
func (s *UnitStore) Clear() error {
	if s.db.IsClosed() {
		return ErrStoreClosed
	}
	return s.db.DropPrefix([]byte(unitPrefix))
}

// Close closes the underlying database.
func (s *UnitStore) Close() error {
	return s.db.Close()
}
