package badger

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/worklens/worklens/core"
	"github.com/worklens/worklens/storage"
)

// ResultRepository implements storage.ResultRepository for BadgerDB.
type ResultRepository struct {
	backend *Backend
}

var _ storage.ResultRepository = (*ResultRepository)(nil)

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(backend *Backend) (*ResultRepository, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &ResultRepository{backend: backend}, nil
}

// Close releases repository resources. The shared backend stays open.
func (r *ResultRepository) Close() error {
	return nil
}

// AddResults stores one or more classification results. IDs derive from the
// event identity, so storing a result for an already-stored event
// occurrence replaces the previous record and its index entries.
func (r *ResultRepository) AddResults(ctx context.Context, results ...*core.Result) ([]*core.Result, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, result := range results {
			if result.Id == 0 {
				result.Id = core.ResultID(result.Event)
			}
			result.InsertedAt = time.Now().UTC()

			key := makeResultKey(result.Id)

			// Remove stale index entries when overwriting
			old, err := r.readResult(tx, key)
			if err != nil {
				return err
			}
			if old != nil {
				if err := tx.Delete(makeResultDateKey(old.InsertedAt, old.Id)); err != nil {
					return err
				}
				if err := tx.Delete(makeResultProjectKey(old.Prediction.ProjectDescription, old.Id)); err != nil {
					return err
				}
			}

			// Store primary record
			if err := tx.Set(key, storage.MarshalResult(result)); err != nil {
				return err
			}

			// Update insertion-time index
			dateKey := makeResultDateKey(result.InsertedAt, result.Id)
			if err := tx.Set(dateKey, storage.MarshalID(result.Id)); err != nil {
				return err
			}

			// Update project index
			projectKey := makeResultProjectKey(result.Prediction.ProjectDescription, result.Id)
			if err := tx.Set(projectKey, storage.MarshalID(result.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return results, err
}

// GetResult retrieves a single result by ID.
func (r *ResultRepository) GetResult(ctx context.Context, id core.ID) (*core.Result, error) {
	var result *core.Result
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readResult(tx, makeResultKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListResults retrieves up to limit results, most recently inserted first.
// A non-positive limit returns everything.
func (r *ResultRepository) ListResults(ctx context.Context, limit int) ([]*core.Result, error) {
	var results []*core.Result
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Reverse iterate the insertion-time index, newest first
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		startKey := makePartialResultDateKey(time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC))
		prefix := []byte(resultDatePrefix + ":")

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			if limit > 0 && len(results) >= limit {
				break
			}

			key := iter.Item().Key()
			if len(key) < len(prefix) || slices.Compare(key[:len(prefix)], prefix) != 0 {
				break
			}

			var resultID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				resultID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			result, err := r.readResult(tx, makeResultKey(resultID))
			if err != nil {
				return err
			}
			if result != nil {
				results = append(results, result)
			}
		}
		return nil
	}, false)

	return results, err
}

// GetResultsByProject retrieves all results predicted for the given project.
func (r *ResultRepository) GetResultsByProject(ctx context.Context, project string) ([]*core.Result, error) {
	var results []*core.Result
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makePartialResultProjectKey(project)
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(startKey) || slices.Compare(key[:len(startKey)], startKey) != 0 {
				break
			}

			var resultID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				resultID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			result, err := r.readResult(tx, makeResultKey(resultID))
			if err != nil {
				return err
			}
			if result != nil {
				results = append(results, result)
			}
		}
		return nil
	}, false)

	return results, err
}

// readResult reads and deserializes a result within a transaction.
// Returns nil (no error) when the key does not exist.
func (r *ResultRepository) readResult(tx *badger.Txn, key []byte) (*core.Result, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var result *core.Result
	err = item.Value(func(val []byte) error {
		var err error
		result, err = storage.UnmarshalResult(val)
		return err
	})
	return result, err
}
