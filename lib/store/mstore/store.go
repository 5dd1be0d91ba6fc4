package mstore

import (
	"github.com/ValentinKolb/dkvnode/lib/store"
	"github.com/puzpuzpuz/xsync/v3"
	"sort"
)

type storeImpl struct {
	buckets *xsync.MapOf[string, *xsync.MapOf[string, []byte]]
}

// NewMemoryStore creates a new in-memory store instance.
// Data is not persisted and is lost when the process exits.
func NewMemoryStore() store.IStore {
	return &storeImpl{
		buckets: xsync.NewMapOf[string, *xsync.MapOf[string, []byte]](),
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Get(bucket, key string) ([]byte, bool, error) {
	if err := validate(bucket); err != nil {
		return nil, false, err
	}
	b, ok := s.buckets.Load(bucket)
	if !ok {
		return nil, false, nil
	}
	val, ok := b.Load(key)
	return val, ok, nil
}

func (s *storeImpl) Put(bucket, key string, value []byte) error {
	if err := validate(bucket); err != nil {
		return err
	}

	// the stored value must not alias the caller's buffer
	stored := make([]byte, len(value))
	copy(stored, value)

	b, _ := s.buckets.LoadOrCompute(bucket, func() *xsync.MapOf[string, []byte] {
		return xsync.NewMapOf[string, []byte]()
	})
	b.Store(key, stored)
	return nil
}

func (s *storeImpl) Remove(bucket, key string) (bool, error) {
	if err := validate(bucket); err != nil {
		return false, err
	}
	b, ok := s.buckets.Load(bucket)
	if !ok {
		return false, nil
	}
	_, removed := b.LoadAndDelete(key)
	return removed, nil
}

func (s *storeImpl) Contains(bucket, key string) (bool, error) {
	if err := validate(bucket); err != nil {
		return false, err
	}
	b, ok := s.buckets.Load(bucket)
	if !ok {
		return false, nil
	}
	_, ok = b.Load(key)
	return ok, nil
}

func (s *storeImpl) Keys(bucket string) ([]string, error) {
	if err := validate(bucket); err != nil {
		return nil, err
	}
	keys := make([]string, 0)
	b, ok := s.buckets.Load(bucket)
	if !ok {
		return keys, nil
	}
	b.Range(func(key string, _ []byte) bool {
		keys = append(keys, key)
		return true
	})
	sort.Strings(keys)
	return keys, nil
}

func (s *storeImpl) Size(bucket string) (int, error) {
	if err := validate(bucket); err != nil {
		return 0, err
	}
	b, ok := s.buckets.Load(bucket)
	if !ok {
		return 0, nil
	}
	return b.Size(), nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

func validate(bucket string) error {
	if bucket == "" {
		return store.NewError(store.RetCInvalidOperation, "bucket name must not be empty")
	}
	return nil
}
