package iocache

import (
	"github.com/stretchr/testify/mock"

	"github.com/huangsam/archmine/internal/contract"
	"github.com/huangsam/archmine/schema"
)

// MockCacheManager is a mock implementation of CacheManager for testing.
type MockCacheManager struct {
	mock.Mock
}

var _ contract.CacheManager = &MockCacheManager{} // Compile-time check

// GetPatternStore implements the CacheManager interface.
func (m *MockCacheManager) GetPatternStore() contract.PatternStore {
	args := m.Called()
	if store := args.Get(0); store != nil {
		return store.(contract.PatternStore)
	}
	return nil
}

// MockPatternStore is a mock implementation of PatternStore for testing.
type MockPatternStore struct {
	mock.Mock
}

var _ contract.PatternStore = &MockPatternStore{} // Compile-time check

// Get implements the PatternStore interface.
func (m *MockPatternStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	var value []byte
	if v := args.Get(0); v != nil {
		value = v.([]byte)
	}
	return value, args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the PatternStore interface.
func (m *MockPatternStore) Set(key string, value []byte, version int, timestamp int64) error {
	args := m.Called(key, value, version, timestamp)
	return args.Error(0)
}

// GetStatus implements the PatternStore interface.
func (m *MockPatternStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// Close implements the PatternStore interface.
func (m *MockPatternStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
