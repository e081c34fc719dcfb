package store

import (
	"context"
	"time"

	"github.com/huangsam/codecritic/internal/contract"
	"github.com/huangsam/codecritic/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetReviewStore implements the StoreManager interface.
func (m *MockStoreManager) GetReviewStore() contract.ReviewStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.ReviewStore)
	return store
}

// GetUserStore implements the StoreManager interface.
func (m *MockStoreManager) GetUserStore() contract.UserStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.UserStore)
	return store
}

// MockReviewStore is a mock implementation of ReviewStore for testing.
type MockReviewStore struct {
	mock.Mock
}

var _ contract.ReviewStore = &MockReviewStore{} // Compile-time check

// InsertReview implements the ReviewStore interface.
func (m *MockReviewStore) InsertReview(ctx context.Context, record schema.ReviewRecord) (int64, error) {
	args := m.Called(ctx, record)
	return args.Get(0).(int64), args.Error(1)
}

// ListReviews implements the ReviewStore interface.
func (m *MockReviewStore) ListReviews(ctx context.Context, limit int) ([]schema.ReviewRecord, error) {
	args := m.Called(ctx, limit)
	records, _ := args.Get(0).([]schema.ReviewRecord)
	return records, args.Error(1)
}

// GetReview implements the ReviewStore interface.
func (m *MockReviewStore) GetReview(ctx context.Context, id int64) (schema.ReviewRecord, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(schema.ReviewRecord), args.Error(1)
}

// GetAllReviews implements the ReviewStore interface.
func (m *MockReviewStore) GetAllReviews(ctx context.Context) ([]schema.ReviewRecord, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]schema.ReviewRecord)
	return records, args.Error(1)
}

// GetAnalytics implements the ReviewStore interface.
func (m *MockReviewStore) GetAnalytics(ctx context.Context) (schema.Analytics, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.Analytics), args.Error(1)
}

// GetStatus implements the ReviewStore interface.
func (m *MockReviewStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Close implements the ReviewStore interface.
func (m *MockReviewStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockUserStore is a mock implementation of UserStore for testing.
type MockUserStore struct {
	mock.Mock
}

var _ contract.UserStore = &MockUserStore{} // Compile-time check

// CreateUser implements the UserStore interface.
func (m *MockUserStore) CreateUser(ctx context.Context, user schema.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

// GetUserByUsername implements the UserStore interface.
func (m *MockUserStore) GetUserByUsername(ctx context.Context, username string) (schema.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(schema.User), args.Error(1)
}

// GetUserByID implements the UserStore interface.
func (m *MockUserStore) GetUserByID(ctx context.Context, id int64) (schema.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(schema.User), args.Error(1)
}

// ListUsers implements the UserStore interface.
func (m *MockUserStore) ListUsers(ctx context.Context) ([]schema.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]schema.User)
	return users, args.Error(1)
}

// UpdateLastLogin implements the UserStore interface.
func (m *MockUserStore) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}
