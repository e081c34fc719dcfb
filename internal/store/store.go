// Package store persists reviews and users in a relational database.
package store

import (
	"sync"

	"github.com/huangsam/codecritic/internal/contract"
)

// ErrNotFound is returned when a review or user does not exist.
var ErrNotFound = contract.ErrNotFound

// StoreManager holds the review and user stores that share one connection.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	reviews      contract.ReviewStore
	users        contract.UserStore
}

var _ contract.StoreManager = &StoreManager{} // Compile-time check

// NewStoreManager wraps already opened stores, mostly for tests and embedding.
func NewStoreManager(reviews contract.ReviewStore, users contract.UserStore) *StoreManager {
	return &StoreManager{reviews: reviews, users: users}
}

// GetReviewStore returns the ReviewStore.
func (mgr *StoreManager) GetReviewStore() contract.ReviewStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.reviews
}

// GetUserStore returns the UserStore.
func (mgr *StoreManager) GetUserStore() contract.UserStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.users
}
