package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrProfileNotFound      = errors.New("profile not found")
	ErrProfileAlreadyExists = errors.New("profile already exists")
	ErrProfileNotApproved   = errors.New("profile is not approved")
	ErrProfileHidden        = errors.New("profile is not visible")
	ErrInvalidLocation      = errors.New("latitude and longitude must be set together")

	ErrCannotSwipeSelf    = errors.New("cannot swipe yourself")
	ErrSwipeAlreadyExists = errors.New("a different decision was already recorded for this user")
	ErrQuotaExceeded      = errors.New("like quota exceeded")

	ErrCannotBefriendSelf    = errors.New("cannot send a friend request to yourself")
	ErrFriendRequestExists   = errors.New("friend request already exists")
	ErrFriendRequestNotFound = errors.New("pending friend request not found")
	ErrAlreadyFriends        = errors.New("users are already friends")
	ErrCannotBlockSelf       = errors.New("cannot block yourself")
	ErrBlocked               = errors.New("interaction blocked")

	ErrNotificationNotFound = errors.New("notification not found")

	ErrTransientStore = errors.New("store unavailable")
)

// QuotaExceededError is returned when a like is rejected by the sliding-window quota.
// It is an expected condition: callers show ResetAt and let the user retry afterwards.
type QuotaExceededError struct {
	Limit   int
	ResetAt time.Time
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("like quota of %d exceeded, resets at %s", e.Limit, e.ResetAt.UTC().Format(time.RFC3339))
}

func (e *QuotaExceededError) Is(target error) bool {
	return target == ErrQuotaExceeded
}

// StoreError wraps any I/O failure talking to the backing store. It is retriable.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return target == ErrTransientStore
}

// NewStoreError wraps err unless it is nil or already a domain error.
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsDomainError(err) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// IsDomainError reports whether err is one of the sentinel errors callers are expected to handle.
func IsDomainError(err error) bool {
	var se *StoreError
	if errors.As(err, &se) {
		return true
	}
	for _, target := range []error{
		ErrProfileNotFound, ErrProfileAlreadyExists, ErrProfileNotApproved, ErrProfileHidden, ErrInvalidLocation,
		ErrCannotSwipeSelf, ErrSwipeAlreadyExists, ErrQuotaExceeded,
		ErrCannotBefriendSelf, ErrFriendRequestExists, ErrFriendRequestNotFound,
		ErrAlreadyFriends, ErrCannotBlockSelf, ErrBlocked, ErrNotificationNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
