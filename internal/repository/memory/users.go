package memory

import (
	"context"
	"sync"

	"github.com/iliyamo/concert-seat-reservation/internal/model"
	"github.com/iliyamo/concert-seat-reservation/internal/repository"
	"github.com/iliyamo/concert-seat-reservation/internal/utils"
)

// Users is an in-process user directory with the same behaviour as
// repository.UserRepo.
type Users struct {
	mu      sync.RWMutex
	byID    map[uint64]model.User
	byEmail map[string]uint64
	nextID  uint64
}

func NewUsers() *Users {
	return &Users{byID: make(map[uint64]model.User), byEmail: make(map[string]uint64)}
}

// Create hashes the password and stores the user.  Emails are unique
// ignoring case.
func (u *Users) Create(_ context.Context, username, email, password, status string, cost int) (uint64, error) {
	email, status = model.NormalizeEmail(email), model.NormalizeStatus(status)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.byEmail[email]; ok {
		return 0, repository.ErrEmailExists
	}
	u.nextID++
	u.byID[u.nextID] = model.User{ID: u.nextID, Username: username, Email: email, PasswordHash: hash, Status: status}
	u.byEmail[email] = u.nextID
	return u.nextID, nil
}

func (u *Users) GetByEmail(_ context.Context, email string) (model.User, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	id, ok := u.byEmail[model.NormalizeEmail(email)]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u.byID[id], nil
}

func (u *Users) GetByID(_ context.Context, id uint64) (model.User, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	usr, ok := u.byID[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return usr, nil
}
