package memory

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/guardkit/guardkit"
)

// ErrUnsupportedUser is returned when a value that is not a *User (or a
// guardkit.ProviderUser wrapping one) is passed to CreateUserForGuard.
var ErrUnsupportedUser = errors.New("memory: unsupported user type")

// User is the application-side user record this provider manages.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
}

type providerUser struct {
	user *User
}

func (p providerUser) GetID() string    { return p.user.ID }
func (p providerUser) GetOriginal() any { return p.user }

// UserProvider is a map-backed guardkit.UserProvider. Passwords are stored
// and verified with bcrypt.
type UserProvider struct {
	mu      sync.RWMutex
	byID    map[string]*User
	byEmail map[string]*User
}

// NewUserProvider returns an empty provider.
func NewUserProvider() *UserProvider {
	return &UserProvider{
		byID:    make(map[string]*User),
		byEmail: make(map[string]*User),
	}
}

// AddUser registers a user with a bcrypt-hashed password and returns the
// stored record.
func (p *UserProvider) AddUser(id, email, password string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &User{ID: id, Email: email, PasswordHash: hash}

	p.mu.Lock()
	p.byID[id] = user
	p.byEmail[email] = user
	p.mu.Unlock()

	return user, nil
}

// RemoveUser deletes a user, simulating account deletion while sessions or
// remember-me tokens still reference it.
func (p *UserProvider) RemoveUser(id string) {
	p.mu.Lock()
	if user, ok := p.byID[id]; ok {
		delete(p.byEmail, user.Email)
		delete(p.byID, id)
	}
	p.mu.Unlock()
}

// FindByID implements guardkit.UserProvider.
func (p *UserProvider) FindByID(ctx context.Context, id string) (guardkit.ProviderUser, error) {
	p.mu.RLock()
	user, ok := p.byID[id]
	p.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	return providerUser{user: user}, nil
}

// VerifyCredentials implements guardkit.UserProvider. The uid is the user's
// email. A bad email and a bad password are indistinguishable to the caller.
func (p *UserProvider) VerifyCredentials(ctx context.Context, uid, password string) (guardkit.ProviderUser, error) {
	p.mu.RLock()
	user, ok := p.byEmail[uid]
	p.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return nil, nil
	}
	return providerUser{user: user}, nil
}

// CreateUserForGuard implements guardkit.UserProvider. It accepts a *User
// (registered on first sight) or a guardkit.ProviderUser wrapping one.
func (p *UserProvider) CreateUserForGuard(ctx context.Context, user any) (guardkit.ProviderUser, error) {
	switch v := user.(type) {
	case *User:
		p.mu.Lock()
		if _, ok := p.byID[v.ID]; !ok {
			p.byID[v.ID] = v
			p.byEmail[v.Email] = v
		}
		p.mu.Unlock()
		return providerUser{user: v}, nil
	case guardkit.ProviderUser:
		if u, ok := v.GetOriginal().(*User); ok {
			return p.CreateUserForGuard(ctx, u)
		}
		return nil, ErrUnsupportedUser
	default:
		return nil, ErrUnsupportedUser
	}
}
