package memory

import (
	"context"
	"sync"

	"github.com/guardkit/guardkit/remember"
)

// TokenProvider is a map-backed guardkit.TokenProvider keyed by series.
// Every provider call is counted so tests can assert how often the guard
// touched storage.
type TokenProvider struct {
	mu     sync.RWMutex
	tokens map[string]*remember.Token

	createCalls int
	getCalls    int
	updateCalls int
	deleteCalls int
}

// NewTokenProvider returns an empty provider.
func NewTokenProvider() *TokenProvider {
	return &TokenProvider{tokens: make(map[string]*remember.Token)}
}

// CreateToken implements guardkit.TokenProvider.
func (p *TokenProvider) CreateToken(ctx context.Context, token *remember.Token) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.createCalls++
	p.tokens[token.Series] = stripValue(token)
	return nil
}

// GetTokenBySeries implements guardkit.TokenProvider. Unknown series yields
// (nil, nil).
func (p *TokenProvider) GetTokenBySeries(ctx context.Context, series string) (*remember.Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.getCalls++
	token, ok := p.tokens[series]
	if !ok {
		return nil, nil
	}
	clone := *token
	return &clone, nil
}

// UpdateTokenBySeries implements guardkit.TokenProvider.
func (p *TokenProvider) UpdateTokenBySeries(ctx context.Context, series string, token *remember.Token) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.updateCalls++
	p.tokens[series] = stripValue(token)
	return nil
}

// DeleteTokenBySeries implements guardkit.TokenProvider. Deleting an unknown
// series is a no-op.
func (p *TokenProvider) DeleteTokenBySeries(ctx context.Context, series string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.deleteCalls++
	delete(p.tokens, series)
	return nil
}

// Len returns the number of stored tokens.
func (p *TokenProvider) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.tokens)
}

// UpdateCalls returns how many times UpdateTokenBySeries has run.
func (p *TokenProvider) UpdateCalls() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.updateCalls
}

// GetCalls returns how many times GetTokenBySeries has run.
func (p *TokenProvider) GetCalls() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.getCalls
}

// CreateCalls returns how many times CreateToken has run.
func (p *TokenProvider) CreateCalls() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.createCalls
}

// DeleteCalls returns how many times DeleteTokenBySeries has run.
func (p *TokenProvider) DeleteCalls() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.deleteCalls
}

// Touch rewrites a stored token's timestamps, letting tests move a token
// into or out of the rotation grace window.
func (p *TokenProvider) Touch(series string, mutate func(*remember.Token)) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	token, ok := p.tokens[series]
	if !ok {
		return false
	}
	mutate(token)
	return true
}

func stripValue(token *remember.Token) *remember.Token {
	clone := *token
	clone.Value = ""
	return &clone
}
