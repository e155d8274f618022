// Package vault is the sole custodian of candidate PII. Access is gated by
// opaque tokens: possession of a token issued by Store is the only way to get
// a PiiRecord back.
package vault

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"

	"blindhire/internal/screening"
)

const tokenBytes = 16

// Vault maps opaque tokens to PII records. Safe for concurrent use. A Vault
// is owned by the batch that created it and purged when the session ends.
type Vault struct {
	mu      sync.RWMutex
	records map[screening.Token]screening.PiiRecord
}

func New() *Vault {
	return &Vault{records: make(map[screening.Token]screening.PiiRecord)}
}

// Store associates a fresh unguessable token with the given record and
// returns the token.
func (v *Vault) Store(pii screening.PiiRecord) (screening.Token, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for {
		tok, err := newToken()
		if err != nil {
			return "", fmt.Errorf("generate token: %w", err)
		}
		if _, exists := v.records[tok]; exists {
			continue
		}
		v.records[tok] = pii
		return tok, nil
	}
}

// Retrieve returns the record stored under the token. A token that was never
// issued, or was wiped by Purge, yields screening.ErrUnknownToken; there is
// no partial result.
func (v *Vault) Retrieve(tok screening.Token) (screening.PiiRecord, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	pii, ok := v.records[tok]
	if !ok {
		return screening.PiiRecord{}, screening.ErrUnknownToken
	}
	return pii, nil
}

// Discard removes the record stored under the token. Used to unwind tokens
// issued by a batch that did not complete.
func (v *Vault) Discard(tok screening.Token) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.records, tok)
}

// Purge drops every stored record. All previously issued tokens become
// unknown.
func (v *Vault) Purge() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.records = make(map[screening.Token]screening.PiiRecord)
}

// Len reports the number of stored records.
func (v *Vault) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.records)
}

func newToken() (screening.Token, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return screening.Token(hex.EncodeToString(buf)), nil
}
