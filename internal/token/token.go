// Package token derives and checks deterministic preview tokens for draft
// campaigns. A token is a pure function of the process secret, the campaign
// ID and the campaign's creation timestamp, so nothing is persisted and the
// token stops mattering the moment the campaign is published.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"
)

// Length is the token length in hex characters (64 bits), short enough for
// a URL and wide enough to rule out casual guessing.
const Length = 16

type Service struct {
	secret []byte
}

func NewService(secret string) *Service {
	return &Service{secret: []byte(secret)}
}

// Generate derives the preview token for one campaign. Calling it twice with
// the same inputs yields the same token.
func (s *Service) Generate(campaignID int, createdAt time.Time) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%d|%d", campaignID, createdAt.UTC().Unix())
	return hex.EncodeToString(mac.Sum(nil))[:Length]
}

// Validate recomputes the expected token and compares in constant time.
func (s *Service) Validate(campaignID int, createdAt time.Time, candidate string) bool {
	expected := s.Generate(campaignID, createdAt)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(candidate)) == 1
}
