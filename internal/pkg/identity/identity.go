// Package identity exchanges a one-time session id from an external identity
// provider for the user's profile.
package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrRejected 身份提供方拒绝了该 session id
var ErrRejected = errors.New("identity provider rejected the session")

// Identity 身份提供方返回的用户资料
type Identity struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Picture      string `json:"picture"`
	SessionToken string `json:"session_token"`
}

// Exchanger 用一次性 session id 换取用户身份
type Exchanger interface {
	Exchange(ctx context.Context, sessionID string) (*Identity, error)
}

// NewSessionToken 生成 256 位随机会话令牌
func NewSessionToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
