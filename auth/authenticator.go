package auth

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/jaffarkeikei/vector-markets/models"
)

const (
	nonceTTL   = 5 * time.Minute
	sessionTTL = 24 * time.Hour

	noncePrefix   = "auth:nonce:"
	sessionPrefix = "auth:session:"
)

var (
	// ErrInvalidAddress means the wallet address is not a valid public key
	ErrInvalidAddress = errors.New("invalid wallet address")

	// ErrNonceNotFound means no challenge is outstanding for the wallet;
	// expired and consumed nonces look the same as never-issued ones
	ErrNonceNotFound = errors.New("nonce not found or expired")

	// ErrNonceMismatch means the signed message is not the issued challenge
	ErrNonceMismatch = errors.New("nonce does not match")

	// ErrInvalidSignature means signature verification failed
	ErrInvalidSignature = errors.New("signature verification failed")

	// ErrInvalidToken means the session token is unknown or expired
	ErrInvalidToken = errors.New("invalid or expired session token")
)

// UserProvisioner supplies the get-or-create hook the authenticator calls
// on a successful wallet connect
type UserProvisioner interface {
	GetOrCreateByWallet(ctx context.Context, walletAddress string) (*models.User, error)
}

// Authenticator implements the wallet challenge-response flow. A wallet
// address is the hex-encoded ed25519 public key; proving control of the
// key is proving ownership of the address. Sessions are opaque tokens in
// the TTL store, so revocation is a delete.
type Authenticator struct {
	store TTLStore
	users UserProvisioner
}

// NewAuthenticator creates a new authenticator
func NewAuthenticator(store TTLStore, users UserProvisioner) *Authenticator {
	return &Authenticator{store: store, users: users}
}

// Session is an issued session token with its expiry
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}

// Challenge is an issued signing challenge
type Challenge struct {
	Nonce     string
	ExpiresAt time.Time
}

// Nonce issues a fresh signing challenge for a wallet. Re-requesting
// replaces any outstanding challenge.
func (a *Authenticator) Nonce(ctx context.Context, walletAddress string) (*Challenge, error) {
	if _, err := decodePublicKey(walletAddress); err != nil {
		return nil, err
	}

	nonce := fmt.Sprintf("Sign this message to authenticate with Vector Markets: %s", uuid.NewString())
	if err := a.store.Set(ctx, noncePrefix+walletAddress, nonce, nonceTTL); err != nil {
		return nil, fmt.Errorf("failed to store nonce: %w", err)
	}

	return &Challenge{
		Nonce:     nonce,
		ExpiresAt: time.Now().Add(nonceTTL),
	}, nil
}

// Connect verifies a signed challenge, provisions the user on first
// connect and issues a session token. The nonce is consumed whether or
// not verification succeeds.
func (a *Authenticator) Connect(ctx context.Context, walletAddress, nonce, signatureHex string) (*Session, error) {
	publicKey, err := decodePublicKey(walletAddress)
	if err != nil {
		return nil, err
	}

	stored, ok, err := a.store.Get(ctx, noncePrefix+walletAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to read nonce: %w", err)
	}
	if !ok {
		return nil, ErrNonceNotFound
	}
	if stored != nonce {
		return nil, ErrNonceMismatch
	}

	if err := a.store.Delete(ctx, noncePrefix+walletAddress); err != nil {
		return nil, fmt.Errorf("failed to consume nonce: %w", err)
	}

	signature, err := hex.DecodeString(signatureHex)
	if err != nil || len(signature) != ed25519.SignatureSize {
		return nil, ErrInvalidSignature
	}
	if !ed25519.Verify(publicKey, []byte(nonce), signature) {
		return nil, ErrInvalidSignature
	}

	user, err := a.users.GetOrCreateByWallet(ctx, walletAddress)
	if err != nil {
		return nil, err
	}

	token := uuid.NewString()
	if err := a.store.Set(ctx, sessionPrefix+token, user.ID, sessionTTL); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	log.WithFields(log.Fields{
		"userID": user.ID,
		"wallet": walletAddress,
	}).Info("Wallet connected")

	return &Session{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(sessionTTL),
	}, nil
}

// Resolve maps a session token to a user ID
func (a *Authenticator) Resolve(ctx context.Context, token string) (string, error) {
	userID, ok, err := a.store.Get(ctx, sessionPrefix+token)
	if err != nil {
		return "", fmt.Errorf("failed to read session: %w", err)
	}
	if !ok {
		return "", ErrInvalidToken
	}
	return userID, nil
}

// Disconnect revokes a session token
func (a *Authenticator) Disconnect(ctx context.Context, token string) error {
	return a.store.Delete(ctx, sessionPrefix+token)
}

func decodePublicKey(walletAddress string) (ed25519.PublicKey, error) {
	key, err := hex.DecodeString(walletAddress)
	if err != nil || len(key) != ed25519.PublicKeySize {
		return nil, ErrInvalidAddress
	}
	return ed25519.PublicKey(key), nil
}
