package service

import (
	"apec_lms_backend/internal/config"
	"apec_lms_backend/internal/model"
	"apec_lms_backend/internal/util"
	"apec_lms_backend/pkg/logger"
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/mr-tron/base58"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const challengeTTL = 5 * time.Minute

// UserStore is the slice of the user repository the sign-in flow needs.
type UserStore interface {
	FindByWallet(walletAddress string) (*model.User, error)
	Create(user *model.User) error
	Update(user *model.User) error
}

// NonceStore issues and consumes one-time sign-in challenges.
type NonceStore interface {
	Issue(ctx context.Context, walletAddress, nonce string) error
	Consume(ctx context.Context, walletAddress string) (string, error)
}

// AuthService implements the explicit wallet handshake: the client requests a
// challenge, signs it with the wallet's ed25519 key, and exchanges the
// signature for a JWT. Users are created on first successful sign-in.
type AuthService struct {
	Users  UserStore
	Nonces NonceStore
	Cfg    *config.Config

	now func() time.Time
}

func NewAuthService(users UserStore, nonces NonceStore, cfg *config.Config) *AuthService {
	return &AuthService{
		Users:  users,
		Nonces: nonces,
		Cfg:    cfg,
		now:    time.Now,
	}
}

// Challenge issues a fresh nonce for the wallet to sign. The wallet address
// must decode to a 32-byte ed25519 public key.
func (s *AuthService) Challenge(ctx context.Context, walletAddress string) (string, error) {
	if _, err := decodeWalletKey(walletAddress); err != nil {
		return "", util.ErrInvalidWalletAddress
	}

	nonce := fmt.Sprintf("Sign in to APEC LMS: %s", uuid.New().String())
	if err := s.Nonces.Issue(ctx, walletAddress, nonce); err != nil {
		return "", err
	}
	return nonce, nil
}

type LoginResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Login verifies the signed challenge, consumes the nonce, finds or creates
// the user, applies a valid role hint, and issues a JWT.
func (s *AuthService) Login(ctx context.Context, walletAddress, signatureB58 string, roleHint model.UserRole) (*LoginResult, error) {
	pubKey, err := decodeWalletKey(walletAddress)
	if err != nil {
		return nil, util.ErrInvalidWalletAddress
	}

	nonce, err := s.Nonces.Consume(ctx, walletAddress)
	if err != nil {
		return nil, util.ErrChallengeExpired
	}

	sig, err := base58.Decode(signatureB58)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return nil, util.ErrInvalidSignature
	}
	if !ed25519.Verify(pubKey, []byte(nonce), sig) {
		return nil, util.ErrInvalidSignature
	}

	user, err := s.Users.FindByWallet(walletAddress)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = &model.User{WalletAddress: walletAddress}
		if model.ValidRole(roleHint) {
			user.Role = roleHint
		}
		if err := s.Users.Create(user); err != nil {
			return nil, err
		}
		logger.Log.Info("created user on first sign-in",
			zap.String("wallet", walletAddress),
			zap.String("role", string(user.Role)))
	} else if err != nil {
		return nil, err
	} else if user.Role == "" && model.ValidRole(roleHint) {
		// The hint only fills a missing role; a chosen role never changes.
		user.Role = roleHint
	}

	user.LastLogin = s.now()
	if err := s.Users.Update(user); err != nil {
		return nil, err
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, User: user}, nil
}

func decodeWalletKey(walletAddress string) (ed25519.PublicKey, error) {
	raw, err := base58.Decode(walletAddress)
	if err != nil || len(raw) != ed25519.PublicKeySize {
		return nil, util.ErrInvalidWalletAddress
	}
	return ed25519.PublicKey(raw), nil
}

// redisNonceStore keeps challenges in Redis under a TTL so an abandoned
// handshake expires on its own.
type redisNonceStore struct {
	rdb *redis.Client
}

func NewRedisNonceStore(rdb *redis.Client) NonceStore {
	return &redisNonceStore{rdb: rdb}
}

func nonceKey(walletAddress string) string {
	return "auth:nonce:" + walletAddress
}

func (s *redisNonceStore) Issue(ctx context.Context, walletAddress, nonce string) error {
	return s.rdb.Set(ctx, nonceKey(walletAddress), nonce, challengeTTL).Err()
}

// Consume atomically fetches and removes the challenge, so two concurrent
// logins can never both redeem the same nonce.
func (s *redisNonceStore) Consume(ctx context.Context, walletAddress string) (string, error) {
	return s.rdb.GetDel(ctx, nonceKey(walletAddress)).Result()
}
