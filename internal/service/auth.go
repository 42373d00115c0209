package service

import (
	"crypto/sha256"
	"encoding/hex"

	"go.uber.org/zap"

	"github.com/kenijima/chainmark/internal/apperr"
	"github.com/kenijima/chainmark/internal/crypto"
	"github.com/kenijima/chainmark/internal/models"
	"github.com/kenijima/chainmark/internal/repository"
	"github.com/kenijima/chainmark/internal/token"
	"github.com/kenijima/chainmark/internal/wallet"
)

// AuthService registers users and signs them in. Each registered user
// gets a fresh on-chain account; the private key is stored encrypted
// and handed back to the caller exactly once, in the register response.
type AuthService struct {
	users  repository.UserRepository
	tokens *token.Manager
	keys   *crypto.KeyManager
	logger *zap.Logger
}

func NewAuthService(users repository.UserRepository, tokens *token.Manager, keys *crypto.KeyManager, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, keys: keys, logger: logger}
}

// Register validates the credentials, generates the user's account and
// persists the row. Returns the 0x-prefixed address and private key.
func (s *AuthService) Register(username, password, companyName string) (address, privateKey string, err error) {
	if username == "" {
		return "", "", apperr.EmptyUsername()
	}
	if len(password) < 3 {
		return "", "", apperr.TooShortPassword()
	}

	existing, err := s.users.SelectByUsername(username)
	if err != nil {
		return "", "", apperr.Database(err)
	}
	if existing != nil {
		return "", "", apperr.UserAlreadyExists()
	}

	privateKey, address, err = wallet.GenerateAccount()
	if err != nil {
		return "", "", err
	}

	sealed, err := s.keys.SealPrivateKey(privateKey)
	if err != nil {
		return "", "", err
	}

	user := &models.User{
		CompanyName: companyName,
		Username:    username,
		Password:    digestPassword(password),
		Address:     address,
		PrivateKey:  sealed,
	}
	if err := s.users.Insert(user); err != nil {
		if repository.IsUniqueViolation(err) {
			return "", "", apperr.UserAlreadyExists()
		}
		return "", "", apperr.Database(err)
	}

	s.logger.Info("Registered user",
		zap.String("username", username),
		zap.String("address", address))

	return address, privateKey, nil
}

// Login checks the password digest and issues a bearer token.
func (s *AuthService) Login(username, password string) (address, tokenString string, err error) {
	user, err := s.users.SelectByUsername(username)
	if err != nil {
		return "", "", apperr.Database(err)
	}
	if user == nil {
		return "", "", apperr.UserNotFound()
	}

	if user.Password != digestPassword(password) {
		return "", "", apperr.InvalidPassword()
	}

	tokenString, err = s.tokens.Generate(username)
	if err != nil {
		return "", "", err
	}

	s.logger.Info("User logged in", zap.String("username", username))

	return user.Address, tokenString, nil
}

func digestPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
