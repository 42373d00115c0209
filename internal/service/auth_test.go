package service

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"
	"testing"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kenijima/chainmark/internal/apperr"
	"github.com/kenijima/chainmark/internal/crypto"
	"github.com/kenijima/chainmark/internal/models"
	"github.com/kenijima/chainmark/internal/token"
)

type fakeUserRepo struct {
	users     map[string]*models.User
	insertErr error
	nextID    int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) SelectByUsername(username string) (*models.User, error) {
	user, ok := r.users[username]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) Insert(user *models.User) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.nextID++
	user.ID = r.nextID
	stored := *user
	r.users[user.Username] = &stored
	return nil
}

func (r *fakeUserRepo) UpdateWatermarkSlot(userID int64, watermarkBase64 string) error {
	for _, user := range r.users {
		if user.ID == userID {
			user.WatermarkBase64 = watermarkBase64
		}
	}
	return nil
}

func newTestKeyManager(t *testing.T) *crypto.KeyManager {
	t.Helper()
	t.Setenv("MASTER_KEY", base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef")))
	km, err := crypto.NewKeyManager()
	require.NoError(t, err)
	return km
}

func newAuthService(t *testing.T, repo *fakeUserRepo) *AuthService {
	t.Helper()
	return NewAuthService(repo, token.NewManager("test-secret"), newTestKeyManager(t), zap.NewNop())
}

func assertAppError(t *testing.T, err error, code string, status int) {
	t.Helper()
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
	assert.Equal(t, status, appErr.Status)
}

func TestRegister(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(t, repo)

	address, privateKey, err := svc.Register("alice", "pw1", "Acme")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(address, "0x"))
	assert.True(t, strings.HasPrefix(privateKey, "0x"))

	key, err := ethcrypto.HexToECDSA(strings.TrimPrefix(privateKey, "0x"))
	require.NoError(t, err)
	assert.Equal(t, strings.ToLower(ethcrypto.PubkeyToAddress(key.PublicKey).Hex()), address)

	stored := repo.users["alice"]
	require.NotNil(t, stored)

	sum := sha256.Sum256([]byte("pw1"))
	assert.Equal(t, hex.EncodeToString(sum[:]), stored.Password)

	// The private key is sealed at rest and opens back to the handout.
	assert.NotEqual(t, privateKey, stored.PrivateKey)
	opened, err := newTestKeyManager(t).OpenPrivateKey(stored.PrivateKey)
	require.NoError(t, err)
	assert.Equal(t, privateKey, opened)
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthService(t, newFakeUserRepo())

	_, _, err := svc.Register("", "password", "Acme")
	assertAppError(t, err, "EmptyUsername", 400)

	_, _, err = svc.Register("alice", "pw", "Acme")
	assertAppError(t, err, "TooShortPassword", 400)
}

func TestRegisterDuplicate(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(t, repo)

	_, _, err := svc.Register("alice", "pw1", "Acme")
	require.NoError(t, err)

	_, _, err = svc.Register("alice", "pw1", "Acme")
	assertAppError(t, err, "UserAlreadyExists", 409)
}

func TestRegisterUniqueViolationRace(t *testing.T) {
	// Lookup sees no row but the insert still collides.
	repo := newFakeUserRepo()
	repo.insertErr = &pq.Error{Code: "23505"}
	svc := newAuthService(t, repo)

	_, _, err := svc.Register("alice", "pw1", "Acme")
	assertAppError(t, err, "UserAlreadyExists", 409)
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(t, repo)

	registeredAddress, _, err := svc.Register("alice", "pw1", "Acme")
	require.NoError(t, err)

	address, tokenString, err := svc.Login("alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, registeredAddress, address)

	subject, err := token.NewManager("test-secret").Validate(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(t, repo)

	_, _, err := svc.Register("alice", "pw1", "Acme")
	require.NoError(t, err)

	_, _, err = svc.Login("alice", "wrong")
	assertAppError(t, err, "InvalidPassword", 400)
}

func TestLoginUnknownUser(t *testing.T) {
	svc := newAuthService(t, newFakeUserRepo())

	_, _, err := svc.Login("nobody", "pw1")
	assertAppError(t, err, "UserNotFound", 404)
}
