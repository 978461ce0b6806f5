package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/auth-service/internal/hasher"
	"github.com/dtroode/auth-service/internal/model"
	"github.com/dtroode/auth-service/internal/repository/memory"
	"github.com/dtroode/auth-service/internal/testutil"
	"github.com/dtroode/auth-service/internal/token"
	"github.com/dtroode/auth-service/internal/validation"
)

type fixture struct {
	auth   *Auth
	tokens *TokenService
	jwt    *token.JWT
	users  *memory.UserRepository
}

func newFixture(t *testing.T, rotate bool, opts AuthOptions) *fixture {
	t.Helper()

	h, err := hasher.NewBcrypt(bcrypt.MinCost)
	require.NoError(t, err)

	j, err := token.NewJWT(
		token.Key("access-secret-access-secret-0001"),
		token.Key("refresh-secret-refresh-secret-01"),
		30*time.Minute,
		7*24*time.Hour,
	)
	require.NoError(t, err)

	users := memory.NewUserRepository()
	log := testutil.MakeNoopLogger()
	tokens := NewTokenService(j, users, rotate, nil, log)
	auth := NewAuth(users, h, tokens, validation.New(8), opts, log)

	return &fixture{auth: auth, tokens: tokens, jwt: j, users: users}
}

func registerParams(email string) model.RegisterParams {
	return model.RegisterParams{Email: email, Password: "Str0ngPass!", FullName: "Alice Example"}
}
