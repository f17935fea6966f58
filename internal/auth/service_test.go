package auth_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/danuandrean/pettycash/internal/auth"
)

func TestAuth(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Suite")
}

type mockAuthRepository struct {
	users  map[int64]*auth.User
	hashes map[string]string
	ids    map[string]int64
}

func newMockAuthRepository() *mockAuthRepository {
	return &mockAuthRepository{
		users:  make(map[int64]*auth.User),
		hashes: make(map[string]string),
		ids:    make(map[string]int64),
	}
}

func (m *mockAuthRepository) addUser(u *auth.User, password string) {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	m.users[u.ID] = u
	m.hashes[u.Email] = string(hash)
	m.ids[u.Email] = u.ID
}

func (m *mockAuthRepository) GetPasswordForEmail(email string) (string, int64, error) {
	hash, exists := m.hashes[email]
	if !exists {
		return "", 0, auth.ErrInvalidCredentials
	}
	return hash, m.ids[email], nil
}

func (m *mockAuthRepository) GetUser(userID int64) (*auth.User, error) {
	u, exists := m.users[userID]
	if !exists {
		return nil, auth.ErrInvalidCredentials
	}
	return u, nil
}

var _ = Describe("AuthService", func() {
	var (
		service  *auth.Service
		mockRepo *mockAuthRepository
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		mockRepo = newMockAuthRepository()
		tokens := auth.NewTokenManager("0123456789abcdef0123456789abcdef", 15*time.Minute)
		service = auth.NewService(mockRepo, tokens, logger)

		mockRepo.addUser(&auth.User{
			ID:       1,
			Email:    "dina@mail.com",
			Name:     "Dina",
			Role:     auth.RolePreparer,
			IsActive: true,
		}, "secret")
	})

	Describe("Authenticate", func() {
		It("returns a bearer token for valid credentials", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{Email: "dina@mail.com", Password: "secret"})

			Expect(err).ToNot(HaveOccurred())
			Expect(tokens.AccessToken).ToNot(BeEmpty())
			Expect(tokens.TokenType).To(Equal("Bearer"))
			Expect(tokens.User.ID).To(Equal(int64(1)))
		})

		It("rejects a wrong password", func() {
			_, err := service.Authenticate(auth.LoginDTO{Email: "dina@mail.com", Password: "nope"})

			Expect(err).To(MatchError(auth.ErrInvalidCredentials))
		})

		It("rejects an unknown email", func() {
			_, err := service.Authenticate(auth.LoginDTO{Email: "ghost@mail.com", Password: "secret"})

			Expect(err).To(MatchError(auth.ErrInvalidCredentials))
		})

		It("rejects an inactive user", func() {
			mockRepo.users[1].IsActive = false

			_, err := service.Authenticate(auth.LoginDTO{Email: "dina@mail.com", Password: "secret"})

			Expect(err).To(MatchError(auth.ErrUserInactive))
		})
	})

	Describe("ValidateAccessToken", func() {
		It("round-trips the claims", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{Email: "dina@mail.com", Password: "secret"})
			Expect(err).ToNot(HaveOccurred())

			claims, err := service.ValidateAccessToken(tokens.AccessToken)

			Expect(err).ToNot(HaveOccurred())
			Expect(claims.UserID).To(Equal(int64(1)))
			Expect(claims.Role).To(Equal(auth.RolePreparer))
		})

		It("rejects a token signed with a different secret", func() {
			other := auth.NewTokenManager("ffffffffffffffffffffffffffffffff", 15*time.Minute)
			forged, _, err := other.Generate(mockRepo.users[1])
			Expect(err).ToNot(HaveOccurred())

			_, err = service.ValidateAccessToken(forged)

			Expect(err).To(MatchError(auth.ErrInvalidToken))
		})

		It("rejects garbage", func() {
			_, err := service.ValidateAccessToken("not-a-token")

			Expect(err).To(MatchError(auth.ErrInvalidToken))
		})
	})

	Describe("roles", func() {
		It("lets approvers and admins approve", func() {
			Expect((&auth.User{Role: auth.RoleApprover}).CanApprove()).To(BeTrue())
			Expect((&auth.User{Role: auth.RoleAdmin}).CanApprove()).To(BeTrue())
			Expect((&auth.User{Role: auth.RolePreparer}).CanApprove()).To(BeFalse())
		})
	})
})
