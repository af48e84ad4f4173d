package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"resolvex/internal/config"
	"resolvex/internal/features/otp"
	"resolvex/internal/features/staff"
	"resolvex/internal/features/user"
	"resolvex/pkg/utils"
)

type fakeUserRepo struct {
	user.Repository
	byEmail map[string]*user.User
	created []*user.User
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	if account, ok := f.byEmail[email]; ok {
		return account, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*user.User, error) {
	for _, account := range f.byEmail {
		if account.ID == id {
			return account, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeUserRepo) Create(ctx context.Context, account *user.User) error {
	account.ID = primitive.NewObjectID()
	f.byEmail[account.Email] = account
	f.created = append(f.created, account)
	return nil
}

type fakeStaffAuthRepo struct {
	staff.Repository
	byEmail map[string]*staff.Staff
}

func (f *fakeStaffAuthRepo) FindByEmail(ctx context.Context, email string) (*staff.Staff, error) {
	if account, ok := f.byEmail[email]; ok {
		return account, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeStaffAuthRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*staff.Staff, error) {
	for _, account := range f.byEmail {
		if account.ID == id {
			return account, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

// acceptAllOTP treats one fixed code as valid for any identifier.
type acceptAllOTP struct {
	verified []string
}

func (o *acceptAllOTP) Request(ctx context.Context, identifier string, purpose otp.Purpose) error {
	return nil
}

func (o *acceptAllOTP) Verify(ctx context.Context, identifier string, purpose otp.Purpose, code string) error {
	if code != "123456" {
		return otp.ErrInvalidCode
	}
	o.verified = append(o.verified, identifier)
	return nil
}

func newAuthFixture(t *testing.T) (*ServiceImpl, *fakeUserRepo, *fakeStaffAuthRepo) {
	t.Helper()
	utils.SetSecret("test-secret")
	users := &fakeUserRepo{byEmail: map[string]*user.User{}}
	staffRepo := &fakeStaffAuthRepo{byEmail: map[string]*staff.Staff{}}
	service := &ServiceImpl{
		Users: users,
		Staff: staffRepo,
		OTP:   &acceptAllOTP{},
		Config: &config.Config{
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
	}
	return service, users, staffRepo
}

func TestSignup(t *testing.T) {
	service, users, _ := newAuthFixture(t)

	session, err := service.Signup(context.Background(), SignupRequest{
		Name:     "Resident",
		Email:    "  Resident@Example.com ",
		Password: "hunter22",
		OTP:      "123456",
	})
	require.NoError(t, err)

	require.Len(t, users.created, 1)
	account := users.created[0]
	assert.Equal(t, "resident@example.com", account.Email, "email is normalised")
	assert.Equal(t, "user", account.Role)
	assert.True(t, account.IsVerified)
	assert.NotEqual(t, "hunter22", account.Password, "password is stored hashed")

	assert.Equal(t, account.ID.Hex(), session.AccountID)
	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)

	claims, err := utils.ValidateToken(session.AccessToken, utils.TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, "user", claims.Role)
}

func TestSignupValidation(t *testing.T) {
	service, _, _ := newAuthFixture(t)

	tests := []struct {
		name string
		req  SignupRequest
	}{
		{"Missing Name", SignupRequest{Email: "a@b.com", Password: "hunter22", OTP: "123456"}},
		{"Short Password", SignupRequest{Name: "A", Email: "a@b.com", Password: "abc", OTP: "123456"}},
		{"Bad Phone", SignupRequest{Name: "A", Email: "a@b.com", Password: "hunter22", Phone: "12345", OTP: "123456"}},
		{"Wrong OTP", SignupRequest{Name: "A", Email: "a@b.com", Password: "hunter22", OTP: "000000"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Signup(context.Background(), tt.req)
			assert.Error(t, err)
		})
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	service, users, _ := newAuthFixture(t)
	users.byEmail["taken@example.com"] = &user.User{ID: primitive.NewObjectID(), Email: "taken@example.com"}

	_, err := service.Signup(context.Background(), SignupRequest{
		Name:     "Resident",
		Email:    "taken@example.com",
		Password: "hunter22",
		OTP:      "123456",
	})
	assert.EqualError(t, err, "email already registered")
}

func TestLoginUser(t *testing.T) {
	service, users, _ := newAuthFixture(t)
	hash, err := utils.HashPassword("hunter22")
	require.NoError(t, err)
	users.byEmail["resident@example.com"] = &user.User{
		ID:       primitive.NewObjectID(),
		Name:     "Resident",
		Email:    "resident@example.com",
		Password: hash,
	}

	session, err := service.LoginUser(context.Background(), "Resident@Example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "user", session.Role)

	_, err = service.LoginUser(context.Background(), "resident@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.LoginUser(context.Background(), "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "unknown email and wrong password are indistinguishable")
}

func TestLoginStaffInactive(t *testing.T) {
	service, _, staffRepo := newAuthFixture(t)
	hash, err := utils.HashPassword("hunter22")
	require.NoError(t, err)
	staffRepo.byEmail["officer@example.com"] = &staff.Staff{
		ID:       primitive.NewObjectID(),
		Name:     "Officer",
		Email:    "officer@example.com",
		Password: hash,
		IsActive: false,
	}

	_, err = service.LoginStaff(context.Background(), "officer@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrInactive)

	// Wrong password wins over the inactive check.
	_, err = service.LoginStaff(context.Background(), "officer@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh(t *testing.T) {
	service, users, _ := newAuthFixture(t)
	account := &user.User{
		ID:    primitive.NewObjectID(),
		Name:  "Resident",
		Email: "resident@example.com",
	}
	users.byEmail[account.Email] = account

	_, refresh, err := utils.GenerateTokenPair(account.ID.Hex(), "User", "user",
		15*time.Minute, time.Hour)
	require.NoError(t, err)

	session, err := service.Refresh(context.Background(), refresh)
	require.NoError(t, err)
	assert.Equal(t, account.ID.Hex(), session.AccountID)
	assert.Equal(t, "Resident", session.Name)

	// The access token must not be usable as a refresh token.
	access, _, err := utils.GenerateTokenPair(account.ID.Hex(), "User", "user",
		15*time.Minute, time.Hour)
	require.NoError(t, err)
	_, err = service.Refresh(context.Background(), access)
	assert.Error(t, err)

	// A token for a deleted account is refused.
	_, orphan, err := utils.GenerateTokenPair(primitive.NewObjectID().Hex(), "User", "user",
		15*time.Minute, time.Hour)
	require.NoError(t, err)
	_, err = service.Refresh(context.Background(), orphan)
	assert.EqualError(t, err, "account no longer exists")
}
