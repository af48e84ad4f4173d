package auth

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	common_models "resolvex/internal/common/models"
	"resolvex/internal/config"
	"resolvex/internal/features/admin"
	"resolvex/internal/features/department"
	"resolvex/internal/features/otp"
	"resolvex/internal/features/staff"
	"resolvex/internal/features/user"
	"resolvex/pkg/utils"
)

var (
	// ErrInvalidCredentials is deliberately vague: it never says whether the
	// email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInactive is returned for deactivated staff accounts.
	ErrInactive = errors.New("account is deactivated")
)

var phonePattern = regexp.MustCompile(`^\d{10}$`)

type Service interface {
	Signup(ctx context.Context, req SignupRequest) (*Session, error)
	RegisterStaff(ctx context.Context, req StaffRegisterRequest) (*Session, error)
	LoginUser(ctx context.Context, email, password string) (*Session, error)
	LoginStaff(ctx context.Context, email, password string) (*Session, error)
	LoginAdmin(ctx context.Context, email, password string) (*Session, error)
	LoginWithOTP(ctx context.Context, email, code string) (*Session, error)
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
}

type ServiceImpl struct {
	Users       user.Repository
	Staff       staff.Repository
	Admins      admin.Repository
	Departments department.Repository
	OTP         otp.Service
	Config      *config.Config
}

func NewService(users user.Repository, staffRepo staff.Repository, admins admin.Repository,
	departments department.Repository, otpService otp.Service, cfg *config.Config) Service {
	return &ServiceImpl{
		Users:       users,
		Staff:       staffRepo,
		Admins:      admins,
		Departments: departments,
		OTP:         otpService,
		Config:      cfg,
	}
}

func (s *ServiceImpl) session(accountID, name, email string, kind common_models.ActorKind, role string) (*Session, error) {
	access, refresh, err := utils.GenerateTokenPair(accountID, string(kind), role,
		s.Config.AccessTokenTTL, s.Config.RefreshTokenTTL)
	if err != nil {
		return nil, err
	}
	return &Session{
		AccountID:    accountID,
		Name:         name,
		Email:        email,
		Role:         role,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

func (s *ServiceImpl) Signup(ctx context.Context, req SignupRequest) (*Session, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" {
		return nil, errors.New("name and email are required")
	}
	if len(req.Password) < 6 {
		return nil, errors.New("password must be at least 6 characters")
	}
	if req.Phone != "" && !phonePattern.MatchString(req.Phone) {
		return nil, errors.New("phone must be 10 digits")
	}

	if _, err := s.Users.FindByEmail(ctx, req.Email); err == nil {
		return nil, errors.New("email already registered")
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	if err := s.OTP.Verify(ctx, req.Email, otp.PurposeSignup, req.OTP); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	account := &user.User{
		Name:       req.Name,
		Email:      req.Email,
		Password:   hash,
		Phone:      req.Phone,
		Address:    req.Address,
		Role:       "user",
		IsVerified: true,
	}
	if err := s.Users.Create(ctx, account); err != nil {
		return nil, err
	}

	return s.session(account.ID.Hex(), account.Name, account.Email, common_models.ActorUser, "user")
}

func (s *ServiceImpl) RegisterStaff(ctx context.Context, req StaffRegisterRequest) (*Session, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.StaffID == "" {
		return nil, errors.New("name, email and staffId are required")
	}
	if len(req.Password) < 6 {
		return nil, errors.New("password must be at least 6 characters")
	}

	if _, err := s.Staff.FindByEmail(ctx, req.Email); err == nil {
		return nil, errors.New("email already registered")
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	if _, err := s.Staff.FindByStaffID(ctx, req.StaffID); err == nil {
		return nil, errors.New("staff id already registered")
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	var dept *primitive.ObjectID
	if req.Department != "" {
		deptOID, err := primitive.ObjectIDFromHex(req.Department)
		if err != nil {
			return nil, errors.New("invalid department id")
		}
		if _, err := s.Departments.FindByID(ctx, deptOID); err != nil {
			return nil, errors.New("department not found")
		}
		dept = &deptOID
	}

	if err := s.OTP.Verify(ctx, req.Email, otp.PurposeSignup, req.OTP); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	account := &staff.Staff{
		Name:       req.Name,
		Email:      req.Email,
		StaffID:    req.StaffID,
		Phone:      req.Phone,
		Password:   hash,
		Department: dept,
		IsActive:   true,
	}
	if err := s.Staff.Create(ctx, account); err != nil {
		return nil, err
	}

	return s.session(account.ID.Hex(), account.Name, account.Email, common_models.ActorStaff, "staff")
}

func (s *ServiceImpl) LoginUser(ctx context.Context, email, password string) (*Session, error) {
	account, err := s.Users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !utils.CheckPassword(account.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return s.session(account.ID.Hex(), account.Name, account.Email, common_models.ActorUser, "user")
}

func (s *ServiceImpl) LoginStaff(ctx context.Context, email, password string) (*Session, error) {
	account, err := s.Staff.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !utils.CheckPassword(account.Password, password) {
		return nil, ErrInvalidCredentials
	}
	if !account.IsActive {
		return nil, ErrInactive
	}
	return s.session(account.ID.Hex(), account.Name, account.Email, common_models.ActorStaff, "staff")
}

func (s *ServiceImpl) LoginAdmin(ctx context.Context, email, password string) (*Session, error) {
	account, err := s.Admins.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !utils.CheckPassword(account.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return s.session(account.ID.Hex(), account.Name, account.Email, common_models.ActorAdmin, "admin")
}

// LoginWithOTP signs a citizen in with a one-time code instead of a password.
func (s *ServiceImpl) LoginWithOTP(ctx context.Context, email, code string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	account, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.OTP.Verify(ctx, email, otp.PurposeLogin, code); err != nil {
		return nil, err
	}
	return s.session(account.ID.Hex(), account.Name, account.Email, common_models.ActorUser, "user")
}

// Refresh validates the refresh token, checks the account still exists and
// rotates the pair.
func (s *ServiceImpl) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	claims, err := utils.ValidateToken(refreshToken, utils.TokenRefresh)
	if err != nil {
		return nil, errors.New("invalid or expired refresh token")
	}

	kind := common_models.ActorKind(claims.ActorKind)
	var name, email string
	switch kind {
	case common_models.ActorUser:
		oid, err := primitive.ObjectIDFromHex(claims.ActorID)
		if err != nil {
			return nil, errors.New("invalid refresh token")
		}
		account, err := s.Users.FindByID(ctx, oid)
		if err != nil {
			return nil, errors.New("account no longer exists")
		}
		name, email = account.Name, account.Email
	case common_models.ActorStaff:
		oid, err := primitive.ObjectIDFromHex(claims.ActorID)
		if err != nil {
			return nil, errors.New("invalid refresh token")
		}
		account, err := s.Staff.FindByID(ctx, oid)
		if err != nil {
			return nil, errors.New("account no longer exists")
		}
		if !account.IsActive {
			return nil, ErrInactive
		}
		name, email = account.Name, account.Email
	case common_models.ActorAdmin:
		oid, err := primitive.ObjectIDFromHex(claims.ActorID)
		if err != nil {
			return nil, errors.New("invalid refresh token")
		}
		account, err := s.Admins.FindByID(ctx, oid)
		if err != nil {
			return nil, errors.New("account no longer exists")
		}
		name, email = account.Name, account.Email
	default:
		return nil, errors.New("invalid refresh token")
	}

	return s.session(claims.ActorID, name, email, kind, claims.Role)
}
