package auth

import "resolvex/internal/features/user"

// SignupRequest creates a citizen account. OTP must have been requested for
// the same email with purpose "signup".
type SignupRequest struct {
	Name     string       `json:"name"`
	Email    string       `json:"email"`
	Password string       `json:"password"`
	Phone    string       `json:"phone"`
	Address  user.Address `json:"address"`
	OTP      string       `json:"otp"`
}

// StaffRegisterRequest is OTP-verified staff self-registration.
type StaffRegisterRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Phone      string `json:"phone"`
	StaffID    string `json:"staffId"`
	Department string `json:"department"`
	OTP        string `json:"otp"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type OTPRequest struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
}

type OTPVerifyRequest struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
	Code    string `json:"otp"`
}

// Session is the authenticated principal plus its token pair. The refresh
// token travels in an httpOnly cookie, never in the JSON body.
type Session struct {
	AccountID    string `json:"account_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"-"`
}
