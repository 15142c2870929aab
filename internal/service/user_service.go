package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"salus-lms/internal/domain"
	"salus-lms/internal/email"
	"salus-lms/internal/repository"
)

// UserService coordina reglas de negocio para cuentas de staff.
type UserService struct {
	logger      *zap.Logger
	users       repository.UserRepository
	profiles    repository.ProfileRepository
	emailSender email.Sender
	otpLimiter  OTPRateLimiter
}

func NewUserService(logger *zap.Logger, users repository.UserRepository, profiles repository.ProfileRepository, emailSender email.Sender, otpLimiter OTPRateLimiter) *UserService {
	if otpLimiter == nil {
		otpLimiter = NewOTPRateLimiter(otpTTL, 3)
	}
	return &UserService{
		logger:      logger,
		users:       users,
		profiles:    profiles,
		emailSender: emailSender,
		otpLimiter:  otpLimiter,
	}
}

type CreateUserInput struct {
	Email       string
	DisplayName string
	Role        string
	CargoID     string
	TeamID      string
	Password    string
}

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrOTPNotRequested    = errors.New("otp not requested")
	ErrOTPExpired         = errors.New("otp expired")
	ErrOTPInvalid         = errors.New("otp invalid")
	ErrEmailSendFailure   = errors.New("email send failed")
	ErrRateLimited        = errors.New("rate limited")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidRole        = errors.New("invalid role")
)

const otpTTL = 10 * time.Minute

// CreateUser da de alta una cuenta y, si el rol participa del ciclo de
// evaluacion, crea su perfil de staff vacio.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	emailAddr := normalizeEmail(input.Email)
	if emailAddr == "" {
		return domain.User{}, ErrInvalidEmail
	}

	role := strings.ToLower(strings.TrimSpace(input.Role))
	if role == "" {
		role = domain.RoleStaff
	}
	if role != domain.RoleStaff && role != domain.RoleManager && role != domain.RoleAdmin {
		return domain.User{}, ErrInvalidRole
	}

	var passwordHash string
	if password := strings.TrimSpace(input.Password); password != "" {
		hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return domain.User{}, err
		}
		passwordHash = string(hashBytes)
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Email:        emailAddr,
		DisplayName:  strings.TrimSpace(input.DisplayName),
		Role:         role,
		CargoID:      strings.TrimSpace(input.CargoID),
		TeamID:       strings.TrimSpace(input.TeamID),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}

	if s.profiles != nil && domain.RequiresReassessment(role) {
		profile := domain.StaffProfile{
			ID:        uuid.NewString(),
			UserID:    user.ID,
			CreatedAt: user.CreatedAt,
		}
		if err := s.profiles.Create(ctx, profile); err != nil {
			if s.logger != nil {
				s.logger.Warn("create staff profile failed", zap.Error(err), zap.String("user_id", user.ID))
			}
			return domain.User{}, fmt.Errorf("create staff profile: %w", err)
		}
	}

	return user, nil
}

func (s *UserService) Authenticate(ctx context.Context, emailAddr, password string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	emailAddr = normalizeEmail(emailAddr)
	password = strings.TrimSpace(password)
	if emailAddr == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if user.PasswordHash == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// RequestOTP genera un codigo de acceso por email para cuentas existentes.
// A diferencia del alta por password, no crea cuentas nuevas: el onboarding
// lo hace el admin.
func (s *UserService) RequestOTP(ctx context.Context, emailAddr string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" {
		return domain.User{}, ErrInvalidEmail
	}

	if s.otpLimiter != nil && !s.otpLimiter.Allow(emailAddr) {
		return domain.User{}, ErrRateLimited
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}

	code, hash, expiresAt, err := generateOTP()
	if err != nil {
		return domain.User{}, err
	}

	if err := s.users.UpdateOTP(ctx, user.ID, hash, expiresAt); err != nil {
		return domain.User{}, err
	}

	if s.emailSender == nil {
		return domain.User{}, ErrEmailSendFailure
	}
	if err := s.emailSender.SendVerificationOTP(ctx, emailAddr, code, expiresAt); err != nil {
		if s.logger != nil {
			s.logger.Warn("send verification otp failed", zap.Error(err), zap.String("email", emailAddr))
		}
		return domain.User{}, ErrEmailSendFailure
	}

	user.OtpExpiresAt = &expiresAt
	return user, nil
}

func (s *UserService) VerifyOTP(ctx context.Context, emailAddr, code string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	emailAddr = normalizeEmail(emailAddr)
	code = strings.TrimSpace(code)
	if emailAddr == "" {
		return domain.User{}, ErrInvalidEmail
	}
	if !isValidOTPCode(code) {
		return domain.User{}, ErrOTPInvalid
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}

	if user.OtpCodeHash == "" || user.OtpExpiresAt == nil {
		return domain.User{}, ErrOTPNotRequested
	}
	if time.Now().UTC().After(*user.OtpExpiresAt) {
		return domain.User{}, ErrOTPExpired
	}
	if !verifyOTP(code, user.OtpCodeHash) {
		return domain.User{}, ErrOTPInvalid
	}

	verifiedAt := time.Now().UTC()
	if err := s.users.VerifyEmail(ctx, user.ID, verifiedAt); err != nil {
		return domain.User{}, err
	}

	user.EmailVerifiedAt = &verifiedAt
	user.OtpCodeHash = ""
	user.OtpExpiresAt = nil
	return user, nil
}

func generateOTP() (string, string, time.Time, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", "", time.Time{}, err
	}
	code := fmt.Sprintf("%06d", n.Int64())

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", "", time.Time{}, err
	}
	saltStr := base64.StdEncoding.EncodeToString(salt)
	hashBytes := sha256.Sum256([]byte(saltStr + ":" + code))
	hash := base64.StdEncoding.EncodeToString(hashBytes[:])

	expiresAt := time.Now().UTC().Add(otpTTL)
	return code, saltStr + ":" + hash, expiresAt, nil
}

func verifyOTP(code, stored string) bool {
	parts := strings.Split(stored, ":")
	if len(parts) != 2 {
		return false
	}
	saltStr := parts[0]
	expectedHash := parts[1]
	hashBytes := sha256.Sum256([]byte(saltStr + ":" + code))
	hash := base64.StdEncoding.EncodeToString(hashBytes[:])
	return subtle.ConstantTimeCompare([]byte(hash), []byte(expectedHash)) == 1
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isValidOTPCode(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// OTPRateLimiter limita la frecuencia de solicitudes de OTP por clave.
type OTPRateLimiter interface {
	Allow(key string) bool
}

type otpRateLimiter struct {
	mu     sync.Mutex
	window time.Duration
	max    int
	hits   map[string][]time.Time
}

// NewOTPRateLimiter crea un rate limiter en memoria.
func NewOTPRateLimiter(window time.Duration, max int) OTPRateLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &otpRateLimiter{
		window: window,
		max:    max,
		hits:   make(map[string][]time.Time),
	}
}

func (l *otpRateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now().UTC()
	cutoff := now.Add(-l.window)
	entries := l.hits[key]
	kept := entries[:0]
	for _, ts := range entries {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= l.max {
		l.hits[key] = kept
		return false
	}
	kept = append(kept, now)
	l.hits[key] = kept
	return true
}
