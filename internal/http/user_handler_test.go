package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"salus-lms/internal/domain"
	"salus-lms/internal/service"
)

type stubUserRepo struct {
	usersByID    map[string]domain.User
	usersByEmail map[string]string
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		usersByID:    make(map[string]domain.User),
		usersByEmail: make(map[string]string),
	}
}

func (m *stubUserRepo) Create(_ context.Context, user domain.User) error {
	m.usersByID[user.ID] = user
	if user.Email != "" {
		m.usersByEmail[user.Email] = user.ID
	}
	return nil
}

func (m *stubUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *stubUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	id, ok := m.usersByEmail[email]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.GetByID(context.Background(), id)
}

func (m *stubUserRepo) List(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(m.usersByID))
	for _, u := range m.usersByID {
		out = append(out, u)
	}
	return out, nil
}

func (m *stubUserRepo) UpdateAdminFields(_ context.Context, id, displayName, role, cargoID, teamID string) error {
	user, ok := m.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.DisplayName = displayName
	user.Role = role
	user.CargoID = cargoID
	user.TeamID = teamID
	m.usersByID[id] = user
	return nil
}

func (m *stubUserRepo) UpdateOTP(_ context.Context, id, otpHash string, otpExpiresAt time.Time) error {
	user, ok := m.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.OtpCodeHash = otpHash
	user.OtpExpiresAt = &otpExpiresAt
	m.usersByID[id] = user
	return nil
}

func (m *stubUserRepo) VerifyEmail(_ context.Context, id string, verifiedAt time.Time) error {
	user, ok := m.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.EmailVerifiedAt = &verifiedAt
	user.OtpCodeHash = ""
	user.OtpExpiresAt = nil
	m.usersByID[id] = user
	return nil
}

type captureEmailSender struct {
	lastTo   string
	lastCode string
}

func (m *captureEmailSender) SendVerificationOTP(_ context.Context, toEmail string, code string, _ time.Time) error {
	m.lastTo = toEmail
	m.lastCode = code
	return nil
}

type stubActivityRepo struct {
	events []domain.ActivityEvent
}

func (m *stubActivityRepo) Append(_ context.Context, event domain.ActivityEvent) error {
	m.events = append(m.events, event)
	return nil
}

func (m *stubActivityRepo) ListByUser(_ context.Context, _ string, _ int) ([]domain.ActivityEvent, error) {
	return m.events, nil
}

func (m *stubActivityRepo) DailyCounts(_ context.Context, _ time.Time) ([]domain.DailyAccess, error) {
	return nil, nil
}

type authFixture struct {
	router   *gin.Engine
	userSvc  *service.UserService
	sender   *captureEmailSender
	activity *stubActivityRepo
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newStubUserRepo()
	sender := &captureEmailSender{}
	activity := &stubActivityRepo{}
	userSvc := service.NewUserService(zap.NewNop(), repo, &stubProfileRepo{profilesByUser: make(map[string]domain.StaffProfile)}, sender, nil)
	jwtSvc := service.NewJWTServiceWithStore("secret", 15*time.Minute, 30*time.Minute, service.NewMemoryRefreshTokenStore())
	activitySvc := service.NewActivityService(activity)

	handler := NewUserHandler(zap.NewNop(), userSvc, jwtSvc, activitySvc)

	r := gin.New()
	r.POST("/auth/login", handler.Login)
	r.POST("/auth/otp/request", handler.RequestOTP)
	r.POST("/auth/otp/verify", handler.VerifyOTP)
	r.POST("/auth/refresh", handler.Refresh)

	return &authFixture{router: r, userSvc: userSvc, sender: sender, activity: activity}
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestLogin_SuccessRecordsActivity(t *testing.T) {
	fx := newAuthFixture(t)
	if _, err := fx.userSvc.CreateUser(context.Background(), service.CreateUserInput{
		Email:       "user@example.com",
		DisplayName: "Ana",
		Role:        "staff",
		Password:    "secreta123",
	}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	rec := postJSON(t, fx.router, "/auth/login", gin.H{"email": "user@example.com", "password": "secreta123"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Tokens service.TokenPair `json:"tokens"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Tokens.AccessToken == "" || resp.Tokens.RefreshToken == "" {
		t.Fatal("expected token pair")
	}
	if len(fx.activity.events) != 1 || fx.activity.events[0].Kind != domain.ActivityLogin {
		t.Fatalf("expected one login event, got %+v", fx.activity.events)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	fx := newAuthFixture(t)
	if _, err := fx.userSvc.CreateUser(context.Background(), service.CreateUserInput{
		Email:       "user@example.com",
		DisplayName: "Ana",
		Role:        "staff",
		Password:    "secreta123",
	}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	rec := postJSON(t, fx.router, "/auth/login", gin.H{"email": "user@example.com", "password": "mala"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if len(fx.activity.events) != 0 {
		t.Fatal("failed login must not record activity")
	}
}

func TestRequestOTP_UnknownUser(t *testing.T) {
	fx := newAuthFixture(t)

	rec := postJSON(t, fx.router, "/auth/otp/request", gin.H{"email": "nadie@example.com"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestOTPFlow_IssuesTokens(t *testing.T) {
	fx := newAuthFixture(t)
	if _, err := fx.userSvc.CreateUser(context.Background(), service.CreateUserInput{
		Email:       "user@example.com",
		DisplayName: "Ana",
		Role:        "staff",
	}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	rec := postJSON(t, fx.router, "/auth/otp/request", gin.H{"email": "user@example.com"})
	if rec.Code != http.StatusOK {
		t.Fatalf("request otp: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if fx.sender.lastCode == "" {
		t.Fatal("expected otp code sent")
	}

	rec = postJSON(t, fx.router, "/auth/otp/verify", gin.H{"email": "user@example.com", "code": fx.sender.lastCode})
	if rec.Code != http.StatusOK {
		t.Fatalf("verify otp: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Tokens service.TokenPair `json:"tokens"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Tokens.AccessToken == "" {
		t.Fatal("expected access token after otp verification")
	}

	rec = postJSON(t, fx.router, "/auth/refresh", gin.H{"refresh_token": resp.Tokens.RefreshToken})
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestVerifyOTP_WrongCode(t *testing.T) {
	fx := newAuthFixture(t)
	if _, err := fx.userSvc.CreateUser(context.Background(), service.CreateUserInput{
		Email:       "user@example.com",
		DisplayName: "Ana",
		Role:        "staff",
	}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if rec := postJSON(t, fx.router, "/auth/otp/request", gin.H{"email": "user@example.com"}); rec.Code != http.StatusOK {
		t.Fatalf("request otp failed: %d", rec.Code)
	}

	wrong := "000000"
	if wrong == fx.sender.lastCode {
		wrong = "000001"
	}
	rec := postJSON(t, fx.router, "/auth/otp/verify", gin.H{"email": "user@example.com", "code": wrong})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
