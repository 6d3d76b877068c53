package accounts

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pet-adoption/internal/domain/profiles"
	"pet-adoption/internal/platform/validation"
	"pet-adoption/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
)

// -------------------------
// Test doubles
// -------------------------

type testProvider struct {
	users     map[string]string // email -> password
	signedOut []string
}

func (p *testProvider) Verify(ctx context.Context, token string) (auth.Claims, error) {
	return auth.Claims{}, auth.ErrUnauthorized
}

func (p *testProvider) SignUp(ctx context.Context, email, password, nickname string) (auth.Claims, error) {
	if _, ok := p.users[email]; ok {
		return auth.Claims{}, auth.ErrAlreadyRegistered
	}
	p.users[email] = password
	return auth.Claims{UserID: "id-" + email, Email: email}, nil
}

func (p *testProvider) SignIn(ctx context.Context, email, password string) (auth.Session, error) {
	if pw, ok := p.users[email]; !ok || pw != password {
		return auth.Session{}, auth.ErrInvalidCredentials
	}
	return auth.Session{
		AccessToken: "tok-" + email,
		ExpiresIn:   time.Hour,
		User:        auth.Claims{UserID: "id-" + email, Email: email},
	}, nil
}

func (p *testProvider) SignOut(ctx context.Context, token string) error {
	p.signedOut = append(p.signedOut, token)
	return nil
}

func (p *testProvider) OAuthURL(provider, redirectTo string) (string, error) {
	return "https://auth.example/authorize?provider=" + provider + "&redirect_to=" + redirectTo, nil
}

type testProfiles struct {
	saved []profiles.Profile
	err   error
}

func (p *testProfiles) Upsert(ctx context.Context, pr profiles.Profile) error {
	if p.err != nil {
		return p.err
	}
	p.saved = append(p.saved, pr)
	return nil
}

// -------------------------
// Suite
// -------------------------

type AccountsSuite struct {
	suite.Suite
	provider *testProvider
	profiles *testProfiles
	svc      *Service
}

func (s *AccountsSuite) SetupTest() {
	s.provider = &testProvider{users: map[string]string{}}
	s.profiles = &testProfiles{}
	s.svc = NewService(s.provider, s.profiles, validation.New(), "https://app.example/")
}

func TestAccountsSuite(t *testing.T) {
	suite.Run(t, new(AccountsSuite))
}

func (s *AccountsSuite) validSignUp() SignUpInput {
	return SignUpInput{
		Email:           "milo@example.com",
		Password:        "secret1",
		PasswordConfirm: "secret1",
		Nickname:        "밀로",
	}
}

func (s *AccountsSuite) TestSignUp_CreatesProfile() {
	c, err := s.svc.SignUp(context.Background(), s.validSignUp())
	s.Require().NoError(err)
	s.Equal("밀로", c.Nickname)

	s.Require().Len(s.profiles.saved, 1)
	s.Equal(profiles.Profile{UserID: "id-milo@example.com", Email: "milo@example.com", Nickname: "밀로"}, s.profiles.saved[0])
}

func (s *AccountsSuite) TestSignUp_ValidationErrors() {
	in := s.validSignUp()
	in.PasswordConfirm = "other"
	in.Nickname = ""
	in.Email = "not-an-email"

	_, err := s.svc.SignUp(context.Background(), in)
	fields, ok := validation.Fields(err)
	s.Require().True(ok)
	s.Equal("must match password", fields["password_confirm"])
	s.Equal("is required", fields["nickname"])
	s.Equal("must be a valid email address", fields["email"])
	s.Empty(s.provider.users)
}

func (s *AccountsSuite) TestSignUp_AlreadyRegistered() {
	_, err := s.svc.SignUp(context.Background(), s.validSignUp())
	s.Require().NoError(err)

	_, err = s.svc.SignUp(context.Background(), s.validSignUp())
	s.ErrorIs(err, auth.ErrAlreadyRegistered)
}

func (s *AccountsSuite) TestSignUp_ProfileFailureIsReported() {
	s.profiles.err = errors.New("db down")

	c, err := s.svc.SignUp(context.Background(), s.validSignUp())
	s.ErrorIs(err, ErrProfileSync)
	s.Equal("id-milo@example.com", c.UserID)
}

func (s *AccountsSuite) TestLogin() {
	_, err := s.svc.SignUp(context.Background(), s.validSignUp())
	s.Require().NoError(err)

	sess, err := s.svc.Login(context.Background(), LoginInput{Email: " milo@example.com ", Password: "secret1"})
	s.Require().NoError(err)
	s.Equal("tok-milo@example.com", sess.AccessToken)

	_, err = s.svc.Login(context.Background(), LoginInput{Email: "milo@example.com", Password: "wrong-pw"})
	s.ErrorIs(err, auth.ErrInvalidCredentials)

	_, err = s.svc.Login(context.Background(), LoginInput{Email: "milo@example.com", Password: "123"})
	fields, ok := validation.Fields(err)
	s.Require().True(ok)
	s.Equal("must be at least 6 characters", fields["password"])
}

func (s *AccountsSuite) TestLogout() {
	s.ErrorIs(s.svc.Logout(context.Background(), " "), auth.ErrUnauthorized)
	s.NoError(s.svc.Logout(context.Background(), "tok"))
	s.Equal([]string{"tok"}, s.provider.signedOut)
}

func (s *AccountsSuite) TestOAuthURL() {
	u, err := s.svc.OAuthURL("Kakao", "")
	s.Require().NoError(err)
	s.Equal("https://auth.example/authorize?provider=kakao&redirect_to=https://app.example/", u)

	_, err = s.svc.OAuthURL("github", "")
	s.ErrorIs(err, ErrUnsupportedProvider)
}

func (s *AccountsSuite) TestHandlers() {
	r := chi.NewRouter()
	RegisterRoutes(r, s.svc)

	post := func(path, body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(rec, req)
		return rec
	}

	rec := post("/auth/signup", `{"email":"milo@example.com","password":"secret1","password_confirm":"secret1","nickname":"밀로"}`)
	s.Equal(http.StatusCreated, rec.Code)

	rec = post("/auth/signup", `{"email":"milo@example.com","password":"secret1","password_confirm":"secret1","nickname":"밀로"}`)
	s.Equal(http.StatusConflict, rec.Code)

	rec = post("/auth/signup", `{"email":"x@example.com","password":"secret1","password_confirm":"nope","nickname":"x"}`)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "password_confirm")

	rec = post("/auth/login", `{"email":"milo@example.com","password":"secret1"}`)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"access_token":"tok-milo@example.com"`)
	s.Contains(rec.Body.String(), `"expires_in":3600`)

	rec = post("/auth/login", `{"email":"milo@example.com","password":"bad-pass"}`)
	s.Equal(http.StatusUnauthorized, rec.Code)

	rec = post("/auth/logout", ``)
	s.Equal(http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/oauth/google?redirect_to=https://x.example/cb", nil))
	s.Equal(http.StatusFound, rec.Code)
	s.Equal("https://auth.example/authorize?provider=google&redirect_to=https://x.example/cb", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/oauth/facebook", nil))
	s.Equal(http.StatusBadRequest, rec.Code)
}
