package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohitmp45/ai-interview/internal/domain"
	"github.com/rohitmp45/ai-interview/internal/handler"
	"github.com/rohitmp45/ai-interview/internal/oauth"
	"github.com/rohitmp45/ai-interview/internal/service"
	"github.com/rohitmp45/ai-interview/internal/session"
)

// memUserStore is an in-memory service.UserStore mirroring the postgres
// upsert semantics.
type memUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[int64]*domain.User{}}
}

func (s *memUserStore) FindByID(_ context.Context, id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (s *memUserStore) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *memUserStore) Create(_ context.Context, email, passwordHash string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	u := &domain.User{ID: s.nextID, Email: email, PasswordHash: &passwordHash}
	s.users[u.ID] = u
	copied := *u
	return &copied, nil
}

func (s *memUserStore) UpsertGoogle(_ context.Context, p domain.GoogleProfile) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == p.Email {
			if u.GoogleID == nil && p.Sub != "" {
				sub := p.Sub
				u.GoogleID = &sub
			}
			if u.Name == "" {
				u.Name = p.Name
			}
			copied := *u
			return &copied, nil
		}
	}
	s.nextID++
	sub := p.Sub
	u := &domain.User{ID: s.nextID, Email: p.Email, GoogleID: &sub, Name: p.Name}
	s.users[u.ID] = u
	copied := *u
	return &copied, nil
}

type testEnv struct {
	router   *echo.Echo
	users    *memUserStore
	todos    *memTodoStore
	sessions *session.Manager
}

func newTestEnv(t *testing.T, google *oauth.Google) *testEnv {
	t.Helper()

	users := newMemUserStore()
	todos := newMemTodoStore()
	sessions := session.NewManager("test-secret", false)
	authSvc := service.NewAuthService(users, sessions, google)
	todoSvc := service.NewTodoService(todos)

	router := handler.NewRouter(handler.RouterConfig{
		Auth:        authSvc,
		Todos:       todoSvc,
		Sessions:    sessions,
		FrontendURL: "http://localhost:3000",
	})

	return &testEnv{router: router, users: users, todos: todos, sessions: sessions}
}

func (env *testEnv) do(method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	env.router.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestSignupLoginMeLogout(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)

	// signup
	w := env.do(http.MethodPost, "/api/signup", `{"email":"a@b.com","password":"secret123"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var signupResp struct {
		Message string `json:"message"`
		UserID  int64  `json:"userId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &signupResp))
	assert.Equal(t, "User created", signupResp.Message)
	assert.NotZero(t, signupResp.UserID)

	// signup does not auto-login
	assert.Empty(t, w.Result().Cookies())

	// duplicate signup, case-insensitive
	w = env.do(http.MethodPost, "/api/signup", `{"email":"A@B.COM","password":"secret123"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "User already exists")

	// login
	w = env.do(http.MethodPost, "/api/login", `{"email":"a@b.com","password":"secret123"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var loginResp struct {
		Message string `json:"message"`
		Token   string `json:"token"`
		User    struct {
			ID    int64  `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loginResp))
	assert.Equal(t, "Login successful", loginResp.Message)
	assert.NotEmpty(t, loginResp.Token)
	assert.Equal(t, signupResp.UserID, loginResp.User.ID)
	assert.Equal(t, "a@b.com", loginResp.User.Email)

	cookie := sessionCookie(t, w)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 86400, cookie.MaxAge)

	// the fresh cookie authenticates /api/user
	w = env.do(http.MethodGet, "/api/user", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var meResp struct {
		Authenticated bool `json:"authenticated"`
		User          struct {
			ID    int64  `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &meResp))
	assert.True(t, meResp.Authenticated)
	assert.Equal(t, signupResp.UserID, meResp.User.ID)
	assert.Equal(t, "a@b.com", meResp.User.Email)

	// logout clears the cookie
	w = env.do(http.MethodPost, "/api/logout", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	cleared := sessionCookie(t, w)
	assert.Empty(t, cleared.Value)
	assert.Less(t, cleared.MaxAge, 0)

	// a cleared cookie no longer authenticates
	w = env.do(http.MethodGet, "/api/user", "", cleared)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)
}

func TestLogin_UniformErrorShape(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	w := env.do(http.MethodPost, "/api/signup", `{"email":"a@b.com","password":"secret123"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	wrongPassword := env.do(http.MethodPost, "/api/login", `{"email":"a@b.com","password":"wrong"}`)
	unknownEmail := env.do(http.MethodPost, "/api/login", `{"email":"ghost@b.com","password":"secret123"}`)

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.JSONEq(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestLogin_MissingFields(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)

	w := env.do(http.MethodPost, "/api/login", `{"email":"a@b.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Email and password are required")
}

func TestMe_ExpiredToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	w := env.do(http.MethodPost, "/api/signup", `{"email":"a@b.com","password":"secret123"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	expired := expiredToken(t, "test-secret", 1, "a@b.com")
	w = env.do(http.MethodGet, "/api/user", "", &http.Cookie{Name: session.CookieName, Value: expired})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)
}

func TestGoogleRedirect(t *testing.T) {
	t.Parallel()

	google := oauth.NewGoogle("client-id", "client-secret", "")
	env := newTestEnv(t, google)

	w := env.do(http.MethodGet, "/api/auth/google?origin=http://localhost:3000&return_to=/chat", "")
	require.Equal(t, http.StatusFound, w.Code)

	loc, err := url.Parse(w.Header().Get(echo.HeaderLocation))
	require.NoError(t, err)
	assert.Equal(t, "accounts.google.com", loc.Host)
	q := loc.Query()
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "openid email profile", q.Get("scope"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "consent", q.Get("prompt"))

	state := oauth.DecodeState(q.Get("state"))
	assert.Equal(t, "http://localhost:3000", state.Origin)
	assert.Equal(t, "/chat", state.ReturnTo)

	// redirect_uri derived from the inbound request host
	assert.Contains(t, q.Get("redirect_uri"), "/api/auth/google/callback")
}

func TestGoogleRedirect_Unconfigured(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, oauth.NewGoogle("", "", ""))

	w := env.do(http.MethodGet, "/api/auth/google", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Missing GOOGLE_CLIENT_ID")
}

func TestGoogleCallback(t *testing.T) {
	t.Parallel()

	fake := newFakeProvider(t)
	env := newTestEnv(t, fake.authenticator())

	state := oauth.State{Origin: "http://localhost:3000", ReturnTo: "/chat"}
	w := env.do(http.MethodGet, "/api/auth/google/callback?code=good&state="+url.QueryEscape(state.Encode()), "")
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Equal(t, "http://localhost:3000/chat", w.Header().Get(echo.HeaderLocation))

	cookie := sessionCookie(t, w)
	me := env.do(http.MethodGet, "/api/user", "", cookie)
	assert.Contains(t, me.Body.String(), `"authenticated":true`)
	assert.Contains(t, me.Body.String(), "jane@example.com")
}

func TestGoogleCallback_TamperedOrigin(t *testing.T) {
	t.Parallel()

	fake := newFakeProvider(t)
	env := newTestEnv(t, fake.authenticator())

	state := oauth.State{Origin: "https://evil.com/phish", ReturnTo: "/chat"}
	w := env.do(http.MethodGet, "/api/auth/google/callback?code=good&state="+url.QueryEscape(state.Encode()), "")
	require.Equal(t, http.StatusFound, w.Code)

	loc := w.Header().Get(echo.HeaderLocation)
	assert.NotContains(t, loc, "evil.com")
	assert.True(t, strings.HasSuffix(loc, "/chat"), loc)
}

func TestGoogleCallback_MissingCode(t *testing.T) {
	t.Parallel()

	fake := newFakeProvider(t)
	env := newTestEnv(t, fake.authenticator())

	w := env.do(http.MethodGet, "/api/auth/google/callback", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Missing code")
	assert.Empty(t, w.Result().Cookies(), "no session cookie on failure")
}

func TestGoogleCallback_ExchangeFailure(t *testing.T) {
	t.Parallel()

	fake := newFakeProvider(t)
	fake.tokenStatus = http.StatusBadRequest
	fake.tokenBody = `{"error":"invalid_grant"}`
	env := newTestEnv(t, fake.authenticator())

	w := env.do(http.MethodGet, "/api/auth/google/callback?code=bad", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Token exchange failed")
	assert.Contains(t, w.Body.String(), "invalid_grant")
	assert.Empty(t, w.Result().Cookies(), "no session cookie on failure")
}

func TestPageGuard(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	w := env.do(http.MethodPost, "/api/signup", `{"email":"a@b.com","password":"secret123"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	w = env.do(http.MethodPost, "/api/login", `{"email":"a@b.com","password":"secret123"}`)
	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(t, w)

	// anonymous on private -> login
	w = env.do(http.MethodGet, "/chat", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get(echo.HeaderLocation))

	// authenticated on public -> chat
	w = env.do(http.MethodGet, "/login", "", cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/chat", w.Header().Get(echo.HeaderLocation))

	// allowed combinations render
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/login", "").Code)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/chat", "", cookie).Code)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/", "").Code)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/", "", cookie).Code)
}

// fakeProvider stands in for Google's token and userinfo endpoints.
type fakeProvider struct {
	srv *httptest.Server

	tokenStatus int
	tokenBody   string
}

func newFakeProvider(t *testing.T) *fakeProvider {
	t.Helper()
	f := &fakeProvider{tokenStatus: http.StatusOK}
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.tokenStatus)
		if f.tokenBody != "" {
			fmt.Fprint(w, f.tokenBody)
			return
		}
		fmt.Fprint(w, `{"access_token":"fake-access","token_type":"Bearer","expires_in":3600}`)
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"sub":"google-sub-1","email":"Jane@Example.com","name":"Jane Doe","picture":"https://lh3.example.com/p.jpg"}`)
	})
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeProvider) authenticator() *oauth.Google {
	return oauth.NewGoogle("client-id", "client-secret", "").
		WithEndpoints(f.srv.URL+"/auth", f.srv.URL+"/token", f.srv.URL+"/userinfo")
}

func expiredToken(t *testing.T, secret string, userID int64, email string) string {
	t.Helper()
	m := session.NewManagerAt(secret, false, func() time.Time { return time.Now().Add(-25 * time.Hour) })
	token, err := m.Issue(userID, email)
	require.NoError(t, err)
	return token
}
