package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/campusboard/notice-board/internal/api/handler"
	"github.com/campusboard/notice-board/internal/core/domain"
	"github.com/campusboard/notice-board/internal/core/ports"
	"github.com/campusboard/notice-board/internal/core/service"
	"github.com/campusboard/notice-board/internal/infrastructure/db/memory"
)

type testApp struct {
	t      *testing.T
	e      *echo.Echo
	store  *memory.Store
	users  *editableUsers
	auth   *service.AuthService
	tokens *service.TokenService
}

// editableUsers lets a test change a stored user's role or remove them
// while their tokens are still outstanding.
type editableUsers struct {
	ports.UserRepository
	roles   map[string]domain.Role
	removed map[string]bool
}

func (r *editableUsers) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if r.removed[id] {
		return nil, domain.ErrUserNotFound
	}
	u, err := r.UserRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role, ok := r.roles[id]; ok {
		u.Role = role
	}
	return u, nil
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	log := zerolog.Nop()
	store := memory.NewStore(nil)
	users := &editableUsers{UserRepository: store.Users, roles: map[string]domain.Role{}, removed: map[string]bool{}}
	tokens := service.NewTokenService(users, "test-secret", time.Hour)
	auth := service.NewAuthService(store.Users, tokens, log)
	notices := service.NewNoticeService(store.Notices, store.Keys, time.UTC, log)

	reg := prometheus.NewRegistry()
	e := NewRouter(Deps{
		Notices: notices,
		Auth:    auth,
		Tokens:  tokens,
		HealthChecks: map[string]handler.HealthCheck{
			"memory": func(context.Context) error { return nil },
		},
		CORSOrigins: []string{"http://localhost:5173"},
		Registerer:  reg,
		Gatherer:    reg,
		Logger:      log,
	})
	return &testApp{t: t, e: e, store: store, users: users, auth: auth, tokens: tokens}
}

func (a *testApp) do(method, target, token, body string, headers ...string) *httptest.ResponseRecorder {
	a.t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

// seed provisions an account directly and returns a token for it.
func (a *testApp) seed(name, email string, role domain.Role) (string, *domain.User) {
	a.t.Helper()
	u, _, err := a.auth.EnsureUser(context.Background(), name, email, "password1", role)
	if err != nil {
		a.t.Fatalf("seed %s: %v", email, err)
	}
	token, err := a.tokens.Issue(u)
	if err != nil {
		a.t.Fatalf("issue token: %v", err)
	}
	return token, u
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

type noticeJSON struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	PostedBy struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"posted_by"`
}

func TestRouter_NoticeLifecycle(t *testing.T) {
	app := newTestApp(t)
	facultyToken, faculty := app.seed("Dr. Rao", "rao@college.edu", domain.RoleFaculty)

	rec := app.do(http.MethodPost, "/api/notices", facultyToken,
		`{"title":"  Midterm schedule ","content":"Hall B, 9am","category":"Exam"}`)
	expectStatus(t, rec, http.StatusCreated)
	created := decode[noticeJSON](t, rec)
	if created.Title != "Midterm schedule" || created.PostedBy.ID != faculty.ID || created.PostedBy.Name != "Dr. Rao" {
		t.Fatalf("unexpected created notice: %+v", created)
	}

	rec = app.do(http.MethodGet, "/api/notices", "", "")
	expectStatus(t, rec, http.StatusOK)
	list := decode[[]noticeJSON](t, rec)
	if len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("expected the new notice in the public listing, got %+v", list)
	}

	rec = app.do(http.MethodGet, "/api/notices/"+created.ID, "", "")
	expectStatus(t, rec, http.StatusOK)

	rec = app.do(http.MethodDelete, "/api/notices/"+created.ID, facultyToken, "")
	expectStatus(t, rec, http.StatusOK)
	if msg := decode[map[string]string](t, rec)["message"]; msg != "notice deleted" {
		t.Fatalf("unexpected message %q", msg)
	}

	rec = app.do(http.MethodDelete, "/api/notices/"+created.ID, facultyToken, "")
	expectStatus(t, rec, http.StatusNotFound)

	rec = app.do(http.MethodGet, "/api/notices", "", "")
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Fatalf("expected empty listing, got %s", got)
	}
}

func TestRouter_StudentCannotPostOrDelete(t *testing.T) {
	app := newTestApp(t)
	facultyToken, _ := app.seed("Dr. Rao", "rao@college.edu", domain.RoleFaculty)

	rec := app.do(http.MethodPost, "/api/auth/register", "",
		`{"name":"Sam","email":"sam@college.edu","password":"secret1"}`)
	expectStatus(t, rec, http.StatusCreated)
	reg := decode[map[string]string](t, rec)
	if reg["role"] != "student" || reg["token"] == "" {
		t.Fatalf("unexpected registration payload: %+v", reg)
	}
	studentToken := reg["token"]

	rec = app.do(http.MethodPost, "/api/notices", studentToken, `{"title":"t","content":"c","category":"Event"}`)
	expectStatus(t, rec, http.StatusForbidden)
	if msg := decode[map[string]string](t, rec)["error"]; msg != "access forbidden" {
		t.Fatalf("unexpected error message %q", msg)
	}

	rec = app.do(http.MethodPost, "/api/notices", facultyToken, `{"title":"Fest","content":"Friday","category":"Event"}`)
	expectStatus(t, rec, http.StatusCreated)
	id := decode[noticeJSON](t, rec).ID

	rec = app.do(http.MethodDelete, "/api/notices/"+id, studentToken, "")
	expectStatus(t, rec, http.StatusForbidden)

	rec = app.do(http.MethodGet, "/api/notices", studentToken, "")
	expectStatus(t, rec, http.StatusOK)
	if list := decode[[]noticeJSON](t, rec); len(list) != 1 {
		t.Fatalf("student should still see the notice, got %+v", list)
	}
}

func TestRouter_AuthenticationFailures(t *testing.T) {
	app := newTestApp(t)
	body := `{"title":"t","content":"c","category":"Exam"}`

	rec := app.do(http.MethodPost, "/api/notices", "", body)
	expectStatus(t, rec, http.StatusUnauthorized)

	rec = app.do(http.MethodPost, "/api/notices", "not-a-jwt", body)
	expectStatus(t, rec, http.StatusUnauthorized)

	rec = app.do(http.MethodDelete, "/api/notices/abc", "", "")
	expectStatus(t, rec, http.StatusUnauthorized)

	rec = app.do(http.MethodGet, "/api/auth/me", "", "")
	expectStatus(t, rec, http.StatusUnauthorized)

	// A bad token on the public listing is treated as anonymous.
	rec = app.do(http.MethodGet, "/api/notices", "not-a-jwt", "")
	expectStatus(t, rec, http.StatusOK)
}

func TestRouter_RoleChangeAppliesToExistingToken(t *testing.T) {
	app := newTestApp(t)
	token, user := app.seed("Sam", "sam@college.edu", domain.RoleStudent)
	body := `{"title":"Lab closed","content":"Maintenance","category":"Holiday"}`

	expectStatus(t, app.do(http.MethodPost, "/api/notices", token, body), http.StatusForbidden)

	app.users.roles[user.ID] = domain.RoleFaculty
	expectStatus(t, app.do(http.MethodPost, "/api/notices", token, body), http.StatusCreated)

	rec := app.do(http.MethodGet, "/api/auth/me", token, "")
	expectStatus(t, rec, http.StatusOK)
	if role := decode[map[string]string](t, rec)["role"]; role != "faculty" {
		t.Fatalf("expected live role faculty, got %q", role)
	}

	app.users.removed[user.ID] = true
	expectStatus(t, app.do(http.MethodGet, "/api/auth/me", token, ""), http.StatusUnauthorized)
}

func TestRouter_RegisterAndLogin(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodPost, "/api/auth/register", "",
		`{"name":"Ada","email":"Ada@College.edu","password":"secret1","role":"Faculty"}`)
	expectStatus(t, rec, http.StatusCreated)
	if got := decode[map[string]string](t, rec); got["role"] != "faculty" || got["email"] != "ada@college.edu" {
		t.Fatalf("unexpected registration: %+v", got)
	}

	rec = app.do(http.MethodPost, "/api/auth/register", "",
		`{"name":"Ada","email":"ada@college.edu","password":"secret1"}`)
	expectStatus(t, rec, http.StatusConflict)

	rec = app.do(http.MethodPost, "/api/auth/register", "",
		`{"name":"Eve","email":"eve@college.edu","password":"secret1","role":"admin"}`)
	expectStatus(t, rec, http.StatusBadRequest)

	rec = app.do(http.MethodPost, "/api/auth/register", "",
		`{"name":"Max","email":"max@college.edu","password":"`+strings.Repeat("p", 73)+`"}`)
	expectStatus(t, rec, http.StatusBadRequest)

	rec = app.do(http.MethodPost, "/api/auth/login", "", `{"email":"ada@college.edu","password":"secret1"}`)
	expectStatus(t, rec, http.StatusOK)
	token := decode[map[string]string](t, rec)["token"]

	rec = app.do(http.MethodGet, "/api/auth/me", token, "")
	expectStatus(t, rec, http.StatusOK)

	rec = app.do(http.MethodPost, "/api/auth/login", "", `{"email":"ada@college.edu","password":"wrong-pw"}`)
	expectStatus(t, rec, http.StatusUnauthorized)
	wrongPassword := decode[map[string]string](t, rec)["error"]

	rec = app.do(http.MethodPost, "/api/auth/login", "", `{"email":"ghost@college.edu","password":"secret1"}`)
	expectStatus(t, rec, http.StatusUnauthorized)
	if unknown := decode[map[string]string](t, rec)["error"]; unknown != wrongPassword {
		t.Fatalf("unknown email and wrong password must look alike: %q vs %q", unknown, wrongPassword)
	}
}

func TestRouter_ListFilters(t *testing.T) {
	app := newTestApp(t)
	token, _ := app.seed("Dr. Rao", "rao@college.edu", domain.RoleAdmin)

	for _, body := range []string{
		`{"title":"Midterm","content":"Hall B","category":"Exam"}`,
		`{"title":"Diwali break","content":"Campus closed","category":"Holiday"}`,
		`{"title":"Cultural fest","content":"midterm results party","category":"Event"}`,
	} {
		expectStatus(t, app.do(http.MethodPost, "/api/notices", token, body), http.StatusCreated)
	}

	cases := map[string]struct {
		query string
		want  []string
	}{
		"search title or content": {query: "?search=MIDTERM", want: []string{"Cultural fest", "Midterm"}},
		"category":                {query: "?category=Holiday", want: []string{"Diwali break"}},
		"search and category":     {query: "?search=midterm&category=Exam", want: []string{"Midterm"}},
		"no match":                {query: "?search=zzz", want: []string{}},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := app.do(http.MethodGet, "/api/notices"+tc.query, "", "")
			expectStatus(t, rec, http.StatusOK)
			list := decode[[]noticeJSON](t, rec)
			if len(list) != len(tc.want) {
				t.Fatalf("expected %v, got %+v", tc.want, list)
			}
			for i, title := range tc.want {
				if list[i].Title != title {
					t.Fatalf("position %d: expected %q, got %q", i, title, list[i].Title)
				}
			}
		})
	}

	expectStatus(t, app.do(http.MethodGet, "/api/notices?category=Sports", "", ""), http.StatusBadRequest)
	expectStatus(t, app.do(http.MethodGet, "/api/notices?date=yesterday", "", ""), http.StatusBadRequest)
}

func TestRouter_IdempotentCreate(t *testing.T) {
	app := newTestApp(t)
	token, _ := app.seed("Dr. Rao", "rao@college.edu", domain.RoleFaculty)
	body := `{"title":"Midterm","content":"Hall B","category":"Exam"}`

	first := decode[noticeJSON](t, app.do(http.MethodPost, "/api/notices", token, body, "Idempotency-Key", "k1"))
	second := decode[noticeJSON](t, app.do(http.MethodPost, "/api/notices", token, body, "Idempotency-Key", "k1"))
	if first.ID == "" || first.ID != second.ID {
		t.Fatalf("expected replay of %q, got %q", first.ID, second.ID)
	}

	rec := app.do(http.MethodPost, "/api/notices", token,
		`{"title":"Completely different","content":"Hall B","category":"Holiday"}`, "Idempotency-Key", "k1")
	expectStatus(t, rec, http.StatusConflict)

	list := decode[[]noticeJSON](t, app.do(http.MethodGet, "/api/notices", "", ""))
	if len(list) != 1 {
		t.Fatalf("expected a single notice, got %d", len(list))
	}
}

func TestRouter_OperationalEndpoints(t *testing.T) {
	app := newTestApp(t)

	expectStatus(t, app.do(http.MethodGet, "/health", "", ""), http.StatusOK)

	rec := app.do(http.MethodGet, "/health/ready", "", "")
	expectStatus(t, rec, http.StatusOK)

	rec = app.do(http.MethodGet, "/metrics", "", "")
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "noticeboard_requests_total") {
		t.Fatalf("expected request metrics, got:\n%s", rec.Body.String())
	}

	rec = app.do(http.MethodGet, "/api/unknown", "", "")
	expectStatus(t, rec, http.StatusNotFound)
	if _, ok := decode[map[string]string](t, rec)["error"]; !ok {
		t.Fatal("expected JSON error envelope on unknown routes")
	}
}
