package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	httptransport "github.com/spec-kit/projects-backend/internal/api/http"
	"github.com/spec-kit/projects-backend/internal/api/http/handlers"
	"github.com/spec-kit/projects-backend/internal/auth"
	"github.com/spec-kit/projects-backend/internal/domain"
	"github.com/spec-kit/projects-backend/internal/observability"
	"github.com/spec-kit/projects-backend/internal/persistence"
	"github.com/spec-kit/projects-backend/internal/repository"
	"github.com/spec-kit/projects-backend/internal/service"
)

type memoryUserRepo struct {
	byUsername map[string]*domain.User
}

func (r *memoryUserRepo) Insert(_ context.Context, user *domain.User) error {
	if _, exists := r.byUsername[user.Username]; exists {
		return repository.ErrUsernameTaken
	}
	user.CreatedAt = time.Now()
	stored := *user
	r.byUsername[user.Username] = &stored
	return nil
}

func (r *memoryUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	user, ok := r.byUsername[username]
	if !ok {
		return nil, nil
	}
	found := *user
	return &found, nil
}

func (r *memoryUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, user := range r.byUsername {
		if user.ID == id {
			found := *user
			return &found, nil
		}
	}
	return nil, nil
}

type memoryProjectRepo struct {
	projects []domain.Project
}

func (r *memoryProjectRepo) Insert(_ context.Context, project *domain.Project) error {
	project.CreatedAt = time.Now()
	r.projects = append(r.projects, *project)
	return nil
}

func (r *memoryProjectRepo) List(_ context.Context) ([]domain.Project, error) {
	return append([]domain.Project(nil), r.projects...), nil
}

func newTestApp() *fiber.App {
	users := &memoryUserRepo{byUsername: make(map[string]*domain.User)}
	projects := &memoryProjectRepo{}

	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	authService := service.NewAuthService(users, hasher, tokens)
	projectService := service.NewProjectService(projects, nil, zap.NewNop())

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler("test", "dev", &persistence.Postgres{}, &persistence.Redis{}),
		Auth:           handlers.NewAuthHandler(authService),
		Projects:       handlers.NewProjectsHandler(projectService),
		AuthMiddleware: auth.NewMiddleware(tokens, users),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body, token string) (*http.Response, []byte) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, payload
}

func TestBanner(t *testing.T) {
	t.Parallel()

	app := newTestApp()
	resp, body := doJSON(t, app, "GET", "/", "", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Projects Backend", string(body))
}

func TestRegister_Success(t *testing.T) {
	t.Parallel()

	app := newTestApp()
	resp, body := doJSON(t, app, "POST", "/register", `{"username":"alice","password":"s3cret!"}`, "")

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Registration Successful"}`, string(body))
}

func TestRegister_ClientSuppliedIDRejected(t *testing.T) {
	t.Parallel()

	app := newTestApp()
	resp, body := doJSON(t, app, "POST", "/register", `{"id":"evil","username":"alice","password":"pw"}`, "")

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "VALIDATION_FAILED")
}

func TestRegister_MissingFieldsRejected(t *testing.T) {
	t.Parallel()

	app := newTestApp()

	resp, _ := doJSON(t, app, "POST", "/register", `{"username":"alice"}`, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", "/register", `{"password":"pw"}`, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegister_DuplicateUsernameConflicts(t *testing.T) {
	t.Parallel()

	app := newTestApp()
	resp, _ := doJSON(t, app, "POST", "/register", `{"username":"alice","password":"pw"}`, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, app, "POST", "/register", `{"username":"alice","password":"other"}`, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "CONFLICT")
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	app := newTestApp()
	resp, _ := doJSON(t, app, "POST", "/register", `{"username":"alice","password":"s3cret!"}`, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, app, "POST", "/login", `{"username":"alice","password":"s3cret!"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Message string `json:"message"`
		Token   string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "Login successful", payload.Message)
	require.NotEmpty(t, payload.Token)

	claims, err := auth.NewTokenManager("test-secret", time.Hour).Verify(payload.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	t.Parallel()

	app := newTestApp()
	resp, _ := doJSON(t, app, "POST", "/register", `{"username":"alice","password":"s3cret!"}`, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	unknownResp, unknownBody := doJSON(t, app, "POST", "/login", `{"username":"nobody","password":"pw"}`, "")
	wrongResp, wrongBody := doJSON(t, app, "POST", "/login", `{"username":"alice","password":"wrong"}`, "")

	assert.Equal(t, http.StatusBadRequest, unknownResp.StatusCode)
	assert.Equal(t, wrongResp.StatusCode, unknownResp.StatusCode)
	assert.Equal(t, string(wrongBody), string(unknownBody))
}

func TestAddProject_RequiresToken(t *testing.T) {
	t.Parallel()

	app := newTestApp()
	payload := `{"title":"portfolio","description":"my site","githuburl":"https://github.com/alice/portfolio"}`

	resp, _ := doJSON(t, app, "POST", "/addProject", payload, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", "/addProject", payload, "garbage-token")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAddProjectAndList(t *testing.T) {
	t.Parallel()

	app := newTestApp()
	resp, _ := doJSON(t, app, "POST", "/register", `{"username":"alice","password":"s3cret!"}`, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	_, loginBody := doJSON(t, app, "POST", "/login", `{"username":"alice","password":"s3cret!"}`, "")
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(loginBody, &login))

	payload := `{"title":"portfolio","description":"my site","githuburl":"https://github.com/alice/portfolio"}`
	resp, body := doJSON(t, app, "POST", "/addProject", payload, login.Token)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Project Insertion Successful"}`, string(body))

	resp, listBody := doJSON(t, app, "GET", "/projects", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var projects []domain.Project
	require.NoError(t, json.Unmarshal(listBody, &projects))
	require.Len(t, projects, 1)
	assert.Equal(t, "portfolio", projects[0].Title)
	assert.Equal(t, "not defined", projects[0].LiveLink)
}
