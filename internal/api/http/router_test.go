package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/betaops/beta-manager/internal/api/http/handlers"
	"github.com/betaops/beta-manager/internal/auth"
	"github.com/betaops/beta-manager/internal/domain"
	"github.com/betaops/beta-manager/internal/repository"
	"github.com/betaops/beta-manager/internal/service"
	"github.com/betaops/beta-manager/pkg/util"
)

type fakeTesterRepo struct {
	ListFn    func(ctx context.Context, filter repository.TesterFilter) ([]domain.Tester, int, error)
	GetByIDFn func(ctx context.Context, id int) (*domain.Tester, error)
	UpdateFn  func(ctx context.Context, id int, patch repository.TesterPatch) (*domain.Tester, error)
}

func (f *fakeTesterRepo) List(ctx context.Context, filter repository.TesterFilter) ([]domain.Tester, int, error) {
	if f.ListFn == nil {
		return nil, 0, nil
	}
	return f.ListFn(ctx, filter)
}

func (f *fakeTesterRepo) ListAll(ctx context.Context) ([]domain.Tester, error) {
	return nil, nil
}

func (f *fakeTesterRepo) GetByID(ctx context.Context, id int) (*domain.Tester, error) {
	if f.GetByIDFn == nil {
		return nil, util.NewNotFound("tester", nil)
	}
	return f.GetByIDFn(ctx, id)
}

func (f *fakeTesterRepo) Create(ctx context.Context, tester *domain.Tester) error {
	return nil
}

func (f *fakeTesterRepo) Update(ctx context.Context, id int, patch repository.TesterPatch) (*domain.Tester, error) {
	if f.UpdateFn == nil {
		return nil, util.NewNotFound("tester", nil)
	}
	return f.UpdateFn(ctx, id, patch)
}

func (f *fakeTesterRepo) Delete(ctx context.Context, id int) error {
	return nil
}

// newTesterApp wires the real router and middleware over a fake tester
// store and returns an app plus a valid session token.
func newTesterApp(t *testing.T, repo repository.TesterRepository) (*fiber.App, string) {
	t.Helper()
	logger := zap.NewNop()

	testerService := service.NewTesterService(service.TesterDependencies{
		TesterRepo: repo,
		Logger:     logger,
	})

	tokens := auth.NewTokenManager("test-secret", 1)
	token, _, err := tokens.GenerateToken("admin@example.com")
	require.NoError(t, err)

	app := fiber.New()
	RegisterMiddlewares(app, logger, 0)
	RegisterRoutes(app, RouteConfig{
		Testers:        handlers.NewTestersHandler(testerService),
		AuthMiddleware: auth.NewMiddleware(tokens),
		RateLimiter:    NewRateLimiter(nil, logger),
	})
	return app, token
}

func TestListTestersEnvelope(t *testing.T) {
	repo := &fakeTesterRepo{
		ListFn: func(ctx context.Context, filter repository.TesterFilter) ([]domain.Tester, int, error) {
			return []domain.Tester{
				{ID: 11, Name: "Ada", Email: "ada@example.com", Stage: domain.StageActive},
				{ID: 12, Name: "Grace", Email: "grace@example.com", Stage: domain.StageActive},
			}, 12, nil
		},
	}
	app, token := newTesterApp(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/api/testers?page=2&size=5", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Results []json.RawMessage `json:"results"`
		Count   int               `json:"count"`
		Page    int               `json:"page"`
		Size    int               `json:"size"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Len(t, body.Results, 2)
	assert.Equal(t, 12, body.Count)
	assert.Equal(t, 2, body.Page)
	assert.Equal(t, 5, body.Size)
}

func TestListTestersEnvelopeNormalizesPaging(t *testing.T) {
	app, token := newTesterApp(t, &fakeTesterRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/testers", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Page int `json:"page"`
		Size int `json:"size"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	// Defaults are echoed back, not the raw query values.
	assert.Equal(t, 1, body.Page)
	assert.Equal(t, repository.DefaultPageSize, body.Size)
}

func TestSetStageRoutedAsPost(t *testing.T) {
	repo := &fakeTesterRepo{
		GetByIDFn: func(ctx context.Context, id int) (*domain.Tester, error) {
			return &domain.Tester{ID: id, Stage: domain.StageOnboarded}, nil
		},
		UpdateFn: func(ctx context.Context, id int, patch repository.TesterPatch) (*domain.Tester, error) {
			return &domain.Tester{ID: id, Stage: *patch.Stage}, nil
		},
	}
	app, token := newTesterApp(t, repo)

	payload := []byte(`{"stage":"active"}`)

	post := httptest.NewRequest(http.MethodPost, "/api/testers/7/stage", bytes.NewReader(payload))
	post.Header.Set("Authorization", "Bearer "+token)
	post.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(post)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	put := httptest.NewRequest(http.MethodPut, "/api/testers/7/stage", bytes.NewReader(payload))
	put.Header.Set("Authorization", "Bearer "+token)
	put.Header.Set("Content-Type", "application/json")

	resp, err = app.Test(put)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, resp.StatusCode, 400, fmt.Sprintf("PUT must not be routed, got %d", resp.StatusCode))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app, _ := newTesterApp(t, &fakeTesterRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/testers", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
