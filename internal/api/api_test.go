package api

import (
	"alcyxob/coach-platform/internal/config"
	"alcyxob/coach-platform/internal/domain"
	"alcyxob/coach-platform/internal/repository/memory"
	"alcyxob/coach-platform/internal/service"
	"alcyxob/coach-platform/internal/share"
	"alcyxob/coach-platform/internal/storage"
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServer struct {
	router *gin.Engine
	files  *storage.MemoryStorage
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	repos := memory.NewRepositories()
	files := storage.NewMemoryStorage()
	clock := func() time.Time { return time.Date(2024, 3, 15, 8, 5, 0, 0, time.UTC) }

	svc := Services{
		Auth: service.NewAuthService(repos.Users,
			config.SuperuserConfig{Username: "creator", Password: "xiaomicoder"}, nil,
			config.JWTConfig{Secret: "test-secret", Expiration: time.Hour}, logger),
		Templates:    service.NewTemplateService(repos.Templates, logger),
		Roster:       service.NewRosterService(repos.Users, repos.Templates, "creator", clock, logger),
		Completion:   service.NewCompletionService(repos.Users, files, clock, logger),
		Library:      service.NewLibraryService(repos.Recipes, repos.Exercises, repos.Users, logger),
		Progress:     service.NewProgressService(repos.ProgressPhotos, repos.Users, files, clock, logger),
		Marketplace:  service.NewMarketplaceService(repos.Products, repos.Purchases, repos.Users, logger),
		Applications: service.NewApplicationService(share.NewTelegramSharer("coach_admin", logger), "coach_admin", logger),
		Files:        files,
	}
	router := gin.New()
	router.Use(RequestLogger(logger))
	SetupRoutes(router, svc, logger)
	return &testServer{router: router, files: files}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Username: username, Password: password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// seedUser creates a template with one meal and one exercise on day 1 and a
// user on it, returning the user's token and the two task ids.
func (s *testServer) seedUser(t *testing.T) (token, mealID, exerciseID string) {
	t.Helper()
	creator := s.login(t, "creator", "xiaomicoder")

	w := s.do(t, http.MethodPost, "/api/v1/admin/templates", creator, TemplateRequest{Name: "Ozish"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	tpl := decode[domain.PlanTemplate](t, w)
	require.Len(t, tpl.Days, domain.PlanLength)

	w = s.do(t, http.MethodPost, "/api/v1/admin/templates/"+tpl.ID+"/days/0/tasks/meal", creator, TaskRequest{Title: "Breakfast", Meta: "400 kkal"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	mealID = decode[domain.Task](t, w).ID

	w = s.do(t, http.MethodPost, "/api/v1/admin/templates/"+tpl.ID+"/days/0/tasks/exercise", creator, TaskRequest{Title: "Squats"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	exerciseID = decode[domain.Task](t, w).ID

	w = s.do(t, http.MethodPost, "/api/v1/admin/users", creator, CreateUserRequest{
		Name: "Ali", Username: "ali", Password: "parol123", TemplateID: tpl.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	return s.login(t, "ali", "parol123"), mealID, exerciseID
}

func TestPing(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}

func TestLoginAndMe(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Username: "creator", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"wrong login or password"}`, w.Body.String())

	token := s.login(t, "creator", "xiaomicoder")
	w = s.do(t, http.MethodGet, "/api/v1/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userId":"creator","role":"creator"}`, w.Body.String())

	userToken, _, _ := s.seedUser(t)
	w = s.do(t, http.MethodGet, "/api/v1/me", userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"ali"`)
	assert.NotContains(t, w.Body.String(), "passwordHash")
}

func TestAuthMiddleware(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"garbage token", "Bearer abc.def.ghi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			s.router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRoleBoundaries(t *testing.T) {
	s := newTestServer(t)
	userToken, _, _ := s.seedUser(t)
	creator := s.login(t, "creator", "xiaomicoder")

	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/v1/admin/users", userToken, nil).Code)
	// The creator has no plan of its own.
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/v1/plan", creator, nil).Code)

	users := decode[[]UserResponse](t, s.do(t, http.MethodGet, "/api/v1/admin/users", creator, nil))
	require.Len(t, users, 1)
	id := users[0].ID

	// Promote to admin, then the admin may not change roles.
	w := s.do(t, http.MethodPut, "/api/v1/admin/users/"+id+"/role", creator, RoleRequest{Role: domain.RoleAdmin})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	adminToken := s.login(t, "ali", "parol123")
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/v1/admin/users", adminToken, nil).Code)
	assert.Equal(t, http.StatusForbidden,
		s.do(t, http.MethodPut, "/api/v1/admin/users/"+id+"/role", adminToken, RoleRequest{Role: domain.RoleUser}).Code)

	w = s.do(t, http.MethodPut, "/api/v1/admin/users/"+id+"/role", creator, RoleRequest{Role: domain.RoleCreator})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	blocked := true
	w = s.do(t, http.MethodPut, "/api/v1/admin/users/"+id+"/blocked", creator, BlockRequest{Blocked: &blocked})
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Username: "ali", Password: "parol123"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSession_FollowsRosterChanges(t *testing.T) {
	s := newTestServer(t)
	userToken, _, exerciseID := s.seedUser(t)
	creator := s.login(t, "creator", "xiaomicoder")
	users := decode[[]UserResponse](t, s.do(t, http.MethodGet, "/api/v1/admin/users", creator, nil))
	require.Len(t, users, 1)
	id := users[0].ID
	completePath := "/api/v1/plan/days/1/exercises/" + exerciseID + "/complete"

	t.Run("block applies to an issued token", func(t *testing.T) {
		blocked := true
		w := s.do(t, http.MethodPut, "/api/v1/admin/users/"+id+"/blocked", creator, BlockRequest{Blocked: &blocked})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = s.do(t, http.MethodPost, completePath, userToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.JSONEq(t, `{"error":"account blocked, contact admin"}`, w.Body.String())

		blocked = false
		w = s.do(t, http.MethodPut, "/api/v1/admin/users/"+id+"/blocked", creator, BlockRequest{Blocked: &blocked})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, http.StatusOK, s.do(t, http.MethodPost, completePath, userToken, nil).Code)
	})

	t.Run("demotion applies to an issued token", func(t *testing.T) {
		w := s.do(t, http.MethodPut, "/api/v1/admin/users/"+id+"/role", creator, RoleRequest{Role: domain.RoleAdmin})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		adminToken := s.login(t, "ali", "parol123")
		require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/v1/admin/users", adminToken, nil).Code)

		w = s.do(t, http.MethodPut, "/api/v1/admin/users/"+id+"/role", creator, RoleRequest{Role: domain.RoleUser})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/v1/admin/users", adminToken, nil).Code)
		assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodDelete, "/api/v1/admin/users/"+id, adminToken, nil).Code)
		// The role in the token is stale; the stored role wins.
		w = s.do(t, http.MethodGet, "/api/v1/me", adminToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"role":"user"`)
	})

	t.Run("deleted user is logged out", func(t *testing.T) {
		w := s.do(t, http.MethodDelete, "/api/v1/admin/users/"+id, creator, nil)
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
		assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/v1/plan", userToken, nil).Code)
	})
}

func multipartImage(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="meal.jpg"`)
	h.Set("Content-Type", "image/jpeg")
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte{0xff, 0xd8, 0xff, 0xe0})
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestMealProofAndCompletion(t *testing.T) {
	s := newTestServer(t)
	token, mealID, exerciseID := s.seedUser(t)

	body, contentType := multipartImage(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/plan/days/1/meals/"+mealID+"/proof", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	res := decode[CompletionResponse](t, w)
	assert.True(t, res.Task.Completed)
	assert.Equal(t, domain.ReviewPending, res.Task.Status)
	assert.Equal(t, "08:05", res.Task.ProofTimestamp)
	assert.True(t, strings.HasPrefix(res.Task.ProofImage, "data:image/jpeg"))
	assert.False(t, res.Day.IsCompleted)
	assert.Equal(t, 1, s.files.Len())

	w = s.do(t, http.MethodPost, "/api/v1/plan/days/1/exercises/"+exerciseID+"/complete", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res = decode[CompletionResponse](t, w)
	assert.True(t, res.Day.IsCompleted)
	assert.False(t, res.Day.RecordedComplete)
	assert.Equal(t, 100, res.Day.Progress)

	day := decode[DayResponse](t, s.do(t, http.MethodGet, "/api/v1/plan/days/1", token, nil))
	assert.True(t, day.IsCompleted)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/api/v1/plan/days/1/exercises/"+mealID+"/complete", token, nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/v1/plan/days/31", token, nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/v1/plan/days/first", token, nil).Code)
}

func TestMealProof_RequiresImage(t *testing.T) {
	s := newTestServer(t)
	token, mealID, _ := s.seedUser(t)

	w := s.do(t, http.MethodPost, "/api/v1/plan/days/1/meals/"+mealID+"/proof", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, s.files.Len())
}

func TestProgressPhotos(t *testing.T) {
	s := newTestServer(t)
	token, _, _ := s.seedUser(t)

	body, contentType := multipartImage(t, map[string]string{"weight": "80.5", "waist": "90", "notes": "start"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/progress/photos", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	photo := decode[domain.ProgressPhoto](t, w)
	assert.Equal(t, "2024-03-15", photo.Date)
	require.NotNil(t, photo.Measurements)
	require.NotNil(t, photo.Measurements.Waist)
	assert.Equal(t, 90.0, *photo.Measurements.Waist)
	assert.Nil(t, photo.Measurements.Chest)

	photos := decode[[]domain.ProgressPhoto](t, s.do(t, http.MethodGet, "/api/v1/progress/photos", token, nil))
	assert.Len(t, photos, 1)

	w = s.do(t, http.MethodPost, "/api/v1/progress/weight", token, WeightRequest{Weight: 79.5})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	user := decode[UserResponse](t, w)
	assert.Equal(t, 79.5, user.Weight)
	assert.Len(t, user.WeightHistory, 1)
}

func TestApplications(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/applications", "", domain.Application{FirstName: "Dilnoza", Phone: "+998901234567"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	res := decode[service.SubmittedApplication](t, w)
	assert.Equal(t, "https://t.me/coach_admin", res.AdminURL)
	assert.True(t, strings.HasPrefix(res.ShareURL, "https://t.me/share/url?text="))

	w = s.do(t, http.MethodPost, "/api/v1/applications", "", domain.Application{FirstName: "Dilnoza"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(service.ErrUserNotFound))
	assert.Equal(t, http.StatusTooManyRequests, statusFor(service.ErrTooManyAttempts))
	assert.Equal(t, http.StatusConflict, statusFor(service.ErrUsernameTaken))
	assert.Equal(t, http.StatusConflict, statusFor(service.ErrTaskIDTaken))
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}
