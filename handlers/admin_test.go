package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teacherdesk/teacherdesk/backend/go-services/internal/admins"
	"github.com/teacherdesk/teacherdesk/backend/go-services/internal/config"
	"github.com/teacherdesk/teacherdesk/backend/go-services/internal/sessions"
	"github.com/teacherdesk/teacherdesk/backend/go-services/internal/teachers"
	"github.com/teacherdesk/teacherdesk/backend/go-services/internal/tokens"
	"golang.org/x/crypto/bcrypt"
)

func adminConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{RequestTimeout: time.Second},
		JWT: config.JWTConfig{
			Secret:          "testsecret123456789012345678901234",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: time.Hour,
		},
		Admin: config.AdminConfig{IncludeTeachers: true},
	}
}

type adminFixture struct {
	router *gin.Engine
	redis  *mr.Miniredis
}

func newAdminFixture(t *testing.T, cfg *config.Config) *adminFixture {
	t.Helper()
	m, err := mr.Run()
	require.NoError(t, err)
	t.Cleanup(m.Close)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})

	ctx := context.Background()
	adminsSvc := admins.NewService(admins.NewMemoryRepository(), bcrypt.MinCost)
	_, err = adminsSvc.EnsureAdmin(ctx, "root", "s3cret")
	require.NoError(t, err)

	teachersSvc := newTeacherService(teachers.NewMemoryRepository())
	_, err = teachersSvc.Register(ctx, teachers.RegisterRequest{Name: "A", JoiningDate: "2024-05-01", Password: "p1", BirthDate: "1990-01-01", Streams: []string{"BTech"}})
	require.NoError(t, err)

	sessSvc := sessions.NewService(sessions.NewRedisRepository(client, ""))
	r := gin.New()
	NewAdminHandler(cfg, adminsSvc, teachersSvc, sessSvc, sessions.NewBlacklist(client)).Register(r)
	return &adminFixture{router: r, redis: m}
}

func (f *adminFixture) login(t *testing.T) map[string]interface{} {
	t.Helper()
	w := doJSON(f.router, http.MethodPost, "/api/admin-auth", map[string]string{"adminId": "root", "adminPassword": "s3cret"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode(t, w)
}

func TestAdminAuth_Success(t *testing.T) {
	f := newAdminFixture(t, adminConfig())
	body := f.login(t)

	assert.Equal(t, true, body["success"])
	list := body["teachers"].([]interface{})
	require.Len(t, list, 1)
	assert.Equal(t, "2024420001", list[0].(map[string]interface{})["registerNumber"])
	assert.NotEmpty(t, body["accessToken"])
	assert.NotEmpty(t, body["refreshToken"])
	assert.Equal(t, float64(900), body["expiresIn"])
	assert.True(t, f.redis.Exists("session:"+body["refreshToken"].(string)))
}

func TestAdminAuth_InvalidCredentials(t *testing.T) {
	f := newAdminFixture(t, adminConfig())
	for _, creds := range []map[string]string{
		{"adminId": "root", "adminPassword": "nope"},
		{"adminId": "ghost", "adminPassword": "s3cret"},
		{},
	} {
		w := doJSON(f.router, http.MethodPost, "/api/admin-auth", creds)
		require.Equal(t, http.StatusBadRequest, w.Code)
		body := decode(t, w)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Invalid admin ID or password.", body["message"])
		assert.NotContains(t, body, "teachers")
	}
}

func TestAdminAuth_WithoutTeacherList(t *testing.T) {
	cfg := adminConfig()
	cfg.Admin.IncludeTeachers = false
	body := newAdminFixture(t, cfg).login(t)
	assert.NotContains(t, body, "teachers")
	assert.NotEmpty(t, body["accessToken"])
}

func TestAdminAuth_NoSecretIssuesNoTokens(t *testing.T) {
	cfg := adminConfig()
	cfg.JWT.Secret = ""
	f := newAdminFixture(t, cfg)
	body := f.login(t)
	assert.Contains(t, body, "teachers")
	assert.NotContains(t, body, "accessToken")
	assert.NotContains(t, body, "refreshToken")

	w := doJSON(f.router, http.MethodGet, "/api/admin/teachers", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminTeachers_RequiresAdminToken(t *testing.T) {
	cfg := adminConfig()
	f := newAdminFixture(t, cfg)

	w := doJSON(f.router, http.MethodGet, "/api/admin/teachers", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	teacherTok, err := tokens.GenerateAccessToken(cfg, "2024420001", "teacher", time.Minute)
	require.NoError(t, err)
	w = doJSON(f.router, http.MethodGet, "/api/admin/teachers", nil, "Authorization", "Bearer "+teacherTok)
	require.Equal(t, http.StatusForbidden, w.Code)

	access := f.login(t)["accessToken"].(string)
	w = doJSON(f.router, http.MethodGet, "/api/admin/teachers", nil, "Authorization", "Bearer "+access)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decode(t, w)["teachers"].([]interface{}), 1)
}

func TestAdminRefresh(t *testing.T) {
	f := newAdminFixture(t, adminConfig())
	refresh := f.login(t)["refreshToken"].(string)

	w := doJSON(f.router, http.MethodPost, "/api/admin/refresh", map[string]string{"refreshToken": refresh})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.NotEmpty(t, body["accessToken"])
	assert.Equal(t, float64(900), body["expiresIn"])

	w = doJSON(f.router, http.MethodPost, "/api/admin/refresh", map[string]string{"refreshToken": "bogus"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(f.router, http.MethodPost, "/api/admin/refresh", map[string]string{})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminLogout_RevokesTokens(t *testing.T) {
	f := newAdminFixture(t, adminConfig())
	body := f.login(t)
	access := body["accessToken"].(string)
	refresh := body["refreshToken"].(string)

	w := doJSON(f.router, http.MethodPost, "/api/admin/logout", map[string]string{"refreshToken": refresh}, "Authorization", "Bearer "+access)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "logged out", decode(t, w)["message"])

	assert.False(t, f.redis.Exists("session:"+refresh))
	assert.True(t, f.redis.Exists("blacklist:access:"+access))

	w = doJSON(f.router, http.MethodGet, "/api/admin/teachers", nil, "Authorization", "Bearer "+access)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(f.router, http.MethodPost, "/api/admin/refresh", map[string]string{"refreshToken": refresh})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminLogout_ForeignTokenIsNotRevoked(t *testing.T) {
	cfg := adminConfig()
	f := newAdminFixture(t, cfg)
	refresh := f.login(t)["refreshToken"].(string)

	other, err := tokens.GenerateAccessToken(cfg, "someone-else", tokens.RoleAdmin, time.Minute)
	require.NoError(t, err)

	w := doJSON(f.router, http.MethodPost, "/api/admin/logout", map[string]string{"refreshToken": refresh}, "Authorization", "Bearer "+other)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, f.redis.Exists("session:"+refresh))
	assert.False(t, f.redis.Exists("blacklist:access:"+other))

	w = doJSON(f.router, http.MethodGet, "/api/admin/teachers", nil, "Authorization", "Bearer "+other)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAdminLogout_UnknownRefreshRevokesNothing(t *testing.T) {
	f := newAdminFixture(t, adminConfig())
	access := f.login(t)["accessToken"].(string)

	w := doJSON(f.router, http.MethodPost, "/api/admin/logout", map[string]string{"refreshToken": "bogus"}, "Authorization", "Bearer "+access)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, f.redis.Exists("blacklist:access:"+access))
}
