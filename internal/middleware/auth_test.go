package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	// registers the cgo-free "sqlite" database/sql driver
	_ "modernc.org/sqlite"

	"foodgram/internal/domain/user"
	"foodgram/internal/pkg/jwt"
)

func setupAuthTest(t *testing.T) (*jwt.Service, *user.Repository, user.User) {
	t.Helper()
	dsn := fmt.Sprintf("file:middleware_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&user.User{}))

	u := user.User{Email: "alice@example.com", Username: "alice"}
	require.NoError(t, db.Create(&u).Error)

	return jwt.New("test-secret-123", time.Hour), user.NewRepository(db), u
}

func TestRequireAuth_ValidToken(t *testing.T) {
	jwtService, users, u := setupAuthTest(t)
	token, err := jwtService.GenerateToken(u.ID)
	require.NoError(t, err)

	router := gin.New()
	router.Use(RequireAuth(jwtService, users))
	router.GET("/protected", func(c *gin.Context) {
		identity := CurrentUser(c)
		require.NotNil(t, identity)
		c.JSON(http.StatusOK, gin.H{"username": identity.Username})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice")
}

func TestRequireAuth_MissingOrBrokenToken(t *testing.T) {
	jwtService, users, _ := setupAuthTest(t)

	router := gin.New()
	router.Use(RequireAuth(jwtService, users))
	router.GET("/protected", func(c *gin.Context) {
		t.Fatal("handler must not be reached")
	})

	cases := map[string]string{
		"no header":    "",
		"wrong scheme": "Basic dGVzdA==",
		"garbage":      "Bearer not-a-jwt",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/protected", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
		})
	}
}

func TestRequireAuth_TokenForDeletedUser(t *testing.T) {
	jwtService, users, _ := setupAuthTest(t)
	token, err := jwtService.GenerateToken(9999)
	require.NoError(t, err)

	router := gin.New()
	router.Use(RequireAuth(jwtService, users))
	router.GET("/protected", func(c *gin.Context) {
		t.Fatal("handler must not be reached")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuth_AnonymousPassesThrough(t *testing.T) {
	jwtService, users, u := setupAuthTest(t)
	token, err := jwtService.GenerateToken(u.ID)
	require.NoError(t, err)

	router := gin.New()
	router.Use(OptionalAuth(jwtService, users))
	router.GET("/open", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": CurrentUserID(c)})
	})

	// anonymous request still reaches the handler with a zero identity
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/open", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":0`)

	w = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/open", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), fmt.Sprintf(`"user_id":%d`, u.ID))
}
