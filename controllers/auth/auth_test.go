package authControllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bananina/storefront-api/config"
	"github.com/bananina/storefront-api/models"
	"github.com/bananina/storefront-api/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Role{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, username, password string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{
		Username: username,
		Email:    email,
		Password: string(hash),
		FullName: "Seed User",
		Phone:    "0812345678",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correcthorse"), bcrypt.DefaultCost)
	require.NoError(t, err)

	assert.NoError(t, bcrypt.CompareHashAndPassword(hash, []byte("correcthorse")))
	assert.Error(t, bcrypt.CompareHashAndPassword(hash, []byte("correcthors")))
	assert.Error(t, bcrypt.CompareHashAndPassword(hash, []byte("")))
}

func TestLoginInvalidJSON(t *testing.T) {
	r := gin.New()
	r.POST("/login", Login(nil, session.NewMemoryStore(), config.Config{}))

	w := postJSON(r, "/login", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Invalid JSON data"}`, w.Body.String())
}

func TestLoginMissingFields(t *testing.T) {
	r := gin.New()
	r.POST("/login", Login(nil, session.NewMemoryStore(), config.Config{}))

	w := postJSON(r, "/login", `{"email":"","password":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"email is required"}`, w.Body.String())
}

func TestRegisterValidation(t *testing.T) {
	r := gin.New()
	r.POST("/register", Register(nil, session.NewMemoryStore(), config.Config{}))

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			"short password",
			`{"username":"ana_shop","email":"ana@bananina.test","password":"short","full_name":"Ana","phone":"0812345678"}`,
			"Password must be at least 8 characters long",
		},
		{
			"bad username",
			`{"username":"a!","email":"ana@bananina.test","password":"longenough","full_name":"Ana","phone":"0812345678"}`,
			"Username must be 3-20 characters long and can only contain letters, numbers, and underscores",
		},
		{
			"bad email",
			`{"username":"ana_shop","email":"nope","password":"longenough","full_name":"Ana","phone":"0812345678"}`,
			"Invalid email format",
		},
		{
			"bad phone",
			`{"username":"ana_shop","email":"ana@bananina.test","password":"longenough","full_name":"Ana","phone":"123"}`,
			"Invalid phone number format",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(r, "/register", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}
}

func TestRegisterChecksPresenceBeforeFormat(t *testing.T) {
	r := gin.New()
	r.POST("/register", Register(nil, session.NewMemoryStore(), config.Config{}))

	// Malformed username and missing email: the missing field wins.
	w := postJSON(r, "/register", `{"username":"a!","password":"longenough","full_name":"Ana","phone":"0812345678"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"email is required"}`, w.Body.String())

	// All fields present, email and username both malformed: email
	// format is reported before username format.
	w = postJSON(r, "/register", `{"username":"a!","email":"nope","password":"longenough","full_name":"Ana","phone":"0812345678"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Invalid email format"}`, w.Body.String())
}

func TestLoginErrorsIndistinguishable(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "ana@bananina.test", "ana_shop", "longenough")

	r := gin.New()
	r.POST("/login", Login(db, session.NewMemoryStore(), config.Config{SessionTTL: time.Hour}))

	wrongPassword := postJSON(r, "/login", `{"email":"ana@bananina.test","password":"not-her-password"}`)
	unknownEmail := postJSON(r, "/login", `{"email":"nobody@bananina.test","password":"longenough"}`)

	assert.Equal(t, http.StatusBadRequest, wrongPassword.Code)
	assert.Equal(t, wrongPassword.Code, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
	assert.JSONEq(t, `{"success":false,"message":"Invalid credentials"}`, wrongPassword.Body.String())
}

func TestRegisterCreatesUserWithCustomerRole(t *testing.T) {
	db := newTestDB(t)
	r := gin.New()
	r.POST("/register", Register(db, session.NewMemoryStore(), config.Config{SessionTTL: time.Hour}))

	w := postJSON(r, "/register", `{"username":"ana_shop","email":"ana@bananina.test","password":"longenough","full_name":"Ana","phone":"0812345678"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
	assert.NotEmpty(t, w.Result().Cookies())

	var user models.User
	require.NoError(t, db.Preload("Roles").Where("email = ?", "ana@bananina.test").First(&user).Error)
	require.Len(t, user.Roles, 1)
	assert.Equal(t, models.RoleCustomer, user.Roles[0].Name)

	// A second registration reuses the role row.
	w = postJSON(r, "/register", `{"username":"bob_shop","email":"bob@bananina.test","password":"longenough","full_name":"Bob","phone":"0812345679"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var roles int64
	require.NoError(t, db.Model(&models.Role{}).Where("name = ?", models.RoleCustomer).Count(&roles).Error)
	assert.EqualValues(t, 1, roles)
}

func TestRegisterDuplicateEmailLeavesNoRows(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "ana@bananina.test", "ana_shop", "longenough")

	r := gin.New()
	r.POST("/register", Register(db, session.NewMemoryStore(), config.Config{SessionTTL: time.Hour}))

	w := postJSON(r, "/register", `{"username":"other_name","email":"ana@bananina.test","password":"longenough","full_name":"Other","phone":"0812345670"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Email already exists"}`, w.Body.String())

	// The rolled-back registration leaves no user and no role join.
	var users int64
	require.NoError(t, db.Model(&models.User{}).Where("username = ?", "other_name").Count(&users).Error)
	assert.Zero(t, users)
	var joins int64
	require.NoError(t, db.Table("user_roles").Count(&joins).Error)
	assert.Zero(t, joins)
}
