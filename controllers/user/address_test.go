package userControllers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bananina/storefront-api/middleware"
	"github.com/bananina/storefront-api/models"
	"github.com/bananina/storefront-api/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Address{}))
	return db
}

func addressRouter(t *testing.T, db *gorm.DB, userID uint) (*gin.Engine, string) {
	t.Helper()
	store := session.NewMemoryStore()
	token := session.NewToken()
	require.NoError(t, store.Set(context.Background(), token, &session.Session{UserID: userID}, time.Hour))

	r := gin.New()
	grp := r.Group("/addresses", middleware.RequireAuth(store))
	grp.POST("", CreateAddress(db))
	grp.PUT("/update", UpdateAddress(db))
	grp.DELETE("/delete", DeleteAddress(db))
	return r, token
}

func doJSON(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedAddress(t *testing.T, db *gorm.DB, userID uint, typ models.AddressType, isDefault bool) models.Address {
	t.Helper()
	addr := models.Address{
		UserID:        userID,
		AddressType:   typ,
		RecipientName: "Ana",
		Phone:         "0812345678",
		StreetAddress: "Jl. Kemang Raya 1",
		City:          "Jakarta",
		Province:      "DKI Jakarta",
		PostalCode:    "12730",
		IsDefault:     isDefault,
	}
	require.NoError(t, db.Create(&addr).Error)
	return addr
}

func countDefaults(t *testing.T, db *gorm.DB, userID uint, typ models.AddressType) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Address{}).
		Where("user_id = ? AND address_type = ? AND is_default = ?", userID, typ, true).
		Count(&n).Error)
	return n
}

func TestCreateAddressFirstOfTypeBecomesDefault(t *testing.T) {
	db := newTestDB(t)
	r, token := addressRouter(t, db, 1)

	body := `{"address_type":"shipping","recipient_name":"Ana","phone":"0812345678","street_address":"Jl. Kemang Raya 1","city":"Jakarta","province":"DKI Jakarta","postal_code":"12730"}`
	w := doJSON(r, http.MethodPost, "/addresses", token, body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_default":true`)
	assert.EqualValues(t, 1, countDefaults(t, db, 1, models.AddressShipping))
}

func TestUpdateAddressMovesDefaultAcrossTypes(t *testing.T) {
	db := newTestDB(t)
	shipping := seedAddress(t, db, 1, models.AddressShipping, true)
	seedAddress(t, db, 1, models.AddressBilling, true)

	r, token := addressRouter(t, db, 1)

	// Retype the default shipping address to billing, keeping it
	// default. The old billing default must lose its flag.
	body := `{"address_type":"billing","recipient_name":"Ana","phone":"0812345678","street_address":"Jl. Kemang Raya 1","city":"Jakarta","province":"DKI Jakarta","postal_code":"12730","is_default":true}`
	w := doJSON(r, http.MethodPut, fmt.Sprintf("/addresses/update?id=%d", shipping.ID), token, body)
	require.Equal(t, http.StatusOK, w.Code)

	assert.EqualValues(t, 1, countDefaults(t, db, 1, models.AddressBilling))

	var moved models.Address
	require.NoError(t, db.First(&moved, shipping.ID).Error)
	assert.Equal(t, models.AddressBilling, moved.AddressType)
	assert.True(t, moved.IsDefault)
}

func TestUpdateAddressKeepsSingleDefaultWithinType(t *testing.T) {
	db := newTestDB(t)
	first := seedAddress(t, db, 1, models.AddressShipping, true)
	second := seedAddress(t, db, 1, models.AddressShipping, false)

	r, token := addressRouter(t, db, 1)

	body := `{"address_type":"shipping","recipient_name":"Ana","phone":"0812345678","street_address":"Jl. Senopati 5","city":"Jakarta","province":"DKI Jakarta","postal_code":"12190","is_default":true}`
	w := doJSON(r, http.MethodPut, fmt.Sprintf("/addresses/update?id=%d", second.ID), token, body)
	require.Equal(t, http.StatusOK, w.Code)

	assert.EqualValues(t, 1, countDefaults(t, db, 1, models.AddressShipping))

	var old models.Address
	require.NoError(t, db.First(&old, first.ID).Error)
	assert.False(t, old.IsDefault)
}

func TestUpdateAddressRejectsForeignAddress(t *testing.T) {
	db := newTestDB(t)
	other := seedAddress(t, db, 2, models.AddressShipping, true)

	r, token := addressRouter(t, db, 1)

	body := `{"address_type":"shipping","recipient_name":"Ana","phone":"0812345678","street_address":"Jl. Kemang Raya 1","city":"Jakarta","province":"DKI Jakarta","postal_code":"12730"}`
	w := doJSON(r, http.MethodPut, fmt.Sprintf("/addresses/update?id=%d", other.ID), token, body)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
