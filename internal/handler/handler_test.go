package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"backoffice/internal/access"
	"backoffice/internal/database"
	"backoffice/internal/middleware"
	"backoffice/internal/model"
	"backoffice/internal/records"
	"backoffice/internal/schema"
	"backoffice/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	store  *records.Store

	viewerToken string
	adminToken  string
}

// newTestEnv wires the contract endpoints against sqlite with two roles: an
// admin with full rights and a viewer with can_view only and money fields
// hidden.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	adminRole := model.Role{Name: "Администратор", Code: "admin"}
	viewerRole := model.Role{Name: "Наблюдатель", Code: "viewer"}
	require.NoError(t, db.Create(&adminRole).Error)
	require.NoError(t, db.Create(&viewerRole).Error)
	require.NoError(t, db.Create(&model.Permission{
		RoleID: adminRole.ID, Resource: access.ResourceContracts,
		CanView: true, CanCreate: true, CanEdit: true, CanDelete: true,
		HiddenFields: "[]",
	}).Error)
	require.NoError(t, db.Create(&model.Permission{
		RoleID: viewerRole.ID, Resource: access.ResourceContracts,
		CanView:      true,
		HiddenFields: `["profit", "contract_amount"]`,
	}).Error)

	store := records.NewStore(db, schema.Default(), zap.NewNop())
	gate := access.NewGate(db, zap.NewNop())
	settings := service.NewSettingsService(db, store)
	contracts := service.NewContractService(store, settings)

	router := gin.New()
	api := router.Group("/api")
	NewContractHandler(gate, contracts).RegisterRoutes(api)

	adminToken, err := middleware.NewAccessToken(1, adminRole.ID, "Admin")
	require.NoError(t, err)
	viewerToken, err := middleware.NewAccessToken(2, viewerRole.ID, "Viewer")
	require.NoError(t, err)

	return &testEnv{
		router:      router,
		db:          db,
		store:       store,
		viewerToken: viewerToken,
		adminToken:  adminToken,
	}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	}

	recorder := httptest.NewRecorder()
	e.router.ServeHTTP(recorder, req)
	return recorder
}

func TestContractEndpointsRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodGet, "/api/contracts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestContractCreateAsAdmin(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/contracts", env.adminToken, map[string]interface{}{
		"contract_name":   "House 12",
		"contract_amount": 5400000,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		ID      int64  `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Greater(t, body.ID, int64(0))
}

func TestContractListRedactsHiddenFields(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.store.Create(context.Background(), "contracts", map[string]interface{}{
		"contract_name":   "House 13",
		"contract_amount": 3000000,
		"profit":          400000,
	})
	require.NoError(t, err)

	resp := env.request(t, http.MethodGet, "/api/contracts", env.viewerToken, nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var body struct {
		Success bool                     `json:"success"`
		Data    []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)

	row := body.Data[0]
	assert.Equal(t, "House 13", row["contract_name"])
	assert.NotContains(t, row, "profit")
	assert.NotContains(t, row, "contract_amount")

	// the admin still sees the money columns
	resp = env.request(t, http.MethodGet, "/api/contracts", env.adminToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Contains(t, body.Data[0], "profit")
}

func TestContractUpdateDeniedForViewer(t *testing.T) {
	env := newTestEnv(t)

	id, err := env.store.Create(context.Background(), "contracts", map[string]interface{}{
		"contract_name": "House 14",
	})
	require.NoError(t, err)

	resp := env.request(t, http.MethodPut, "/api/contracts", env.viewerToken, map[string]interface{}{
		"id":            id,
		"contract_name": "Hacked",
	})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	// the row must be untouched after the refused write
	row, err := env.store.Get(context.Background(), "contracts", id)
	require.NoError(t, err)
	assert.Equal(t, "House 14", row["contract_name"])
}

func TestContractDeleteByQueryID(t *testing.T) {
	env := newTestEnv(t)

	id, err := env.store.Create(context.Background(), "contracts", map[string]interface{}{
		"contract_name": "House 15",
	})
	require.NoError(t, err)

	resp := env.request(t, http.MethodDelete, fmt.Sprintf("/api/contracts?id=%d", id), env.adminToken, nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	_, err = env.store.Get(context.Background(), "contracts", id)
	assert.ErrorIs(t, err, records.ErrNotFound)
}

func TestContractUpdateUnknownColumnRejected(t *testing.T) {
	env := newTestEnv(t)

	id, err := env.store.Create(context.Background(), "contracts", map[string]interface{}{
		"contract_name": "House 16",
	})
	require.NoError(t, err)

	resp := env.request(t, http.MethodPut, "/api/contracts", env.adminToken, map[string]interface{}{
		"id":          id,
		"no_such_col": "x",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
