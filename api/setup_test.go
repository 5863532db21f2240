package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"nnact/config"
	"nnact/repository"
	"nnact/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// testNow 测试时钟的当前时间，2025 年 3 月对应单号前缀 NSN-25C
var testNow = time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	t.Cleanup(func() { sqlDB.Close() })
	return gormDB, mock
}

type testEnv struct {
	mock   sqlmock.Sqlmock
	engine *gin.Engine
}

// newTestEnv 真实的 service 和 gorm 仓储，数据库由 sqlmock 模拟
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock := setupMockDB(t)
	cfg := &config.Config{
		Sequence: config.SequenceConfig{MaxAttempts: 3, RetryDelay: time.Millisecond},
	}
	issuer := func(userID, phone string) (string, error) { return "token-" + userID, nil }
	services := service.NewServices(repository.NewGormRepositories(db), cfg, testclock.NewClock(testNow), issuer)
	h := NewHandlers(services)

	r := gin.New()
	g := r.Group("/api")
	g.POST("/auth/register", h.Auth.Register)
	g.POST("/auth/login", h.Auth.Login)
	h.Clients.Register(g.Group("/clients"))
	h.Services.Register(g.Group("/services"))
	g.GET("/services/types", h.Services.Types)
	g.GET("/service-requests/slots/:date", h.ServiceRequests.Slots)

	expenses := g.Group("/expenses")
	expenses.POST("", h.Expenses.Create)
	expenses.GET("", h.Expenses.List)
	expenses.GET("/total", h.Expenses.Total)
	expenses.GET("/search", h.Expenses.Search)
	expenses.GET("/date-range", h.Expenses.DateRange)
	expenses.GET("/export/csv", h.Export.ExportCSV)
	expenses.GET("/export/excel", h.Export.ExportExcel)
	expenses.POST("/bulk", h.Expenses.BulkCreate)
	expenses.DELETE("/bulk", h.Expenses.BulkDelete)
	expenses.GET("/:id", h.Expenses.Get)
	expenses.PATCH("/:id", h.Expenses.Update)

	return &testEnv{mock: mock, engine: r}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

type testResponse struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) testResponse {
	t.Helper()
	var resp testResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	resp := decodeResponse(t, w)
	require.NoError(t, json.Unmarshal(resp.Data, out), string(resp.Data))
}
