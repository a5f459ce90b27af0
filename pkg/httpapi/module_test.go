package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cashback-ledger/pkg/config"
	"cashback-ledger/pkg/health"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
	gin.SetMode(gin.TestMode)
}

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	cfg := &config.Config{AppName: "cashback-ledger"}
	cfg.Snowflake.Node = 1
	cfg.Cors.Origins = "*"

	r, err := NewEngine(EngineParams{Config: cfg})
	require.NoError(t, err)
	registerHealthEndpoint(r, health.ProvideHealth(health.HealthParams{}))
	return r
}

func TestBanner(t *testing.T) {
	w := httptest.NewRecorder()
	newTestEngine(t).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, Banner, body["message"])
	require.Equal(t, "running", body["status"])
	require.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestUnknownRoute(t *testing.T) {
	w := httptest.NewRecorder()
	newTestEngine(t).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestParseIDValue(t *testing.T) {
	id, err := ParseIDValue("customer_id", "42")
	require.NoError(t, err)
	require.EqualValues(t, 42, id)

	for _, raw := range []string{"", "abc", "0", "-3"} {
		_, err := ParseIDValue("customer_id", raw)
		require.Error(t, err, raw)
	}
}
