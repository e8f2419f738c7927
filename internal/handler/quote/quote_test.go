package quote

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dwarvesf/arkswap/internal/controller"
	"github.com/dwarvesf/arkswap/internal/mocks"
	"github.com/dwarvesf/arkswap/internal/model"
	quoteengine "github.com/dwarvesf/arkswap/internal/quote"
	"github.com/dwarvesf/arkswap/internal/store"
	"github.com/dwarvesf/arkswap/internal/store/database"
	"github.com/dwarvesf/arkswap/internal/swapapi"
	"github.com/dwarvesf/arkswap/internal/tokenregistry"
	"github.com/dwarvesf/arkswap/internal/types/environments"
	"github.com/dwarvesf/arkswap/internal/utils/logger"
	"github.com/dwarvesf/arkswap/internal/view"
)

func newRouter(t *testing.T, api *mocks.SwapAPI) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenInMemory()
	require.NoError(t, err)
	require.NoError(t, store.AutoMigrate(db))

	api.On("GetTokens", mock.Anything).Return([]swapapi.TokenInfo{
		{TokenID: "btc_arkade", Symbol: "BTC", Chain: "arkade", Decimals: 8, TokenAddress: "btc"},
		{TokenID: "usdc_pol", Symbol: "USDC", Chain: "polygon", ChainID: 137, Decimals: 6, TokenAddress: "0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359"},
	}, nil).Maybe()

	log := logger.New(environments.Test)
	now := func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	tokens := tokenregistry.New(api, log)
	quotes := quoteengine.New(api, tokens, log, quoteengine.WithClock(now))
	ctrl := controller.New(api, tokens, quotes, new(mocks.Wallet), db, store.New(), log, controller.WithClock(now))

	h := New(ctrl, log, nil)
	r := gin.New()
	r.GET("/quotes", h.GetQuote)
	r.GET("/tokens", h.ListTokens)
	return r
}

func get(r *gin.Engine, path string) (*httptest.ResponseRecorder, view.Response[json.RawMessage]) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	var resp view.Response[json.RawMessage]
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestGetQuote(t *testing.T) {
	api := new(mocks.SwapAPI)
	api.On("GetQuote", mock.Anything, mock.Anything).Return(&swapapi.QuoteResponse{
		ExchangeRate:    100_000,
		ProtocolFee:     250,
		NetworkFee:      0,
		ProtocolFeeRate: 0.0025,
	}, nil).Once()
	r := newRouter(t, api)

	w, resp := get(r, "/quotes?direction=btc_to_stablecoin&amount=100000&token=usdc&chain=polygon")

	require.Equal(t, http.StatusOK, w.Code)
	var q model.Quote
	require.NoError(t, json.Unmarshal(resp.Data, &q))
	// (100000 - 250) / 1e8 * 100000
	assert.InDelta(t, 99.75, q.TargetAmount, 1e-9)
	assert.InDelta(t, 0.25, q.Fee.Percentage, 1e-9)
}

func TestGetQuote_Invalid(t *testing.T) {
	r := newRouter(t, new(mocks.SwapAPI))

	w, resp := get(r, "/quotes?direction=sideways&amount=1&token=usdc&chain=polygon")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)

	w, _ = get(r, "/quotes?direction=btc_to_stablecoin&amount=0&token=usdc&chain=polygon")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListTokens(t *testing.T) {
	r := newRouter(t, new(mocks.SwapAPI))

	w, resp := get(r, "/tokens")

	require.Equal(t, http.StatusOK, w.Code)
	var tokens []model.TokenRef
	require.NoError(t, json.Unmarshal(resp.Data, &tokens))
	assert.Len(t, tokens, 2)
}
