package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Myphz/wwwallet-be/internal/monitoring"
	"github.com/Myphz/wwwallet-be/internal/providers/binance"
	"github.com/Myphz/wwwallet-be/internal/providers/coinmarketcap"
	"github.com/Myphz/wwwallet-be/pkg/utils"
)

// MarketController fronts the external market-data providers. Binance
// responses are relayed byte for byte, status code included, so the frontend
// sees exactly what Binance answered.
type MarketController struct {
	binanceClient *binance.Client
	cmcClient     *coinmarketcap.Client
	metrics       monitoring.MetricsService
}

func NewMarketController(binanceClient *binance.Client, cmcClient *coinmarketcap.Client, metrics monitoring.MetricsService) *MarketController {
	return &MarketController{
		binanceClient: binanceClient,
		cmcClient:     cmcClient,
		metrics:       metrics,
	}
}

// ProxyBinance forwards the wildcard endpoint and query string to Binance.
func (mc *MarketController) ProxyBinance(c *gin.Context) {
	endpoint := c.Param("endpoint")

	start := time.Now()
	status, body, err := mc.binanceClient.Proxy(c.Request.Context(), endpoint, c.Request.URL.Query())
	mc.metrics.RecordExternalServiceCall("binance", err == nil, time.Since(start))
	if err != nil {
		utils.SendError(c, err)
		return
	}

	c.Data(status, "application/json", body)
}

// GetCryptoInfo returns name and market cap per symbol from CoinMarketCap.
func (mc *MarketController) GetCryptoInfo(c *gin.Context) {
	start := time.Now()
	info, err := mc.cmcClient.Listings(c.Request.Context())
	mc.metrics.RecordExternalServiceCall("coinmarketcap", err == nil, time.Since(start))
	if err != nil {
		utils.SendError(c, err)
		return
	}

	utils.SendSuccessResponse(c, http.StatusOK, "Crypto info retrieved successfully", info)
}
