package swap

import "github.com/gin-gonic/gin"

type IHandler interface {
	CreateBtcToStablecoin(c *gin.Context)
	CreateStablecoinToBtc(c *gin.Context)
	GetStatus(c *gin.Context)
	ListPending(c *gin.Context)
	ListHistory(c *gin.Context)
	Claim(c *gin.Context)
	Refund(c *gin.Context)
	FundingCallData(c *gin.Context)
	RefundCallData(c *gin.Context)
	Sync(c *gin.Context)
	Statuses(c *gin.Context)
}
