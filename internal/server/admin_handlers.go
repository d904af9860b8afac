package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"tillpos/internal/till"
)

type BankTxRequest struct {
	Type   till.BankTxType `json:"type" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Worker string          `json:"worker"`
	Note   string          `json:"note"`
}

func (s *Server) GetBank(c *gin.Context) {
	var txs []till.BankTx
	var balance decimal.Decimal
	s.till.View(func(t *till.Till) {
		txs = append([]till.BankTx(nil), t.Bank.Transactions...)
		balance = t.Bank.Balance()
	})
	c.JSON(http.StatusOK, successResponse("Bank retrieved successfully", gin.H{
		"transactions": txs,
		"balance":      balance,
	}))
}

func (s *Server) PostBankTx(c *gin.Context) {
	var req BankTxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	err := s.till.Do(func(t *till.Till) error {
		return t.Bank.Post(req.Type, req.Amount, req.Worker, req.Note, time.Now())
	})
	if err != nil {
		status, body := failureResponse(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, successResponse("Transaction posted", nil))
}

// Overview is the read-only administrative view: day meta, live orders and
// rolled-up totals in one response.
func (s *Server) Overview(c *gin.Context) {
	var meta till.DayMeta
	var orders []till.Order
	s.till.View(func(t *till.Till) {
		meta = t.Day
		orders = t.Ledger.Sorted(till.SortDateDesc)
	})
	c.JSON(http.StatusOK, successResponse("Overview retrieved successfully", gin.H{
		"day":    meta,
		"orders": orders,
		"totals": s.till.Totals(),
	}))
}
