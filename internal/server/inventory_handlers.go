package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"tillpos/internal/till"
)

type AddInventoryItemRequest struct {
	Name string          `json:"name" binding:"required"`
	Unit string          `json:"unit" binding:"required"`
	Qty  decimal.Decimal `json:"qty"`
}

type SetQtyRequest struct {
	Qty decimal.Decimal `json:"qty"`
}

type LockRequest struct {
	Confirm bool `json:"confirm"`
}

type UnlockRequest struct {
	AdminNo int    `json:"admin_no" binding:"required"`
	Pin     string `json:"pin" binding:"required"`
}

type AddExpenseRequest struct {
	Name      string          `json:"name" binding:"required"`
	Unit      string          `json:"unit"`
	Qty       decimal.Decimal `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Note      string          `json:"note"`
}

func (s *Server) ListInventory(c *gin.Context) {
	var inv till.Inventory
	s.till.View(func(t *till.Till) { inv = t.Inventory })
	c.JSON(http.StatusOK, successResponse("Inventory retrieved successfully", inv))
}

func (s *Server) AddInventoryItem(c *gin.Context) {
	var req AddInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	var id string
	err := s.till.Do(func(t *till.Till) error {
		var err error
		id, err = t.Inventory.AddItem(req.Name, req.Unit, req.Qty)
		return err
	})
	if err != nil {
		status, body := failureResponse(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, successResponse("Inventory item added", gin.H{"id": id}))
}

func (s *Server) DeleteInventoryItem(c *gin.Context) {
	id := c.Param("id")
	err := s.till.Do(func(t *till.Till) error {
		return t.Inventory.DeleteItem(id)
	})
	if err != nil {
		status, body := failureResponse(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, successResponse("Inventory item deleted", nil))
}

func (s *Server) SetInventoryQty(c *gin.Context) {
	var req SetQtyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	id := c.Param("id")
	var found bool
	_ = s.till.Do(func(t *till.Till) error {
		_, found = t.Inventory.Item(id)
		if found {
			t.Inventory.SetQty(id, req.Qty)
		}
		return nil
	})
	if !found {
		status, body := failureResponse(&till.TillError{Code: till.ErrCodeNotFound, Message: "inventory item not found"})
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, successResponse("Quantity updated", nil))
}

func (s *Server) LockInventory(c *gin.Context) {
	var req LockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	err := s.till.Do(func(t *till.Till) error {
		return t.Inventory.Lock(req.Confirm, time.Now())
	})
	if err != nil {
		status, body := failureResponse(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, successResponse("Inventory locked", nil))
}

func (s *Server) UnlockInventory(c *gin.Context) {
	var req UnlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	var gate till.Gate
	s.till.View(func(t *till.Till) { gate = till.PinGate{Pins: &t.Pins} })
	if err := s.till.UnlockInventory(gate, req.AdminNo, req.Pin); err != nil {
		status, body := failureResponse(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, successResponse("Inventory unlocked", nil))
}

func (s *Server) InventoryUsage(c *gin.Context) {
	var rows []till.UsageRow
	s.till.View(func(t *till.Till) { rows = t.Inventory.UsageRows() })
	c.JSON(http.StatusOK, successResponse("Usage computed", rows))
}

func (s *Server) ListExpenses(c *gin.Context) {
	var items []till.Expense
	var total decimal.Decimal
	s.till.View(func(t *till.Till) {
		items = append([]till.Expense(nil), t.Expenses.List...)
		total = t.Expenses.Total()
	})
	c.JSON(http.StatusOK, successResponse("Expenses retrieved successfully", gin.H{
		"items": items,
		"total": total,
	}))
}

func (s *Server) AddExpense(c *gin.Context) {
	var req AddExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	var id string
	err := s.till.Do(func(t *till.Till) error {
		var err error
		id, err = t.Expenses.Add(req.Name, req.Unit, req.Qty, req.UnitPrice, req.Note, time.Now())
		return err
	})
	if err != nil {
		status, body := failureResponse(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, successResponse("Expense added", gin.H{"id": id}))
}

func (s *Server) DeleteExpense(c *gin.Context) {
	id := c.Param("id")
	err := s.till.Do(func(t *till.Till) error {
		return t.Expenses.Delete(id)
	})
	if err != nil {
		status, body := failureResponse(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, successResponse("Expense deleted", nil))
}
