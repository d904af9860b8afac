package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"tillpos/internal/receipt"
	"tillpos/internal/till"
)

type AddCartLineRequest struct {
	ItemID   int   `json:"item_id" binding:"required"`
	ExtraIDs []int `json:"extra_ids"`
}

type CheckoutRequest struct {
	Worker      string           `json:"worker" binding:"required"`
	Payment     string           `json:"payment" binding:"required"`
	OrderType   string           `json:"order_type" binding:"required"`
	DeliveryFee *decimal.Decimal `json:"delivery_fee,omitempty"`
	Note        string           `json:"note"`
}

func (s *Server) GetCart(c *gin.Context) {
	var lines []till.CartLine
	var total decimal.Decimal
	s.till.View(func(t *till.Till) {
		lines = append([]till.CartLine(nil), t.Cart.Lines...)
		total = t.Cart.ItemsTotal()
	})
	c.JSON(http.StatusOK, successResponse("Cart retrieved successfully", gin.H{
		"lines":      lines,
		"itemsTotal": total,
	}))
}

func (s *Server) AddCartLine(c *gin.Context) {
	var req AddCartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	if err := s.till.AddCartLine(req.ItemID, req.ExtraIDs); err != nil {
		status, body := failureResponse(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, successResponse("Line added", nil))
}

func (s *Server) RemoveCartLine(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid line index"))
		return
	}

	_ = s.till.Do(func(t *till.Till) error {
		t.Cart.RemoveLine(index)
		return nil
	})
	c.JSON(http.StatusOK, successResponse("Line removed", nil))
}

func (s *Server) ClearCart(c *gin.Context) {
	_ = s.till.Do(func(t *till.Till) error {
		t.Cart.Clear()
		return nil
	})
	c.JSON(http.StatusOK, successResponse("Cart cleared", nil))
}

func (s *Server) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	fee := decimal.Zero
	if req.DeliveryFee != nil {
		fee = *req.DeliveryFee
	} else if req.OrderType == till.DeliveryOrderType {
		s.till.View(func(t *till.Till) { fee = t.Settings.DefaultDeliveryFee })
	}

	order, err := s.till.Checkout(till.CheckoutParams{
		Worker:      req.Worker,
		Payment:     req.Payment,
		OrderType:   req.OrderType,
		DeliveryFee: fee,
		Note:        req.Note,
	})
	if err != nil {
		status, body := failureResponse(err)
		c.JSON(status, body)
		return
	}

	// The commit stands whether or not the ticket renders.
	data := gin.H{"order": order}
	msg := "Order committed"
	if ticket, rerr := receipt.Render(order, 58, receipt.Customer, s.cfg.ShopName); rerr != nil {
		msg = "Order committed, but the receipt could not be rendered: " + rerr.Error()
	} else {
		data["receipt"] = ticket
	}
	c.JSON(http.StatusOK, successResponse(msg, data))
}

func (s *Server) ListOrders(c *gin.Context) {
	sort := till.SortCriterion(c.DefaultQuery("sort", string(till.SortDateDesc)))

	var orders []till.Order
	s.till.View(func(t *till.Till) {
		orders = t.Ledger.Sorted(sort)
	})
	c.JSON(http.StatusOK, successResponse("Orders retrieved successfully", orders))
}

func (s *Server) OrderTotals(c *gin.Context) {
	c.JSON(http.StatusOK, successResponse("Totals computed", s.till.Totals()))
}

func (s *Server) SalesFrequency(c *gin.Context) {
	var items, extras []till.FrequencyRow
	s.till.View(func(t *till.Till) {
		items, extras = t.Ledger.SalesFrequency()
	})
	c.JSON(http.StatusOK, successResponse("Sales frequency computed", gin.H{
		"items":  items,
		"extras": extras,
	}))
}

func (s *Server) MarkDone(c *gin.Context) {
	orderNo, err := strconv.Atoi(c.Param("no"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid order number"))
		return
	}

	if err := s.till.MarkDone(orderNo); err != nil {
		status, body := failureResponse(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, successResponse("Order marked done", nil))
}

func (s *Server) VoidOrder(c *gin.Context) {
	orderNo, err := strconv.Atoi(c.Param("no"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid order number"))
		return
	}

	if err := s.till.VoidAndRestock(orderNo); err != nil {
		status, body := failureResponse(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, successResponse("Order voided and stock restored", nil))
}

func (s *Server) Receipt(c *gin.Context) {
	orderNo, err := strconv.Atoi(c.Param("no"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid order number"))
		return
	}
	width, err := strconv.Atoi(c.DefaultQuery("width", "58"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid width"))
		return
	}
	kind := receipt.Customer
	if c.Query("kind") == "kitchen" {
		kind = receipt.Kitchen
	}

	var order till.Order
	var found bool
	s.till.View(func(t *till.Till) {
		order, found = t.Ledger.Get(orderNo)
	})
	if !found {
		status, body := failureResponse(&till.TillError{Code: till.ErrCodeNotFound, Message: "order not found"})
		c.JSON(status, body)
		return
	}

	text, err := receipt.Render(order, width, kind, s.cfg.ShopName)
	switch {
	case err == receipt.ErrBadWidth:
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	case err != nil:
		c.JSON(http.StatusConflict, errorResponse(err.Error()))
		return
	}
	c.String(http.StatusOK, text)
}
