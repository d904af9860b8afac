package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"tillpos/internal/till"
)

type AddCatalogItemRequest struct {
	Name  string          `json:"name" binding:"required"`
	Price decimal.Decimal `json:"price"`
}

type UpdateCatalogItemRequest struct {
	Name  *string          `json:"name,omitempty"`
	Price *decimal.Decimal `json:"price,omitempty"`
}

type SetRecipeEntryRequest struct {
	InventoryID string          `json:"inventory_id" binding:"required"`
	Qty         decimal.Decimal `json:"qty"`
}

type UpdateSettingsRequest struct {
	Workers            *[]string        `json:"workers,omitempty"`
	PaymentMethods     *[]string        `json:"payment_methods,omitempty"`
	OrderTypes         *[]string        `json:"order_types,omitempty"`
	DefaultDeliveryFee *decimal.Decimal `json:"default_delivery_fee,omitempty"`
}

type ChangePinRequest struct {
	CurrentPin string `json:"current_pin" binding:"required"`
	NewPin     string `json:"new_pin" binding:"required"`
}

func (s *Server) GetCatalog(c *gin.Context) {
	var cat till.Catalog
	s.till.View(func(t *till.Till) { cat = t.Catalog })
	c.JSON(http.StatusOK, successResponse("Catalog retrieved successfully", cat))
}

func (s *Server) AddMenuItem(c *gin.Context) {
	s.addCatalogItem(c, func(t *till.Till, name string, price decimal.Decimal) (int, error) {
		return t.Catalog.AddMenuItem(name, price)
	})
}

func (s *Server) AddExtra(c *gin.Context) {
	s.addCatalogItem(c, func(t *till.Till, name string, price decimal.Decimal) (int, error) {
		return t.Catalog.AddExtra(name, price)
	})
}

func (s *Server) addCatalogItem(c *gin.Context, add func(*till.Till, string, decimal.Decimal) (int, error)) {
	var req AddCatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	var id int
	err := s.till.Do(func(t *till.Till) error {
		var err error
		id, err = add(t, req.Name, req.Price)
		return err
	})
	if err != nil {
		status, body := failureResponse(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, successResponse("Item added", gin.H{"id": id}))
}

func (s *Server) UpdateCatalogItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid item id"))
		return
	}

	var req UpdateCatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	err = s.till.Do(func(t *till.Till) error {
		if req.Name != nil {
			if err := t.Catalog.Rename(id, *req.Name); err != nil {
				return err
			}
		}
		if req.Price != nil {
			if err := t.Catalog.Reprice(id, *req.Price); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		status, body := failureResponse(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, successResponse("Item updated", nil))
}

func (s *Server) SetRecipeEntry(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid item id"))
		return
	}

	var req SetRecipeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	err = s.till.Do(func(t *till.Till) error {
		return t.Catalog.SetRecipeEntry(id, &t.Inventory, req.InventoryID, req.Qty)
	})
	if err != nil {
		status, body := failureResponse(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, successResponse("Recipe updated", nil))
}

func (s *Server) DeleteCatalogItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid item id"))
		return
	}

	err = s.till.Do(func(t *till.Till) error {
		return t.Catalog.Delete(id)
	})
	if err != nil {
		status, body := failureResponse(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, successResponse("Item deleted", nil))
}

func (s *Server) GetSettings(c *gin.Context) {
	var settings till.Settings
	s.till.View(func(t *till.Till) { settings = t.Settings })
	c.JSON(http.StatusOK, successResponse("Settings retrieved successfully", settings))
}

func (s *Server) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	_ = s.till.Do(func(t *till.Till) error {
		if req.Workers != nil {
			t.Settings.Workers = *req.Workers
		}
		if req.PaymentMethods != nil {
			t.Settings.PaymentMethods = *req.PaymentMethods
		}
		if req.OrderTypes != nil {
			t.Settings.OrderTypes = *req.OrderTypes
		}
		if req.DefaultDeliveryFee != nil {
			t.Settings.DefaultDeliveryFee = *req.DefaultDeliveryFee
		}
		return nil
	})
	c.JSON(http.StatusOK, successResponse("Settings updated", nil))
}

// ChangePin rotates one admin slot. The caller proves ownership with the
// slot's current PIN; no token is required.
func (s *Server) ChangePin(c *gin.Context) {
	adminNo, err := strconv.Atoi(c.Param("no"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid admin number"))
		return
	}

	var req ChangePinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	err = s.till.Do(func(t *till.Till) error {
		return t.Pins.Change(adminNo, req.CurrentPin, req.NewPin)
	})
	if err != nil {
		status, body := failureResponse(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, successResponse("PIN changed", nil))
}
