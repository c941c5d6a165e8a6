package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"jewelmart-backend/internal/catalog"
	"jewelmart-backend/internal/inventory"
	"jewelmart-backend/internal/logging"
	"jewelmart-backend/internal/models"
)

// productView decorates a product with the derived stock fields the
// storefront shows. Derived on every read, never stored.
type productView struct {
	models.Product
	StockStatus  models.StockStatus `json:"stockStatus"`
	StockMessage string             `json:"stockMessage"`
	IsAvailable  bool               `json:"isAvailable"`
}

func viewOf(p models.Product) productView {
	return productView{
		Product:      p,
		StockStatus:  inventory.Status(p.Stock, p.StockSettings.LowStockThreshold),
		StockMessage: inventory.StockMessage(p.Stock, p.StockSettings.LowStockThreshold),
		IsAvailable:  p.Stock > 0,
	}
}

func (s *Server) listProducts(c *gin.Context) {
	f := catalog.Filters{
		Recipients:  splitParam(c.Query("recipient")),
		Categories:  splitParam(c.Query("category")),
		Jewellery:   splitParam(c.Query("jewellery")),
		StockStatus: models.StockStatus(c.Query("stockStatus")),
		SortBy:      c.DefaultQuery("sortBy", "price-lowtohigh"),
	}
	products, err := s.catalog.List(c.Request.Context(), f)
	if err != nil {
		failErr(c, err)
		return
	}

	views := make([]productView, 0, len(products))
	lowStock, outOfStock := 0, 0
	for _, p := range products {
		v := viewOf(p)
		switch v.StockStatus {
		case models.LowStock:
			lowStock++
		case models.OutOfStock:
			outOfStock++
		}
		views = append(views, v)
	}
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"data":            views,
		"totalProducts":   len(views),
		"lowStockCount":   lowStock,
		"outOfStockCount": outOfStock,
	})
}

func (s *Server) getProduct(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid product id")
		return
	}
	p, err := s.catalog.Find(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, viewOf(p))
}

func (s *Server) checkStock(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Query("productId"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid product id")
		return
	}
	quantity := 1
	if q := c.Query("quantity"); q != "" {
		quantity, err = strconv.Atoi(q)
		if err != nil || quantity < 1 {
			fail(c, http.StatusBadRequest, "invalid quantity")
			return
		}
	}
	avail, err := s.ledger.CheckAvailability(c.Request.Context(), id, quantity)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, avail)
}

type createProductRequest struct {
	Image              string          `json:"image" binding:"required"`
	AdditionalImages   []string        `json:"additionalImages"`
	ProductName        string          `json:"productName" binding:"required"`
	ProductDescription string          `json:"productDescription" binding:"required"`
	Recipient          string          `json:"recipient" binding:"required"`
	Category           string          `json:"category" binding:"required"`
	Jewellery          string          `json:"jewellery" binding:"required"`
	Price              decimal.Decimal `json:"price" binding:"required"`
	SalePrice          decimal.Decimal `json:"salePrice"`
	Stock              int             `json:"stock" binding:"min=0"`
	LowStockThreshold  int             `json:"lowStockThreshold"`
}

func (s *Server) createProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid input")
		return
	}
	price, okP := toPaise(req.Price)
	salePrice, okS := toPaise(req.SalePrice)
	if !okP || !okS || price < 0 || salePrice < 0 {
		fail(c, http.StatusBadRequest, "invalid price")
		return
	}
	p, err := s.catalog.Create(c.Request.Context(), models.Product{
		Image:              req.Image,
		AdditionalImages:   req.AdditionalImages,
		ProductName:        req.ProductName,
		ProductDescription: req.ProductDescription,
		Recipient:          req.Recipient,
		Category:           req.Category,
		Jewellery:          req.Jewellery,
		Price:              price,
		SalePrice:          salePrice,
		Stock:              req.Stock,
		StockSettings:      models.StockSettings{LowStockThreshold: req.LowStockThreshold, NotifyOnLow: true},
	})
	if err != nil {
		failErr(c, err)
		return
	}
	created(c, viewOf(p))
}

type restockRequest struct {
	Quantity int    `json:"quantity" binding:"required,min=1"`
	Note     string `json:"note"`
}

// restockProduct returns units to stock through the ledger, the same
// path compensation uses, so the count stays single-writer.
func (s *Server) restockProduct(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid product id")
		return
	}
	var req restockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid input")
		return
	}
	if err := s.ledger.Release(c.Request.Context(), id, req.Quantity); err != nil {
		failErr(c, err)
		return
	}
	logging.Log(logging.Fields{Service: "api", ProductID: id.Hex(), Step: "restock", Status: "ok", Message: req.Note})
	p, err := s.catalog.Find(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, viewOf(p))
}

func splitParam(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
