package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"jewelmart-backend/internal/models"
)

func (s *Server) cartResponse(c *gin.Context, userCart models.Cart) {
	items, err := s.carts.Populate(c.Request.Context(), userCart)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, gin.H{"userId": userCart.UserID, "items": items})
}

func (s *Server) getCart(c *gin.Context) {
	if !s.requireOwnUser(c) {
		return
	}
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid user id")
		return
	}
	userCart, err := s.carts.Get(c.Request.Context(), userID)
	if err != nil {
		failErr(c, err)
		return
	}
	s.cartResponse(c, userCart)
}

type addToCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

func (s *Server) addToCart(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		fail(c, http.StatusUnauthorized, "invalid token")
		return
	}
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid input")
		return
	}
	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid product id")
		return
	}
	userCart, err := s.carts.Add(c.Request.Context(), userID, productID, req.Quantity)
	if err != nil {
		failErr(c, err)
		return
	}
	s.cartResponse(c, userCart)
}

type updateCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

func (s *Server) updateCartItem(c *gin.Context) {
	if !s.requireOwnUser(c) {
		return
	}
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid user id")
		return
	}
	var req updateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid input")
		return
	}
	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid product id")
		return
	}
	userCart, err := s.carts.UpdateQuantity(c.Request.Context(), userID, productID, req.Quantity)
	if err != nil {
		failErr(c, err)
		return
	}
	s.cartResponse(c, userCart)
}

func (s *Server) removeCartItem(c *gin.Context) {
	if !s.requireOwnUser(c) {
		return
	}
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid user id")
		return
	}
	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid product id")
		return
	}
	userCart, err := s.carts.Remove(c.Request.Context(), userID, productID)
	if err != nil {
		failErr(c, err)
		return
	}
	s.cartResponse(c, userCart)
}

func (s *Server) clearCart(c *gin.Context) {
	if !s.requireOwnUser(c) {
		return
	}
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid user id")
		return
	}
	userCart, err := s.carts.Clear(c.Request.Context(), userID)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, gin.H{"userId": userCart.UserID, "items": []models.PopulatedCartItem{}})
}
