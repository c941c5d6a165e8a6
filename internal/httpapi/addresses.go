package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"jewelmart-backend/internal/models"
)

type addressRequest struct {
	Address string `json:"address" binding:"required"`
	City    string `json:"city" binding:"required"`
	Pincode string `json:"pincode" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Notes   string `json:"notes"`
}

func (s *Server) addAddress(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		fail(c, http.StatusUnauthorized, "invalid token")
		return
	}
	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid input")
		return
	}
	addr, err := s.addresses.Insert(c.Request.Context(), models.Address{
		UserID:  userID,
		Address: req.Address,
		City:    req.City,
		Pincode: req.Pincode,
		Phone:   req.Phone,
		Notes:   req.Notes,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	created(c, addr)
}

func (s *Server) listAddresses(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		fail(c, http.StatusUnauthorized, "invalid token")
		return
	}
	addrs, err := s.addresses.ListByUser(c.Request.Context(), userID)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, addrs)
}

func (s *Server) updateAddress(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		fail(c, http.StatusUnauthorized, "invalid token")
		return
	}
	addrID, err := primitive.ObjectIDFromHex(c.Param("addressId"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid address id")
		return
	}
	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid input")
		return
	}
	addr, err := s.addresses.Update(c.Request.Context(), addrID, userID, models.Address{
		Address: req.Address,
		City:    req.City,
		Pincode: req.Pincode,
		Phone:   req.Phone,
		Notes:   req.Notes,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, addr)
}

func (s *Server) deleteAddress(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		fail(c, http.StatusUnauthorized, "invalid token")
		return
	}
	addrID, err := primitive.ObjectIDFromHex(c.Param("addressId"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid address id")
		return
	}
	if err := s.addresses.Delete(c.Request.Context(), addrID, userID); err != nil {
		failErr(c, err)
		return
	}
	ok(c, gin.H{"deleted": true})
}
