package handlers

import (
	"errors"
	"net/http"

	"MusicStore/cart"
	"MusicStore/repositories"
	"MusicStore/session"

	"github.com/gin-gonic/gin"
)

type checkoutRequest struct {
	FirstName  string `json:"firstName" binding:"required,max=160"`
	LastName   string `json:"lastName" binding:"required,max=160"`
	Address    string `json:"address" binding:"required,max=70"`
	City       string `json:"city" binding:"required,max=40"`
	State      string `json:"state" binding:"required,max=40"`
	PostalCode string `json:"postalCode" binding:"required,max=10"`
	Country    string `json:"country" binding:"required,max=40"`
	Phone      string `json:"phone" binding:"required,max=24"`
	Email      string `json:"email" binding:"required,email"`
}

// CheckoutHandler turns the signed-in user's cart into an order.
func CheckoutHandler(c *gin.Context, engine *cart.Engine) {
	var orderReq checkoutRequest
	if err := c.ShouldBindJSON(&orderReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "invalid shipping details",
			"error":   err.Error(),
		})
		return
	}

	// the order belongs to the token's user, so the session's cart is
	// adopted by that user first
	username := c.GetString("Username")
	sess, ok := session.FromContext(c)
	if !ok {
		respondError(c, "session unavailable", errors.New("session middleware not installed"))
		return
	}
	if err := adoptCart(c, engine, sess, username); err != nil {
		respondError(c, "failed to migrate cart", err)
		return
	}

	order := cart.Order{
		Username:   username,
		FirstName:  orderReq.FirstName,
		LastName:   orderReq.LastName,
		Address:    orderReq.Address,
		City:       orderReq.City,
		State:      orderReq.State,
		PostalCode: orderReq.PostalCode,
		Country:    orderReq.Country,
		Phone:      orderReq.Phone,
		Email:      orderReq.Email,
	}
	orderID, err := engine.CreateOrder(c, username, &order)
	if err != nil {
		respondError(c, "failed to place order", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "order placed",
		"orderId": orderID,
		"total":   order.Total,
	})
}

func GetOrderListHandler(c *gin.Context, orders *repositories.OrderRepository) {
	list, err := orders.ListByUsername(c, c.GetString("Username"))
	if err != nil {
		respondError(c, "failed to list orders", err)
		return
	}

	orderList := make([]gin.H, 0, len(list))
	for _, order := range list {
		orderList = append(orderList, gin.H{
			"orderId":   order.ID,
			"orderDate": order.OrderDate,
			"total":     order.Total,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "orders loaded",
		"orderList": orderList,
	})
}

func GetOrderDataHandler(c *gin.Context, orders *repositories.OrderRepository) {
	orderID, ok := parseID(c, "orderID")
	if !ok {
		return
	}

	order, err := orders.Get(c, c.GetString("Username"), orderID)
	if err != nil {
		respondError(c, "order not found", err)
		return
	}

	details := make([]gin.H, 0, len(order.OrderDetails))
	for _, detail := range order.OrderDetails {
		details = append(details, gin.H{
			"albumId":   detail.AlbumID,
			"title":     detail.Album.Title,
			"unitPrice": detail.UnitPrice,
			"quantity":  detail.Quantity,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "order loaded",
		"orderId":      order.ID,
		"orderDate":    order.OrderDate,
		"firstName":    order.FirstName,
		"lastName":     order.LastName,
		"address":      order.Address,
		"city":         order.City,
		"state":        order.State,
		"postalCode":   order.PostalCode,
		"country":      order.Country,
		"phone":        order.Phone,
		"email":        order.Email,
		"total":        order.Total,
		"orderDetails": details,
	})
}
