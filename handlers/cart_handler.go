package handlers

import (
	"html"
	"net/http"

	"MusicStore/cart"

	"github.com/gin-gonic/gin"
)

func lineItemJSON(it cart.LineItem) gin.H {
	return gin.H{
		"recordId":    it.RecordID,
		"albumId":     it.AlbumID,
		"title":       it.Title,
		"price":       it.UnitPrice,
		"quantity":    it.Quantity,
		"lineTotal":   it.LineTotal(),
		"dateCreated": it.CreatedAt,
	}
}

// GetCartHandler lists the cart with its total.
func GetCartHandler(c *gin.Context, engine *cart.Engine) {
	ownerKey, ok := resolveOwnerKey(c)
	if !ok {
		return
	}

	summary, err := engine.Summary(c, ownerKey)
	if err != nil {
		respondError(c, "failed to read cart", err)
		return
	}

	cartItems := make([]gin.H, 0, len(summary.Items))
	for _, it := range summary.Items {
		cartItems = append(cartItems, lineItemJSON(it))
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "cart loaded",
		"cartItems": cartItems,
		"cartCount": summary.Count,
		"cartTotal": summary.Total,
	})
}

// CartSummaryHandler returns only the item count, for the header badge.
func CartSummaryHandler(c *gin.Context, engine *cart.Engine) {
	ownerKey, ok := resolveOwnerKey(c)
	if !ok {
		return
	}

	count, err := engine.Count(c, ownerKey)
	if err != nil {
		respondError(c, "failed to count cart", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cartCount": count,
	})
}

func AddToCartHandler(c *gin.Context, engine *cart.Engine) {
	albumID, ok := parseID(c, "albumID")
	if !ok {
		return
	}
	ownerKey, ok := resolveOwnerKey(c)
	if !ok {
		return
	}

	if err := engine.AddItem(c, ownerKey, albumID); err != nil {
		respondError(c, "failed to add album to cart", err)
		return
	}

	count, err := engine.Count(c, ownerKey)
	if err != nil {
		respondError(c, "album added, failed to count cart", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "album added to cart",
		"albumId":   albumID,
		"cartCount": count,
	})
}

// RemoveFromCartHandler takes one unit of a cart row away and reports the
// new cart state.
func RemoveFromCartHandler(c *gin.Context, engine *cart.Engine) {
	recordID, ok := parseID(c, "recordID")
	if !ok {
		return
	}
	ownerKey, ok := resolveOwnerKey(c)
	if !ok {
		return
	}

	item, err := engine.GetItem(c, ownerKey, recordID)
	if err != nil {
		respondError(c, "cart item not found", err)
		return
	}

	itemCount, err := engine.RemoveItem(c, ownerKey, recordID)
	if err != nil {
		respondError(c, "failed to remove album from cart", err)
		return
	}

	summary, err := engine.Summary(c, ownerKey)
	if err != nil {
		respondError(c, "album removed, failed to read cart", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   html.EscapeString(item.Title) + " has been removed from your shopping cart.",
		"cartTotal": summary.Total,
		"cartCount": summary.Count,
		"itemCount": itemCount,
		"deleteId":  recordID,
	})
}

func ClearCartHandler(c *gin.Context, engine *cart.Engine) {
	ownerKey, ok := resolveOwnerKey(c)
	if !ok {
		return
	}

	if err := engine.EmptyCart(c, ownerKey); err != nil {
		respondError(c, "failed to empty cart", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "cart emptied",
	})
}
