package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"order-engine/internal/domain"
	"order-engine/internal/errs"
	"order-engine/internal/services"
)

const orderCacheTTL = 10 * time.Second

type Handler struct {
	service *services.OrderService
	rdb     *redis.Client
}

func NewHandler(u *services.OrderService, rdb *redis.Client) *Handler {
	return &Handler{service: u, rdb: rdb}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/orders", h.CreateOrder)
	r.GET("/orders", h.ListOrders)
	r.GET("/orders/:id", h.GetOrder)
	r.POST("/orders/:id/cancel", h.CancelOrder)
	r.POST("/promo-codes/validate", h.ValidatePromoCode)

	admin := r.Group("/admin", h.requireAdmin)
	admin.PUT("/orders/:id/status", h.UpdateOrderStatus)
	admin.PUT("/orders/:id/payment-status", h.UpdatePaymentStatus)
}

// Identity comes from trusted gateway headers; this service does not do its
// own authentication.
func userID(c *gin.Context) string {
	return c.GetHeader("X-User-ID")
}

func isAdmin(c *gin.Context) bool {
	return c.GetHeader("X-User-Role") == "admin"
}

func (h *Handler) requireAdmin(c *gin.Context) {
	if !isAdmin(c) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
		return
	}
	c.Next()
}

func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch errs.KindOf(err) {
	case errs.KindValidation, errs.KindPayment:
		status = http.StatusBadRequest
	case errs.KindNotFound:
		status = http.StatusNotFound
	case errs.KindConflict:
		status = http.StatusConflict
	case errs.KindUnauthorized:
		status = http.StatusForbidden
	}

	body := gin.H{"error": err.Error()}
	if code := errs.CodeOf(err); code != "" {
		body["code"] = code
	}
	c.JSON(status, body)
}

func orderCacheKey(id string) string {
	return "orders:" + id
}

func (h *Handler) CreateOrder(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "X-User-ID header required"})
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.service.CreateOrder(c.Request.Context(), services.CreateOrderInput{
		UserID:        uid,
		Address:       req.Address.toDomain(),
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		PaymentData:   req.PaymentData,
		PromoCode:     req.PromoCode,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (h *Handler) GetOrder(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	cacheKey := orderCacheKey(idStr)
	if h.rdb != nil {
		if b, err := h.rdb.Get(c.Request.Context(), cacheKey).Result(); err == nil {
			var order domain.Order
			if json.Unmarshal([]byte(b), &order) == nil {
				// Ownership still applies to cached reads.
				if isAdmin(c) || order.UserID == userID(c) {
					c.JSON(http.StatusOK, order)
					return
				}
			}
		}
	}

	order, err := h.service.GetOrder(c.Request.Context(), id, userID(c), isAdmin(c))
	if err != nil {
		writeError(c, err)
		return
	}

	if h.rdb != nil {
		if data, err := json.Marshal(order); err == nil {
			h.rdb.Set(c.Request.Context(), cacheKey, data, orderCacheTTL)
		}
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) ListOrders(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "X-User-ID header required"})
		return
	}

	var status domain.OrderStatus
	if s := c.Query("status"); s != "" {
		parsed, ok := domain.ParseOrderStatus(s)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status " + s})
			return
		}
		status = parsed
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	orders, err := h.service.ListOrders(c.Request.Context(), uid, status, limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) CancelOrder(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "X-User-ID header required"})
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	order, err := h.service.CancelOrder(c.Request.Context(), id, uid)
	if err != nil {
		writeError(c, err)
		return
	}

	h.invalidateOrderCache(c.Param("id"))
	c.JSON(http.StatusOK, order)
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status, ok := domain.ParseOrderStatus(req.Status)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status " + req.Status})
		return
	}

	order, err := h.service.UpdateOrderStatus(c.Request.Context(), id, status)
	if err != nil {
		writeError(c, err)
		return
	}

	h.invalidateOrderCache(c.Param("id"))
	c.JSON(http.StatusOK, order)
}

func (h *Handler) UpdatePaymentStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status, ok := domain.ParsePaymentStatus(req.Status)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown payment status " + req.Status})
		return
	}

	order, err := h.service.UpdatePaymentStatus(c.Request.Context(), id, status)
	if err != nil {
		writeError(c, err)
		return
	}

	h.invalidateOrderCache(c.Param("id"))
	c.JSON(http.StatusOK, order)
}

func (h *Handler) ValidatePromoCode(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "X-User-ID header required"})
		return
	}
	var req ValidatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.ValidatePromoCode(c.Request.Context(), req.Code, uid, req.Subtotal)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) invalidateOrderCache(idStr string) {
	if h.rdb != nil {
		h.rdb.Del(context.Background(), orderCacheKey(idStr))
	}
}
