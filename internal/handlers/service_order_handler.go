package handlers

import (
	"net/http"
	"time"

	"fieldserve_backend/internal/middleware"
	"fieldserve_backend/internal/models"
	"fieldserve_backend/internal/repositories"
	"fieldserve_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
)

type ServiceOrderHandler struct {
	*BaseHandler
	orders services.ServiceOrderService
}

func NewServiceOrderHandler(base *BaseHandler, orders services.ServiceOrderService) *ServiceOrderHandler {
	return &ServiceOrderHandler{
		BaseHandler: base,
		orders:      orders,
	}
}

func (h *ServiceOrderHandler) RegisterRoutes(r *gin.RouterGroup) {
	orders := r.Group("/service-orders")
	orders.Use(middleware.AuthMiddleware())
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/:orderId", h.Get)
		orders.PUT("/:orderId", h.Update)
		orders.PATCH("/:orderId/status", h.Transition)
		orders.DELETE("/:orderId", middleware.RequireRoles(models.UserRoleAdmin, models.UserRoleManager), h.Delete)
	}
}

type serviceOrderRequest struct {
	ClientID     string     `json:"client_id" validate:"required,uuid"`
	EquipmentID  *string    `json:"equipment_id" validate:"omitempty,uuid"`
	AssignedToID *string    `json:"assigned_to_id" validate:"omitempty,uuid"`
	Title        string     `json:"title" validate:"required,min=2,max=300"`
	Description  string     `json:"description"`
	ScheduledFor *time.Time `json:"scheduled_for"`
	Tags         []string   `json:"tags" validate:"max=20,dive,max=50"`
}

func (req *serviceOrderRequest) apply(order *models.ServiceOrder) {
	order.ClientID = req.ClientID
	order.EquipmentID = req.EquipmentID
	order.AssignedToID = req.AssignedToID
	order.Title = req.Title
	order.Description = req.Description
	order.ScheduledFor = req.ScheduledFor
	order.Tags = pq.StringArray(req.Tags)
}

func (h *ServiceOrderHandler) Create(c *gin.Context) {
	var req serviceOrderRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	var order models.ServiceOrder
	req.apply(&order)
	order.Status = models.OrderStatusOpen

	if err := h.orders.Create(c.Request.Context(), &order); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

type orderListQuery struct {
	ClientID    string `form:"client_id" validate:"omitempty,uuid"`
	EquipmentID string `form:"equipment_id" validate:"omitempty,uuid"`
	AssignedTo  string `form:"assigned_to" validate:"omitempty,uuid"`
	Status      string `form:"status" validate:"omitempty,is-order-status"`
}

func (h *ServiceOrderHandler) List(c *gin.Context) {
	var query orderListQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}
	page, pageSize := ParsePagination(c)

	filters := repositories.OrderFilters{
		ClientID:    query.ClientID,
		EquipmentID: query.EquipmentID,
		AssignedTo:  query.AssignedTo,
		Status:      models.OrderStatus(query.Status),
	}

	orders, total, err := h.orders.List(c.Request.Context(), filters, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders":    orders,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

func (h *ServiceOrderHandler) Get(c *gin.Context) {
	order, err := h.orders.Get(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *ServiceOrderHandler) Update(c *gin.Context) {
	var req serviceOrderRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	order, err := h.orders.Get(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	req.apply(order)
	if err := h.orders.Update(c.Request.Context(), order); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type transitionRequest struct {
	Status string `json:"status" validate:"required,is-order-status"`
}

func (h *ServiceOrderHandler) Transition(c *gin.Context) {
	var req transitionRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	order, err := h.orders.Transition(c.Request.Context(), c.Param("orderId"), models.OrderStatus(req.Status))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *ServiceOrderHandler) Delete(c *gin.Context) {
	if err := h.orders.Delete(c.Request.Context(), c.Param("orderId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
