package handlers

import (
	"net/http"

	"fieldserve_backend/internal/middleware"
	"fieldserve_backend/internal/models"
	"fieldserve_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type ClientHandler struct {
	*BaseHandler
	clients services.ClientService
}

func NewClientHandler(base *BaseHandler, clients services.ClientService) *ClientHandler {
	return &ClientHandler{
		BaseHandler: base,
		clients:     clients,
	}
}

func (h *ClientHandler) RegisterRoutes(r *gin.RouterGroup) {
	clients := r.Group("/clients")
	clients.Use(middleware.AuthMiddleware())
	{
		clients.POST("", middleware.RequireRoles(models.UserRoleAdmin, models.UserRoleManager), h.Create)
		clients.GET("", h.List)
		clients.GET("/:clientId", h.Get)
		clients.PUT("/:clientId", middleware.RequireRoles(models.UserRoleAdmin, models.UserRoleManager), h.Update)
		clients.DELETE("/:clientId", middleware.RequireRoles(models.UserRoleAdmin), h.Delete)
	}
}

type clientRequest struct {
	Name          string `json:"name" validate:"required,min=2,max=200"`
	ContactPerson string `json:"contact_person" validate:"max=200"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone" validate:"max=50"`
	Address       string `json:"address" validate:"max=500"`
	City          string `json:"city" validate:"max=100"`
	Notes         string `json:"notes"`
}

func (req *clientRequest) apply(client *models.Client) {
	client.Name = req.Name
	client.ContactPerson = req.ContactPerson
	client.Email = req.Email
	client.Phone = req.Phone
	client.Address = req.Address
	client.City = req.City
	client.Notes = req.Notes
}

func (h *ClientHandler) Create(c *gin.Context) {
	var req clientRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	var client models.Client
	req.apply(&client)

	if err := h.clients.Create(c.Request.Context(), &client); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

func (h *ClientHandler) List(c *gin.Context) {
	page, pageSize := ParsePagination(c)

	clients, total, err := h.clients.List(c.Request.Context(), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"clients":   clients,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

func (h *ClientHandler) Get(c *gin.Context) {
	client, err := h.clients.Get(c.Request.Context(), c.Param("clientId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) Update(c *gin.Context) {
	var req clientRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	client, err := h.clients.Get(c.Request.Context(), c.Param("clientId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	req.apply(client)
	if err := h.clients.Update(c.Request.Context(), client); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) Delete(c *gin.Context) {
	if err := h.clients.Delete(c.Request.Context(), c.Param("clientId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
