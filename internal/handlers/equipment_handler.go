package handlers

import (
	"net/http"

	"fieldserve_backend/internal/middleware"
	"fieldserve_backend/internal/models"
	"fieldserve_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
)

type EquipmentHandler struct {
	*BaseHandler
	equipment services.EquipmentService
}

func NewEquipmentHandler(base *BaseHandler, equipment services.EquipmentService) *EquipmentHandler {
	return &EquipmentHandler{
		BaseHandler: base,
		equipment:   equipment,
	}
}

func (h *EquipmentHandler) RegisterRoutes(r *gin.RouterGroup) {
	equipment := r.Group("/equipment")
	equipment.Use(middleware.AuthMiddleware())
	{
		equipment.POST("", middleware.RequireRoles(models.UserRoleAdmin, models.UserRoleManager), h.Create)
		equipment.GET("/:equipmentId", h.Get)
		equipment.PUT("/:equipmentId", middleware.RequireRoles(models.UserRoleAdmin, models.UserRoleManager), h.Update)
		equipment.DELETE("/:equipmentId", middleware.RequireRoles(models.UserRoleAdmin), h.Delete)
	}

	// Equipment is always listed within its owning client.
	clients := r.Group("/clients/:clientId/equipment")
	clients.Use(middleware.AuthMiddleware())
	{
		clients.GET("", h.ListByClient)
	}
}

type equipmentRequest struct {
	ClientID     string   `json:"client_id" validate:"required,uuid"`
	Name         string   `json:"name" validate:"required,min=2,max=200"`
	Manufacturer string   `json:"manufacturer" validate:"max=200"`
	ModelNumber  string   `json:"model_number" validate:"max=100"`
	SerialNumber string   `json:"serial_number" validate:"max=100"`
	Location     string   `json:"location" validate:"max=500"`
	Tags         []string `json:"tags" validate:"max=20,dive,max=50"`
	Notes        string   `json:"notes"`
}

func (req *equipmentRequest) apply(eq *models.Equipment) {
	eq.ClientID = req.ClientID
	eq.Name = req.Name
	eq.Manufacturer = req.Manufacturer
	eq.ModelNumber = req.ModelNumber
	eq.SerialNumber = req.SerialNumber
	eq.Location = req.Location
	eq.Tags = pq.StringArray(req.Tags)
	eq.Notes = req.Notes
}

func (h *EquipmentHandler) Create(c *gin.Context) {
	var req equipmentRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	var eq models.Equipment
	req.apply(&eq)

	if err := h.equipment.Create(c.Request.Context(), &eq); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, eq)
}

func (h *EquipmentHandler) Get(c *gin.Context) {
	eq, err := h.equipment.Get(c.Request.Context(), c.Param("equipmentId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, eq)
}

func (h *EquipmentHandler) ListByClient(c *gin.Context) {
	items, err := h.equipment.ListByClient(c.Request.Context(), c.Param("clientId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"equipment": items, "count": len(items)})
}

func (h *EquipmentHandler) Update(c *gin.Context) {
	var req equipmentRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	eq, err := h.equipment.Get(c.Request.Context(), c.Param("equipmentId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	req.apply(eq)
	if err := h.equipment.Update(c.Request.Context(), eq); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, eq)
}

func (h *EquipmentHandler) Delete(c *gin.Context) {
	if err := h.equipment.Delete(c.Request.Context(), c.Param("equipmentId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
