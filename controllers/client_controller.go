package controllers

import (
	"net/http"

	"videoportalapi/models"
	"videoportalapi/services/catalog"
	"videoportalapi/utils"

	"github.com/gin-gonic/gin"
)

var clientSrv catalog.ClientService

// SetClientService initializes the client service instance.
func SetClientService(srv catalog.ClientService) {
	clientSrv = srv
}

// listClients lists every client
// @Summary List clients
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Client "Ordered by name"
// @Router /api/clients [get]
func listClients(c *gin.Context) {
	clients, err := clientSrv.List(c.Request.Context())
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, clients)
}

// createClient creates a client
// @Summary Create client
// @Tags Clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param client body models.ClientCreateRequest true "Client"
// @Success 201 {object} models.Client "Created"
// @Failure 400 {object} utils.ErrorBody "Validation error"
// @Failure 409 {object} utils.ErrorBody "Access code already in use"
// @Router /api/clients [post]
func createClient(c *gin.Context) {
	var req models.ClientCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, utils.BadRequest(err))
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	client, err := clientSrv.Create(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusCreated, client)
}

// setClientActive activates or deactivates a client
// @Summary Toggle client
// @Tags Clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Client id"
// @Param body body models.ActiveRequest true "New state"
// @Success 200 {object} MessageResponse "Updated"
// @Failure 404 {object} utils.ErrorBody "Client not found"
// @Router /api/clients/{id}/active [patch]
func setClientActive(c *gin.Context) {
	var req models.ActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, utils.BadRequest(err))
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	if err := clientSrv.SetActive(c.Request.Context(), c.Param("id"), *req.IsActive); err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, MessageResponse{Message: "Client updated"})
}

// deleteClient hard-deletes a client
// @Summary Delete client
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param id path string true "Client id"
// @Success 200 {object} MessageResponse "Deleted"
// @Failure 404 {object} utils.ErrorBody "Client not found"
// @Router /api/clients/{id} [delete]
func deleteClient(c *gin.Context) {
	if err := clientSrv.Delete(c.Request.Context(), c.Param("id")); err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, MessageResponse{Message: "Client deleted"})
}

// RegisterClientRoutes registers client management routes.
func RegisterClientRoutes(rg *gin.RouterGroup) {
	cl := rg.Group("/clients", RequireSession(), RequirePermission(models.Role.CanManageCatalog))
	{
		cl.GET("", listClients)
		cl.POST("", createClient)
		cl.PATCH("/:id/active", setClientActive)
		cl.DELETE("/:id", deleteClient)
	}
}
