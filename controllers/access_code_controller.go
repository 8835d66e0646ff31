package controllers

import (
	"net/http"

	"videoportalapi/models"
	"videoportalapi/services/catalog"
	"videoportalapi/utils"

	"github.com/gin-gonic/gin"
)

var accessCodeSrv catalog.AccessCodeService

// SetAccessCodeService initializes the access code service instance.
func SetAccessCodeService(srv catalog.AccessCodeService) {
	accessCodeSrv = srv
}

// listAccessCodes lists elevated access codes
// @Summary List access codes
// @Tags Access Codes
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.AccessCode "Newest first"
// @Failure 403 {object} utils.ErrorBody "main_admin only"
// @Router /api/access-codes [get]
func listAccessCodes(c *gin.Context) {
	rows, err := accessCodeSrv.List(c.Request.Context())
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, rows)
}

// createAccessCode issues an elevated access code
// @Summary Create access code
// @Tags Access Codes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param code body models.AccessCodeCreateRequest true "Code, role and optional assignee"
// @Success 201 {object} models.AccessCode "Created"
// @Failure 400 {object} utils.ErrorBody "Validation error"
// @Failure 409 {object} utils.ErrorBody "Access code already in use"
// @Router /api/access-codes [post]
func createAccessCode(c *gin.Context) {
	var req models.AccessCodeCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, utils.BadRequest(err))
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	row, err := accessCodeSrv.Create(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusCreated, row)
}

// setAccessCodeActive activates or deactivates an access code
// @Summary Toggle access code
// @Tags Access Codes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Access code id"
// @Param body body models.ActiveRequest true "New state"
// @Success 200 {object} MessageResponse "Updated"
// @Failure 404 {object} utils.ErrorBody "Access code not found"
// @Router /api/access-codes/{id}/active [patch]
func setAccessCodeActive(c *gin.Context) {
	var req models.ActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, utils.BadRequest(err))
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	if err := accessCodeSrv.SetActive(c.Request.Context(), c.Param("id"), *req.IsActive); err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, MessageResponse{Message: "Access code updated"})
}

// RegisterAccessCodeRoutes registers elevated access code routes.
func RegisterAccessCodeRoutes(rg *gin.RouterGroup) {
	ac := rg.Group("/access-codes", RequireSession(), RequirePermission(models.Role.CanManageAccessCodes))
	{
		ac.GET("", listAccessCodes)
		ac.POST("", createAccessCode)
		ac.PATCH("/:id/active", setAccessCodeActive)
	}
}
