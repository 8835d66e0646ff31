package controllers

import (
	"net/http"
	"strconv"

	"videoportalapi/models"
	"videoportalapi/services/catalog"
	"videoportalapi/utils"

	"github.com/gin-gonic/gin"
)

var groupSrv catalog.GroupService

// SetGroupService initializes the group service instance.
func SetGroupService(srv catalog.GroupService) {
	groupSrv = srv
}

// listGroups lists every group
// @Summary List groups
// @Description access_code is only included for catalog managers.
// @Tags Groups
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Group "Ordered by name"
// @Failure 403 {object} utils.ErrorBody "Clients cannot list groups"
// @Router /api/groups [get]
func listGroups(c *gin.Context) {
	groups, err := groupSrv.List(c.Request.Context())
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	if id, _ := currentIdentity(c); !id.Role.CanManageCatalog() {
		for i := range groups {
			groups[i].AccessCode = ""
		}
	}
	utils.JSONResponse(c, http.StatusOK, groups)
}

// createGroup creates a group
// @Summary Create group
// @Description The access code must not be used by any group, client or elevated code.
// @Tags Groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param group body models.GroupCreateRequest true "Group"
// @Success 201 {object} models.Group "Created"
// @Failure 400 {object} utils.ErrorBody "Validation error"
// @Failure 409 {object} utils.ErrorBody "Access code already in use"
// @Router /api/groups [post]
func createGroup(c *gin.Context) {
	var req models.GroupCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, utils.BadRequest(err))
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	group, err := groupSrv.Create(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusCreated, group)
}

// deleteGroup deletes a group
// @Summary Delete group
// @Description Refused while the group has videos unless force=true, which deletes them and their feedback too. Clients of the group are unassigned.
// @Tags Groups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group id"
// @Param force query bool false "Also delete the group's videos"
// @Success 200 {object} MessageResponse "Deleted"
// @Failure 404 {object} utils.ErrorBody "Group not found"
// @Failure 409 {object} utils.ErrorBody "Group still has videos"
// @Router /api/groups/{id} [delete]
func deleteGroup(c *gin.Context) {
	force, _ := strconv.ParseBool(c.DefaultQuery("force", "false"))

	if err := groupSrv.Delete(c.Request.Context(), c.Param("id"), force); err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, MessageResponse{Message: "Group deleted"})
}

// RegisterGroupRoutes registers group management routes.
func RegisterGroupRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/groups", RequireSession())
	{
		g.GET("", RequirePermission(models.Role.CanViewAllGroups), listGroups)
		g.POST("", RequirePermission(models.Role.CanManageCatalog), createGroup)
		g.DELETE("/:id", RequirePermission(models.Role.CanManageCatalog), deleteGroup)
	}
}
