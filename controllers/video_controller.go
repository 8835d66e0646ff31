package controllers

import (
	"io"
	"net/http"
	"time"

	"videoportalapi/models"
	"videoportalapi/pkg/logger"
	"videoportalapi/services/catalog"
	"videoportalapi/services/visibility"
	"videoportalapi/utils"

	"github.com/gin-gonic/gin"
)

var (
	videoSrv      catalog.VideoService
	feedbackSrv   catalog.FeedbackService
	catalogBroker *catalog.Broker
)

// sseKeepAlive is the interval of ping events on idle event streams.
var sseKeepAlive = 25 * time.Second

// SetVideoServices initializes the video and feedback services and the change broker.
func SetVideoServices(videos catalog.VideoService, feedback catalog.FeedbackService, broker *catalog.Broker) {
	videoSrv = videos
	feedbackSrv = feedback
	catalogBroker = broker
}

// listVideos lists the videos visible to the caller
// @Summary List visible videos
// @Description Clients see active, unexpired videos of their group. Elevated roles see every group and may filter by group_id.
// @Tags Videos
// @Produce json
// @Security BearerAuth
// @Param search query string false "Case-insensitive match on name or description"
// @Param group_id query string false "Group filter (elevated roles only)"
// @Success 200 {array} catalog.VideoItem "Newest first"
// @Failure 401 {object} utils.ErrorBody "No live session"
// @Failure 503 {object} utils.ErrorBody "Store unavailable, retry"
// @Router /api/videos [get]
func listVideos(c *gin.Context) {
	var q models.VideoQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.ErrorResponse(c, utils.BadRequest(err))
		return
	}
	id, _ := currentIdentity(c)

	items, err := videoSrv.ListVisible(c.Request.Context(), id, visibility.Query{Search: q.Search, GroupID: q.GroupID})
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, items)
}

// streamVideoEvents streams catalog change notifications
// @Summary Catalog change events
// @Description Server-sent events. Each "catalog" event means the visible list should be fetched again. "ping" events keep idle connections open.
// @Tags Videos
// @Produce text/event-stream
// @Security BearerAuth
// @Success 200 {object} catalog.Event "Event stream"
// @Failure 401 {object} utils.ErrorBody "No live session"
// @Router /api/videos/events [get]
func streamVideoEvents(c *gin.Context) {
	events, unsubscribe := catalogBroker.Subscribe()
	defer unsubscribe()

	ping := time.NewTicker(sseKeepAlive)
	defer ping.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("ready", gin.H{"at": time.Now().UTC()})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case e, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("catalog", e)
			return true
		case t := <-ping.C:
			c.SSEvent("ping", t.Unix())
			return true
		}
	})
	logger.Debugf("Event stream closed for %s", c.ClientIP())
}

// createVideo adds a video from a link
// @Summary Create video from link
// @Description expires_in_days > 0 sets expires_at to now plus that many days. video_id defaults to VID_<unix millis>_<random hex>.
// @Tags Videos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param video body models.VideoCreateRequest true "Video"
// @Success 201 {object} models.Video "Created"
// @Failure 400 {object} utils.ErrorBody "Validation error"
// @Failure 403 {object} utils.ErrorBody "Not a catalog manager"
// @Failure 409 {object} utils.ErrorBody "video_id already used"
// @Router /api/videos [post]
func createVideo(c *gin.Context) {
	var req models.VideoCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, utils.BadRequest(err))
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	id, _ := currentIdentity(c)

	video, err := videoSrv.Create(c.Request.Context(), id, req)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusCreated, video)
}

// importVideo uploads a remote video through the hosting service
// @Summary Import video through hosting service
// @Description The row is inserted only after the hosting service accepted the upload.
// @Tags Videos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param video body models.VideoImportRequest true "Source URL and metadata"
// @Success 201 {object} models.Video "Imported"
// @Failure 400 {object} utils.ErrorBody "Validation error"
// @Failure 403 {object} utils.ErrorBody "Not a catalog manager"
// @Failure 502 {object} utils.ErrorBody "Hosting service rejected the upload"
// @Router /api/videos/import [post]
func importVideo(c *gin.Context) {
	var req models.VideoImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, utils.BadRequest(err))
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	id, _ := currentIdentity(c)

	video, err := videoSrv.Import(c.Request.Context(), id, req)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusCreated, video)
}

// setVideoActive activates or deactivates a video
// @Summary Toggle video
// @Tags Videos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Video row id"
// @Param body body models.ActiveRequest true "New state"
// @Success 200 {object} MessageResponse "Updated"
// @Failure 404 {object} utils.ErrorBody "Video not found"
// @Router /api/videos/{id}/active [patch]
func setVideoActive(c *gin.Context) {
	var req models.ActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, utils.BadRequest(err))
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	if err := videoSrv.SetActive(c.Request.Context(), c.Param("id"), *req.IsActive); err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, MessageResponse{Message: "Video updated"})
}

// deleteVideo hard-deletes a video and its feedback
// @Summary Delete video
// @Tags Videos
// @Produce json
// @Security BearerAuth
// @Param id path string true "Video row id"
// @Success 200 {object} MessageResponse "Deleted"
// @Failure 404 {object} utils.ErrorBody "Video not found"
// @Router /api/videos/{id} [delete]
func deleteVideo(c *gin.Context) {
	if err := videoSrv.Delete(c.Request.Context(), c.Param("id")); err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, MessageResponse{Message: "Video deleted"})
}

// listFeedback lists feedback on a video
// @Summary List feedback
// @Description Elevated roles see every entry; clients see their own.
// @Tags Feedback
// @Produce json
// @Security BearerAuth
// @Param id path string true "Video row id"
// @Success 200 {array} models.Feedback "Ordered by position"
// @Failure 404 {object} utils.ErrorBody "Video not found or not visible"
// @Router /api/videos/{id}/feedback [get]
func listFeedback(c *gin.Context) {
	id, _ := currentIdentity(c)
	rows, err := feedbackSrv.List(c.Request.Context(), id, c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, rows)
}

// addFeedback adds a timestamped comment
// @Summary Add feedback
// @Tags Feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Video row id"
// @Param feedback body models.FeedbackCreateRequest true "Position and comment"
// @Success 201 {object} models.Feedback "Saved"
// @Failure 400 {object} utils.ErrorBody "Validation error"
// @Failure 403 {object} utils.ErrorBody "Only clients can leave feedback"
// @Failure 404 {object} utils.ErrorBody "Video not found or not visible"
// @Router /api/videos/{id}/feedback [post]
func addFeedback(c *gin.Context) {
	var req models.FeedbackCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, utils.BadRequest(err))
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	id, _ := currentIdentity(c)

	fb, err := feedbackSrv.Add(c.Request.Context(), id, c.Param("id"), req)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusCreated, fb)
}

// RegisterVideoRoutes registers catalog listing, management and feedback routes.
func RegisterVideoRoutes(rg *gin.RouterGroup) {
	manage := RequirePermission(models.Role.CanManageCatalog)

	v := rg.Group("/videos", RequireSession())
	{
		v.GET("", listVideos)
		v.GET("/events", streamVideoEvents)
		v.POST("", manage, createVideo)
		v.POST("/import", manage, importVideo)
		v.PATCH("/:id/active", manage, setVideoActive)
		v.DELETE("/:id", manage, deleteVideo)
		v.GET("/:id/feedback", listFeedback)
		v.POST("/:id/feedback", addFeedback)
	}
}
