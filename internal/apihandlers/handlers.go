// Package apihandlers implements the HTTP API exposed by the serve command.
package apihandlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"linkhoard/internal/app"
	"linkhoard/internal/models"
	"linkhoard/internal/store"
	"linkhoard/internal/tasks"
)

type APIHandler struct {
	app *app.App
}

func NewAPIHandler(a *app.App) *APIHandler {
	return &APIHandler{app: a}
}

// RegisterRoutes mounts all API routes on the router.
func (h *APIHandler) RegisterRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		bookmarks := v1.Group("/bookmarks")
		{
			bookmarks.POST("", h.AddBookmarkHandler)
			bookmarks.GET("", h.ListBookmarksHandler)
			bookmarks.GET("/:id", h.GetBookmarkHandler)
			bookmarks.DELETE("/:id", h.DeleteBookmarkHandler)
		}
		v1.POST("/organize", h.OrganizeHandler)
	}
	router.GET("/health", h.HealthHandler)
}

type addBookmarkRequest struct {
	Title    string   `json:"title"`
	URL      string   `json:"url" binding:"required"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

func (h *APIHandler) AddBookmarkHandler(c *gin.Context) {
	var req addBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %s", models.ErrValidation, err.Error()))
		return
	}
	if req.Title == "" {
		req.Title = req.URL
	}

	b := &models.Bookmark{
		ID:       uuid.NewString(),
		Title:    req.Title,
		URL:      req.URL,
		Category: req.Category,
		Tags:     req.Tags,
	}
	if err := h.app.Bookmarks.CreateBookmark(c.Request.Context(), b); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *APIHandler) ListBookmarksHandler(c *gin.Context) {
	filter := store.BookmarkFilter{
		Category:      c.Query("category"),
		Tag:           c.Query("tag"),
		Uncategorized: c.Query("uncategorized") == "true",
	}
	bookmarks, err := h.app.Bookmarks.ListBookmarks(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	if bookmarks == nil {
		bookmarks = []*models.Bookmark{}
	}
	c.JSON(http.StatusOK, gin.H{"bookmarks": bookmarks, "count": len(bookmarks)})
}

func (h *APIHandler) GetBookmarkHandler(c *gin.Context) {
	b, err := h.app.Bookmarks.GetBookmark(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *APIHandler) DeleteBookmarkHandler(c *gin.Context) {
	if err := h.app.Bookmarks.DeleteBookmark(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type organizeRequest struct {
	BookmarkIDs []string `json:"bookmark_ids"`
	Background  bool     `json:"background"`
}

// OrganizeHandler runs the AI pipeline synchronously, or enqueues it as a
// background job when background=true.
func (h *APIHandler) OrganizeHandler(c *gin.Context) {
	var req organizeRequest
	if err := c.ShouldBindJSON(&req); err != nil && !strings.Contains(err.Error(), "EOF") {
		respondError(c, fmt.Errorf("%w: %s", models.ErrValidation, err.Error()))
		return
	}

	if req.Background {
		task, err := tasks.NewOrganizeTask(req.BookmarkIDs)
		if err != nil {
			respondError(c, err)
			return
		}
		info, err := h.app.JobClient().Enqueue(task)
		if err != nil {
			respondError(c, fmt.Errorf("enqueue organize job: %w", err))
			return
		}
		log.Infof("Enqueued organize job %s", info.ID)
		c.JSON(http.StatusAccepted, gin.H{"job_id": info.ID, "queue": info.Queue})
		return
	}

	report, err := h.app.RunOrganization(c.Request.Context(), req.BookmarkIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *APIHandler) HealthHandler(c *gin.Context) {
	if err := h.app.Bookmarks.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
