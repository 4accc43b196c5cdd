package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rideshare-backend/internal/usecase/rating"
	"rideshare-backend/pkg/utils"
)

type RatingHandler struct {
	service *rating.Service
}

func NewRatingHandler(service *rating.Service) *RatingHandler {
	return &RatingHandler{service: service}
}

func (h *RatingHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/user/mycomments", h.ListMine)

	comments := router.Group("/user/comments")
	{
		comments.POST("/creat/:username", h.Create)
		comments.POST("/creatmail/:email", h.Create)
		comments.GET("/creat/:username", h.ListAuthored)
		comments.GET("/creatmail/:email", h.ListAuthored)

		comments.GET("/email/:email", h.ListReceived)
		comments.GET("/:username", h.ListReceived)

		comments.PUT("/update/:username", h.Update)
		comments.PATCH("/update/:username", h.Update)
		comments.DELETE("/delete/:username", h.Delete)
	}
}

func userRef(c *gin.Context) rating.UserRef {
	if email := c.Param("email"); email != "" {
		return rating.ByEmail(email)
	}
	return rating.ByUsername(c.Param("username"))
}

func (h *RatingHandler) Create(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req rating.CreateRequest
	if !bindJSON(c, &req) {
		return
	}

	created, err := h.service.Create(c.Request.Context(), identity.UserID, userRef(c), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Comment created successfully", created)
}

// ListAuthored lists the caller's own ratings. The path parameter only
// selects the route and does not filter.
func (h *RatingHandler) ListAuthored(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	ratings, err := h.service.ListAuthored(c.Request.Context(), identity.UserID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Comments retrieved successfully", ratings)
}

func (h *RatingHandler) ListReceived(c *gin.Context) {
	received, err := h.service.ListReceived(c.Request.Context(), userRef(c))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Comments retrieved successfully", received)
}

func (h *RatingHandler) ListMine(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	received, err := h.service.ListMine(c.Request.Context(), identity.UserID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Comments retrieved successfully", received)
}

func (h *RatingHandler) Update(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req rating.UpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.service.UpdateLatest(c.Request.Context(), identity.UserID, c.Param("username"), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Comment updated successfully", updated)
}

func (h *RatingHandler) Delete(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	deleted, err := h.service.DeleteAll(c.Request.Context(), identity.UserID, c.Param("username"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Comments deleted successfully", gin.H{"deleted": deleted})
}
