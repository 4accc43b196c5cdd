package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainListing "rideshare-backend/internal/domain/listing"
	"rideshare-backend/internal/usecase/listing"
	"rideshare-backend/pkg/utils"
)

type ListingHandler struct {
	service *listing.Service
}

func NewListingHandler(service *listing.Service) *ListingHandler {
	return &ListingHandler{service: service}
}

func (h *ListingHandler) RegisterRoutes(router *gin.RouterGroup) {
	posts := router.Group("/posts")
	{
		posts.GET("/find/:depart/:arrival", h.Search)
		posts.GET("/creat_post", h.ListMine)
		posts.POST("/creat_post", h.Create)
		posts.GET("/id/:id", h.GetByID)

		posts.PUT("/update/:title", h.Update)
		posts.PATCH("/update/:title", h.Update)
		posts.PUT("/updateid/:id", h.Update)
		posts.PATCH("/updateid/:id", h.Update)

		posts.DELETE("/delete/:title", h.Delete)
		posts.DELETE("/deleteid/:id", h.Delete)
	}
}

// listingRef reads the listing from either an :id or a :title path parameter.
func listingRef(c *gin.Context) (domainListing.Ref, bool) {
	if c.Param("id") != "" {
		id, ok := parseID(c, "id")
		return domainListing.ByID(id), ok
	}
	return domainListing.ByTitle(c.Param("title")), true
}

func (h *ListingHandler) Search(c *gin.Context) {
	listings, err := h.service.Search(c.Request.Context(), c.Param("depart"), c.Param("arrival"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Trips retrieved successfully", listings)
}

func (h *ListingHandler) ListMine(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	listings, err := h.service.ListMine(c.Request.Context(), identity.UserID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Trips retrieved successfully", listings)
}

func (h *ListingHandler) Create(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req listing.CreateRequest
	if !bindJSON(c, &req) {
		return
	}

	created, err := h.service.Create(c.Request.Context(), identity.UserID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Trip created successfully", created)
}

func (h *ListingHandler) GetByID(c *gin.Context) {
	ref, ok := listingRef(c)
	if !ok {
		return
	}

	found, err := h.service.Get(c.Request.Context(), ref)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Trip retrieved successfully", found)
}

func (h *ListingHandler) Update(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	ref, ok := listingRef(c)
	if !ok {
		return
	}

	var req listing.UpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.service.Update(c.Request.Context(), identity.UserID, ref, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Trip updated successfully", updated)
}

func (h *ListingHandler) Delete(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	ref, ok := listingRef(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), identity.UserID, ref); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Trip deleted successfully", nil)
}
