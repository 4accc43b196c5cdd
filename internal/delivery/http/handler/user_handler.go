package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainUser "rideshare-backend/internal/domain/user"
	"rideshare-backend/internal/usecase/user"
	"rideshare-backend/pkg/utils"
)

const imageFormField = "file"

type UserHandler struct {
	service *user.Service
}

func NewUserHandler(service *user.Service) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterPublicRoutes mounts the endpoints that issue credentials.
func (h *UserHandler) RegisterPublicRoutes(router *gin.RouterGroup) {
	router.POST("/user/register", h.Register)
	router.POST("/token", h.Login)
	router.POST("/token/refresh", h.RefreshToken)
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	userGroup := router.Group("/user")
	{
		userGroup.POST("/logout", h.Logout)
		userGroup.PUT("/update", h.Update)
		userGroup.PATCH("/update", h.Update)
		userGroup.DELETE("/delete/:username", h.Delete)
		userGroup.POST("/images/:kind", h.UploadImage)
		userGroup.GET("/email/:email", h.GetByEmail)
		userGroup.GET("/id/:id", h.GetByID)
		userGroup.GET("/:username", h.GetByUsername)
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	authResponse, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "User registered successfully", authResponse)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	authResponse, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Login successful", authResponse)
}

func (h *UserHandler) RefreshToken(c *gin.Context) {
	var req user.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}

	tokenPair, err := h.service.RefreshToken(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Token refreshed successfully", tokenPair)
}

func (h *UserHandler) Logout(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req user.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.service.Logout(c.Request.Context(), identity.UserID, identity.TokenID, identity.ExpiresAt, &req); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Logged out successfully", nil)
}

func (h *UserHandler) Update(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req user.UpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.service.Update(c.Request.Context(), identity.UserID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Profile updated successfully", profile)
}

func (h *UserHandler) Delete(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), identity.UserID, c.Param("username")); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "User deleted successfully", nil)
}

func (h *UserHandler) GetByUsername(c *gin.Context) {
	profile, err := h.service.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "User retrieved successfully", profile)
}

func (h *UserHandler) GetByEmail(c *gin.Context) {
	profile, err := h.service.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "User retrieved successfully", profile)
}

func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	profile, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "User retrieved successfully", profile)
}

// UploadImage accepts a multipart image under the "file" field.
func (h *UserHandler) UploadImage(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile(imageFormField)
	if err != nil {
		utils.ValidationErrorResponse(c, http.StatusBadRequest, "Invalid image",
			map[string]string{imageFormField: "is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondWithError(c, err)
		return
	}
	defer file.Close()

	upload := user.ImageUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
	}

	profile, err := h.service.UploadImage(c.Request.Context(), identity.UserID, domainUser.ImageKind(c.Param("kind")), upload, file)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Image uploaded successfully", profile)
}
