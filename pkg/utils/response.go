package utils

import "github.com/gin-gonic/gin"

type Response struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    interface{}       `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Error:   message,
	})
}

// ValidationErrorResponse writes a 4xx error carrying field-level details.
func ValidationErrorResponse(c *gin.Context, statusCode int, message string, details map[string]string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Error:   message,
		Details: details,
	})
}
