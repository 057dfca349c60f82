package response

import "github.com/gin-gonic/gin"

// Success writes the standard response envelope. The success flag is
// derived from the status code, never set independently.
func Success(c *gin.Context, statusCode int, data interface{}, message string) {
	if message == "" {
		message = "Success"
	}
	c.JSON(statusCode, gin.H{
		"statusCode": statusCode,
		"data":       data,
		"message":    message,
		"success":    statusCode < 400,
	})
}

// Error writes the standard error envelope. No stack traces or internal
// details go into the body; details stay in the server log.
func Error(c *gin.Context, statusCode int, message string, errs ...string) {
	if errs == nil {
		errs = []string{}
	}
	c.JSON(statusCode, gin.H{
		"statusCode": statusCode,
		"data":       nil,
		"message":    message,
		"success":    false,
		"errors":     errs,
	})
}

// AbortError writes the error envelope and stops the handler chain.
func AbortError(c *gin.Context, statusCode int, message string, errs ...string) {
	Error(c, statusCode, message, errs...)
	c.Abort()
}
