package apperrors

import (
	"log"

	"github.com/gin-gonic/gin"
)

// JSON writes the error response for a handler and logs the full
// wrapped chain server-side.
func JSON(c *gin.Context, err error) {
	log.Printf("ERROR\t%s %s: %v", c.Request.Method, c.Request.URL, err)
	c.AbortWithStatusJSON(Status(err), ErrorResponse{Error: Public(err)})
}
