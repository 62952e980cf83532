package modules

import "github.com/gin-gonic/gin"

// Routes is the registration surface handed to each module.
type Routes interface {
	// Public registers a route that needs no access token.
	Public(method, path string, handlers ...gin.HandlerFunc)
	// Protected is the group behind authentication and the permission gate.
	Protected() *gin.RouterGroup
}
