package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Session  string `json:"session"`
	LoggedIn bool   `json:"logged_in"`
}

// HealthCheck reports gateway liveness and whether a session is active.
func (g *Gateway) HealthCheck(c *gin.Context) {
	response := HealthResponse{Status: "ok", Session: "none"}
	if s := g.Sessions.Current(); s != nil {
		response.Session = s.Email
		response.LoggedIn = true
	}
	c.JSON(http.StatusOK, response)
}
