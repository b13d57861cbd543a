package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Myphz/wwwallet-be/pkg/database"
)

type HealthController struct {
	db        *database.MongoDB
	startTime time.Time
}

func NewHealthController(db *database.MongoDB) *HealthController {
	return &HealthController{
		db:        db,
		startTime: time.Now(),
	}
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Database  string    `json:"database"`
	Uptime    string    `json:"uptime"`
	Version   string    `json:"version"`
}

func (hc *HealthController) Health(c *gin.Context) {
	dbStatus := "connected"
	if err := hc.db.Ping(c.Request.Context()); err != nil {
		dbStatus = "disconnected"
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Database:  dbStatus,
		Uptime:    time.Since(hc.startTime).String(),
		Version:   "1.0.0",
	})
}

func (hc *HealthController) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
		"time":   time.Now(),
	})
}
