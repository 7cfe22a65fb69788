package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fitplanhq/fitplan-backend/internal/services"
)

func (s *Server) handleStartSession(c *gin.Context) {
	programID, ok := pathID(c, "programId")
	if !ok {
		return
	}
	workoutID, ok := pathID(c, "workoutId")
	if !ok {
		return
	}

	var req struct {
		Date  string `json:"date"`
		Notes string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var date time.Time
	if req.Date != "" {
		parsed, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			parsed, err = time.Parse("2006-01-02", req.Date)
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
			return
		}
		date = parsed
	}

	session, err := s.sessions.StartSession(c.Request.Context(), userID(c), programID, workoutID, date, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (s *Server) handleUpdateLog(c *gin.Context) {
	logID, ok := pathID(c, "logId")
	if !ok {
		return
	}

	var req struct {
		Sets      *int    `json:"sets"`
		Reps      *string `json:"reps"`
		Weight    *string `json:"weight"`
		Completed *bool   `json:"completed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	log, err := s.sessions.UpdateLog(c.Request.Context(), userID(c), logID, services.UpdateLogInput{
		Sets:      req.Sets,
		Reps:      req.Reps,
		Weight:    req.Weight,
		Completed: req.Completed,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, log)
}

func (s *Server) handleSessionHistory(c *gin.Context) {
	start, ok := queryDate(c, "start_date")
	if !ok {
		return
	}
	end, ok := queryDate(c, "end_date")
	if !ok {
		return
	}

	sessions, err := s.sessions.History(c.Request.Context(), userID(c), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

func (s *Server) handleGetSession(c *gin.Context) {
	sessionID, ok := pathID(c, "sessionId")
	if !ok {
		return
	}

	session, err := s.sessions.GetSession(c.Request.Context(), userID(c), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// queryDate parses an optional date query parameter; absence is nil, not an
// error.
func queryDate(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		parsed, err = time.Parse("2006-01-02", raw)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
		return nil, false
	}
	return &parsed, true
}
