package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fitplanhq/fitplan-backend/internal/services"
)

func (s *Server) handleProgressHistory(c *gin.Context) {
	start, ok := queryDate(c, "start_date")
	if !ok {
		return
	}
	end, ok := queryDate(c, "end_date")
	if !ok {
		return
	}

	filter := services.HistoryFilter{Start: start, End: end}
	if raw := c.Query("program_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid program id"})
			return
		}
		programID := uint(id)
		filter.ProgramID = &programID
	}

	sessions, err := s.progress.History(c.Request.Context(), userID(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

func (s *Server) handleProgression(c *gin.Context) {
	exerciseName := c.Param("exerciseName")
	if exerciseName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Exercise name is required"})
		return
	}

	points, err := s.progress.Progression(c.Request.Context(), userID(c), exerciseName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exercise_name": exerciseName, "progression": points})
}

func (s *Server) handlePersonalRecords(c *gin.Context) {
	records, err := s.progress.PersonalRecords(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (s *Server) handleFrequencyStats(c *gin.Context) {
	stats, err := s.progress.FrequencyStats(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
