package controllers

import (
	"net/http"
	"strconv"

	"caltrack/services"
	"caltrack/utils"

	"github.com/gin-gonic/gin"
)

type LogController struct {
	logs *services.LogService
}

func NewLogController(logs *services.LogService) *LogController {
	return &LogController{logs: logs}
}

type addEntriesInput struct {
	Date  string                   `json:"date"`
	Items []services.LogEntryInput `json:"items" binding:"required"`
}

// AddEntries is the confirmation boundary: the subset of estimates the user
// approved gets persisted, one row per item.
func (l *LogController) AddEntries(c *gin.Context) {
	var input addEntriesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date := input.Date
	if date == "" {
		date = utils.Today()
	}

	entries, err := l.logs.AddEntries(c.Request.Context(), c.GetUint("userID"), date, input.Items)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"entries": entries})
}

func (l *LogController) Today(c *gin.Context) {
	l.day(c, utils.Today())
}

func (l *LogController) Day(c *gin.Context) {
	l.day(c, c.Param("date"))
}

func (l *LogController) day(c *gin.Context, date string) {
	entries, total, err := l.logs.EntriesForDay(c.Request.Context(), c.GetUint("userID"), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":           date,
		"formatted_date": utils.FormatDayLong(date),
		"entries":        entries,
		"total":          total,
	})
}

func (l *LogController) History(c *gin.Context) {
	totals, err := l.logs.History(c.Request.Context(), c.GetUint("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"daily_totals": totals})
}

func (l *LogController) DeleteEntry(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}

	if err := l.logs.DeleteEntry(c.Request.Context(), c.GetUint("userID"), uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
