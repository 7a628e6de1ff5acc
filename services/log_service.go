package services

import (
	"context"
	"sort"

	"caltrack/models"
	"caltrack/utils"

	"gorm.io/gorm"
)

type LogService struct{ db *gorm.DB }

func NewLogService(db *gorm.DB) *LogService { return &LogService{db: db} }

// LogEntryInput is the confirmation-boundary shape: what the user approved
// from the estimate page. The provenance tag is display-only and never
// persisted. Calories is a pointer so an unresolved estimate (JSON null)
// stays distinguishable from a real zero.
type LogEntryInput struct {
	Food     string `json:"food"`
	Quantity string `json:"quantity"`
	Calories *int   `json:"calories"`
}

type DayTotal struct {
	Date  string `json:"date"`
	Label string `json:"label"`
	Total int    `json:"total"`
}

// AddEntries persists one FoodLog row per confirmed item, in input order.
// Items without a food name or without a calorie value are skipped — an
// "unavailable" estimate must never land in the log as a verified zero.
func (s *LogService) AddEntries(ctx context.Context, userID uint, date string, items []LogEntryInput) ([]models.FoodLog, error) {
	entries := buildEntries(userID, date, items)
	if len(entries) == 0 {
		return entries, nil
	}
	if err := s.db.WithContext(ctx).Create(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func buildEntries(userID uint, date string, items []LogEntryInput) []models.FoodLog {
	entries := make([]models.FoodLog, 0, len(items))
	for _, it := range items {
		if it.Food == "" || it.Calories == nil {
			continue
		}
		entries = append(entries, models.FoodLog{
			UserID:   userID,
			Date:     date,
			Food:     it.Food,
			Quantity: it.Quantity,
			Calories: *it.Calories,
		})
	}
	return entries
}

func (s *LogService) EntriesForDay(ctx context.Context, userID uint, date string) ([]models.FoodLog, int, error) {
	var entries []models.FoodLog
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	total := 0
	for _, e := range entries {
		total += e.Calories
	}
	return entries, total, nil
}

// History returns per-day calorie totals across the user's whole log,
// date-ascending, with the short display label the chart uses.
func (s *LogService) History(ctx context.Context, userID uint) ([]DayTotal, error) {
	var entries []models.FoodLog
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	byDate := map[string]int{}
	for _, e := range entries {
		byDate[e.Date] += e.Calories
	}

	totals := make([]DayTotal, 0, len(byDate))
	for date, total := range byDate {
		totals = append(totals, DayTotal{
			Date:  date,
			Label: utils.FormatDayLabel(date),
			Total: total,
		})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Date < totals[j].Date })
	return totals, nil
}

// DeleteEntry removes one entry, scoped to its owner.
func (s *LogService) DeleteEntry(ctx context.Context, userID, entryID uint) error {
	return s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", entryID, userID).
		Delete(&models.FoodLog{}).Error
}
