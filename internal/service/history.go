package service

import (
	"context"

	"webflash/internal/models"
	"webflash/internal/repository"
)

// HistoryService reads and clears the recent flash attempts.
type HistoryService struct {
	repo repository.HistoryRepo
}

func NewHistoryService(repo repository.HistoryRepo) *HistoryService {
	return &HistoryService{repo: repo}
}

// List returns up to limit records, newest first. A non-positive or oversized
// limit returns the full capped history.
func (s *HistoryService) List(ctx context.Context, limit int) ([]models.FlashRecord, error) {
	if limit <= 0 || limit > repository.MaxHistoryEntries {
		limit = repository.MaxHistoryEntries
	}
	return s.repo.List(ctx, limit)
}

func (s *HistoryService) Clear(ctx context.Context) (int64, error) {
	return s.repo.Clear(ctx)
}
