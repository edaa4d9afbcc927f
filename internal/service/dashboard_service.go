package service

import (
	"context"

	"structiv/internal/domain"
	"structiv/internal/models"
)

type DashboardService struct {
	repo domain.StatsRepository
	faqs []models.FAQ
}

func NewDashboardService(repo domain.StatsRepository, faqs []models.FAQ) *DashboardService {
	if len(faqs) == 0 {
		faqs = models.DefaultFAQs()
	}
	return &DashboardService{repo: repo, faqs: faqs}
}

func (s *DashboardService) Stats(ctx context.Context) (*models.AdminStats, error) {
	return s.repo.AdminStats(ctx)
}

func (s *DashboardService) FAQs() []models.FAQ {
	return append([]models.FAQ(nil), s.faqs...)
}
