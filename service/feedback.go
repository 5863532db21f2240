package service

import (
	"context"

	"nnact/models"
	"nnact/repository"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
)

// FeedbackService 客户评价
type FeedbackService struct {
	repo     repository.FeedbackRepository
	clients  repository.ClientRepository
	services repository.ServiceRecordRepository
	clock    clock.Clock
}

// NewFeedbackService 创建评价服务
func NewFeedbackService(repos *repository.Repositories, clk clock.Clock) *FeedbackService {
	return &FeedbackService{
		repo:     repos.Feedback,
		clients:  repos.Clients,
		services: repos.Services,
		clock:    clk,
	}
}

// Create 创建评价，客户和工单必须存在
func (s *FeedbackService) Create(ctx context.Context, f *models.Feedback) (*models.Feedback, error) {
	client, rec, err := resolveClientAndService(ctx, s.clients, s.services, f.ClientID, f.ServiceID)
	if err != nil {
		return nil, err
	}
	if f.FeedbackDate.IsZero() {
		f.FeedbackDate = s.clock.Now().UTC()
	}
	f.Client, f.Service = nil, nil
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, errors.Annotate(err, "create feedback")
	}
	f.Client, f.Service = client, rec
	logrus.WithFields(logrus.Fields{"id": f.ID, "rating": f.Rating}).Info("feedback received")
	return f, nil
}

// List 按评价时间倒序返回
func (s *FeedbackService) List(ctx context.Context) ([]models.Feedback, error) {
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, errors.Trace(err)
	}
	clientIDs := make([]string, 0, len(items))
	serviceIDs := make([]string, 0, len(items))
	for _, f := range items {
		clientIDs = append(clientIDs, f.ClientID)
		serviceIDs = append(serviceIDs, f.ServiceID)
	}
	clients, services, err := loadClientsAndServices(ctx, s.clients, s.services, clientIDs, serviceIDs)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Client = clients[items[i].ClientID]
		items[i].Service = services[items[i].ServiceID]
	}
	return items, nil
}

// Get 获取单条评价
func (s *FeedbackService) Get(ctx context.Context, id string) (*models.Feedback, error) {
	f, err := findRequired(ctx, s.repo, "Feedback", id)
	if err != nil {
		return nil, err
	}
	clients, services, err := loadClientsAndServices(ctx, s.clients, s.services, []string{f.ClientID}, []string{f.ServiceID})
	if err != nil {
		return nil, err
	}
	f.Client, f.Service = clients[f.ClientID], services[f.ServiceID]
	return f, nil
}

// Update 保存修改后的评价
func (s *FeedbackService) Update(ctx context.Context, id string, f *models.Feedback) (*models.Feedback, error) {
	existing, err := findRequired(ctx, s.repo, "Feedback", id)
	if err != nil {
		return nil, err
	}
	client, rec, err := resolveClientAndService(ctx, s.clients, s.services, f.ClientID, f.ServiceID)
	if err != nil {
		return nil, err
	}
	f.Base = existing.Base
	if f.FeedbackDate.IsZero() {
		f.FeedbackDate = existing.FeedbackDate
	}
	f.Client, f.Service = nil, nil
	if err := s.repo.Update(ctx, f); err != nil {
		return nil, lookupError(err, "Feedback", id)
	}
	f.Client, f.Service = client, rec
	return f, nil
}

// Delete 删除评价
func (s *FeedbackService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "Feedback", id)
	}
	logrus.WithField("id", id).Info("feedback deleted")
	return nil
}
