package service

import (
	"context"

	"nnact/models"
	"nnact/repository"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
)

// PaymentService 收款
type PaymentService struct {
	repo     repository.PaymentRepository
	clients  repository.ClientRepository
	services repository.ServiceRecordRepository
	clock    clock.Clock
}

// NewPaymentService 创建收款服务
func NewPaymentService(repos *repository.Repositories, clk clock.Clock) *PaymentService {
	return &PaymentService{
		repo:     repos.Payments,
		clients:  repos.Clients,
		services: repos.Services,
		clock:    clk,
	}
}

// Create 创建收款记录，客户和工单必须存在
func (s *PaymentService) Create(ctx context.Context, p *models.Payment) (*models.Payment, error) {
	client, rec, err := resolveClientAndService(ctx, s.clients, s.services, p.ClientID, p.ServiceID)
	if err != nil {
		return nil, err
	}
	p.Amount = models.RoundMoney(p.Amount)
	if p.PaidAt.IsZero() {
		p.PaidAt = s.clock.Now().UTC()
	}
	p.Client, p.Service = nil, nil
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, errors.Annotate(err, "create payment")
	}
	p.Client, p.Service = client, rec
	logrus.WithFields(logrus.Fields{"id": p.ID, "amount": p.Amount}).Info("payment recorded")
	return p, nil
}

// List 按收款时间倒序返回
func (s *PaymentService) List(ctx context.Context) ([]models.Payment, error) {
	payments, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, errors.Trace(err)
	}
	clientIDs := make([]string, 0, len(payments))
	serviceIDs := make([]string, 0, len(payments))
	for _, p := range payments {
		clientIDs = append(clientIDs, p.ClientID)
		serviceIDs = append(serviceIDs, p.ServiceID)
	}
	clients, services, err := loadClientsAndServices(ctx, s.clients, s.services, clientIDs, serviceIDs)
	if err != nil {
		return nil, err
	}
	for i := range payments {
		payments[i].Client = clients[payments[i].ClientID]
		payments[i].Service = services[payments[i].ServiceID]
	}
	return payments, nil
}

// Get 获取单条收款
func (s *PaymentService) Get(ctx context.Context, id string) (*models.Payment, error) {
	p, err := findRequired(ctx, s.repo, "Payment", id)
	if err != nil {
		return nil, err
	}
	clients, services, err := loadClientsAndServices(ctx, s.clients, s.services, []string{p.ClientID}, []string{p.ServiceID})
	if err != nil {
		return nil, err
	}
	p.Client, p.Service = clients[p.ClientID], services[p.ServiceID]
	return p, nil
}

// Update 保存修改后的收款
func (s *PaymentService) Update(ctx context.Context, id string, p *models.Payment) (*models.Payment, error) {
	existing, err := findRequired(ctx, s.repo, "Payment", id)
	if err != nil {
		return nil, err
	}
	client, rec, err := resolveClientAndService(ctx, s.clients, s.services, p.ClientID, p.ServiceID)
	if err != nil {
		return nil, err
	}
	p.Base = existing.Base
	p.Amount = models.RoundMoney(p.Amount)
	if p.PaidAt.IsZero() {
		p.PaidAt = existing.PaidAt
	}
	p.Client, p.Service = nil, nil
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, lookupError(err, "Payment", id)
	}
	p.Client, p.Service = client, rec
	return p, nil
}

// Delete 删除收款
func (s *PaymentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "Payment", id)
	}
	logrus.WithField("id", id).Info("payment deleted")
	return nil
}

// resolveClientAndService 收款和评价共用：客户和工单都必须存在
func resolveClientAndService(ctx context.Context, clients repository.ClientRepository, services repository.ServiceRecordRepository, clientID, serviceID string) (*models.Client, *models.ServiceRecord, error) {
	client, err := clients.FindByID(ctx, clientID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, nil, errors.Trace(err)
	}
	rec, serr := services.FindByID(ctx, serviceID)
	if serr != nil && !errors.Is(serr, repository.ErrNotFound) {
		return nil, nil, errors.Trace(serr)
	}
	if err != nil || serr != nil {
		return nil, nil, errors.NewNotFound(nil, "Client or Service not found")
	}
	return client, rec, nil
}

func loadClientsAndServices(ctx context.Context, clients repository.ClientRepository, services repository.ServiceRecordRepository, clientIDs, serviceIDs []string) (map[string]*models.Client, map[string]*models.ServiceRecord, error) {
	c, err := loadIndex[models.Client](ctx, clients, uniqueIDs(clientIDs...))
	if err != nil {
		return nil, nil, err
	}
	r, err := loadIndex[models.ServiceRecord](ctx, services, uniqueIDs(serviceIDs...))
	if err != nil {
		return nil, nil, err
	}
	return c, r, nil
}
