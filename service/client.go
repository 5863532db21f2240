package service

import (
	"context"
	"fmt"

	"nnact/models"
	"nnact/repository"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
)

// ClientService 客户
type ClientService struct {
	repo repository.ClientRepository
}

// NewClientService 创建客户服务
func NewClientService(repo repository.ClientRepository) *ClientService {
	return &ClientService{repo: repo}
}

// Create 创建客户，邮箱不可重复
func (s *ClientService) Create(ctx context.Context, client *models.Client) (*models.Client, error) {
	if client.Status == "" {
		client.Status = models.ClientStatusActive
	}
	if err := s.repo.Create(ctx, client); err != nil {
		return nil, duplicateEmail(err, "Client", client.Email)
	}
	logrus.WithField("id", client.ID).Info("client created")
	return client, nil
}

// List 返回全部客户
func (s *ClientService) List(ctx context.Context) ([]models.Client, error) {
	clients, err := s.repo.FindAll(ctx)
	return clients, errors.Trace(err)
}

// Get 获取单个客户
func (s *ClientService) Get(ctx context.Context, id string) (*models.Client, error) {
	return findRequired(ctx, s.repo, "Client", id)
}

// Update 保存修改后的客户
func (s *ClientService) Update(ctx context.Context, id string, client *models.Client) (*models.Client, error) {
	existing, err := findRequired(ctx, s.repo, "Client", id)
	if err != nil {
		return nil, err
	}
	client.Base = existing.Base
	if client.Status == "" {
		client.Status = existing.Status
	}
	if err := s.repo.Update(ctx, client); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, duplicateEmail(err, "Client", client.Email)
		}
		return nil, lookupError(err, "Client", id)
	}
	return client, nil
}

// Delete 删除客户
func (s *ClientService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "Client", id)
	}
	logrus.WithField("id", id).Info("client deleted")
	return nil
}

func duplicateEmail(err error, entity, email string) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return errors.NewAlreadyExists(nil, fmt.Sprintf("%s with email %s already exists", entity, email))
	}
	return errors.Trace(err)
}
