package service

import (
	"context"

	"nnact/models"
	"nnact/repository"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
)

// TechnicianService 技术员
type TechnicianService struct {
	repo repository.TechnicianRepository
}

// NewTechnicianService 创建技术员服务
func NewTechnicianService(repo repository.TechnicianRepository) *TechnicianService {
	return &TechnicianService{repo: repo}
}

// Create 创建技术员，默认状态为 Available
func (s *TechnicianService) Create(ctx context.Context, tech *models.Technician) (*models.Technician, error) {
	normalizeTechnician(tech)
	if tech.Status == "" {
		tech.Status = models.TechnicianStatusAvailable
	}
	if err := s.repo.Create(ctx, tech); err != nil {
		return nil, duplicateEmail(err, "Technician", tech.Email)
	}
	logrus.WithField("id", tech.ID).Info("technician created")
	return tech, nil
}

// List 返回全部技术员
func (s *TechnicianService) List(ctx context.Context) ([]models.Technician, error) {
	techs, err := s.repo.FindAll(ctx)
	return techs, errors.Trace(err)
}

// Get 获取单个技术员
func (s *TechnicianService) Get(ctx context.Context, id string) (*models.Technician, error) {
	return findRequired(ctx, s.repo, "Technician", id)
}

// Update 保存修改后的技术员
func (s *TechnicianService) Update(ctx context.Context, id string, tech *models.Technician) (*models.Technician, error) {
	existing, err := findRequired(ctx, s.repo, "Technician", id)
	if err != nil {
		return nil, err
	}
	tech.Base = existing.Base
	normalizeTechnician(tech)
	if tech.Status == "" {
		tech.Status = existing.Status
	}
	if err := s.repo.Update(ctx, tech); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, duplicateEmail(err, "Technician", tech.Email)
		}
		return nil, lookupError(err, "Technician", id)
	}
	return tech, nil
}

// Delete 删除技术员
func (s *TechnicianService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "Technician", id)
	}
	logrus.WithField("id", id).Info("technician deleted")
	return nil
}

func normalizeTechnician(tech *models.Technician) {
	if tech.Specialties == nil {
		tech.Specialties = []string{}
	}
}
