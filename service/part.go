package service

import (
	"context"

	"nnact/models"
	"nnact/repository"

	"github.com/juju/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// PartService 配件
type PartService struct {
	repo     repository.PartRepository
	services repository.ServiceRecordRepository
}

// NewPartService 创建配件服务
func NewPartService(repo repository.PartRepository, services repository.ServiceRecordRepository) *PartService {
	return &PartService{repo: repo, services: services}
}

// Create 创建配件，未填写总价时按数量乘单价计算
func (s *PartService) Create(ctx context.Context, part *models.Part) (*models.Part, error) {
	usedFor, err := findOptional[models.ServiceRecord](ctx, s.services, "Service", part.UsedForServiceID)
	if err != nil {
		return nil, err
	}
	normalizePart(part)
	if err := s.repo.Create(ctx, part); err != nil {
		return nil, errors.Annotate(err, "create part")
	}
	part.UsedForService = usedFor
	logrus.WithField("id", part.ID).Info("part created")
	return part, nil
}

// List 返回全部配件
func (s *PartService) List(ctx context.Context) ([]models.Part, error) {
	parts, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, errors.Trace(err)
	}
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		ids = append(ids, p.UsedForServiceID)
	}
	services, err := loadIndex[models.ServiceRecord](ctx, s.services, uniqueIDs(ids...))
	if err != nil {
		return nil, err
	}
	for i := range parts {
		parts[i].UsedForService = services[parts[i].UsedForServiceID]
	}
	return parts, nil
}

// Get 获取单个配件
func (s *PartService) Get(ctx context.Context, id string) (*models.Part, error) {
	part, err := findRequired(ctx, s.repo, "Part", id)
	if err != nil {
		return nil, err
	}
	if part.UsedForServiceID != "" {
		// 关联工单已被删除时只返回配件本身
		if rec, err := s.services.FindByID(ctx, part.UsedForServiceID); err == nil {
			part.UsedForService = rec
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, errors.Trace(err)
		}
	}
	return part, nil
}

// Update 保存修改后的配件
func (s *PartService) Update(ctx context.Context, id string, part *models.Part) (*models.Part, error) {
	existing, err := findRequired(ctx, s.repo, "Part", id)
	if err != nil {
		return nil, err
	}
	usedFor, err := findOptional[models.ServiceRecord](ctx, s.services, "Service", part.UsedForServiceID)
	if err != nil {
		return nil, err
	}
	part.Base = existing.Base
	normalizePart(part)
	if err := s.repo.Update(ctx, part); err != nil {
		return nil, lookupError(err, "Part", id)
	}
	part.UsedForService = usedFor
	return part, nil
}

// Delete 删除配件
func (s *PartService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "Part", id)
	}
	logrus.WithField("id", id).Info("part deleted")
	return nil
}

func normalizePart(part *models.Part) {
	part.UnitCost = models.RoundMoney(part.UnitCost)
	if part.TotalCost == 0 {
		part.TotalCost = decimal.NewFromFloat(part.UnitCost).Mul(decimal.NewFromInt(int64(part.Quantity))).Round(2).InexactFloat64()
	}
	part.TotalCost = models.RoundMoney(part.TotalCost)
	part.UsedForService = nil
}
