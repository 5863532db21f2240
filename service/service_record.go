package service

import (
	"context"
	"time"

	"nnact/config"
	"nnact/metrics"
	"nnact/models"
	"nnact/repository"

	"github.com/juju/errors"
	"github.com/sethvargo/go-retry"
	"github.com/sirupsen/logrus"
)

// ServiceRecordService 服务工单
type ServiceRecordService struct {
	records     repository.ServiceRecordRepository
	clients     repository.ClientRepository
	technicians repository.TechnicianRepository
	projects    repository.ProjectRepository
	numbers     *ServiceNumberGenerator
	seq         config.SequenceConfig
}

// NewServiceRecordService 创建服务工单服务
func NewServiceRecordService(repos *repository.Repositories, numbers *ServiceNumberGenerator, seq config.SequenceConfig) *ServiceRecordService {
	return &ServiceRecordService{
		records:     repos.Services,
		clients:     repos.Clients,
		technicians: repos.Technicians,
		projects:    repos.Projects,
		numbers:     numbers,
		seq:         seq,
	}
}

// Create 分配服务单号并保存。单号冲突时重新计算，最多尝试 max_attempts 次
func (s *ServiceRecordService) Create(ctx context.Context, rec *models.ServiceRecord) (*models.ServiceRecord, error) {
	if err := s.checkReferences(ctx, rec); err != nil {
		return nil, err
	}
	normalizeServiceRecord(rec)

	attempts := s.seq.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	delay := s.seq.RetryDelay
	if delay <= 0 {
		delay = time.Millisecond
	}
	backoff := retry.WithMaxRetries(uint64(attempts-1), retry.NewConstant(delay))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		number, err := s.numbers.Next(ctx)
		if err != nil {
			return err
		}
		rec.ServiceNumber = number
		err = s.records.Create(ctx, rec)
		if errors.Is(err, repository.ErrDuplicate) {
			metrics.RecordServiceNumberConflict()
			logrus.WithField("serviceNumber", number).Warn("service number collision, retrying")
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errors.NewAlreadyExists(nil, "duplicate service number")
		}
		return nil, errors.Trace(err)
	}

	metrics.RecordServiceNumberIssued()
	logrus.WithFields(logrus.Fields{
		"id":            rec.ID,
		"serviceNumber": rec.ServiceNumber,
	}).Info("service number issued")
	return s.populateOne(ctx, rec)
}

// List 返回全部工单，附带客户、技术员和项目
func (s *ServiceRecordService) List(ctx context.Context) ([]models.ServiceRecord, error) {
	recs, err := s.records.FindAll(ctx)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err := s.populate(ctx, recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// Get 获取单个工单
func (s *ServiceRecordService) Get(ctx context.Context, id string) (*models.ServiceRecord, error) {
	rec, err := findRequired[models.ServiceRecord](ctx, s.records, "Service", id)
	if err != nil {
		return nil, err
	}
	return s.populateOne(ctx, rec)
}

// Update 保存修改后的工单，服务单号不可修改
func (s *ServiceRecordService) Update(ctx context.Context, id string, rec *models.ServiceRecord) (*models.ServiceRecord, error) {
	existing, err := findRequired[models.ServiceRecord](ctx, s.records, "Service", id)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, rec); err != nil {
		return nil, err
	}
	rec.Base = existing.Base
	rec.ServiceNumber = existing.ServiceNumber
	normalizeServiceRecord(rec)

	if err := s.records.Update(ctx, rec); err != nil {
		return nil, lookupError(err, "Service", id)
	}
	return s.populateOne(ctx, rec)
}

// Delete 删除工单
func (s *ServiceRecordService) Delete(ctx context.Context, id string) error {
	if err := s.records.Delete(ctx, id); err != nil {
		return lookupError(err, "Service", id)
	}
	return nil
}

// Types 返回已使用的服务类型，数量不足时返回内置目录
func (s *ServiceRecordService) Types(ctx context.Context) ([]string, error) {
	types, err := s.records.ServiceTypes(ctx)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if len(types) < models.MinDistinctServiceTypes {
		catalog := make([]string, len(models.ServiceTypeCatalog))
		copy(catalog, models.ServiceTypeCatalog)
		return catalog, nil
	}
	return types, nil
}

func (s *ServiceRecordService) checkReferences(ctx context.Context, rec *models.ServiceRecord) error {
	if _, err := findRequired(ctx, s.clients, "Client", rec.ClientID); err != nil {
		return err
	}
	if _, err := findOptional(ctx, s.technicians, "Technician", rec.TechnicianID); err != nil {
		return err
	}
	if _, err := findOptional(ctx, s.projects, "Project", rec.ProjectID); err != nil {
		return err
	}
	return nil
}

func normalizeServiceRecord(rec *models.ServiceRecord) {
	if rec.Status == "" {
		rec.Status = models.ServiceStatusScheduled
	}
	if rec.Priority == "" {
		rec.Priority = models.PriorityMedium
	}
	rec.EstimatedCost = models.RoundMoney(rec.EstimatedCost)
	rec.Client = nil
	rec.AssignedTechnician = nil
	rec.Project = nil
}

func (s *ServiceRecordService) populateOne(ctx context.Context, rec *models.ServiceRecord) (*models.ServiceRecord, error) {
	recs := []models.ServiceRecord{*rec}
	if err := s.populate(ctx, recs); err != nil {
		return nil, err
	}
	return &recs[0], nil
}

// populate 批量加载关联文档，避免逐条查询
func (s *ServiceRecordService) populate(ctx context.Context, recs []models.ServiceRecord) error {
	var clientIDs, techIDs, projectIDs []string
	for _, r := range recs {
		clientIDs = append(clientIDs, r.ClientID)
		techIDs = append(techIDs, r.TechnicianID)
		projectIDs = append(projectIDs, r.ProjectID)
	}

	clients, err := loadIndex[models.Client](ctx, s.clients, uniqueIDs(clientIDs...))
	if err != nil {
		return err
	}
	techs, err := loadIndex[models.Technician](ctx, s.technicians, uniqueIDs(techIDs...))
	if err != nil {
		return err
	}
	projects, err := loadIndex[models.Project](ctx, s.projects, uniqueIDs(projectIDs...))
	if err != nil {
		return err
	}

	for i := range recs {
		recs[i].Client = clients[recs[i].ClientID]
		recs[i].AssignedTechnician = techs[recs[i].TechnicianID]
		recs[i].Project = projects[recs[i].ProjectID]
	}
	return nil
}
