package service

import (
	"context"

	"nnact/models"
	"nnact/repository"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
)

// ProjectService 工程项目
type ProjectService struct {
	repo        repository.ProjectRepository
	clients     repository.ClientRepository
	technicians repository.TechnicianRepository
	services    repository.ServiceRecordRepository
}

// NewProjectService 创建项目服务
func NewProjectService(repos *repository.Repositories) *ProjectService {
	return &ProjectService{
		repo:        repos.Projects,
		clients:     repos.Clients,
		technicians: repos.Technicians,
		services:    repos.Services,
	}
}

// Create 创建项目，默认状态为 pending
func (s *ProjectService) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	if err := s.checkReferences(ctx, p); err != nil {
		return nil, err
	}
	if p.Status == "" {
		p.Status = models.ProjectStatusPending
	}
	normalizeProject(p)
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, errors.Annotate(err, "create project")
	}
	logrus.WithField("id", p.ID).Info("project created")
	return s.populateOne(ctx, p)
}

// List 返回全部项目
func (s *ProjectService) List(ctx context.Context) ([]models.Project, error) {
	projects, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err := s.populate(ctx, projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// Get 获取单个项目
func (s *ProjectService) Get(ctx context.Context, id string) (*models.Project, error) {
	p, err := findRequired(ctx, s.repo, "Project", id)
	if err != nil {
		return nil, err
	}
	return s.populateOne(ctx, p)
}

// Update 保存修改后的项目
func (s *ProjectService) Update(ctx context.Context, id string, p *models.Project) (*models.Project, error) {
	existing, err := findRequired(ctx, s.repo, "Project", id)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, p); err != nil {
		return nil, err
	}
	p.Base = existing.Base
	if p.Status == "" {
		p.Status = existing.Status
	}
	normalizeProject(p)
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, lookupError(err, "Project", id)
	}
	return s.populateOne(ctx, p)
}

// Delete 删除项目
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "Project", id)
	}
	logrus.WithField("id", id).Info("project deleted")
	return nil
}

func (s *ProjectService) checkReferences(ctx context.Context, p *models.Project) error {
	if _, err := findOptional(ctx, s.clients, "Client", p.ClientID); err != nil {
		return err
	}
	if _, err := findOptional(ctx, s.technicians, "Technician", p.LeadTechnicianID); err != nil {
		return err
	}
	p.ServiceIDs = uniqueIDs(p.ServiceIDs...)
	if len(p.ServiceIDs) == 0 {
		return nil
	}
	found, err := loadIndex[models.ServiceRecord](ctx, s.services, p.ServiceIDs)
	if err != nil {
		return err
	}
	for _, id := range p.ServiceIDs {
		if _, ok := found[id]; !ok {
			return notFoundf("Service with ID %s not found", id)
		}
	}
	return nil
}

func normalizeProject(p *models.Project) {
	p.Budget = models.RoundMoney(p.Budget)
	p.AmountSpent = models.RoundMoney(p.AmountSpent)
	if p.ServiceIDs == nil {
		p.ServiceIDs = []string{}
	}
	p.Client = nil
	p.LeadTechnician = nil
	p.Services = nil
}

func (s *ProjectService) populateOne(ctx context.Context, p *models.Project) (*models.Project, error) {
	projects := []models.Project{*p}
	if err := s.populate(ctx, projects); err != nil {
		return nil, err
	}
	return &projects[0], nil
}

func (s *ProjectService) populate(ctx context.Context, projects []models.Project) error {
	var clientIDs, techIDs, serviceIDs []string
	for _, p := range projects {
		clientIDs = append(clientIDs, p.ClientID)
		techIDs = append(techIDs, p.LeadTechnicianID)
		serviceIDs = append(serviceIDs, p.ServiceIDs...)
	}
	clients, err := loadIndex[models.Client](ctx, s.clients, uniqueIDs(clientIDs...))
	if err != nil {
		return err
	}
	techs, err := loadIndex[models.Technician](ctx, s.technicians, uniqueIDs(techIDs...))
	if err != nil {
		return err
	}
	services, err := loadIndex[models.ServiceRecord](ctx, s.services, uniqueIDs(serviceIDs...))
	if err != nil {
		return err
	}
	for i := range projects {
		projects[i].Client = clients[projects[i].ClientID]
		projects[i].LeadTechnician = techs[projects[i].LeadTechnicianID]
		projects[i].Services = make([]models.ServiceRecord, 0, len(projects[i].ServiceIDs))
		for _, id := range projects[i].ServiceIDs {
			if rec, ok := services[id]; ok {
				projects[i].Services = append(projects[i].Services, *rec)
			}
		}
	}
	return nil
}
