package service

import (
	"context"

	"nnact/models"
	"nnact/repository"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
)

// RequestNotifier 新预约通知
type RequestNotifier interface {
	NotifyServiceRequest(req *models.ServiceRequest) error
}

// ServiceRequestService 上门服务预约
type ServiceRequestService struct {
	repo     repository.ServiceRequestRepository
	notifier RequestNotifier
}

// NewServiceRequestService 创建预约服务，notifier 可为 nil
func NewServiceRequestService(repo repository.ServiceRequestRepository, notifier RequestNotifier) *ServiceRequestService {
	return &ServiceRequestService{repo: repo, notifier: notifier}
}

// Create 保存预约并发送通知，通知失败只记录日志。
// 公开提交的预约一律为 pending，上门时间由后台确认时再填写
func (s *ServiceRequestService) Create(ctx context.Context, req *models.ServiceRequest) (*models.ServiceRequest, error) {
	req.Status = models.RequestStatusPending
	req.ScheduledDate = ""
	req.ScheduledTime = ""
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, errors.Annotate(err, "create service request")
	}
	logrus.WithFields(logrus.Fields{
		"id":          req.ID,
		"serviceType": req.ServiceType,
		"urgency":     req.Urgency,
	}).Info("service request received")

	if s.notifier != nil {
		if err := s.notifier.NotifyServiceRequest(req); err != nil {
			logrus.WithError(err).WithField("id", req.ID).Warn("service request notification failed")
		}
	}
	return req, nil
}

// List 返回全部预约
func (s *ServiceRequestService) List(ctx context.Context) ([]models.ServiceRequest, error) {
	reqs, err := s.repo.FindAll(ctx)
	return reqs, errors.Trace(err)
}

// Get 获取单个预约
func (s *ServiceRequestService) Get(ctx context.Context, id string) (*models.ServiceRequest, error) {
	return findRequired[models.ServiceRequest](ctx, s.repo, "Service request", id)
}

// Update 保存修改后的预约，通常用于确认上门时间和更新状态
func (s *ServiceRequestService) Update(ctx context.Context, id string, req *models.ServiceRequest) (*models.ServiceRequest, error) {
	existing, err := findRequired[models.ServiceRequest](ctx, s.repo, "Service request", id)
	if err != nil {
		return nil, err
	}
	req.Base = existing.Base
	if req.Status == "" {
		req.Status = existing.Status
	}
	if err := s.repo.Update(ctx, req); err != nil {
		return nil, lookupError(err, "Service request", id)
	}
	return req, nil
}

// Delete 删除预约
func (s *ServiceRequestService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "Service request", id)
	}
	return nil
}

// AvailableSlots 指定日期尚未被占用的标准时段，已取消的预约不占用时段
func (s *ServiceRequestService) AvailableSlots(ctx context.Context, date string) ([]string, error) {
	reqs, err := s.repo.FindByPreferredDate(ctx, date)
	if err != nil {
		return nil, errors.Trace(err)
	}
	taken := make(map[string]struct{}, len(reqs))
	for _, r := range reqs {
		if r.Status == models.RequestStatusCancelled {
			continue
		}
		taken[r.PreferredTime] = struct{}{}
	}
	slots := make([]string, 0, len(models.StandardSlots))
	for _, slot := range models.StandardSlots {
		if _, ok := taken[slot]; !ok {
			slots = append(slots, slot)
		}
	}
	return slots, nil
}
