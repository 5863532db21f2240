package service

import (
	"nnact/config"
	"nnact/repository"

	"github.com/juju/clock"
)

// Services 进程内全部业务服务
type Services struct {
	Auth            *AuthService
	Clients         *ClientService
	Technicians     *TechnicianService
	Records         *ServiceRecordService
	Parts           *PartService
	Payments        *PaymentService
	Feedback        *FeedbackService
	Projects        *ProjectService
	ServiceRequests *ServiceRequestService
	Expenses        *ExpenseService
}

// NewServices 按仓储和配置组装服务
func NewServices(repos *repository.Repositories, cfg *config.Config, clk clock.Clock, issuer TokenIssuer) *Services {
	numbers := NewServiceNumberGenerator(repos.Services, clk)
	return &Services{
		Auth:            NewAuthService(repos.Users, issuer),
		Clients:         NewClientService(repos.Clients),
		Technicians:     NewTechnicianService(repos.Technicians),
		Records:         NewServiceRecordService(repos, numbers, cfg.Sequence),
		Parts:           NewPartService(repos.Parts, repos.Services),
		Payments:        NewPaymentService(repos, clk),
		Feedback:        NewFeedbackService(repos, clk),
		Projects:        NewProjectService(repos),
		ServiceRequests: NewServiceRequestService(repos.ServiceRequests, NewEmailService(&cfg.Email)),
		Expenses:        NewExpenseService(repos.Expenses, clk),
	}
}
