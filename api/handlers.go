package api

import (
	"nnact/models"
	"nnact/service"
)

// Handlers 全部 HTTP 处理器
type Handlers struct {
	Auth            *AuthHandler
	Clients         *EntityHandler[models.Client]
	Technicians     *EntityHandler[models.Technician]
	Services        *ServiceRecordHandler
	Parts           *EntityHandler[models.Part]
	Payments        *EntityHandler[models.Payment]
	Feedback        *EntityHandler[models.Feedback]
	Projects        *EntityHandler[models.Project]
	ServiceRequests *ServiceRequestHandler
	Expenses        *ExpenseHandler
	Export          *ExportHandler
}

// NewHandlers 基于业务服务创建处理器
func NewHandlers(s *service.Services) *Handlers {
	return &Handlers{
		Auth:            NewAuthHandler(s.Auth),
		Clients:         NewEntityHandler[models.Client](s.Clients, "Client"),
		Technicians:     NewEntityHandler[models.Technician](s.Technicians, "Technician"),
		Services:        NewServiceRecordHandler(s.Records),
		Parts:           NewEntityHandler[models.Part](s.Parts, "Part"),
		Payments:        NewEntityHandler[models.Payment](s.Payments, "Payment"),
		Feedback:        NewEntityHandler[models.Feedback](s.Feedback, "Feedback"),
		Projects:        NewEntityHandler[models.Project](s.Projects, "Project"),
		ServiceRequests: NewServiceRequestHandler(s.ServiceRequests),
		Expenses:        NewExpenseHandler(s.Expenses),
		Export:          NewExportHandler(s.Expenses),
	}
}
