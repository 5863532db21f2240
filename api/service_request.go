package api

import (
	"time"

	"nnact/models"
	"nnact/service"

	"github.com/gin-gonic/gin"
)

// ServiceRequestHandler 官网预约
type ServiceRequestHandler struct {
	*EntityHandler[models.ServiceRequest]
	svc *service.ServiceRequestService
}

// NewServiceRequestHandler 创建预约处理器
func NewServiceRequestHandler(svc *service.ServiceRequestService) *ServiceRequestHandler {
	return &ServiceRequestHandler{
		EntityHandler: NewEntityHandler[models.ServiceRequest](svc, "Service request"),
		svc:           svc,
	}
}

// Slots GET /service-requests/slots/:date
func (h *ServiceRequestHandler) Slots(c *gin.Context) {
	date := c.Param("date")
	if _, err := time.Parse(dateLayout, date); err != nil {
		ValidationFailed(c, "Invalid date", map[string]string{"date": "date must be a date in YYYY-MM-DD format"})
		return
	}
	slots, err := h.svc.AvailableSlots(c.Request.Context(), date)
	if err != nil {
		writeError(c, err)
		return
	}
	Success(c, gin.H{"date": date, "availableSlots": slots})
}
