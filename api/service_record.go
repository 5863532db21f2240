package api

import (
	"nnact/models"
	"nnact/service"

	"github.com/gin-gonic/gin"
)

// ServiceRecordHandler 服务工单，单号由服务端生成
type ServiceRecordHandler struct {
	*EntityHandler[models.ServiceRecord]
	svc *service.ServiceRecordService
}

// NewServiceRecordHandler 创建服务工单处理器
func NewServiceRecordHandler(svc *service.ServiceRecordService) *ServiceRecordHandler {
	return &ServiceRecordHandler{
		EntityHandler: NewEntityHandler[models.ServiceRecord](svc, "Service"),
		svc:           svc,
	}
}

// Types GET /services/types
func (h *ServiceRecordHandler) Types(c *gin.Context) {
	types, err := h.svc.Types(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	Success(c, types)
}
