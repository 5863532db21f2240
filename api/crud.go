package api

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
)

// EntityService 单实体的增删改查
type EntityService[T any] interface {
	Create(ctx context.Context, doc *T) (*T, error)
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	Update(ctx context.Context, id string, doc *T) (*T, error)
	Delete(ctx context.Context, id string) error
}

// EntityHandler 客户、技术员、配件等实体共用的处理器
type EntityHandler[T any] struct {
	svc    EntityService[T]
	entity string
}

// NewEntityHandler 创建实体处理器，entity 用于提示信息，如 "Client"
func NewEntityHandler[T any](svc EntityService[T], entity string) *EntityHandler[T] {
	return &EntityHandler[T]{svc: svc, entity: entity}
}

// Create POST /
func (h *EntityHandler[T]) Create(c *gin.Context) {
	var doc T
	if err := c.ShouldBindJSON(&doc); err != nil {
		bindError(c, err)
		return
	}
	created, err := h.svc.Create(c.Request.Context(), &doc)
	if err != nil {
		writeError(c, err)
		return
	}
	Created(c, h.entity+" created successfully", created)
}

// List GET /
func (h *EntityHandler[T]) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	Success(c, list)
}

// Get GET /:id
func (h *EntityHandler[T]) Get(c *gin.Context) {
	doc, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	Success(c, doc)
}

// Update PATCH /:id，请求体中的字段覆盖现有记录
func (h *EntityHandler[T]) Update(c *gin.Context) {
	id := c.Param("id")
	existing, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := c.ShouldBindJSON(existing); err != nil {
		bindError(c, err)
		return
	}
	updated, err := h.svc.Update(c.Request.Context(), id, existing)
	if err != nil {
		writeError(c, err)
		return
	}
	SuccessWithMessage(c, h.entity+" updated successfully", updated)
}

// Delete DELETE /:id
func (h *EntityHandler[T]) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	SuccessWithMessage(c, fmt.Sprintf("%s %s deleted successfully", h.entity, id), nil)
}

// Register 在路由组上挂载 POST、GET、GET/:id、PATCH/:id、DELETE/:id
func (h *EntityHandler[T]) Register(g gin.IRoutes) {
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}
