package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"nnact/models"
	"nnact/repository"

	"github.com/juju/errors"
)

// ValidationError 字段级校验错误，errors.Is(err, errors.NotValid) 成立
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, e.Fields[k])
	}
	return strings.Join(parts, "; ")
}

// Is 让调用方按 juju 的错误类别判断
func (e *ValidationError) Is(target error) bool {
	return target == errors.NotValid
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func notFoundf(format string, args ...interface{}) error {
	return errors.NewNotFound(nil, fmt.Sprintf(format, args...))
}

// lookupError 把仓储层的 ErrNotFound 转成带实体名称的 NotFound
func lookupError(err error, entity, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFoundf("%s with ID %s not found", entity, id)
	}
	return errors.Trace(err)
}

// findRequired 校验引用的记录存在
func findRequired[T any](ctx context.Context, repo repository.CRUD[T], entity, id string) (*T, error) {
	doc, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, entity, id)
	}
	return doc, nil
}

// findOptional 空 ID 视为未关联
func findOptional[T any](ctx context.Context, repo repository.CRUD[T], entity, id string) (*T, error) {
	if id == "" {
		return nil, nil
	}
	return findRequired(ctx, repo, entity, id)
}

// indexByID 按 ID 建立索引，用于批量填充关联文档
func indexByID[T any, PT interface {
	*T
	models.Document
}](docs []T) map[string]*T {
	m := make(map[string]*T, len(docs))
	for i := range docs {
		m[PT(&docs[i]).Meta().ID] = &docs[i]
	}
	return m
}

// uniqueIDs 去重并去掉空 ID
func uniqueIDs(ids ...string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// loadIndex 批量读取并按 ID 索引
func loadIndex[T any, PT interface {
	*T
	models.Document
}](ctx context.Context, repo repository.CRUD[T], ids []string) (map[string]*T, error) {
	if len(ids) == 0 {
		return map[string]*T{}, nil
	}
	docs, err := repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return indexByID[T, PT](docs), nil
}
