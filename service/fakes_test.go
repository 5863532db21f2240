package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"nnact/models"
	"nnact/repository"
)

// memCRUD 内存仓储，按插入顺序倒序返回
type memCRUD[T any, PT interface {
	*T
	models.Document
}] struct {
	mu     sync.Mutex
	docs   map[string]T
	order  []string
	unique func(*T) string
	err    error
}

func newMemCRUD[T any, PT interface {
	*T
	models.Document
}]() *memCRUD[T, PT] {
	return &memCRUD[T, PT]{docs: make(map[string]T)}
}

func (r *memCRUD[T, PT]) Create(_ context.Context, doc *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if r.unique != nil {
		key := r.unique(doc)
		for _, d := range r.docs {
			d := d
			if r.unique(&d) == key {
				return repository.ErrDuplicate
			}
		}
	}
	meta := PT(doc).Meta()
	meta.ID = models.NewID()
	now := time.Now().UTC()
	meta.CreatedAt, meta.UpdatedAt = now, now
	r.docs[meta.ID] = *doc
	r.order = append(r.order, meta.ID)
	return nil
}

func (r *memCRUD[T, PT]) FindByID(_ context.Context, id string) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	doc, ok := r.docs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &doc, nil
}

func (r *memCRUD[T, PT]) FindByIDs(_ context.Context, ids []string) ([]T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if doc, ok := r.docs[id]; ok {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (r *memCRUD[T, PT]) FindAll(_ context.Context) ([]T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return r.all(), nil
}

func (r *memCRUD[T, PT]) all() []T {
	out := make([]T, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		if doc, ok := r.docs[r.order[i]]; ok {
			out = append(out, doc)
		}
	}
	return out
}

func (r *memCRUD[T, PT]) Update(_ context.Context, doc *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	meta := PT(doc).Meta()
	if _, ok := r.docs[meta.ID]; !ok {
		return repository.ErrNotFound
	}
	meta.UpdatedAt = time.Now().UTC()
	r.docs[meta.ID] = *doc
	return nil
}

func (r *memCRUD[T, PT]) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.docs, id)
	return nil
}

func (r *memCRUD[T, PT]) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.docs)
}

// memServiceRecords 可模拟并发写入导致的单号冲突
type memServiceRecords struct {
	*memCRUD[models.ServiceRecord, *models.ServiceRecord]
	// racers 大于 0 时，下一次写入前先被"其他请求"抢占同一单号
	racers    int
	latestErr error
	types     []string
}

func newMemServiceRecords() *memServiceRecords {
	crud := newMemCRUD[models.ServiceRecord]()
	crud.unique = func(r *models.ServiceRecord) string { return r.ServiceNumber }
	return &memServiceRecords{memCRUD: crud}
}

func (r *memServiceRecords) Create(ctx context.Context, rec *models.ServiceRecord) error {
	if r.racers > 0 {
		r.racers--
		rival := models.ServiceRecord{ServiceNumber: rec.ServiceNumber, ClientID: rec.ClientID}
		if err := r.memCRUD.Create(ctx, &rival); err != nil {
			return err
		}
	}
	return r.memCRUD.Create(ctx, rec)
}

func (r *memServiceRecords) LatestServiceNumber(_ context.Context, prefix string) (string, error) {
	if r.latestErr != nil {
		return "", r.latestErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	latest := ""
	for _, d := range r.docs {
		n := d.ServiceNumber
		if strings.HasPrefix(n, prefix+"-") && len(n) == len(prefix)+5 && n > latest {
			latest = n
		}
	}
	return latest, nil
}

func (r *memServiceRecords) ServiceTypes(_ context.Context) ([]string, error) {
	if r.types != nil {
		return r.types, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[string]bool{}
	out := []string{}
	for _, d := range r.docs {
		if !seen[d.ServiceType] {
			seen[d.ServiceType] = true
			out = append(out, d.ServiceType)
		}
	}
	return out, nil
}

type memServiceRequests struct {
	*memCRUD[models.ServiceRequest, *models.ServiceRequest]
}

func (r *memServiceRequests) FindByPreferredDate(_ context.Context, date string) ([]models.ServiceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.ServiceRequest{}
	for _, d := range r.all() {
		if d.PreferredDate == date {
			out = append(out, d)
		}
	}
	return out, nil
}

type memUsers struct {
	*memCRUD[models.User, *models.User]
}

func (r *memUsers) FindByPhone(_ context.Context, phone string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.docs {
		if u.Phone == phone {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

type memExpenses struct {
	*memCRUD[models.Expense, *models.Expense]
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func (r *memExpenses) Find(_ context.Context, f repository.ExpenseFilter) ([]models.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := []models.Expense{}
	for _, e := range r.all() {
		switch {
		case f.Category != "" && !containsFold(e.Category, f.Category):
		case f.Description != "" && !containsFold(e.Description, f.Description):
		case f.MinAmount != nil && e.Amount < *f.MinAmount:
		case f.MaxAmount != nil && e.Amount > *f.MaxAmount:
		case f.StartDate != nil && e.ExpenseDate.Before(*f.StartDate):
		case f.EndDate != nil && e.ExpenseDate.After(*f.EndDate):
		default:
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ExpenseDate.After(out[j].ExpenseDate) })
	return out, nil
}

func (r *memExpenses) FindPage(ctx context.Context, f repository.ExpenseFilter, p repository.ExpensePage) ([]models.Expense, int64, error) {
	all, err := r.Find(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	less := func(i, j int) bool {
		switch p.SortBy {
		case repository.SortByAmount:
			return all[i].Amount < all[j].Amount
		case repository.SortByCategory:
			return all[i].Category < all[j].Category
		default:
			return all[i].ExpenseDate.Before(all[j].ExpenseDate)
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		if p.Desc {
			return less(j, i)
		}
		return less(i, j)
	})
	start := (p.Page - 1) * p.Limit
	if start > len(all) {
		start = len(all)
	}
	end := start + p.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], int64(len(all)), nil
}

func (r *memExpenses) Sum(ctx context.Context, f repository.ExpenseFilter) (float64, error) {
	all, err := r.Find(ctx, f)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, e := range all {
		total += e.Amount
	}
	return models.RoundMoney(total), nil
}

func (r *memExpenses) Categories(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[string]bool{}
	out := []string{}
	for _, e := range r.all() {
		if !seen[e.Category] {
			seen[e.Category] = true
			out = append(out, e.Category)
		}
	}
	return out, nil
}

func (r *memExpenses) DeleteMany(_ context.Context, ids []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range ids {
		if _, ok := r.docs[id]; ok {
			delete(r.docs, id)
			n++
		}
	}
	return n, nil
}

type fakeRepos struct {
	*repository.Repositories
	clients     *memCRUD[models.Client, *models.Client]
	technicians *memCRUD[models.Technician, *models.Technician]
	services    *memServiceRecords
	parts       *memCRUD[models.Part, *models.Part]
	payments    *memCRUD[models.Payment, *models.Payment]
	feedback    *memCRUD[models.Feedback, *models.Feedback]
	projects    *memCRUD[models.Project, *models.Project]
	requests    *memServiceRequests
	expenses    *memExpenses
	users       *memUsers
}

func newFakeRepos() *fakeRepos {
	f := &fakeRepos{
		clients:     newMemCRUD[models.Client](),
		technicians: newMemCRUD[models.Technician](),
		services:    newMemServiceRecords(),
		parts:       newMemCRUD[models.Part](),
		payments:    newMemCRUD[models.Payment](),
		feedback:    newMemCRUD[models.Feedback](),
		projects:    newMemCRUD[models.Project](),
		requests:    &memServiceRequests{newMemCRUD[models.ServiceRequest]()},
		expenses:    &memExpenses{newMemCRUD[models.Expense]()},
		users:       &memUsers{newMemCRUD[models.User]()},
	}
	f.clients.unique = func(c *models.Client) string { return c.Email }
	f.technicians.unique = func(t *models.Technician) string { return t.Email }
	f.users.unique = func(u *models.User) string { return u.Phone }
	f.Repositories = &repository.Repositories{
		Clients:         f.clients,
		Technicians:     f.technicians,
		Services:        f.services,
		Parts:           f.parts,
		Payments:        f.payments,
		Feedback:        f.feedback,
		Projects:        f.projects,
		ServiceRequests: f.requests,
		Expenses:        f.expenses,
		Users:           f.users,
	}
	return f
}
