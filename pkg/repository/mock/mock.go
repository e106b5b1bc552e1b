package mock

import (
	"context"
	"strings"

	"github.com/silvertalent/backend/internal/models"
	"github.com/silvertalent/backend/pkg/repository"
)

// Test helpers and mocks
type Mocks struct {
	JobRepo *JobRepo
	SubRepo *SubscriptionRepo
}

func NewMocks() *Mocks {
	return &Mocks{
		JobRepo: &JobRepo{},
		SubRepo: &SubscriptionRepo{},
	}
}

// JobRepo is an in-memory repository.JobRepo.
type JobRepo struct {
	Jobs      []models.Job
	nextID    int64
	CreateErr error
	ListErr   error
}

var _ repository.JobRepo = (*JobRepo)(nil)

func (m *JobRepo) CreateJob(ctx context.Context, j *models.Job) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	m.nextID++
	j.ID = m.nextID
	m.Jobs = append(m.Jobs, *j)
	return j.ID, nil
}

func (m *JobRepo) GetJobByID(ctx context.Context, id int64) (*models.Job, error) {
	for i := range m.Jobs {
		if m.Jobs[i].ID == id {
			j := m.Jobs[i]
			return &j, nil
		}
	}
	return nil, nil
}

func (m *JobRepo) UpdateJob(ctx context.Context, j *models.Job) error {
	for i := range m.Jobs {
		if m.Jobs[i].ID == j.ID {
			m.Jobs[i] = *j
		}
	}
	return nil
}

func (m *JobRepo) DeleteJob(ctx context.Context, id int64) error {
	out := m.Jobs[:0]
	for _, j := range m.Jobs {
		if j.ID != id {
			out = append(out, j)
		}
	}
	m.Jobs = out
	return nil
}

func (m *JobRepo) ListJobs(ctx context.Context, f repository.JobFilter) ([]models.Job, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Jobs, nil
}

func (m *JobRepo) CountJobs(ctx context.Context, f repository.JobFilter) (int64, error) {
	return int64(len(m.Jobs)), nil
}

func (m *JobRepo) ListJobsPostedSince(ctx context.Context, since int64) ([]models.Job, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	var out []models.Job
	for _, j := range m.Jobs {
		if j.PostedDate >= since {
			out = append(out, j)
		}
	}
	return out, nil
}

func (m *JobRepo) CompanyJobCounts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, j := range m.Jobs {
		counts[strings.ToLower(j.Company)]++
	}
	return counts, nil
}

// SubscriptionRepo is an in-memory repository.SubscriptionRepo.
type SubscriptionRepo struct {
	Subs    []models.Subscription
	nextID  int64
	ListErr error
}

var _ repository.SubscriptionRepo = (*SubscriptionRepo)(nil)

func (m *SubscriptionRepo) CreateSubscription(ctx context.Context, email string) (int64, error) {
	for _, s := range m.Subs {
		if s.Email == email {
			return 0, repository.ErrConflict
		}
	}
	m.nextID++
	m.Subs = append(m.Subs, models.Subscription{ID: m.nextID, Email: email})
	return m.nextID, nil
}

func (m *SubscriptionRepo) GetSubscriptionByEmail(ctx context.Context, email string) (*models.Subscription, error) {
	for i := range m.Subs {
		if m.Subs[i].Email == email {
			s := m.Subs[i]
			return &s, nil
		}
	}
	return nil, nil
}

func (m *SubscriptionRepo) ListSubscriptions(ctx context.Context) ([]models.Subscription, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Subs, nil
}

func (m *SubscriptionRepo) UpdateSubscription(ctx context.Context, id int64, email string) error {
	for _, s := range m.Subs {
		if s.Email == email && s.ID != id {
			return repository.ErrConflict
		}
	}
	for i := range m.Subs {
		if m.Subs[i].ID == id {
			m.Subs[i].Email = email
		}
	}
	return nil
}

func (m *SubscriptionRepo) DeleteSubscription(ctx context.Context, id int64) error {
	out := m.Subs[:0]
	for _, s := range m.Subs {
		if s.ID != id {
			out = append(out, s)
		}
	}
	m.Subs = out
	return nil
}
