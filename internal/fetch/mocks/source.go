package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/vburojevic/pcx/internal/domain"
)

// Source is a mock for fetch.Source.
type Source struct {
	mock.Mock
}

func (m *Source) Experiments(ctx context.Context) ([]domain.Experiment, error) {
	args := m.Called(ctx)
	if exps, ok := args.Get(0).([]domain.Experiment); ok {
		return exps, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Source) Subjects(ctx context.Context) ([]domain.Subject, error) {
	args := m.Called(ctx)
	if subs, ok := args.Get(0).([]domain.Subject); ok {
		return subs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Source) SessionsByExperiment(ctx context.Context, title string, mode domain.FetchMode) ([]domain.Session, error) {
	args := m.Called(ctx, title, mode)
	if sessions, ok := args.Get(0).([]domain.Session); ok {
		return sessions, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Source) SessionsBySubject(ctx context.Context, name string, mode domain.FetchMode) ([]domain.Session, error) {
	args := m.Called(ctx, name, mode)
	if sessions, ok := args.Get(0).([]domain.Session); ok {
		return sessions, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Source) SessionByID(ctx context.Context, id string, mode domain.FetchMode) (domain.SessionDetail, error) {
	args := m.Called(ctx, id, mode)
	if detail, ok := args.Get(0).(domain.SessionDetail); ok {
		return detail, args.Error(1)
	}
	return nil, args.Error(1)
}
