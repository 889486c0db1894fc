package api

import (
	"time"

	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal"
	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal/config"
	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal/events"
	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal/service"
	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal/storage"
)

// App is what handlers need from the running server.
type App interface {
	Logger() internal.Logger
	Config() *config.Config
	SleepRepo() storage.SleepRecordRepository
	Diagnoser() service.Diagnoser
	Events() *events.Broker
	// RateCounter is nil when rate limiting is disabled.
	RateCounter() RateCounter
	Now() time.Time
}

type Application struct {
	logger    internal.Logger
	cfg       *config.Config
	repo      storage.SleepRecordRepository
	diagnoser service.Diagnoser
	broker    *events.Broker
	counter   RateCounter
	clock     func() time.Time
}

func NewApplication(cfg *config.Config, logger internal.Logger, repo storage.SleepRecordRepository, diagnoser service.Diagnoser, broker *events.Broker, counter RateCounter) *Application {
	return &Application{
		logger:    logger,
		cfg:       cfg,
		repo:      repo,
		diagnoser: diagnoser,
		broker:    broker,
		counter:   counter,
		clock:     time.Now,
	}
}

// WithClock replaces the wall clock. Used by tests.
func (a *Application) WithClock(clock func() time.Time) *Application {
	a.clock = clock
	return a
}

func (a *Application) Logger() internal.Logger                  { return a.logger }
func (a *Application) Config() *config.Config                   { return a.cfg }
func (a *Application) SleepRepo() storage.SleepRecordRepository { return a.repo }
func (a *Application) Diagnoser() service.Diagnoser             { return a.diagnoser }
func (a *Application) Events() *events.Broker                   { return a.broker }
func (a *Application) RateCounter() RateCounter                 { return a.counter }
func (a *Application) Now() time.Time                           { return a.clock().UTC() }

var _ App = (*Application)(nil)
