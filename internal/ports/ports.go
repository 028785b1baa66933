package ports

import (
	"context"
	"time"

	"ReviewHound/internal/domain"
)

// UpsertOutcome tells the engine whether an upsert created a new row.
type UpsertOutcome int

const (
	UpsertInserted UpsertOutcome = iota
	UpsertUpdated
)

// ReviewStore is the persistence boundary; the schema and engine behind it
// are the collaborator's concern.
type ReviewStore interface {
	ListBusinesses(ctx context.Context) ([]domain.Business, error)
	GetBusiness(ctx context.Context, id int64) (domain.Business, error)
	FindReview(ctx context.Context, businessID int64, source domain.Source, externalID string) (*domain.Review, error)
	UpsertReview(ctx context.Context, review domain.Review) (UpsertOutcome, error)
	InsertScrapeLog(ctx context.Context, entry domain.ScrapeLog) error
	ListAlertConfigs(ctx context.Context, businessID int64) ([]domain.AlertConfig, error)
}

// Notifier hands an alert event to the external notification transport.
// Delivery retry, if any, is the transport's concern.
type Notifier interface {
	Notify(ctx context.Context, event domain.AlertEvent) error
}

// Trigger drives recurring ingestion runs; the core has no opinion on timers.
type Trigger interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
