package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"ReviewHound/internal/domain"
	"ReviewHound/internal/ports"
)

// PostgresStore implements the persistence boundary over Postgres.
type PostgresStore struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

var _ ports.ReviewStore = (*PostgresStore)(nil)

// NewPostgresStore wires a sql.DB implementation.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// ListBusinesses returns every tracked business with its source locators.
func (s *PostgresStore) ListBusinesses(ctx context.Context) ([]domain.Business, error) {
	query := s.sb.
		Select("id", "name", "address", "trustpilot_url", "yelp_url", "bbb_url").
		From("businesses").
		OrderBy("id")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query businesses: %w", err)
	}
	defer rows.Close()

	var businesses []domain.Business
	for rows.Next() {
		business, err := scanBusiness(rows)
		if err != nil {
			return nil, err
		}
		businesses = append(businesses, business)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return businesses, nil
}

// GetBusiness loads one business by id.
func (s *PostgresStore) GetBusiness(ctx context.Context, id int64) (domain.Business, error) {
	query := s.sb.
		Select("id", "name", "address", "trustpilot_url", "yelp_url", "bbb_url").
		From("businesses").
		Where(sq.Eq{"id": id})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return domain.Business{}, fmt.Errorf("build query: %w", err)
	}

	business, err := scanBusiness(s.db.QueryRowContext(ctx, sqlStr, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Business{}, fmt.Errorf("business %d not found", id)
	}
	if err != nil {
		return domain.Business{}, err
	}

	return business, nil
}

// FindReview looks a review up by its dedup key; nil means absent.
func (s *PostgresStore) FindReview(ctx context.Context, businessID int64, source domain.Source, externalID string) (*domain.Review, error) {
	query := s.sb.
		Select("author_name", "rating", "text", "review_date", "sentiment_score", "sentiment_label", "ingested_at").
		From("reviews").
		Where(sq.Eq{"business_id": businessID, "source": source, "external_id": externalID})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	review := domain.Review{
		BusinessID: businessID,
		Source:     source,
		ExternalID: externalID,
	}
	err = s.db.QueryRowContext(ctx, sqlStr, args...).Scan(
		&review.AuthorName,
		&review.Rating,
		&review.Text,
		&review.ReviewDate,
		&review.SentimentScore,
		&review.SentimentLabel,
		&review.IngestedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query review: %w", err)
	}

	return &review, nil
}

// UpsertReview writes one review atomically: insert on a fresh dedup key,
// update of all normalized and derived fields on conflict. The original
// ingestion timestamp survives updates.
func (s *PostgresStore) UpsertReview(ctx context.Context, review domain.Review) (ports.UpsertOutcome, error) {
	query := s.sb.
		Insert("reviews").
		Columns("business_id", "source", "external_id", "author_name", "rating",
			"text", "review_date", "sentiment_score", "sentiment_label", "ingested_at").
		Values(review.BusinessID, review.Source, review.ExternalID, review.AuthorName, review.Rating,
			review.Text, review.ReviewDate, review.SentimentScore, review.SentimentLabel, review.IngestedAt).
		Suffix(`ON CONFLICT (business_id, source, external_id) DO UPDATE
            SET author_name = EXCLUDED.author_name,
                rating = EXCLUDED.rating,
                text = EXCLUDED.text,
                review_date = EXCLUDED.review_date,
                sentiment_score = EXCLUDED.sentiment_score,
                sentiment_label = EXCLUDED.sentiment_label
            RETURNING (xmax = 0) AS inserted`)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return ports.UpsertInserted, fmt.Errorf("build query: %w", err)
	}

	var inserted bool
	if err := s.db.QueryRowContext(ctx, sqlStr, args...).Scan(&inserted); err != nil {
		return ports.UpsertInserted, fmt.Errorf("upsert review: %w", err)
	}

	if inserted {
		return ports.UpsertInserted, nil
	}
	return ports.UpsertUpdated, nil
}

// InsertScrapeLog appends one audit entry.
func (s *PostgresStore) InsertScrapeLog(ctx context.Context, entry domain.ScrapeLog) error {
	query := s.sb.
		Insert("scrape_logs").
		Columns("run_id", "business_id", "source", "status", "reviews_found",
			"error_message", "started_at", "completed_at").
		Values(entry.RunID, entry.BusinessID, entry.Source, entry.Status, entry.ReviewsFound,
			nullable(entry.ErrorMessage), entry.StartedAt, entry.CompletedAt)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("insert scrape log: %w", err)
	}

	return nil
}

// ListAlertConfigs returns every alert config for a business, enabled or not.
func (s *PostgresStore) ListAlertConfigs(ctx context.Context, businessID int64) ([]domain.AlertConfig, error) {
	query := s.sb.
		Select("id", "business_id", "target", "enabled", "rating_threshold", "alert_on_negative").
		From("alert_configs").
		Where(sq.Eq{"business_id": businessID}).
		OrderBy("id")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query alert configs: %w", err)
	}
	defer rows.Close()

	var configs []domain.AlertConfig
	for rows.Next() {
		var cfg domain.AlertConfig
		if err := rows.Scan(&cfg.ID, &cfg.BusinessID, &cfg.Target, &cfg.Enabled,
			&cfg.RatingThreshold, &cfg.AlertOnNegative); err != nil {
			return nil, fmt.Errorf("scan alert config: %w", err)
		}
		configs = append(configs, cfg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return configs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBusiness(row rowScanner) (domain.Business, error) {
	var (
		business            domain.Business
		address             sql.NullString
		trustpilot, yelp, b sql.NullString
	)
	if err := row.Scan(&business.ID, &business.Name, &address, &trustpilot, &yelp, &b); err != nil {
		return domain.Business{}, err
	}

	business.Address = address.String
	business.Locators = map[domain.Source]string{}
	if trustpilot.String != "" {
		business.Locators[domain.SourceTrustPilot] = trustpilot.String
	}
	if yelp.String != "" {
		business.Locators[domain.SourceYelp] = yelp.String
	}
	if b.String != "" {
		business.Locators[domain.SourceBBB] = b.String
	}

	return business, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
