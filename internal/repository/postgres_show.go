package repository

import (
	"context"
	"errors"
	"time"

	"github.com/cinetix/movie-ticketing/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresShowRepository struct {
	db *pgxpool.Pool
}

func NewPostgresShowRepository(db *pgxpool.Pool) *PostgresShowRepository {
	return &PostgresShowRepository{
		db: db,
	}
}

// GetMovies lists the distinct screen names that have at least one show.
// A screen plays a single movie, so the screen name doubles as the title.
func (p *PostgresShowRepository) GetMovies(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT s.name
		FROM shows sh
		JOIN screens s ON sh.screen_id = s.id
		ORDER BY s.name
	`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := make([]string, 0)

	for rows.Next() {
		var name string

		err = rows.Scan(&name)
		if err != nil {
			return nil, err
		}

		movies = append(movies, name)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return movies, nil
}

func (p *PostgresShowRepository) GetDatesByMovie(ctx context.Context, movie string) ([]time.Time, error) {
	query := `
		SELECT DISTINCT sh.start_time::date
		FROM shows sh
		JOIN screens s ON sh.screen_id = s.id
		WHERE s.name = $1
		ORDER BY sh.start_time::date
	`

	rows, err := p.db.Query(ctx, query, movie)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dates := make([]time.Time, 0)

	for rows.Next() {
		var date time.Time

		err = rows.Scan(&date)
		if err != nil {
			return nil, err
		}

		dates = append(dates, date)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return dates, nil
}

func (p *PostgresShowRepository) GetShowsByMovieAndDate(
	ctx context.Context,
	movie string,
	date time.Time) ([]domain.ShowDetails, error) {

	query := `
		SELECT sh.id, sh.screen_id, sh.start_time, sh.base_price, s.name, s.seat_rows, s.seat_cols
		FROM shows sh
		JOIN screens s ON sh.screen_id = s.id
		WHERE s.name = $1 AND sh.start_time::date = $2::date
		ORDER BY sh.start_time
	`

	rows, err := p.db.Query(ctx, query, movie, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shows := make([]domain.ShowDetails, 0)

	for rows.Next() {
		var show domain.ShowDetails

		err = rows.Scan(
			&show.ID,
			&show.ScreenID,
			&show.StartTime,
			&show.BasePrice,
			&show.ScreenName,
			&show.Rows,
			&show.Cols,
		)
		if err != nil {
			return nil, err
		}

		shows = append(shows, show)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return shows, nil
}

func (p *PostgresShowRepository) GetShowById(ctx context.Context, id int) (*domain.ShowDetails, error) {
	query := `
		SELECT sh.id, sh.screen_id, sh.start_time, sh.base_price, s.name, s.seat_rows, s.seat_cols
		FROM shows sh
		JOIN screens s ON sh.screen_id = s.id
		WHERE sh.id = $1
	`

	var show domain.ShowDetails

	err := p.db.QueryRow(ctx, query, id).Scan(
		&show.ID,
		&show.ScreenID,
		&show.StartTime,
		&show.BasePrice,
		&show.ScreenName,
		&show.Rows,
		&show.Cols,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &show, nil
}
