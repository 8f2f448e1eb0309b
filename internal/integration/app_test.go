package integration_test

import (
	"log/slog"
	"os"

	"github.com/cinetix/movie-ticketing/internal/app"
	"github.com/cinetix/movie-ticketing/internal/mailer"
	"github.com/cinetix/movie-ticketing/internal/repository"
	appvalidator "github.com/cinetix/movie-ticketing/internal/validator"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TestApp struct {
	App    *app.Application
	DB     *pgxpool.Pool
	Mailer *mailer.MockMailer
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	validator := appvalidator.NewValidator()
	mockMailer := mailer.NewMockMailer()

	db, err := app.NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := app.NewRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	showRepo := repository.NewPostgresShowRepository(db)
	ticketRepo := repository.NewPostgresTicketRepository(db)

	application := app.NewApp(
		cfg,
		logger,
		db,
		redisClient,
		validator,
		mockMailer,
		showRepo,
		ticketRepo,
	)

	return &TestApp{
		App:    application,
		DB:     db,
		Mailer: mockMailer,
	}, nil
}
