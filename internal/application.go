package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-console/internal/config"
	"github.com/rocketscienceinc/tictactoe-console/internal/entity"
	"github.com/rocketscienceinc/tictactoe-console/internal/repository"
	"github.com/rocketscienceinc/tictactoe-console/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-console/internal/service"
	"github.com/rocketscienceinc/tictactoe-console/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-console/internal/transport/console"
)

// RunApp - wires the layers together and plays one game on stdin/stdout.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// after the first signal the default handlers are restored, so a second one
	// terminates the process even if something is still blocked
	go func() {
		<-ctx.Done()
		stop()
	}()

	reader, err := console.NewStdinReader(os.Stdout)
	if err != nil {
		return fmt.Errorf("could not open console input: %w", err)
	}

	defer func() {
		if err = reader.Close(); err != nil {
			logger.Error("could not close console input", "error", err)
		}
	}()

	return Play(ctx, logger, conf, reader, os.Stdout)
}

// Play - builds repository, service, controller and presenter, then runs the game.
func Play(ctx context.Context, logger *slog.Logger, conf *config.Config, reader console.LineReader, output io.Writer) error {
	log := logger.With("component", "app")

	gameRepo, closeRepo, err := newGameRepository(ctx, logger, conf)
	if err != nil {
		return err
	}
	defer closeRepo()

	firstPlayer, err := entity.ParseMark(conf.FirstPlayer)
	if err != nil {
		return fmt.Errorf("invalid first player: %w", err)
	}

	gameService := service.NewGameService(logger, gameRepo)
	gameController := tictactoe.NewGameController(gameService)
	presenter := console.NewPresenter(logger, gameController, reader, output, console.Options{
		FirstPlayer:   firstPlayer,
		OneBasedInput: conf.OneBasedInput,
	})

	log.Info("starting game", "storage", conf.Storage)

	if err = presenter.StartGame(ctx); err != nil {
		return fmt.Errorf("game stopped: %w", err)
	}

	return nil
}

func newGameRepository(ctx context.Context, logger *slog.Logger, conf *config.Config) (repository.GameRepository, func(), error) {
	log := logger.With("component", "app")

	if conf.Storage != config.StorageRedis {
		return repository.NewMemoryRepository(), func() {}, nil
	}

	redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	sessionID := uuid.NewString()
	log.Info("using redis storage", "addr", conf.Redis.GetRedisAddr(), "session", sessionID)

	closeRepo := func() {
		if err := redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}

	return repository.NewRedisRepository(redisStorage.Connection, sessionID, conf.Redis.TTL), closeRepo, nil
}
