package app

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/lexdrill/internal/adapter/httpapi"
	adapterrepo "github.com/eslsoft/lexdrill/internal/adapter/repository"
	"github.com/eslsoft/lexdrill/internal/infrastructure/config"
	"github.com/eslsoft/lexdrill/internal/infrastructure/database"
	"github.com/eslsoft/lexdrill/internal/infrastructure/server"
	"github.com/eslsoft/lexdrill/internal/repository"
	"github.com/eslsoft/lexdrill/internal/usecase"
)

// Container aggregates the application dependencies.
type Container struct {
	Config   *config.Config
	Logger   *logrus.Logger
	Words    repository.WordStore
	Progress *adapterrepo.SQLProgressStore
	Practice usecase.PracticeUsecase
	Server   *server.Server

	cleanup func()
}

// NewContainer wires the full application: dictionary, semantic graph,
// challenge factory, progress store and HTTP server.
func NewContainer(cfg *config.Config) (*Container, error) {
	logger, err := server.NewLogger(cfg)
	if err != nil {
		return nil, err
	}

	words, err := adapterrepo.NewJSONWordStore(cfg.Dictionary.Path)
	if err != nil {
		return nil, fmt.Errorf("load dictionary: %w", err)
	}
	logger.WithField("words", words.Len()).Info("dictionary loaded")

	db, cleanup, err := database.NewConnection(cfg)
	if err != nil {
		if cleanup != nil {
			cleanup()
		}
		return nil, err
	}
	progress := adapterrepo.NewSQLProgressStore(db, cfg.Database.Driver)

	seed := int64(cfg.Practice.Seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	graph := usecase.NewSemanticGraph(rng)
	graph.Build(words.Entries())

	verifier := usecase.NewAnswerVerifier(words)
	sentences := usecase.NewSentenceGenerator(words, graph, rng)
	factory := usecase.NewChallengeFactory(words, graph, sentences, verifier, rng).
		WithGlossLang(cfg.Dictionary.GlossLang)
	orchestrator := usecase.NewOrchestrator(words, graph, factory, rng, logger)
	practice := usecase.NewPracticeUsecase(progress, orchestrator, logger)

	handler := httpapi.NewHandler(practice, words, logger, cfg.Practice.UserLevel, cfg.Practice.SessionSize)
	srv := server.NewServer(cfg, logger, handler)

	return &Container{
		Config:   cfg,
		Logger:   logger,
		Words:    words,
		Progress: progress,
		Practice: practice,
		Server:   srv,
		cleanup:  cleanup,
	}, nil
}

// Close releases held resources.
func (c *Container) Close() {
	if c.cleanup != nil {
		c.cleanup()
	}
}
