package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/tatyana-kutkina/finance-bot/database/postgres"
	expenseHandler "github.com/tatyana-kutkina/finance-bot/internal/api/expense/handler"
	expenseRepository "github.com/tatyana-kutkina/finance-bot/internal/api/expense/repository"
	expenseService "github.com/tatyana-kutkina/finance-bot/internal/api/expense/service"
	"github.com/tatyana-kutkina/finance-bot/internal/api/expense/store"
	"github.com/tatyana-kutkina/finance-bot/internal/middleware"
	"github.com/tatyana-kutkina/finance-bot/pkg/audio"
	chatPkg "github.com/tatyana-kutkina/finance-bot/pkg/openai"
	redisPkg "github.com/tatyana-kutkina/finance-bot/pkg/redis"
	"github.com/tatyana-kutkina/finance-bot/pkg/utils"
)

type ServerOption func(*Server) error

type Server struct {
	engine      *fiber.App
	db          *sqlx.DB
	log         *logrus.Logger
	middleware  middleware.Middleware
	validator   *validator.Validate
	utils       utils.IUtils
	handlers    []handler
	chatClient  chatPkg.IChatCompletion
	transcriber audio.ITranscription
	dialogStore store.DialogStore
	pipelineCfg *expenseService.Config
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithChatCompletion() ServerOption {
	return func(s *Server) error {
		s.chatClient = chatPkg.New()
		return nil
	}
}

func WithTranscription() ServerOption {
	return func(s *Server) error {
		s.transcriber = audio.NewTranscriptionService(os.Getenv("OPENAI_API_KEY"))
		return nil
	}
}

func WithPipelineConfig() ServerOption {
	return func(s *Server) error {
		cfg, err := expenseService.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load pipeline config: %w", err)
		}
		s.pipelineCfg = cfg
		return nil
	}
}

// WithDialogStore picks the state backing: Redis when REDIS_ADDRESS is set
// (shared across instances), otherwise the in-process map.
func WithDialogStore() ServerOption {
	return func(s *Server) error {
		if s.pipelineCfg == nil {
			return fmt.Errorf("pipeline config must be initialized before the dialog store")
		}

		if os.Getenv("REDIS_ADDRESS") != "" {
			s.dialogStore = store.NewRedisStore(redisPkg.New(), s.pipelineCfg.DialogStateTTL)
			return nil
		}

		s.dialogStore = store.NewMemoryStore()
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	expenseRepo := expenseRepository.New(s.db, s.log)
	expenseServices := expenseService.NewExpenseService(
		s.log, expenseRepo, s.dialogStore, s.chatClient, s.transcriber, s.utils, s.pipelineCfg,
	)
	expenseHandlers := expenseHandler.New(s.log, s.validator, s.middleware, expenseServices)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, expenseHandlers)
}

func (s *Server) Run() error {
	router := s.engine.Group("/api/v1")
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}
