package expenseHandler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	expenseService "github.com/tatyana-kutkina/finance-bot/internal/api/expense/service"
	"github.com/tatyana-kutkina/finance-bot/internal/middleware"
)

type ExpenseHandler struct {
	log            *logrus.Logger
	validator      *validator.Validate
	middleware     middleware.Middleware
	expenseService expenseService.IExpenseService
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	expenseService expenseService.IExpenseService,
) *ExpenseHandler {
	return &ExpenseHandler{
		log:            log,
		validator:      validator,
		middleware:     middleware,
		expenseService: expenseService,
	}
}

func (h *ExpenseHandler) Start(srv fiber.Router) {
	expenses := srv.Group("/users/:external_id/expenses")
	expenses.Use(h.middleware.NewRateLimiter)

	expenses.Post("/turns", h.ProcessTurn)
	expenses.Get("/", h.GetTransactions)
	expenses.Get("/stats/week", h.GetWeekStats)
}
