package expenseHandler

import (
	"errors"
	"io"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"

	"github.com/tatyana-kutkina/finance-bot/internal/api/expense"
	contextPkg "github.com/tatyana-kutkina/finance-bot/pkg/context"
	"github.com/tatyana-kutkina/finance-bot/pkg/handlerUtil"
	"github.com/tatyana-kutkina/finance-bot/pkg/log"
)

// ProcessTurn accepts one user turn: JSON {"text": ...} or a multipart form
// with an "audio" file. The JSON reply carries the raw turn outcome; wording
// anything for the end user is the chat layer's job.
func (h *ExpenseHandler) ProcessTurn(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 90*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	externalID := ctx.Params("external_id")
	if externalID == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("external user id is required"), ctx.Path())
	}

	h.log.WithFields(log.Fields{
		"request_id":  requestID,
		"external_id": externalID,
		"path":        ctx.Path(),
	}).Debug("Processing expense turn")

	input, err := h.buildTurnInput(ctx)
	if err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	outcome, err := h.expenseService.HandleUserTurn(c, externalID, input)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "process_turn")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, outcome)
	}
}

func (h *ExpenseHandler) buildTurnInput(ctx *fiber.Ctx) (expense.TurnInput, error) {
	audioFile, err := ctx.FormFile("audio")
	if err == nil && audioFile != nil {
		file, openErr := audioFile.Open()
		if openErr != nil {
			return expense.TurnInput{}, openErr
		}
		defer file.Close()

		data, readErr := io.ReadAll(file)
		if readErr != nil {
			return expense.TurnInput{}, readErr
		}

		return expense.TurnInput{
			Audio:         data,
			AudioFilename: audioFile.Filename,
		}, nil
	}

	var req expense.ProcessTurnRequest
	if parseErr := ctx.BodyParser(&req); parseErr != nil {
		return expense.TurnInput{}, errors.New("text body or audio file is required")
	}
	if validateErr := h.validator.Struct(req); validateErr != nil {
		return expense.TurnInput{}, validateErr
	}
	if req.Text == "" {
		return expense.TurnInput{}, errors.New("text body or audio file is required")
	}

	return expense.TurnInput{Text: req.Text}, nil
}

func (h *ExpenseHandler) GetTransactions(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	externalID := ctx.Params("external_id")
	if externalID == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("external user id is required"), ctx.Path())
	}

	page, err := strconv.Atoi(ctx.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(ctx.Query("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}

	list, err := h.expenseService.GetTransactions(c, externalID, page, limit)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_transactions")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, list)
	}
}

func (h *ExpenseHandler) GetWeekStats(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	externalID := ctx.Params("external_id")
	if externalID == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("external user id is required"), ctx.Path())
	}

	baseDate := time.Now()
	if raw := ctx.Query("base_date"); raw != "" {
		parsed, parseErr := time.Parse("2006-01-02", raw)
		if parseErr != nil {
			return errHandler.HandleValidationError(ctx, requestID,
				errors.New("base_date must be YYYY-MM-DD"), ctx.Path())
		}
		baseDate = parsed
	}

	stats, err := h.expenseService.GetWeekStats(c, externalID, baseDate)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_week_stats")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, stats)
	}
}
