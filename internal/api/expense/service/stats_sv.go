package expenseService

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tatyana-kutkina/finance-bot/internal/api/expense"
	contextPkg "github.com/tatyana-kutkina/finance-bot/pkg/context"
)

func (s *expenseService) GetTransactions(ctx context.Context, externalUserID string, page, limit int) (*expense.TransactionListResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.expenseRepo.NewClient(false)
	if err != nil {
		return nil, err
	}

	user, err := repo.Users.GetUserByExternalID(ctx, externalUserID)
	if err != nil {
		return nil, err
	}

	offset := (page - 1) * limit
	transactions, total, err := repo.Transactions.GetTransactionsByUserID(ctx, user.ID, limit, offset)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"user_id":    user.ID,
			"error":      err.Error(),
		}).Error("Failed to list transactions")
		return nil, err
	}

	return &expense.TransactionListResponse{
		Transactions: transactions,
		Total:        total,
	}, nil
}

// GetWeekStats returns per-category totals for the seven days ending at
// baseDate, most expensive category first.
func (s *expenseService) GetWeekStats(ctx context.Context, externalUserID string, baseDate time.Time) (*expense.WeeklyStatsResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.expenseRepo.NewClient(false)
	if err != nil {
		return nil, err
	}

	user, err := repo.Users.GetUserByExternalID(ctx, externalUserID)
	if err != nil {
		return nil, err
	}

	to := time.Date(baseDate.Year(), baseDate.Month(), baseDate.Day(), 0, 0, 0, 0, time.UTC)
	from := to.AddDate(0, 0, -6)

	totals, err := repo.Transactions.GetWeeklyCategoryTotals(ctx, user.ID, from, to)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"user_id":    user.ID,
			"error":      err.Error(),
		}).Error("Failed to aggregate weekly stats")
		return nil, err
	}

	stats := make([]expense.WeeklyCategoryStat, 0, len(totals))
	for _, total := range totals {
		stats = append(stats, expense.WeeklyCategoryStat{
			Category: total.Category,
			Total:    total.Total.StringFixed(2),
		})
	}

	return &expense.WeeklyStatsResponse{
		From:  from.Format("2006-01-02"),
		To:    to.Format("2006-01-02"),
		Stats: stats,
	}, nil
}
