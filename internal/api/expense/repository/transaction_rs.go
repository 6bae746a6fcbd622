package expenseRepository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/tatyana-kutkina/finance-bot/internal/entity"
	contextPkg "github.com/tatyana-kutkina/finance-bot/pkg/context"
)

type TransactionDB struct {
	ID         sql.NullString  `db:"id"`
	UserID     sql.NullString  `db:"user_id"`
	Amount     decimal.Decimal `db:"amount"`
	Category   sql.NullString  `db:"category"`
	Currency   sql.NullString  `db:"currency"`
	RawText    sql.NullString  `db:"raw_text"`
	OccurredOn time.Time       `db:"occurred_on"`
	CreatedAt  time.Time       `db:"created_at"`
}

type CategoryTotal struct {
	Category string          `db:"category"`
	Total    decimal.Decimal `db:"total"`
}

func (r *transactionRepository) CreateTransaction(ctx context.Context, tx entity.Transaction) error {
	requestID := contextPkg.GetRequestID(ctx)

	var rawText interface{}
	if tx.RawText != "" {
		rawText = tx.RawText
	}

	argsKV := map[string]interface{}{
		"id":          tx.ID,
		"user_id":     tx.UserID,
		"amount":      tx.Amount,
		"category":    tx.Category,
		"currency":    tx.Currency,
		"raw_text":    rawText,
		"occurred_on": tx.OccurredOn,
		"created_at":  tx.CreatedAt,
	}

	query, args, err := sqlx.Named(queryCreateTransaction, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreateTransaction named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	if _, err = r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating transaction")
		return err
	}

	return nil
}

func (r *transactionRepository) GetTransactionsByUserID(ctx context.Context, userID string, limit, offset int) ([]entity.Transaction, int, error) {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"user_id": userID,
		"limit":   limit,
		"offset":  offset,
	}

	query, args, err := sqlx.Named(queryGetTransactionsByUserID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetTransactionsByUserID named query preparation err")
		return nil, 0, err
	}
	query = r.q.Rebind(query)

	var rows []TransactionDB
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetTransactionsByUserID execution err")
		return nil, 0, err
	}

	countQuery, countArgs, err := sqlx.Named(queryCountTransactionsByUserID, map[string]interface{}{
		"user_id": userID,
	})
	if err != nil {
		return nil, 0, err
	}
	countQuery = r.q.Rebind(countQuery)

	var total int
	if err := r.q.QueryRowxContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetTransactionsByUserID count err")
		return nil, 0, err
	}

	transactions := make([]entity.Transaction, 0, len(rows))
	for _, row := range rows {
		transactions = append(transactions, r.makeTransaction(row))
	}

	return transactions, total, nil
}

func (r *transactionRepository) GetWeeklyCategoryTotals(ctx context.Context, userID string, from, to time.Time) ([]CategoryTotal, error) {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"user_id":   userID,
		"from_date": from,
		"to_date":   to,
	}

	query, args, err := sqlx.Named(queryGetWeeklyCategoryTotals, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetWeeklyCategoryTotals named query preparation err")
		return nil, err
	}
	query = r.q.Rebind(query)

	var totals []CategoryTotal
	if err := r.q.SelectContext(ctx, &totals, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetWeeklyCategoryTotals execution err")
		return nil, err
	}

	return totals, nil
}

func (r *transactionRepository) makeTransaction(row TransactionDB) entity.Transaction {
	return entity.Transaction{
		ID:         row.ID.String,
		UserID:     row.UserID.String,
		Amount:     row.Amount,
		Category:   row.Category.String,
		Currency:   row.Currency.String,
		RawText:    row.RawText.String,
		OccurredOn: row.OccurredOn,
		CreatedAt:  row.CreatedAt,
	}
}
