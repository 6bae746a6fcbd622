package expenseRepository

const (
	queryCreateUser = `
		INSERT INTO users (
			id, external_id, registered_at, settings
		) VALUES (
			:id, :external_id, :registered_at, :settings
		)
	`

	queryGetUserByExternalID = `
		SELECT
			id, external_id, registered_at, settings
		FROM users
		WHERE external_id = :external_id
	`

	queryCreateTransaction = `
		INSERT INTO transactions (
			id, user_id, amount, category, currency,
			raw_text, occurred_on, created_at
		) VALUES (
			:id, :user_id, :amount, :category, :currency,
			:raw_text, :occurred_on, :created_at
		)
	`

	queryGetTransactionsByUserID = `
		SELECT
			id, user_id, amount, category, currency,
			raw_text, occurred_on, created_at
		FROM transactions
		WHERE user_id = :user_id
		ORDER BY occurred_on DESC, created_at DESC
		LIMIT :limit OFFSET :offset
	`

	queryCountTransactionsByUserID = `
		SELECT COUNT(*)
		FROM transactions
		WHERE user_id = :user_id
	`

	queryGetWeeklyCategoryTotals = `
		SELECT
			category,
			SUM(amount) AS total
		FROM transactions
		WHERE user_id = :user_id
		AND occurred_on >= :from_date
		AND occurred_on <= :to_date
		GROUP BY category
		ORDER BY SUM(amount) DESC
	`
)
