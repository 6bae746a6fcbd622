package expenseRepository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/tatyana-kutkina/finance-bot/internal/api/expense"
	"github.com/tatyana-kutkina/finance-bot/internal/entity"
	contextPkg "github.com/tatyana-kutkina/finance-bot/pkg/context"
)

type UserDB struct {
	ID           sql.NullString `db:"id"`
	ExternalID   sql.NullString `db:"external_id"`
	RegisteredAt time.Time      `db:"registered_at"`
	Settings     sql.NullString `db:"settings"`
}

func (r *userRepository) CreateUser(ctx context.Context, user entity.User) error {
	requestID := contextPkg.GetRequestID(ctx)

	var settingsJSON interface{}
	if user.Settings != nil {
		raw, err := json.Marshal(user.Settings)
		if err != nil {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("Failed to marshal user settings")
			return err
		}
		settingsJSON = string(raw)
	}

	argsKV := map[string]interface{}{
		"id":            user.ID,
		"external_id":   user.ExternalID,
		"registered_at": user.RegisteredAt,
		"settings":      settingsJSON,
	}

	query, args, err := sqlx.Named(queryCreateUser, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreateUser named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	if _, err = r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating user")
		return err
	}

	return nil
}

func (r *userRepository) GetUserByExternalID(ctx context.Context, externalID string) (entity.User, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var userDB UserDB

	argsKV := map[string]interface{}{
		"external_id": externalID,
	}

	query, args, err := sqlx.Named(queryGetUserByExternalID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetUserByExternalID named query preparation err")
		return entity.User{}, err
	}
	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&userDB); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.User{}, expense.ErrUserNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetUserByExternalID execution err")
		return entity.User{}, err
	}

	return r.makeUser(userDB), nil
}

func (r *userRepository) makeUser(userDB UserDB) entity.User {
	var settings map[string]interface{}
	if userDB.Settings.Valid && userDB.Settings.String != "" {
		json.Unmarshal([]byte(userDB.Settings.String), &settings)
	}

	return entity.User{
		ID:           userDB.ID.String,
		ExternalID:   userDB.ExternalID.String,
		RegisteredAt: userDB.RegisteredAt,
		Settings:     settings,
	}
}
