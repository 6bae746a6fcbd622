package expenseService

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tatyana-kutkina/finance-bot/internal/api/expense"
	expenseRepository "github.com/tatyana-kutkina/finance-bot/internal/api/expense/repository"
	"github.com/tatyana-kutkina/finance-bot/internal/api/expense/store"
	"github.com/tatyana-kutkina/finance-bot/internal/entity"
	"github.com/tatyana-kutkina/finance-bot/pkg/utils"
)

type chatReply struct {
	raw string
	err error
}

type fakeChat struct {
	replies []chatReply
	prompts []string
	inputs  []string
}

func (f *fakeChat) CompleteJSON(_ context.Context, systemPrompt, userMessage string) (string, error) {
	f.prompts = append(f.prompts, systemPrompt)
	f.inputs = append(f.inputs, userMessage)

	if len(f.replies) == 0 {
		return "", errors.New("no scripted reply left")
	}
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return reply.raw, reply.err
}

type fakeTranscriber struct {
	transcript string
	err        error
	calls      int
}

func (f *fakeTranscriber) TranscribeAudio(_ context.Context, _ []byte, _ string) (string, error) {
	f.calls++
	return f.transcript, f.err
}

type fakeUserRepo struct {
	users   map[string]entity.User
	created []entity.User
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user entity.User) error {
	f.created = append(f.created, user)
	f.users[user.ExternalID] = user
	return nil
}

func (f *fakeUserRepo) GetUserByExternalID(_ context.Context, externalID string) (entity.User, error) {
	user, ok := f.users[externalID]
	if !ok {
		return entity.User{}, expense.ErrUserNotFound
	}
	return user, nil
}

type fakeTransactionRepo struct {
	failInserts  int
	attemptedIDs []string
	inserted     []entity.Transaction

	transactions []entity.Transaction
	total        int
	lastLimit    int
	lastOffset   int

	totals    []expenseRepository.CategoryTotal
	statsFrom time.Time
	statsTo   time.Time
}

func (f *fakeTransactionRepo) CreateTransaction(_ context.Context, tx entity.Transaction) error {
	f.attemptedIDs = append(f.attemptedIDs, tx.ID)
	if f.failInserts > 0 {
		f.failInserts--
		return errors.New("connection refused")
	}
	f.inserted = append(f.inserted, tx)
	return nil
}

func (f *fakeTransactionRepo) GetTransactionsByUserID(_ context.Context, _ string, limit, offset int) ([]entity.Transaction, int, error) {
	f.lastLimit = limit
	f.lastOffset = offset
	return f.transactions, f.total, nil
}

func (f *fakeTransactionRepo) GetWeeklyCategoryTotals(_ context.Context, _ string, from, to time.Time) ([]expenseRepository.CategoryTotal, error) {
	f.statsFrom = from
	f.statsTo = to
	return f.totals, nil
}

type fakeRepository struct {
	users        *fakeUserRepo
	transactions *fakeTransactionRepo
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		users:        &fakeUserRepo{users: make(map[string]entity.User)},
		transactions: &fakeTransactionRepo{},
	}
}

func (f *fakeRepository) NewClient(_ bool) (expenseRepository.Client, error) {
	return expenseRepository.Client{
		Users:        f.users,
		Transactions: f.transactions,
		Commit:       func() error { return nil },
		Rollback:     func() error { return nil },
	}, nil
}

func testConfig() *Config {
	return &Config{
		DefaultCurrency:   "RUB",
		MaxClarifications: 3,
		ParseRetries:      2,
		CompletionTimeout: time.Second,
		DialogStateTTL:    time.Hour,
	}
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestService(chat *fakeChat, repo *fakeRepository, transcriber *fakeTranscriber) (*expenseService, *store.MemoryStore) {
	dialogStore := store.NewMemoryStore()
	svc := &expenseService{
		log:         testLogger(),
		expenseRepo: repo,
		dialogStore: dialogStore,
		chat:        chat,
		transcriber: transcriber,
		utils:       utils.New(),
		cfg:         testConfig(),
	}
	return svc, dialogStore
}
