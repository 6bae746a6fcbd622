package expenseService

import (
	"context"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"

	"github.com/tatyana-kutkina/finance-bot/internal/api/expense"
	expenseRepository "github.com/tatyana-kutkina/finance-bot/internal/api/expense/repository"
	"github.com/tatyana-kutkina/finance-bot/internal/api/expense/store"
	"github.com/tatyana-kutkina/finance-bot/pkg/audio"
	chatPkg "github.com/tatyana-kutkina/finance-bot/pkg/openai"
	"github.com/tatyana-kutkina/finance-bot/pkg/utils"
)

type IExpenseService interface {
	HandleUserTurn(ctx context.Context, externalUserID string, input expense.TurnInput) (*expense.TurnOutcome, error)

	GetTransactions(ctx context.Context, externalUserID string, page, limit int) (*expense.TransactionListResponse, error)
	GetWeekStats(ctx context.Context, externalUserID string, baseDate time.Time) (*expense.WeeklyStatsResponse, error)
}

// Config bounds the pipeline. The clarification and parse-retry limits are
// deliberately configuration, not literals.
type Config struct {
	DefaultCurrency   string        `envconfig:"DEFAULT_CURRENCY" default:"RUB"`
	MaxClarifications int           `envconfig:"DIALOG_MAX_CLARIFICATIONS" default:"3"`
	ParseRetries      int           `envconfig:"EXTRACTION_PARSE_RETRIES" default:"2"`
	CompletionTimeout time.Duration `envconfig:"LLM_COMPLETION_TIMEOUT" default:"30s"`
	DialogStateTTL    time.Duration `envconfig:"DIALOG_STATE_TTL" default:"24h"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type expenseService struct {
	log         *logrus.Logger
	expenseRepo expenseRepository.Repository
	dialogStore store.DialogStore
	chat        chatPkg.IChatCompletion
	transcriber audio.ITranscription
	utils       utils.IUtils
	cfg         *Config

	// turnLocks serializes dialog steps per user so duplicate deliveries
	// cannot interleave a read-modify-write of the same state.
	turnLocks sync.Map
}

func NewExpenseService(
	log *logrus.Logger,
	expenseRepo expenseRepository.Repository,
	dialogStore store.DialogStore,
	chat chatPkg.IChatCompletion,
	transcriber audio.ITranscription,
	utilsInstance utils.IUtils,
	cfg *Config,
) IExpenseService {
	return &expenseService{
		log:         log,
		expenseRepo: expenseRepo,
		dialogStore: dialogStore,
		chat:        chat,
		transcriber: transcriber,
		utils:       utilsInstance,
		cfg:         cfg,
	}
}

func (s *expenseService) lockUser(externalID string) func() {
	muIface, _ := s.turnLocks.LoadOrStore(externalID, &sync.Mutex{})
	mu := muIface.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
