package expenseService

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/tatyana-kutkina/finance-bot/internal/api/expense"
	"github.com/tatyana-kutkina/finance-bot/internal/entity"
	contextPkg "github.com/tatyana-kutkina/finance-bot/pkg/context"
)

const extractionPromptTemplate = `You extract a single personal expense from the user's message.

IMPORTANT: Return ONLY valid JSON, nothing else.

Format:
{
  "amount": 5000,
  "category": "продукты",
  "currency": "RUB",
  "date": "2026-08-31"
}

Rules:
- amount: the spent sum as a number, no currency symbols; null when the message names no amount
- category: one or two words in the user's own language; null when unclear
- currency: three-letter code; null when the message does not mention one
- date: YYYY-MM-DD only when the message names a day; today is %s; null otherwise
- Never invent a value; use null for anything the message does not state`

// extract runs one extraction attempt cycle: a completion call, a strict
// parse, and bounded re-asks when the model's output is not valid JSON.
// Provider and timeout failures surface immediately without re-asks.
func (s *expenseService) extract(ctx context.Context, text string, clar *expense.ClarificationContext) (entity.CandidateTransaction, error) {
	requestID := contextPkg.GetRequestID(ctx)
	basePrompt := s.buildExtractionPrompt(time.Now(), clar)

	var lastParseErr error
	attempts := s.cfg.ParseRetries + 1

	for attempt := 0; attempt < attempts; attempt++ {
		prompt := basePrompt
		if lastParseErr != nil {
			prompt = fmt.Sprintf(
				"%s\n\nYour previous reply could not be parsed: %v. Answer again with ONLY the JSON object.",
				basePrompt, lastParseErr,
			)
		}

		callCtx, cancel := context.WithTimeout(ctx, s.cfg.CompletionTimeout)
		raw, err := s.chat.CompleteJSON(callCtx, prompt, text)
		cancel()

		if err != nil {
			reason := expense.ProviderError
			if errors.Is(err, context.DeadlineExceeded) || callCtx.Err() != nil {
				reason = expense.Timeout
			}
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"reason":     reason,
				"error":      err.Error(),
			}).Error("Completion call failed")
			return entity.CandidateTransaction{}, &expense.ExtractionError{Reason: reason, Err: err}
		}

		candidate, parseErr := parseCandidate(raw, text)
		if parseErr != nil {
			lastParseErr = parseErr
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"attempt":    attempt + 1,
				"error":      parseErr.Error(),
			}).Warn("Model output failed schema parse, re-asking")
			continue
		}

		return candidate, nil
	}

	return entity.CandidateTransaction{}, &expense.ExtractionError{
		Reason: expense.MalformedOutput,
		Err:    lastParseErr,
	}
}

func (s *expenseService) buildExtractionPrompt(now time.Time, clar *expense.ClarificationContext) string {
	prompt := fmt.Sprintf(extractionPromptTemplate, now.Format("2006-01-02"))
	if clar == nil {
		return prompt
	}

	var sb strings.Builder
	sb.WriteString(prompt)
	sb.WriteString("\n\nThe user is answering a clarification question. Focus on these fields: ")
	sb.WriteString(strings.Join(clarTargets(clar), ", "))
	sb.WriteString(".\nPreviously extracted values, to be kept unless the user changes them:\n")

	prior := map[string]interface{}{}
	if clar.Prior.Amount != nil {
		prior["amount"] = clar.Prior.Amount.String()
	}
	if clar.Prior.Category != nil {
		prior["category"] = *clar.Prior.Category
	}
	if clar.Prior.Currency != nil {
		prior["currency"] = *clar.Prior.Currency
	}
	if clar.Prior.OccurredOn != nil {
		prior["date"] = clar.Prior.OccurredOn.Format("2006-01-02")
	}
	priorJSON, _ := json.Marshal(prior)
	sb.Write(priorJSON)
	sb.WriteString("\nA bare value like \"200\" refers to the first missing field.")

	return sb.String()
}

func clarTargets(clar *expense.ClarificationContext) []string {
	targets := make([]string, 0, len(clar.Missing)+len(clar.Invalid))
	targets = append(targets, clar.Missing...)
	for field := range clar.Invalid {
		targets = append(targets, field)
	}
	return targets
}

// rawCandidate mirrors the prompt's output schema exactly; anything else is a
// parse failure, not data.
type rawCandidate struct {
	Amount   json.RawMessage `json:"amount"`
	Category *string         `json:"category"`
	Currency *string         `json:"currency"`
	Date     *string         `json:"date"`
}

func parseCandidate(raw string, originalText string) (entity.CandidateTransaction, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return entity.CandidateTransaction{}, errors.New("empty completion payload")
	}

	var parsed rawCandidate
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	if err := dec.Decode(&parsed); err != nil {
		return entity.CandidateTransaction{}, fmt.Errorf("not a JSON object: %w", err)
	}

	candidate := entity.CandidateTransaction{RawText: originalText}

	amount, unparsed, err := parseAmount(parsed.Amount)
	if err != nil {
		return entity.CandidateTransaction{}, err
	}
	candidate.Amount = amount
	candidate.AmountUnparsed = unparsed

	if parsed.Category != nil && strings.TrimSpace(*parsed.Category) != "" {
		category := strings.TrimSpace(*parsed.Category)
		candidate.Category = &category
	}
	if parsed.Currency != nil && strings.TrimSpace(*parsed.Currency) != "" {
		currency := strings.TrimSpace(*parsed.Currency)
		candidate.Currency = &currency
	}
	if parsed.Date != nil && *parsed.Date != "" {
		// Bad dates fall back to the submission date downstream instead of
		// failing the whole extraction.
		if occurred, err := time.Parse("2006-01-02", *parsed.Date); err == nil {
			candidate.OccurredOn = &occurred
		}
	}

	return candidate, nil
}

// parseAmount accepts a JSON number or a numeric string. A present but
// non-numeric amount is flagged for the validator rather than rejected, so
// the clarification dialog can name the field.
func parseAmount(raw json.RawMessage) (*decimal.Decimal, bool, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, false, nil
	}

	var num json.Number
	if err := json.Unmarshal(raw, &num); err == nil {
		amount, derr := decimal.NewFromString(num.String())
		if derr != nil {
			return nil, true, nil
		}
		return &amount, false, nil
	}

	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return nil, false, fmt.Errorf("amount is neither number nor string: %s", string(raw))
	}

	str = strings.ReplaceAll(strings.TrimSpace(str), ",", ".")
	amount, err := decimal.NewFromString(str)
	if err != nil {
		return nil, true, nil
	}
	return &amount, false, nil
}
