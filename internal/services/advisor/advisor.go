// Package advisor implements the rule-based chat advisor. It
// classifies the user's message into an intent by keyword matching,
// answers from the spend overview, and records the exchange in the
// conversation history. Answer quality is deliberately simple; the
// value is in the explicit Result status instead of exception-driven
// fallback text.
package advisor

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/subtrackhq/subtrack/internal/lib/sl"
	"github.com/subtrackhq/subtrack/internal/models"
)

// Status tells the caller how to treat the Result.
type Status string

const (
	// StatusOK means the advisor produced an answer from live data.
	StatusOK Status = "ok"
	// StatusUnavailable means the data layer failed and the answer is
	// canned; callers may retry later.
	StatusUnavailable Status = "unavailable"
)

// Result is the advisor's reply for one message.
type Result struct {
	Status     Status  `json:"status"`
	Response   string  `json:"response"`
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

// Tracker is the slice of the facade the advisor needs.
type Tracker interface {
	GetUserOverview(ctx context.Context, userID string) (*models.Overview, error)
	GetActiveSubscriptions(ctx context.Context, userID string) ([]*models.Subscription, error)
	SaveConversation(ctx context.Context, userID, sessionID, message, response, intent string, confidence *float64) (*models.Conversation, error)
}

// Service answers chat messages for one deployment.
type Service struct {
	tracker Tracker
	log     *slog.Logger
}

// New creates the advisor over the given facade.
func New(tracker Tracker, log *slog.Logger) *Service {
	return &Service{tracker: tracker, log: log}
}

// Chat answers one message and appends the exchange to the session
// history. History persistence is best effort: a failed save is logged
// but does not fail the reply.
func (s *Service) Chat(ctx context.Context, userID, sessionID, message string) (*Result, error) {
	intent, confidence := classify(message)

	result := s.answer(ctx, userID, intent, confidence)

	if _, err := s.tracker.SaveConversation(ctx, userID, sessionID, message,
		result.Response, result.Intent, &result.Confidence); err != nil {
		s.log.Warn("failed to save conversation", sl.Err(err))
	}
	return result, nil
}

func (s *Service) answer(ctx context.Context, userID, intent string, confidence float64) *Result {
	switch intent {
	case intentGreeting:
		return &Result{
			Status:     StatusOK,
			Response:   "Hi! Ask me about your subscriptions or monthly spending.",
			Intent:     intent,
			Confidence: confidence,
		}
	case intentSpendingQuery:
		overview, err := s.tracker.GetUserOverview(ctx, userID)
		if err != nil {
			return s.unavailable(intent, err)
		}
		return &Result{
			Status: StatusOK,
			Response: fmt.Sprintf(
				"You are spending %.2f per month across %d active subscriptions.",
				overview.MonthlySpending, overview.ActiveSubscriptions),
			Intent:     intent,
			Confidence: confidence,
		}
	case intentListSubscriptions:
		subs, err := s.tracker.GetActiveSubscriptions(ctx, userID)
		if err != nil {
			return s.unavailable(intent, err)
		}
		if len(subs) == 0 {
			return &Result{
				Status:     StatusOK,
				Response:   "You have no active subscriptions yet.",
				Intent:     intent,
				Confidence: confidence,
			}
		}
		names := make([]string, 0, len(subs))
		for _, sub := range subs {
			names = append(names, sub.ServiceName)
		}
		return &Result{
			Status:     StatusOK,
			Response:   "Your active subscriptions: " + strings.Join(names, ", ") + ".",
			Intent:     intent,
			Confidence: confidence,
		}
	case intentCancelAdvice:
		overview, err := s.tracker.GetUserOverview(ctx, userID)
		if err != nil {
			return s.unavailable(intent, err)
		}
		return &Result{
			Status:     StatusOK,
			Response:   cancelAdvice(overview),
			Intent:     intent,
			Confidence: confidence,
		}
	default:
		return &Result{
			Status:     StatusOK,
			Response:   "I can report your monthly spending, list your subscriptions, or suggest what to cut. What would you like?",
			Intent:     intent,
			Confidence: confidence,
		}
	}
}

func (s *Service) unavailable(intent string, err error) *Result {
	s.log.Warn("advisor data lookup failed", sl.Err(err))
	return &Result{
		Status:     StatusUnavailable,
		Response:   "I can't reach your subscription data right now, please try again in a moment.",
		Intent:     intent,
		Confidence: 1.0,
	}
}

// cancelAdvice points at the most expensive category, the most useful
// single hint the overview can give.
func cancelAdvice(overview *models.Overview) string {
	if len(overview.SubscriptionCategories) == 0 {
		return "You have no active subscriptions, nothing to cut."
	}

	type bucket struct {
		name string
		stat models.CategoryStat
	}
	buckets := make([]bucket, 0, len(overview.SubscriptionCategories))
	for name, stat := range overview.SubscriptionCategories {
		buckets = append(buckets, bucket{name: name, stat: stat})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].stat.Spending != buckets[j].stat.Spending {
			return buckets[i].stat.Spending > buckets[j].stat.Spending
		}
		return buckets[i].name < buckets[j].name
	})

	top := buckets[0]
	return fmt.Sprintf(
		"Your biggest category is %s at %.2f per month over %d subscriptions - start there.",
		top.name, top.stat.Spending, top.stat.Count)
}
