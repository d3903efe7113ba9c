package app

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"timed-quiz-service/internal/domain"
	"timed-quiz-service/internal/quiz"
)

// SessionRepository abstracts how quiz sessions are stored (in-memory, Redis, etc).
// Sessions are keyed by an opaque per-user ID owned by the transport layer.
type SessionRepository interface {
	Get(ctx context.Context, id string) (domain.QuizSession, bool, error)
	Save(ctx context.Context, id string, session domain.QuizSession) error
	Delete(ctx context.Context, id string) error
}

// BankRepository loads the validated question bank (from cache/backing store).
type BankRepository interface {
	Bank(ctx context.Context) (domain.Bank, error)
}

// Limits bound user-supplied quiz configuration.
type Limits struct {
	MinTimeLimitMinutes int
	MaxTimeLimitMinutes int
	SkewTolerance       time.Duration
}

// DefaultLimits returns the stock bounds: 1-120 minutes, 2s skew tolerance.
func DefaultLimits() Limits {
	return Limits{
		MinTimeLimitMinutes: quiz.MinTimeLimitMinutes,
		MaxTimeLimitMinutes: quiz.MaxTimeLimitMinutes,
		SkewTolerance:       2 * time.Second,
	}
}

// QuizService contains the quiz attempt use cases: start, render, answer,
// score, review. The time limit is enforced exclusively against the server
// clock captured at start; client-reported time is diagnostic only.
type QuizService struct {
	sessions SessionRepository
	banks    BankRepository
	limits   Limits
	logger   *zap.Logger
	now      func() time.Time

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewQuizService(sessions SessionRepository, banks BankRepository, limits Limits, logger *zap.Logger) *QuizService {
	return &QuizService{
		sessions: sessions,
		banks:    banks,
		limits:   limits,
		logger:   logger,
		now:      time.Now,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WithClock is test-only for deterministic timestamps.
func (s *QuizService) WithClock(now func() time.Time) *QuizService {
	s.now = now
	return s
}

// WithRand is test-only for deterministic selection and shuffling.
func (s *QuizService) WithRand(rnd *rand.Rand) *QuizService {
	s.rnd = rnd
	return s
}

// BankSummary exposes the landing-page data: total questions, categories and counts.
func (s *QuizService) BankSummary(ctx context.Context) (domain.Bank, error) {
	return s.banks.Bank(ctx)
}

// StartQuiz validates the configuration, selects questions and creates a
// fresh session, superseding any previous attempt under the same ID. It
// returns the first question ready for display.
func (s *QuizService) StartQuiz(ctx context.Context, sessionID string, in StartInput) (QuestionView, error) {
	bank, err := s.banks.Bank(ctx)
	if err != nil {
		return QuestionView{}, err
	}

	if err := quiz.ValidateCategories(in.Categories, bank.Categories()); err != nil {
		return QuestionView{}, err
	}
	available := len(quiz.FilterByCategories(bank, in.Categories))
	if err := quiz.ValidateQuestionCount(in.NumQuestions, available); err != nil {
		return QuestionView{}, err
	}
	if err := quiz.ValidateTimeLimit(in.TimeLimitMinutes, s.limits.MinTimeLimitMinutes, s.limits.MaxTimeLimitMinutes); err != nil {
		return QuestionView{}, err
	}

	s.rndMu.Lock()
	ids, err := quiz.SelectQuestions(bank, in.Categories, in.NumQuestions, s.rnd)
	s.rndMu.Unlock()
	if err != nil {
		return QuestionView{}, err
	}

	session := domain.NewQuizSession(ids, in.TimeLimitMinutes*60, in.Shuffle, s.now())
	view := s.prepareQuestion(&session, bank)
	if err := s.sessions.Save(ctx, sessionID, session); err != nil {
		return QuestionView{}, fmt.Errorf("save session: %w", err)
	}
	s.logger.Info("quiz started",
		zap.String("session", sessionID),
		zap.Int("questions", len(ids)),
		zap.Int("time_limit_seconds", session.TimeLimitSeconds),
		zap.Bool("shuffle", in.Shuffle))
	return view, nil
}

// CurrentQuestion renders the question at the session pointer. Re-rendering
// the same question reuses the stored shuffle mapping, so navigating back
// shows the same option order.
func (s *QuizService) CurrentQuestion(ctx context.Context, sessionID string) (QuestionView, error) {
	session, bank, err := s.load(ctx, sessionID)
	if err != nil {
		return QuestionView{}, err
	}
	if session.State != domain.StateInProgress {
		return QuestionView{}, domain.ErrQuizFinished
	}
	if session.ExpiredAt(s.now()) {
		s.finalize(ctx, sessionID, &session, domain.StateExpired)
		return QuestionView{}, domain.ErrTimeExpired
	}
	if session.Finished() {
		s.finalize(ctx, sessionID, &session, domain.StateCompleted)
		return QuestionView{}, domain.ErrQuizFinished
	}

	created := s.needsMapping(session)
	view := s.prepareQuestion(&session, bank)
	if created {
		if err := s.sessions.Save(ctx, sessionID, session); err != nil {
			return QuestionView{}, fmt.Errorf("save session: %w", err)
		}
	}
	return view, nil
}

// SubmitAnswer records one answer and advances the pointer. If the time
// limit has been reached the answer is rejected and the session is forced
// into the expired state with prior answers intact.
func (s *QuizService) SubmitAnswer(ctx context.Context, sessionID string, in SubmitInput) (SubmitResult, error) {
	session, bank, err := s.load(ctx, sessionID)
	if err != nil {
		return SubmitResult{}, err
	}
	if session.State != domain.StateInProgress || session.Finished() {
		return SubmitResult{}, domain.ErrQuizFinished
	}

	now := s.now()
	s.checkSkew(sessionID, in.ClientTimestamp, now)

	if session.ExpiredAt(now) {
		s.finalize(ctx, sessionID, &session, domain.StateExpired)
		return SubmitResult{}, domain.ErrTimeExpired
	}

	questionID := session.QuestionIDs[session.CurrentIndex]
	question := bank.Questions[questionID]
	mapping := s.ensureMapping(&session, questionID, len(question.Options))

	// An out-of-range or missing selection is recorded as unanswered rather
	// than rejected; the user already spent the question.
	var chosen *int
	if in.SelectedOption != nil {
		if canonical, err := quiz.ResolveCanonicalIndex(mapping, *in.SelectedOption); err == nil {
			chosen = &canonical
		} else {
			s.logger.Warn("discarding out-of-range answer",
				zap.String("session", sessionID),
				zap.Int("selected", *in.SelectedOption),
				zap.Int("options", len(question.Options)))
		}
	}

	session.Answers = append(session.Answers, domain.AnswerRecord{
		QuestionID: questionID,
		Number:     session.CurrentIndex + 1,
		Chosen:     chosen,
	})
	if chosen != nil && *chosen == question.CorrectIndex {
		session.Score++
	}
	session.CurrentIndex++
	if session.Finished() {
		session.State = domain.StateCompleted
	}
	if err := s.sessions.Save(ctx, sessionID, session); err != nil {
		return SubmitResult{}, fmt.Errorf("save session: %w", err)
	}

	return SubmitResult{
		Done:             session.Finished(),
		NextNumber:       session.CurrentIndex + 1,
		RemainingSeconds: session.Remaining(now),
		ServerTimestamp:  unixSeconds(now),
	}, nil
}

// Results computes the attempt's score. Safe to call at any time; an
// in-progress session past its limit is finalized as expired first.
func (s *QuizService) Results(ctx context.Context, sessionID string) (ScoreSummary, error) {
	session, _, err := s.load(ctx, sessionID)
	if err != nil {
		return ScoreSummary{}, err
	}
	if session.State == domain.StateInProgress {
		if session.ExpiredAt(s.now()) {
			s.finalize(ctx, sessionID, &session, domain.StateExpired)
		} else if session.Finished() {
			s.finalize(ctx, sessionID, &session, domain.StateCompleted)
		}
	}

	total := len(session.QuestionIDs)
	score := sanitizeScore(session.Score, total)
	return ScoreSummary{
		Score:      score,
		Total:      total,
		Percent:    quiz.Percentage(score, total),
		WrongCount: total - score,
		State:      session.State,
	}, nil
}

// Review builds the wrong-answer review list. It is recomputed from the
// session and the immutable bank, so repeated calls yield identical results.
func (s *QuizService) Review(ctx context.Context, sessionID string) ([]quiz.ReviewItem, error) {
	session, bank, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return quiz.BuildReview(bank, session), nil
}

// TimerSync answers a client clock-sync request with the authoritative
// remaining time. The optional client timestamp feeds skew diagnostics.
func (s *QuizService) TimerSync(ctx context.Context, sessionID string, clientTimestamp *float64) (TimerStatus, error) {
	session, _, err := s.load(ctx, sessionID)
	if err != nil {
		return TimerStatus{}, err
	}
	now := s.now()
	if session.State == domain.StateInProgress && session.ExpiredAt(now) {
		s.finalize(ctx, sessionID, &session, domain.StateExpired)
	}

	status := TimerStatus{
		RemainingSeconds: session.Remaining(now),
		ServerTimestamp:  unixSeconds(now),
		State:            session.State,
	}
	if clientTimestamp != nil {
		skew := *clientTimestamp - unixSeconds(now)
		status.SkewSeconds = &skew
		status.SkewExceeded = math.Abs(skew) > s.limits.SkewTolerance.Seconds()
	}
	s.checkSkew(sessionID, clientTimestamp, now)
	return status, nil
}

// Abandon drops the session, returning the user to the start screen.
func (s *QuizService) Abandon(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

func (s *QuizService) load(ctx context.Context, sessionID string) (domain.QuizSession, domain.Bank, error) {
	bank, err := s.banks.Bank(ctx)
	if err != nil {
		return domain.QuizSession{}, domain.Bank{}, err
	}
	session, ok, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return domain.QuizSession{}, domain.Bank{}, fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return domain.QuizSession{}, domain.Bank{}, domain.ErrSessionNotFound
	}
	if err := quiz.ValidateSession(session, bank.Len()); err != nil {
		return domain.QuizSession{}, domain.Bank{}, err
	}
	return session, bank, nil
}

func (s *QuizService) finalize(ctx context.Context, sessionID string, session *domain.QuizSession, state domain.SessionState) {
	session.State = state
	if err := s.sessions.Save(ctx, sessionID, *session); err != nil {
		s.logger.Error("finalize session", zap.String("session", sessionID), zap.Error(err))
	}
	s.logger.Info("quiz finalized",
		zap.String("session", sessionID),
		zap.String("state", string(state)),
		zap.Int("answered", len(session.Answers)),
		zap.Int("score", session.Score))
}

// checkSkew compares the client-reported clock against the server's. Skew
// beyond tolerance is logged, never enforced: network latency is
// indistinguishable from clock drift, and the authoritative timer does not
// depend on the client clock.
func (s *QuizService) checkSkew(sessionID string, clientTimestamp *float64, now time.Time) {
	if clientTimestamp == nil {
		return
	}
	skew := *clientTimestamp - unixSeconds(now)
	if math.Abs(skew) > s.limits.SkewTolerance.Seconds() {
		s.logger.Warn("client clock skew beyond tolerance",
			zap.String("session", sessionID),
			zap.Float64("skew_seconds", skew),
			zap.Float64("tolerance_seconds", s.limits.SkewTolerance.Seconds()))
	}
}

// needsMapping reports whether rendering the current question would create a
// new shuffle mapping (and therefore needs a session save).
func (s *QuizService) needsMapping(session domain.QuizSession) bool {
	if !session.Shuffle || session.Finished() {
		return false
	}
	_, ok := session.ShuffleMaps[session.QuestionIDs[session.CurrentIndex]]
	return !ok
}

// ensureMapping returns the shuffle mapping for a question, generating and
// caching it on first use so every re-render shows the same order.
func (s *QuizService) ensureMapping(session *domain.QuizSession, questionID, optionCount int) domain.ShuffleMapping {
	if !session.Shuffle {
		return quiz.IdentityMapping(optionCount)
	}
	if m, ok := session.ShuffleMaps[questionID]; ok && m.Valid(optionCount) {
		return m
	}
	s.rndMu.Lock()
	m := quiz.BuildShuffleMap(optionCount, s.rnd)
	s.rndMu.Unlock()
	session.ShuffleMaps[questionID] = m
	return m
}

func (s *QuizService) prepareQuestion(session *domain.QuizSession, bank domain.Bank) QuestionView {
	now := s.now()
	questionID := session.QuestionIDs[session.CurrentIndex]
	question := bank.Questions[questionID]
	mapping := s.ensureMapping(session, questionID, len(question.Options))
	return QuestionView{
		Number:           session.CurrentIndex + 1,
		Total:            len(session.QuestionIDs),
		Text:             question.Text,
		Category:         question.Category,
		CodeSnippet:      question.CodeSnippet,
		IsNew:            question.IsNew,
		Options:          quiz.ApplyShuffle(question.Options, mapping),
		RemainingSeconds: session.Remaining(now),
		ServerTimestamp:  unixSeconds(now),
	}
}

// sanitizeScore clamps a stored score into [0, total] before reporting.
func sanitizeScore(score, total int) int {
	if score < 0 {
		return 0
	}
	if score > total {
		return total
	}
	return score
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
