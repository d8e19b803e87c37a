package quiz

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/gedquiz/internal/generator"
	"github.com/abhisek/gedquiz/internal/llm"
)

// Options configures a Controller. Zero values select the defaults.
type Options struct {
	// Difficulty is the level the session starts at. Default: medium.
	Difficulty generator.Difficulty

	// TimeLimit is the number of seconds allowed per question. Default: 60.
	TimeLimit int

	// HistorySize caps the recent question history. Default and maximum: 5.
	HistorySize int

	// TickInterval is the countdown period. Default: one second.
	TickInterval time.Duration

	// NewTicker creates countdown tickers. Default: NewTicker.
	NewTicker TickerFunc

	// Spawn runs generator calls off the caller's goroutine.
	// Default: go f().
	Spawn func(f func())

	// SessionID tags log lines and LLM audit events. Default: a new UUID.
	SessionID string

	Logger logrus.FieldLogger
}

const (
	DefaultTimeLimit   = 60
	DefaultHistorySize = 5
)

func (o Options) withDefaults() Options {
	if !o.Difficulty.Valid() {
		o.Difficulty = generator.Medium
	}
	if o.TimeLimit <= 0 {
		o.TimeLimit = DefaultTimeLimit
	}
	if o.HistorySize <= 0 || o.HistorySize > DefaultHistorySize {
		o.HistorySize = DefaultHistorySize
	}
	if o.TickInterval <= 0 {
		o.TickInterval = time.Second
	}
	if o.NewTicker == nil {
		o.NewTicker = NewTicker
	}
	if o.Spawn == nil {
		o.Spawn = func(f func()) { go f() }
	}
	if o.SessionID == "" {
		o.SessionID = uuid.NewString()
	}
	if o.Logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		o.Logger = l
	}
	return o
}

// Controller owns one quiz session. All state changes go through its
// methods; none of them block on the network.
//
// Every question fetch starts a new round. Generator results carry the
// round they were issued for and are dropped if the session has moved on,
// so a slow response can never overwrite a newer question.
type Controller struct {
	gen  generator.Generator
	opts Options
	log  logrus.FieldLogger

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	state       State
	timer       *countdown
	roundCtx    context.Context
	cancelRound context.CancelFunc
	closed      bool

	changes chan struct{}
}

// New creates a controller in the idle phase. Call Start to fetch the
// first question.
func New(gen generator.Generator, opts Options) *Controller {
	opts = opts.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	ctx = llm.WithSessionID(ctx, opts.SessionID)

	return &Controller{
		gen:    gen,
		opts:   opts,
		log:    opts.Logger.WithField("session", opts.SessionID),
		ctx:    ctx,
		cancel: cancel,
		state: State{
			SessionID:  opts.SessionID,
			Phase:      PhaseIdle,
			Difficulty: opts.Difficulty,
			TimeLeft:   opts.TimeLimit,
			TimeLimit:  opts.TimeLimit,
		},
		changes: make(chan struct{}, 1),
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Changes is signalled after every state change. Signals coalesce: a
// reader that falls behind sees one pending signal, then reads Snapshot.
func (c *Controller) Changes() <-chan struct{} {
	return c.changes
}

// Done is closed once the controller has been closed.
func (c *Controller) Done() <-chan struct{} {
	return c.ctx.Done()
}

func (c *Controller) notify() {
	select {
	case c.changes <- struct{}{}:
	default:
	}
}

// apply runs fn under the lock, then publishes the change and launches any
// generator job fn returned. Jobs never run with the lock held.
func (c *Controller) apply(fn func() (job func(), changed bool)) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	job, changed := fn()
	c.mu.Unlock()

	if changed {
		c.notify()
	}
	if job != nil {
		c.opts.Spawn(job)
	}
	return changed
}

// Start fetches the first question. It does nothing unless the session is
// still idle.
func (c *Controller) Start() {
	c.apply(func() (func(), bool) {
		if c.state.Phase != PhaseIdle {
			return nil, false
		}
		return c.beginFetchLocked(), true
	})
}

// SwitchDifficulty changes the level and begins a fresh run: score, answer
// count and history are cleared, any in-flight request is abandoned and a
// new question is fetched with empty history. Selecting the current level
// does nothing.
func (c *Controller) SwitchDifficulty(level generator.Difficulty) error {
	if _, err := generator.ParseDifficulty(string(level)); err != nil {
		return err
	}
	c.apply(func() (func(), bool) {
		if level == c.state.Difficulty {
			return nil, false
		}
		c.log.WithFields(logrus.Fields{
			"from": c.state.Difficulty,
			"to":   level,
		}).Info("switching difficulty")

		c.state.Difficulty = level
		c.state.Score = 0
		c.state.QuestionsAnswered = 0
		c.state.RecentHistory = nil
		return c.beginFetchLocked(), true
	})
	return nil
}

// FetchNextQuestion abandons the current round and requests a new
// question at the current difficulty.
func (c *Controller) FetchNextQuestion() {
	c.apply(func() (func(), bool) {
		return c.beginFetchLocked(), true
	})
}

// Retry re-requests a question after a failed fetch. It reports whether a
// retry was started.
func (c *Controller) Retry() bool {
	return c.apply(func() (func(), bool) {
		if c.state.Phase != PhaseError {
			return nil, false
		}
		return c.beginFetchLocked(), true
	})
}

// SelectAnswer records the learner's choice for the current question.
// index is an option position, or TimedOut. Only the first answer for a
// question is accepted; it reports whether this call was that answer.
func (c *Controller) SelectAnswer(index int) bool {
	return c.apply(func() (func(), bool) {
		return c.answerLocked(index)
	})
}

// Tick advances the countdown by one step for the current question. When
// it reaches zero the question is answered as TimedOut.
func (c *Controller) Tick() {
	c.apply(func() (func(), bool) {
		return c.tickLocked(c.state.Round)
	})
}

// Close stops the countdown and abandons in-flight requests. Results that
// arrive later are discarded. Close is idempotent.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.timer.Stop()
	c.timer = nil
	if c.cancelRound != nil {
		c.cancelRound()
		c.cancelRound = nil
	}
	c.mu.Unlock()

	c.cancel()
	c.log.Debug("session closed")
}

// beginFetchLocked moves to a new round in the loading phase and returns
// the job that performs the request.
func (c *Controller) beginFetchLocked() func() {
	c.timer.Stop()
	c.timer = nil
	if c.cancelRound != nil {
		c.cancelRound()
	}

	c.state.Round++
	round := c.state.Round
	c.state.Phase = PhaseLoading
	c.state.Question = nil
	c.state.SelectedIndex = nil
	c.state.IsAnswered = false
	c.state.Explanation = ""
	c.state.ExplanationLoading = false
	c.state.ExplanationError = ""
	c.state.Error = ""
	c.state.Err = nil
	c.state.TimeLeft = c.opts.TimeLimit

	ctx, cancel := context.WithCancel(c.ctx)
	c.roundCtx, c.cancelRound = ctx, cancel

	input := generator.QuestionInput{
		Difficulty:    c.state.Difficulty,
		RecentHistory: append([]string(nil), c.state.RecentHistory...),
	}
	log := c.roundLog()
	log.Debug("fetching question")

	return func() {
		q, err := c.gen.GenerateQuestion(ctx, input)
		c.finishFetch(round, q, err)
	}
}

func (c *Controller) finishFetch(round uint64, q *generator.Question, err error) {
	c.apply(func() (func(), bool) {
		if round != c.state.Round || c.state.Phase != PhaseLoading {
			c.log.WithField("round", round).Debug("discarding stale question result")
			return nil, false
		}

		if err == nil && q == nil {
			err = errNoQuestion
		}
		if err != nil {
			gerr := &GenerationError{Err: err}
			c.state.Phase = PhaseError
			c.state.Error = gerr.UserMessage()
			c.state.Err = gerr
			c.roundLog().WithError(err).Warn("question generation failed")
			return nil, true
		}

		c.state.Question = q
		c.state.RecentHistory = appendCapped(c.state.RecentHistory, q.Text, c.opts.HistorySize)
		c.state.TimeLeft = c.opts.TimeLimit
		c.state.Phase = PhaseReady
		c.timer = startCountdown(c.opts.NewTicker(c.opts.TickInterval), func() {
			c.apply(func() (func(), bool) {
				return c.tickLocked(round)
			})
		})
		c.roundLog().Debug("question ready")
		return nil, true
	})
}

// tickLocked decrements the countdown for round. Ticks for any other round
// or for an answered question are ignored.
func (c *Controller) tickLocked(round uint64) (func(), bool) {
	if round != c.state.Round || c.state.Phase != PhaseReady || c.state.IsAnswered {
		return nil, false
	}
	c.state.TimeLeft--
	if c.state.TimeLeft > 0 {
		return nil, true
	}
	c.state.TimeLeft = 0
	c.roundLog().Info("time expired")
	return c.answerLocked(TimedOut)
}

// answerLocked is the single guarded path for both learner selections and
// timer expiry. The answered check and the write happen under one lock
// hold, so exactly one answer per question is accepted.
func (c *Controller) answerLocked(index int) (func(), bool) {
	if c.state.Phase != PhaseReady || c.state.IsAnswered || c.state.Question == nil {
		return nil, false
	}
	q := c.state.Question
	if index != TimedOut && (index < 0 || index >= len(q.Options)) {
		return nil, false
	}

	c.timer.Stop()
	c.timer = nil

	sel := index
	c.state.SelectedIndex = &sel
	c.state.IsAnswered = true
	c.state.QuestionsAnswered++
	c.state.Phase = PhaseAnswered

	log := c.roundLog().WithField("selected", index)
	if q.IsCorrect(index) {
		c.state.Score++
		log.Debug("answered correctly")
		return nil, true
	}
	log.Debug("answered incorrectly")

	c.state.ExplanationLoading = true
	round := c.state.Round
	ctx := c.roundCtx

	input := generator.ExplanationInput{Question: *q}
	if index != TimedOut {
		input.IncorrectAnswer = lo.ToPtr(q.Options[index])
	}

	return func() {
		text, err := c.gen.GenerateExplanation(ctx, input)
		c.finishExplanation(round, text, err)
	}, true
}

func (c *Controller) finishExplanation(round uint64, text string, err error) {
	c.apply(func() (func(), bool) {
		if round != c.state.Round || !c.state.ExplanationLoading {
			c.log.WithField("round", round).Debug("discarding stale explanation")
			return nil, false
		}
		c.state.ExplanationLoading = false
		if err != nil {
			eerr := &ExplanationError{Err: err}
			c.state.ExplanationError = eerr.UserMessage()
			c.state.Err = eerr
			c.roundLog().WithError(err).Warn("explanation generation failed")
			return nil, true
		}
		c.state.Explanation = text
		return nil, true
	})
}

func (c *Controller) roundLog() logrus.FieldLogger {
	return c.log.WithFields(logrus.Fields{
		"round":      c.state.Round,
		"difficulty": c.state.Difficulty,
	})
}

// appendCapped appends item and keeps only the newest max entries, oldest
// evicted first. The result never aliases history.
func appendCapped(history []string, item string, max int) []string {
	out := make([]string, 0, len(history)+1)
	out = append(out, history...)
	out = append(out, item)
	return append([]string(nil), lo.Subset(out, -max, uint(max))...)
}
