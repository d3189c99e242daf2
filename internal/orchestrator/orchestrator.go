// Package orchestrator drives the model → extract → normalize → dispatch
// loop for one user turn, retrying with corrective prompts until the turn
// succeeds or the attempt budget is spent.
package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/kerem/aide/internal/analyzer"
	"github.com/kerem/aide/internal/dispatch"
	"github.com/kerem/aide/internal/extract"
	"github.com/kerem/aide/internal/history"
	"github.com/kerem/aide/internal/llm"
	"github.com/kerem/aide/internal/logger"
	"github.com/kerem/aide/internal/models"
	"github.com/kerem/aide/internal/normalize"
)

// DefaultMaxAttempts bounds how many times one turn may call the model.
// Model failures and action failures draw from the same budget.
const DefaultMaxAttempts = 3

// Session holds the per-turn retry bookkeeping. A fresh Session is created
// for each user input; the conversation log persists across sessions.
type Session struct {
	OriginalInput string
	AttemptCount  int
	MaxAttempts   int
	LastError     string
}

// Outcome is the final report of one turn.
type Outcome struct {
	State    State
	Reply    string // model text when the turn was conversational
	Results  []*models.ExecutionResult
	Attempts int
	LastErr  string
}

// Options configures an Orchestrator. Provider is required; nil collaborators
// are replaced with working defaults.
type Options struct {
	Provider     llm.Provider
	Extractor    *extract.Extractor
	Normalizer   *normalize.Normalizer
	Dispatcher   *dispatch.Dispatcher
	Analyzer     *analyzer.Analyzer
	History      *history.Log
	Logger       *logger.Console
	MaxAttempts  int
	HistoryLimit int
}

// Orchestrator owns the turn loop. It is single-threaded per session: one
// RunTurn call at a time.
type Orchestrator struct {
	provider     llm.Provider
	extractor    *extract.Extractor
	normalizer   *normalize.Normalizer
	dispatcher   *dispatch.Dispatcher
	analyzer     *analyzer.Analyzer
	history      *history.Log
	log          *logger.Console
	maxAttempts  int
	historyLimit int
	state        State
}

// New wires an Orchestrator from the given options.
func New(opts Options) (*Orchestrator, error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("orchestrator: provider is required")
	}
	o := &Orchestrator{
		provider:     opts.Provider,
		extractor:    opts.Extractor,
		normalizer:   opts.Normalizer,
		dispatcher:   opts.Dispatcher,
		analyzer:     opts.Analyzer,
		history:      opts.History,
		log:          opts.Logger,
		maxAttempts:  opts.MaxAttempts,
		historyLimit: opts.HistoryLimit,
		state:        StateIdle,
	}
	if o.extractor == nil {
		o.extractor = extract.New()
	}
	if o.normalizer == nil {
		o.normalizer = normalize.New()
	}
	if o.dispatcher == nil {
		o.dispatcher = dispatch.New(dispatch.NewTerminalRunner(o.normalizer, dispatch.DefaultCommandTimeout))
		o.dispatcher.SetNormalizer(o.normalizer)
	}
	if o.analyzer == nil {
		o.analyzer = analyzer.New()
	}
	if o.history == nil {
		o.history = history.NewLog()
	}
	if o.log == nil {
		o.log = logger.NewConsole(nil, "info")
	}
	if o.maxAttempts < 1 {
		o.maxAttempts = DefaultMaxAttempts
	}
	if o.historyLimit < 1 {
		o.historyLimit = 20
	}
	return o, nil
}

// State reports the orchestrator's current lifecycle state.
func (o *Orchestrator) State() State {
	return o.state
}

// History exposes the conversation log, mainly for the CLI and tests.
func (o *Orchestrator) History() *history.Log {
	return o.history
}

// RunTurn processes one user input end to end. With a budget of N attempts
// the model is called at most N times; an attempt is consumed whether the
// model call itself failed or the extracted actions failed. RunTurn returns
// an error only for setup problems; model and action failures are reported
// through the Outcome.
func (o *Orchestrator) RunTurn(ctx context.Context, input string) (*Outcome, error) {
	session := &Session{
		OriginalInput: input,
		MaxAttempts:   o.maxAttempts,
	}
	o.history.Append(history.RoleUser, input)

	prompt := o.buildPrompt(input)
	outcome := &Outcome{}

	for attempt := 1; attempt <= session.MaxAttempts; attempt++ {
		session.AttemptCount = attempt
		outcome.Attempts = attempt
		if attempt > 1 {
			o.log.Retryf(attempt, session.MaxAttempts, session.LastError)
		}

		o.state = StateAwaitingModelResponse
		response, err := o.provider.Generate(ctx, prompt)
		if err != nil {
			if ctx.Err() != nil {
				o.state = StateAborted
				outcome.State = StateAborted
				outcome.LastErr = ctx.Err().Error()
				return outcome, nil
			}
			session.LastError = fmt.Sprintf("model request failed: %v", err)
			o.log.Warnf("%s", session.LastError)
			// Model-call failures feed the same corrective path as action
			// failures so the next attempt sees what went wrong.
			corrective := o.buildCorrectivePrompt(session, nil)
			o.history.Append(history.RoleCorrective, corrective)
			prompt = corrective
			o.state = StateRetrying
			continue
		}
		o.history.Append(history.RoleAssistant, response)

		o.state = StateExtractingActions
		raws := o.extractor.Extract(response)
		if len(raws) == 0 {
			// Conversational reply, nothing to execute.
			o.state = StateSuccess
			outcome.State = StateSuccess
			outcome.Reply = response
			return outcome, nil
		}

		o.state = StateExecutingActions
		results, failures := o.execute(ctx, raws)
		outcome.Results = results
		if len(failures) == 0 {
			o.state = StateSuccess
			outcome.State = StateSuccess
			outcome.Reply = response
			return outcome, nil
		}

		session.LastError = strings.Join(failures, "; ")
		corrective := o.buildCorrectivePrompt(session, results)
		o.history.Append(history.RoleCorrective, corrective)
		prompt = corrective
		o.state = StateRetrying
	}

	o.state = StateAborted
	outcome.State = StateAborted
	outcome.LastErr = session.LastError
	o.log.ActionResult("turn", false, fmt.Sprintf("aborted after %d attempts: %s", session.AttemptCount, session.LastError))
	return outcome, nil
}

// execute normalizes and dispatches every extracted action in order, never
// short-circuiting, and returns the results plus one failure line per failed
// action.
func (o *Orchestrator) execute(ctx context.Context, raws []map[string]any) ([]*models.ExecutionResult, []string) {
	results := make([]*models.ExecutionResult, 0, len(raws))
	var failures []string
	for _, raw := range raws {
		req := o.normalizer.Normalize(raw)
		o.log.ActionStart(req.Action)
		result := o.dispatcher.Dispatch(ctx, req)
		o.log.ActionResult(req.Action, result.Success, result.Message)
		results = append(results, result)
		if !result.Success {
			failures = append(failures, fmt.Sprintf("%s: %s", req.Action, result.ErrorText()))
		}
	}
	return results, failures
}
