// Package agent drives a bounded conversation between an LLM provider and
// the tool catalog. Each step sends the transcript plus the catalog to the
// model, executes whatever tool calls come back, and appends the results so
// the next turn sees them. The loop ends on a terminal answer, budget
// exhaustion, or cancellation.
package agent

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/entrhq/autopilot/pkg/llm"
	"github.com/entrhq/autopilot/pkg/llm/tokenizer"
	"github.com/entrhq/autopilot/pkg/logging"
	"github.com/entrhq/autopilot/pkg/tools"
)

// Outcome tells the caller how a run ended.
type Outcome string

const (
	// OutcomeCompleted means the model produced a terminal answer.
	OutcomeCompleted Outcome = "completed"

	// OutcomeBudgetExhausted means the step budget ran out before a terminal
	// answer. Soft failure; callers may retry with a fresh budget.
	OutcomeBudgetExhausted Outcome = "budget_exhausted"

	// OutcomeCancelled means the caller's context was cancelled between
	// steps.
	OutcomeCancelled Outcome = "cancelled"
)

// Step budgets by task shape. Form filling needs more turns than read-only
// extraction.
const (
	DefaultExtractSteps  = 10
	DefaultFormFillSteps = 20
)

// maxToolBatch bounds how many of one step's tool calls run concurrently.
const maxToolBatch = 4

// DefaultContextTokens is the prompt-size ceiling assumed when the caller
// does not supply one.
const DefaultContextTokens = 128000

// contextTriggerRatio is the fraction of the context budget at which old
// tool results start being elided from the transcript.
const contextTriggerRatio = 0.8

// elidedToolResult replaces a tool result that was trimmed from the
// transcript. The message itself stays so tool call ids keep pairing up.
const elidedToolResult = "[earlier tool result elided to fit the context window]"

// Result is what a finished run hands back.
type Result struct {
	Outcome Outcome

	// FinalContent is the model's terminal answer (empty unless Completed).
	FinalContent string

	// Steps is the number of model turns consumed.
	Steps int
}

// Agent owns one run's transcript; it holds no cross-run state.
type Agent struct {
	provider      llm.Provider
	registry      *tools.Registry
	log           *logging.Logger
	maxSteps      int
	contextTokens int
}

// Option configures an Agent.
type Option func(*Agent)

// WithMaxSteps overrides the step budget.
func WithMaxSteps(n int) Option {
	return func(a *Agent) {
		if n > 0 {
			a.maxSteps = n
		}
	}
}

// WithContextTokens overrides the assumed context window size in tokens.
func WithContextTokens(n int) Option {
	return func(a *Agent) {
		if n > 0 {
			a.contextTokens = n
		}
	}
}

// WithLogger sets the component logger.
func WithLogger(log *logging.Logger) Option {
	return func(a *Agent) {
		a.log = log
	}
}

// New creates an agent over the given provider and tool catalog.
func New(provider llm.Provider, registry *tools.Registry, opts ...Option) *Agent {
	log, _ := logging.NewLogger("agent")

	a := &Agent{
		provider:      provider,
		registry:      registry,
		log:           log,
		maxSteps:      DefaultExtractSteps,
		contextTokens: DefaultContextTokens,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run drives the loop for one goal until a terminal answer, budget
// exhaustion, or cancellation. Cancellation is only observed between steps;
// an in-flight tool batch always completes.
func (a *Agent) Run(ctx context.Context, goal string) (*Result, error) {
	messages := []llm.Message{
		llm.SystemMessage(systemPrompt()),
		llm.UserMessage(goal),
	}
	defs := a.toolDefinitions()

	for step := 1; step <= a.maxSteps; step++ {
		select {
		case <-ctx.Done():
			a.log.Infof("run cancelled after %d step(s)", step-1)
			return &Result{Outcome: OutcomeCancelled, Steps: step - 1}, nil
		default:
		}

		if used := transcriptTokens(messages); used > a.tokenTrigger() {
			trimmed := a.trimTranscript(messages)
			a.log.Warnf("transcript at ~%d tokens exceeded the %d-token trigger, elided %d old tool result(s)",
				used, a.tokenTrigger(), trimmed)
		}

		a.log.Debugf("step %d/%d: %d message(s), ~%d prompt tokens",
			step, a.maxSteps, len(messages), transcriptTokens(messages))

		resp, err := a.provider.Complete(ctx, &llm.Request{
			Messages: messages,
			Tools:    defs,
		})
		if err != nil {
			return nil, fmt.Errorf("model turn %d failed: %w", step, err)
		}

		if len(resp.ToolCalls) == 0 {
			a.log.Infof("run completed in %d step(s)", step)
			return &Result{
				Outcome:      OutcomeCompleted,
				FinalContent: resp.Content,
				Steps:        step,
			}, nil
		}

		messages = append(messages, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		results, err := a.executeBatch(ctx, resp.ToolCalls)
		if err != nil {
			return nil, err
		}
		messages = append(messages, results...)
	}

	a.log.Warnf("step budget (%d) exhausted before a terminal answer", a.maxSteps)
	return &Result{Outcome: OutcomeBudgetExhausted, Steps: a.maxSteps}, nil
}

// executeBatch dispatches one step's tool calls. Calls run concurrently but
// results are appended in the order the model emitted them; the conversation
// order is the invariant, not execution order.
func (a *Agent) executeBatch(ctx context.Context, calls []llm.ToolCall) ([]llm.Message, error) {
	results := make([]*tools.Result, len(calls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxToolBatch)
	for i, call := range calls {
		i, call := i, call
		g.Go(func() error {
			a.log.Debugf("dispatching tool %s", call.Name)
			res, err := a.registry.Dispatch(gctx, call.Name, call.Arguments)
			if err != nil {
				return fmt.Errorf("tool %s: %w", call.Name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	messages := make([]llm.Message, 0, len(calls))
	for i, call := range calls {
		messages = append(messages, llm.ToolMessage(call.ID, renderResult(results[i])))
	}
	return messages, nil
}

// toolDefinitions snapshots the catalog for the model.
func (a *Agent) toolDefinitions() []llm.ToolDefinition {
	catalog := a.registry.List()
	defs := make([]llm.ToolDefinition, 0, len(catalog))
	for _, t := range catalog {
		defs = append(defs, llm.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Schema(),
		})
	}
	return defs
}

// renderResult serializes a tool result for the transcript. Failures are
// prefixed so the model can distinguish them without parsing the envelope.
func renderResult(res *tools.Result) string {
	text := res.Text()
	for _, c := range res.Content {
		if c.Type == tools.ContentTypeJSON {
			if text != "" {
				text += "\n"
			}
			text += string(c.Data)
		}
	}
	if res.Failed() {
		return fmt.Sprintf("[%s] %s", res.Status.Code, text)
	}
	return text
}

func (a *Agent) tokenTrigger() int {
	return int(float64(a.contextTokens) * contextTriggerRatio)
}

// trimTranscript elides tool result bodies oldest-first until the transcript
// fits under the trigger again, and reports how many were elided. The system
// prompt, the goal, and every assistant turn stay intact.
func (a *Agent) trimTranscript(messages []llm.Message) int {
	trigger := a.tokenTrigger()
	trimmed := 0
	for i := range messages {
		if transcriptTokens(messages) <= trigger {
			break
		}
		if messages[i].Role != llm.RoleTool || messages[i].Content == elidedToolResult {
			continue
		}
		messages[i].Content = elidedToolResult
		trimmed++
	}
	return trimmed
}

func transcriptTokens(messages []llm.Message) int {
	total := 0
	for _, m := range messages {
		total += tokenizer.CountTokens(m.Content)
	}
	return total
}
