package orchestrator

// State tracks where a turn is in its lifecycle. Transitions are linear with
// one back-edge: a failed attempt moves to StateRetrying and re-enters
// StateAwaitingModelResponse until the attempt budget runs out.
type State int

const (
	StateIdle State = iota
	StateAwaitingModelResponse
	StateExtractingActions
	StateExecutingActions
	StateSuccess
	StateRetrying
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingModelResponse:
		return "awaiting_model_response"
	case StateExtractingActions:
		return "extracting_actions"
	case StateExecutingActions:
		return "executing_actions"
	case StateSuccess:
		return "success"
	case StateRetrying:
		return "retrying"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}
