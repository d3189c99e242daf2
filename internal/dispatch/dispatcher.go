// Package dispatch routes canonical ActionRequests to their executors.
// Built-in actions (filesystem, terminal, composite, system info) are handled
// inline; everything else is routed by namespace prefix to a registered
// external executor. Dispatch never returns an error to the caller — every
// failure mode degrades to a structured ExecutionResult.
package dispatch

import (
	"context"
	"sort"
	"strings"

	"github.com/kerem/aide/internal/models"
)

// Executor is the uniform contract implemented by capability backends
// (browser, application, file, screen automation).
type Executor interface {
	Execute(ctx context.Context, actionID string, params map[string]any) (*models.ExecutionResult, error)
}

// PermissionChecker is consulted (never mutated) before executing an action.
type PermissionChecker interface {
	Allowed(actionID string) bool
}

// CommandExpander substitutes user-identity placeholders in shell commands.
type CommandExpander interface {
	ExpandCommand(command string) string
}

// RequestNormalizer canonicalizes nested action requests. multiple_actions
// sub-actions arrive raw from the model, so they need the same alias and
// path treatment top-level actions get before dispatch.
type RequestNormalizer interface {
	NormalizeRequest(req models.ActionRequest) models.ActionRequest
}

// Dispatcher routes ActionRequests. Routing order: exact built-in match
// first, then namespace prefix, then the unknown-action failure.
type Dispatcher struct {
	executors   map[string]Executor // namespace prefix -> executor
	permissions PermissionChecker   // optional
	normalizer  RequestNormalizer   // optional, applied to sub-actions
	terminal    *TerminalRunner
}

// New creates a Dispatcher with the given terminal runner. Executors are
// attached with Register; permissions with SetPermissions.
func New(terminal *TerminalRunner) *Dispatcher {
	return &Dispatcher{
		executors: map[string]Executor{},
		terminal:  terminal,
	}
}

// Register attaches an executor for a namespace prefix such as "browser_".
func (d *Dispatcher) Register(prefix string, exec Executor) {
	d.executors[prefix] = exec
}

// SetPermissions installs the permission checker consulted before dispatch.
func (d *Dispatcher) SetPermissions(p PermissionChecker) {
	d.permissions = p
}

// SetNormalizer installs the normalizer applied to multiple_actions
// sub-actions.
func (d *Dispatcher) SetNormalizer(n RequestNormalizer) {
	d.normalizer = n
}

// Dispatch executes one canonical ActionRequest and always returns a
// structured result. Executor errors and panics are converted to failure
// results rather than propagated.
func (d *Dispatcher) Dispatch(ctx context.Context, req models.ActionRequest) (result *models.ExecutionResult) {
	defer func() {
		if r := recover(); r != nil {
			result = models.Failuref(req.Action, "executor panic: %v", r)
		}
	}()

	if req.Action == "" {
		return models.Failuref(req.Action, "unknown action: %s", req.Action)
	}
	if d.permissions != nil && !d.permissions.Allowed(req.Action) {
		return models.Failuref(req.Action, "permission denied for action: %s", req.Action)
	}

	// Built-ins take precedence over prefix routing so that file_create and
	// file_write are handled inline even though a file_ executor may exist.
	switch req.Action {
	case "multiple_actions":
		return d.dispatchMultiple(ctx, req)
	case "folder_create":
		return d.folderCreate(req)
	case "file_create":
		return d.fileCreate(req)
	case "file_write":
		return d.fileWrite(req)
	case "terminal_execute", "command_run":
		return d.terminal.Run(ctx, req)
	case "system_info", "system_message":
		return systemInfo(req)
	}

	for prefix, exec := range d.executors {
		if strings.HasPrefix(req.Action, prefix) {
			return d.callExecutor(ctx, exec, req)
		}
	}

	return models.Failuref(req.Action, "unknown action: %s", req.Action)
}

// callExecutor invokes an external executor, converting transport errors
// into failure results.
func (d *Dispatcher) callExecutor(ctx context.Context, exec Executor, req models.ActionRequest) *models.ExecutionResult {
	result, err := exec.Execute(ctx, req.Action, req.Params)
	if err != nil {
		return models.Failuref(req.Action, "executor error: %v", err)
	}
	if result == nil {
		return models.Failuref(req.Action, "executor returned no result")
	}
	if result.Action == "" {
		result.Action = req.Action
	}
	return result
}

// dispatchMultiple executes an ordered list of sub-actions strictly
// sequentially: later sub-actions may depend on side effects of earlier
// ones. All sub-results are preserved even after a failure; composite
// success is the logical AND across sub-results.
func (d *Dispatcher) dispatchMultiple(ctx context.Context, req models.ActionRequest) *models.ExecutionResult {
	rawActions, ok := req.Params["actions"].([]any)
	if !ok {
		return models.Failuref(req.Action, "multiple_actions requires an 'actions' list")
	}

	allOK := true
	results := make([]models.ExecutionResult, 0, len(rawActions))
	for _, raw := range rawActions {
		sub, ok := raw.(map[string]any)
		if !ok {
			allOK = false
			results = append(results, *models.Failuref("", "sub-action is not an object"))
			continue
		}

		action, _ := sub["action"].(string)
		if action == "" {
			action, _ = sub["type"].(string)
		}
		params, _ := sub["params"].(map[string]any)

		// Sub-actions come straight from the model: resolve aliases and
		// expand path placeholders just like top-level actions.
		subReq := models.NewActionRequest(action, params)
		if d.normalizer != nil {
			subReq = d.normalizer.NormalizeRequest(subReq)
		}

		subResult := d.Dispatch(ctx, subReq)
		results = append(results, *subResult)
		if !subResult.Success {
			allOK = false
		}
	}

	message := "all actions completed successfully"
	if !allOK {
		message = "some actions failed"
	}
	return &models.ExecutionResult{
		Success: allOK,
		Action:  req.Action,
		Message: message,
		Results: results,
	}
}

// systemInfo answers the model's self-description and host information
// requests without touching any executor.
func systemInfo(req models.ActionRequest) *models.ExecutionResult {
	if message := req.StringParam("message"); message != "" {
		return models.Successf(req.Action, "%s", message)
	}

	info := hostInfo()
	infoType := req.StringParam("info_type")
	if text, ok := info[infoType]; ok {
		return models.Successf(req.Action, "%s", text)
	}
	return models.Successf(req.Action, "%s", info["introduction"])
}

// SupportedBuiltins returns the sorted built-in action ids, used in help
// output.
func SupportedBuiltins() []string {
	ids := []string{
		"folder_create", "file_create", "file_write",
		"terminal_execute", "command_run", "multiple_actions", "system_info",
	}
	sort.Strings(ids)
	return ids
}

// Prefixes returns the registered namespace prefixes in sorted order.
func (d *Dispatcher) Prefixes() []string {
	prefixes := make([]string, 0, len(d.executors))
	for p := range d.executors {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	return prefixes
}
