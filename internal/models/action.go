package models

// ActionRequest is the canonical form of one action extracted from a model
// response: a non-empty action id plus its parameters.
type ActionRequest struct {
	Action string         // Canonical action id (e.g. "file_read")
	Params map[string]any // Action parameters, never nil
}

// NewActionRequest creates an ActionRequest, guaranteeing Params is non-nil.
func NewActionRequest(action string, params map[string]any) ActionRequest {
	if params == nil {
		params = map[string]any{}
	}
	return ActionRequest{Action: action, Params: params}
}

// StringParam returns the named parameter as a string.
// Non-string and missing values return the empty string.
func (a ActionRequest) StringParam(key string) string {
	v, ok := a.Params[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
