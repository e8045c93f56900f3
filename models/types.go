package models

// Request types

type AddApprovalModelRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Params      FormParams `json:"params"`
}

type RenameApprovalModelRequest struct {
	NewName string `json:"new_name"`
}

type EvaluateExpressionRequest struct {
	Expression string `json:"expression"`
}

type ResolveRequest struct {
	Params FormParams `json:"params"`
}

type ImportAssetControlRequest struct {
	Asset string `json:"asset"`
}

type ImportAccountControlRequest struct {
	Account string `json:"account"`
}

// Response types

type AddApprovalModelResponse struct {
	Name  string        `json:"name"`
	Model ApprovalModel `json:"model"`
}

// One row of the approval model table
type ApprovalModelRow struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	VotingModel string `json:"voting_model"`
}

type ApprovalModelView struct {
	Name    string        `json:"name"`
	Model   ApprovalModel `json:"model"`
	Content string        `json:"content"`
}

// Entry of an approval model selection list. The leading entry has an
// empty Value and stands for "no approval model".
type SelectOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type ResolveResponse struct {
	Params FormParams `json:"params"`
}

type ImportResponse struct {
	Imported []string `json:"imported"`
}

type VariableStatus struct {
	Name        string `json:"name"`
	Defined     bool   `json:"defined"`
	Description string `json:"description,omitempty"`
}

// ExpressionPreview is the outcome of evaluating a boolean expression.
// Error is set when the node rejected the expression; otherwise Variables
// and Response describe what it references.
type ExpressionPreview struct {
	Error     string           `json:"error,omitempty"`
	Variables []VariableStatus `json:"variables,omitempty"`
	Response  string           `json:"response,omitempty"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}
