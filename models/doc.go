// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the approval model and the API's request and
response types.

# Approval Model

ApprovalModel holds the fields the service reads directly and keeps every
other node-produced field in Extra, so a model encodes back to the same
JSON object it was decoded from:

	{"description":"Two of three","phasingVotingModel":0,"phasingQuorum":2,...}

VotingModel is the numeric phasingVotingModel code:

	VotingModelNone        = -1
	VotingModelAccount     = 0
	VotingModelBalance     = 1
	VotingModelAsset       = 2
	VotingModelCurrency    = 3
	VotingModelTransaction = 4
	VotingModelHash        = 5
	VotingModelProperty    = 6
	VotingModelComposite   = 7

Transaction and hash models are restricted: they can phase a transaction
but cannot back an account control.

# Request Types

  - AddApprovalModelRequest: name, description, params
  - RenameApprovalModelRequest: new_name
  - EvaluateExpressionRequest: expression
  - ResolveRequest: params
  - ImportAssetControlRequest: asset
  - ImportAccountControlRequest: account

# Response Types

  - AddApprovalModelResponse: name, model
  - ApprovalModelRow: name, description, voting_model
  - ApprovalModelView: name, model, content
  - SelectOption: value, label
  - ResolveResponse: params
  - ImportResponse: imported
  - ExpressionPreview: error, variables, response
  - ErrorResponse: error, message, code
*/
package models
