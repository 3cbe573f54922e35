package types

import (
	"cosmossdk.io/errors"
)

// Governance module error codes
const (
	DefaultCodespace = "governance"
)

// x/governance module sentinel errors, registered with a stable codespace
// the way every module in this tree does (see x/lending/types/errors.go).
var (
	ErrAlreadyInUse       = errors.Register(DefaultCodespace, 1, "already in use")
	ErrInvalidInput       = errors.Register(DefaultCodespace, 2, "invalid input")
	ErrInvalidAccountType = errors.Register(DefaultCodespace, 3, "invalid account type tag")
	ErrInstructionTooLarge = errors.Register(DefaultCodespace, 4, "instruction exceeds maximum size")

	ErrGovernanceNotFound    = errors.Register(DefaultCodespace, 10, "governance not found")
	ErrProposalNotFound      = errors.Register(DefaultCodespace, 11, "proposal not found")
	ErrProposalStateNotFound = errors.Register(DefaultCodespace, 12, "proposal state not found")
	ErrVoteRecordNotFound    = errors.Register(DefaultCodespace, 13, "vote record not found")
	ErrTransactionNotFound   = errors.Register(DefaultCodespace, 14, "transaction not found")

	ErrNotInDraft          = errors.Register(DefaultCodespace, 20, "proposal is not in draft status")
	ErrNotInVoting         = errors.Register(DefaultCodespace, 21, "proposal is not in voting status")
	ErrNotInExecuting      = errors.Register(DefaultCodespace, 22, "proposal is not in executing status")
	ErrTooEarlyToExecute   = errors.Register(DefaultCodespace, 23, "transaction delay has not elapsed")
	ErrAlreadyExecuted     = errors.Register(DefaultCodespace, 24, "transaction already executed")
	ErrSignatoryAlreadyExists = errors.Register(DefaultCodespace, 25, "signatory already exists")
	ErrTransactionSlotFull = errors.Register(DefaultCodespace, 26, "no free transaction slot")
	ErrWithdrawNotAllowedForCommittee = errors.Register(DefaultCodespace, 27, "withdraw voting tokens not allowed for committee-type proposals")
	ErrInsufficientVotingTokens = errors.Register(DefaultCodespace, 28, "insufficient voting tokens")

	ErrTokenInitializeMintFailed    = errors.Register(DefaultCodespace, 40, "token initialize_mint failed")
	ErrTokenInitializeAccountFailed = errors.Register(DefaultCodespace, 41, "token initialize_account failed")
	ErrTokenTransferFailed          = errors.Register(DefaultCodespace, 42, "token transfer failed")
	ErrTokenMintToFailed            = errors.Register(DefaultCodespace, 43, "token mint_to failed")
	ErrTokenBurnFailed              = errors.Register(DefaultCodespace, 44, "token burn failed")

	ErrDispatchFailed = errors.Register(DefaultCodespace, 50, "cross-program instruction dispatch failed")
)

// Event types emitted on every state transition.
const (
	EventTypeGovernanceCreated        = "governance_created"
	EventTypeProposalInitialized      = "proposal_initialized"
	EventTypeSignatoryAdded           = "signatory_added"
	EventTypeSignatoryRemoved         = "signatory_removed"
	EventTypeTransactionAdded         = "transaction_added"
	EventTypeTransactionRemoved       = "transaction_removed"
	EventTypeProposalSigned           = "proposal_signed"
	EventTypeProposalDeleted          = "proposal_deleted"
	EventTypeSourceTokensDeposited    = "source_tokens_deposited"
	EventTypeVoteCast                 = "vote_cast"
	EventTypeVoteRelinquished         = "vote_relinquished"
	EventTypeVotingTokensWithdrawn    = "voting_tokens_withdrawn"
	EventTypeProposalTipped           = "proposal_tipped"
	EventTypeProposalDefeated         = "proposal_defeated"
	EventTypeTransactionExecuted      = "transaction_executed"
	EventTypeProposalCompleted        = "proposal_completed"
)

// Attribute keys.
const (
	AttributeKeyGovernance  = "governance"
	AttributeKeyProposal    = "proposal"
	AttributeKeyTransaction = "transaction"
	AttributeKeyVoter       = "voter"
	AttributeKeyYesAmount   = "yes_amount"
	AttributeKeyNoAmount    = "no_amount"
	AttributeKeyAmount      = "amount"
	AttributeKeySlot        = "slot"
	AttributeKeyStatus      = "status"
)
