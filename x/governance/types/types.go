package types

import (
	"encoding/binary"
	"fmt"
)

// AccountType tags which of the governance record kinds a serialized
// account slab holds (§3), the way the original timelock program
// multiplexes several record shapes behind one discriminant byte.
type AccountType byte

const (
	AccountTypeUninitialized AccountType = iota
	AccountTypeGovernance
	AccountTypeProposal
	AccountTypeProposalState
	AccountTypeVoteRecord
	AccountTypeCustomSingleSignerTransaction
)

// ConsensusAlgorithm selects the tipping rule evaluated after every vote
// (§4.5.2).
type ConsensusAlgorithm byte

const (
	ConsensusMajority ConsensusAlgorithm = iota
	ConsensusSuperMajority
	ConsensusFullConsensus
)

// ProposalStatus is a Proposal's position in the §4.5.2 state machine.
type ProposalStatus byte

const (
	ProposalStatusDraft ProposalStatus = iota
	ProposalStatusVoting
	ProposalStatusExecuting
	ProposalStatusCompleted
	ProposalStatusDefeated
	ProposalStatusDeleted
)

func (s ProposalStatus) String() string {
	switch s {
	case ProposalStatusDraft:
		return "draft"
	case ProposalStatusVoting:
		return "voting"
	case ProposalStatusExecuting:
		return "executing"
	case ProposalStatusCompleted:
		return "completed"
	case ProposalStatusDefeated:
		return "defeated"
	case ProposalStatusDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// NameSize and DescLinkSize are the fixed byte widths §6.2 assigns to a
// Proposal's name and description-link labels.
const (
	NameSize     = 32
	DescLinkSize = 200
)

// MaxTransactions is the fixed number of transaction slots a ProposalState
// carries (§3: "up to 10 CustomSingleSignerTransaction references"),
// matching the original TimelockState's TRANSACTION_SLOTS.
const MaxTransactions = 10

// Governance is the root record binding a guarded program to the voting
// mints and parameters every Proposal under it inherits (§3, §4.5.1).
type Governance struct {
	Program                 Key
	GovernanceMint           Key
	HasCouncilMint           bool
	CouncilMint              Key
	VoteThreshold            uint8 // integer percent in [0, 100]
	MinimumSlotWaitingPeriod uint64
	TimeLimit                uint64
	ConsensusAlgorithm       ConsensusAlgorithm
	IsCommitteeType          bool
	Name                     [NameSize]byte
	Count                    uint64
}

// Proposal references its parent Governance and the escrow account source
// tokens are deposited into while voting (§3).
type Proposal struct {
	Governance          Key
	State               Key
	Name                [NameSize]byte
	DescLink             [DescLinkSize]byte
	TokenHoldingAccount Key
	// VotingMint/YesMint/NoMint are the per-proposal mints DepositSourceTokens
	// and Vote mint/burn against (§4.5.3); not part of spec.md's minimal
	// Proposal field list but required to make the voting-token bookkeeping
	// concrete rather than symbolic.
	VotingMint Key
	YesMint    Key
	NoMint     Key
}

// CustomSingleSignerTransaction is one queued, delayed instruction dispatch
// (§3, §4.5.2 Executing).
type CustomSingleSignerTransaction struct {
	DelaySlots          uint64
	Instruction         []byte
	InstructionEndIndex uint32
	Executed            bool
}

// ProposalState is a Proposal's mutable lifecycle record, split from
// Proposal the way the original TimelockSet/TimelockState pair separates
// static configuration from the status blob that changes every
// instruction (§3).
type ProposalState struct {
	Status                       ProposalStatus
	SignatoriesCount             uint32
	SignatoriesSignedOffCount    uint32
	VotingStartedAt              uint64
	VotingEndedAt                uint64
	NumberOfTransactions         uint32
	NumberOfExecutedTransactions uint32
	Transactions                 [MaxTransactions]Key
}

// VoteRecord is one voter's per-proposal ledger of undecided/yes/no voting
// tokens (§3, §4.5.3).
type VoteRecord struct {
	Proposal        Key
	Owner           Key
	YesAmount       uint64
	NoAmount        uint64
	UndecidedAmount uint64
}

// --- binary layouts -------------------------------------------------------
//
// Governance records are, per §6.2, "fixed-size with tag byte, then ordered
// fields; name is a fixed 32-byte region, desc_link a fixed 200-byte
// region" — laid out here the same way x/lending/types packs Reserve and
// Obligation: a tag byte (AccountType) followed by each field in struct
// order, little-endian integers, fixed-width byte arrays copied verbatim.

func putBool(b []byte, v bool) {
	if v {
		b[0] = 1
	} else {
		b[0] = 0
	}
}

func getBool(b []byte) bool { return b[0] != 0 }

// GovernanceSize is 1 (tag) + 32 (program) + 32 (governance_mint) + 1
// (has_council_mint) + 32 (council_mint) + 1 (vote_threshold) + 8
// (minimum_slot_waiting_period) + 8 (time_limit) + 1 (consensus_algorithm)
// + 1 (is_committee_type) + 32 (name) + 8 (count).
const GovernanceSize = 1 + 32 + 32 + 1 + 32 + 1 + 8 + 8 + 1 + 1 + NameSize + 8

func (g Governance) MarshalBinary() ([]byte, error) {
	buf := make([]byte, GovernanceSize)
	i := 0
	buf[i] = byte(AccountTypeGovernance)
	i++
	copy(buf[i:i+32], g.Program[:])
	i += 32
	copy(buf[i:i+32], g.GovernanceMint[:])
	i += 32
	putBool(buf[i:i+1], g.HasCouncilMint)
	i++
	copy(buf[i:i+32], g.CouncilMint[:])
	i += 32
	buf[i] = g.VoteThreshold
	i++
	binary.LittleEndian.PutUint64(buf[i:i+8], g.MinimumSlotWaitingPeriod)
	i += 8
	binary.LittleEndian.PutUint64(buf[i:i+8], g.TimeLimit)
	i += 8
	buf[i] = byte(g.ConsensusAlgorithm)
	i++
	putBool(buf[i:i+1], g.IsCommitteeType)
	i++
	copy(buf[i:i+NameSize], g.Name[:])
	i += NameSize
	binary.LittleEndian.PutUint64(buf[i:i+8], g.Count)
	return buf, nil
}

func (g *Governance) UnmarshalBinary(data []byte) error {
	if len(data) != GovernanceSize {
		return fmt.Errorf("governance: invalid length %d", len(data))
	}
	i := 0
	if AccountType(data[i]) != AccountTypeGovernance {
		return ErrInvalidAccountType
	}
	i++
	copy(g.Program[:], data[i:i+32])
	i += 32
	copy(g.GovernanceMint[:], data[i:i+32])
	i += 32
	g.HasCouncilMint = getBool(data[i : i+1])
	i++
	copy(g.CouncilMint[:], data[i:i+32])
	i += 32
	g.VoteThreshold = data[i]
	i++
	g.MinimumSlotWaitingPeriod = binary.LittleEndian.Uint64(data[i : i+8])
	i += 8
	g.TimeLimit = binary.LittleEndian.Uint64(data[i : i+8])
	i += 8
	g.ConsensusAlgorithm = ConsensusAlgorithm(data[i])
	i++
	g.IsCommitteeType = getBool(data[i : i+1])
	i++
	copy(g.Name[:], data[i:i+NameSize])
	i += NameSize
	g.Count = binary.LittleEndian.Uint64(data[i : i+8])
	return nil
}

// ProposalSize is 1 (tag) + 32 (governance) + 32 (state) + 32 (name) + 200
// (desc_link) + 32 (token_holding_account) + 32*3 (voting/yes/no mints).
const ProposalSize = 1 + 32 + 32 + NameSize + DescLinkSize + 32 + 32*3

func (p Proposal) MarshalBinary() ([]byte, error) {
	buf := make([]byte, ProposalSize)
	i := 0
	buf[i] = byte(AccountTypeProposal)
	i++
	copy(buf[i:i+32], p.Governance[:])
	i += 32
	copy(buf[i:i+32], p.State[:])
	i += 32
	copy(buf[i:i+NameSize], p.Name[:])
	i += NameSize
	copy(buf[i:i+DescLinkSize], p.DescLink[:])
	i += DescLinkSize
	copy(buf[i:i+32], p.TokenHoldingAccount[:])
	i += 32
	copy(buf[i:i+32], p.VotingMint[:])
	i += 32
	copy(buf[i:i+32], p.YesMint[:])
	i += 32
	copy(buf[i:i+32], p.NoMint[:])
	return buf, nil
}

func (p *Proposal) UnmarshalBinary(data []byte) error {
	if len(data) != ProposalSize {
		return fmt.Errorf("proposal: invalid length %d", len(data))
	}
	i := 0
	if AccountType(data[i]) != AccountTypeProposal {
		return ErrInvalidAccountType
	}
	i++
	copy(p.Governance[:], data[i:i+32])
	i += 32
	copy(p.State[:], data[i:i+32])
	i += 32
	copy(p.Name[:], data[i:i+NameSize])
	i += NameSize
	copy(p.DescLink[:], data[i:i+DescLinkSize])
	i += DescLinkSize
	copy(p.TokenHoldingAccount[:], data[i:i+32])
	i += 32
	copy(p.VotingMint[:], data[i:i+32])
	i += 32
	copy(p.YesMint[:], data[i:i+32])
	i += 32
	copy(p.NoMint[:], data[i:i+32])
	return nil
}

// ProposalStateSize is 1 (tag) + 1 (status) + 4 + 4 (signatory counters) +
// 8 + 8 (voting timestamps) + 4 + 4 (transaction counters) + 32*10 (slots).
const ProposalStateSize = 1 + 1 + 4 + 4 + 8 + 8 + 4 + 4 + 32*MaxTransactions

func (s ProposalState) MarshalBinary() ([]byte, error) {
	buf := make([]byte, ProposalStateSize)
	i := 0
	buf[i] = byte(AccountTypeProposalState)
	i++
	buf[i] = byte(s.Status)
	i++
	binary.LittleEndian.PutUint32(buf[i:i+4], s.SignatoriesCount)
	i += 4
	binary.LittleEndian.PutUint32(buf[i:i+4], s.SignatoriesSignedOffCount)
	i += 4
	binary.LittleEndian.PutUint64(buf[i:i+8], s.VotingStartedAt)
	i += 8
	binary.LittleEndian.PutUint64(buf[i:i+8], s.VotingEndedAt)
	i += 8
	binary.LittleEndian.PutUint32(buf[i:i+4], s.NumberOfTransactions)
	i += 4
	binary.LittleEndian.PutUint32(buf[i:i+4], s.NumberOfExecutedTransactions)
	i += 4
	for _, t := range s.Transactions {
		copy(buf[i:i+32], t[:])
		i += 32
	}
	return buf, nil
}

func (s *ProposalState) UnmarshalBinary(data []byte) error {
	if len(data) != ProposalStateSize {
		return fmt.Errorf("proposal_state: invalid length %d", len(data))
	}
	i := 0
	if AccountType(data[i]) != AccountTypeProposalState {
		return ErrInvalidAccountType
	}
	i++
	s.Status = ProposalStatus(data[i])
	i++
	s.SignatoriesCount = binary.LittleEndian.Uint32(data[i : i+4])
	i += 4
	s.SignatoriesSignedOffCount = binary.LittleEndian.Uint32(data[i : i+4])
	i += 4
	s.VotingStartedAt = binary.LittleEndian.Uint64(data[i : i+8])
	i += 8
	s.VotingEndedAt = binary.LittleEndian.Uint64(data[i : i+8])
	i += 8
	s.NumberOfTransactions = binary.LittleEndian.Uint32(data[i : i+4])
	i += 4
	s.NumberOfExecutedTransactions = binary.LittleEndian.Uint32(data[i : i+4])
	i += 4
	for j := range s.Transactions {
		copy(s.Transactions[j][:], data[i:i+32])
		i += 32
	}
	return nil
}

// CustomSingleSignerTransactionHeaderSize is the fixed portion preceding
// the variable-length instruction buffer: tag + delay_slots +
// instruction_end_index + executed.
const CustomSingleSignerTransactionHeaderSize = 1 + 8 + 4 + 1

// MaxInstructionSize bounds the opaque instruction buffer a transaction
// slot carries, the way the original TimelockTransaction account is a
// fixed-size slab.
const MaxInstructionSize = 1232

func (t CustomSingleSignerTransaction) MarshalBinary() ([]byte, error) {
	if len(t.Instruction) > MaxInstructionSize {
		return nil, ErrInstructionTooLarge
	}
	buf := make([]byte, CustomSingleSignerTransactionHeaderSize+MaxInstructionSize)
	i := 0
	buf[i] = byte(AccountTypeCustomSingleSignerTransaction)
	i++
	binary.LittleEndian.PutUint64(buf[i:i+8], t.DelaySlots)
	i += 8
	binary.LittleEndian.PutUint32(buf[i:i+4], t.InstructionEndIndex)
	i += 4
	putBool(buf[i:i+1], t.Executed)
	i++
	copy(buf[i:i+len(t.Instruction)], t.Instruction)
	return buf, nil
}

func (t *CustomSingleSignerTransaction) UnmarshalBinary(data []byte) error {
	if len(data) != CustomSingleSignerTransactionHeaderSize+MaxInstructionSize {
		return fmt.Errorf("custom_single_signer_transaction: invalid length %d", len(data))
	}
	i := 0
	if AccountType(data[i]) != AccountTypeCustomSingleSignerTransaction {
		return ErrInvalidAccountType
	}
	i++
	t.DelaySlots = binary.LittleEndian.Uint64(data[i : i+8])
	i += 8
	t.InstructionEndIndex = binary.LittleEndian.Uint32(data[i : i+4])
	i += 4
	t.Executed = getBool(data[i : i+1])
	i++
	end := t.InstructionEndIndex
	if end > MaxInstructionSize {
		return ErrInvalidInput
	}
	t.Instruction = append([]byte{}, data[i:i+int(end)]...)
	return nil
}

// VoteRecordSize is 1 (tag) + 32 (proposal) + 32 (owner) + 8*3 (amounts).
const VoteRecordSize = 1 + 32 + 32 + 8*3

func (v VoteRecord) MarshalBinary() ([]byte, error) {
	buf := make([]byte, VoteRecordSize)
	i := 0
	buf[i] = byte(AccountTypeVoteRecord)
	i++
	copy(buf[i:i+32], v.Proposal[:])
	i += 32
	copy(buf[i:i+32], v.Owner[:])
	i += 32
	binary.LittleEndian.PutUint64(buf[i:i+8], v.YesAmount)
	i += 8
	binary.LittleEndian.PutUint64(buf[i:i+8], v.NoAmount)
	i += 8
	binary.LittleEndian.PutUint64(buf[i:i+8], v.UndecidedAmount)
	return buf, nil
}

func (v *VoteRecord) UnmarshalBinary(data []byte) error {
	if len(data) != VoteRecordSize {
		return fmt.Errorf("vote_record: invalid length %d", len(data))
	}
	i := 0
	if AccountType(data[i]) != AccountTypeVoteRecord {
		return ErrInvalidAccountType
	}
	i++
	copy(v.Proposal[:], data[i:i+32])
	i += 32
	copy(v.Owner[:], data[i:i+32])
	i += 32
	v.YesAmount = binary.LittleEndian.Uint64(data[i : i+8])
	i += 8
	v.NoAmount = binary.LittleEndian.Uint64(data[i : i+8])
	i += 8
	v.UndecidedAmount = binary.LittleEndian.Uint64(data[i : i+8])
	return nil
}

// IsEmpty reports whether a VoteRecord has nothing left to withdraw or
// vote with, the same zero-state convention x/lending/types.Obligation
// uses for implicit destruction (§3).
func (v VoteRecord) IsEmpty() bool {
	return v.YesAmount == 0 && v.NoAmount == 0 && v.UndecidedAmount == 0
}

