package core

import "time"

// ProposalStatus is the derived lifecycle state of a governance proposal.
type ProposalStatus string

const (
	// StatusPending means the current epoch precedes the voting window.
	StatusPending ProposalStatus = "PENDING"

	// StatusActive means the window is open but net yes votes are below
	// the funding threshold.
	StatusActive ProposalStatus = "ACTIVE"

	// StatusFunding means the proposal is at or above the funding
	// threshold and receives scheduled payment.
	StatusFunding ProposalStatus = "FUNDING"

	// StatusRejected means net votes are negative enough to rule the
	// proposal out outright.
	StatusRejected ProposalStatus = "REJECTED"

	// StatusExpired means the window closed without the proposal ever
	// reaching funding.
	StatusExpired ProposalStatus = "EXPIRED"
)

// ObjectTypeProposal is the governance object type tag for proposals.
// Other object types (triggers, watchdogs) are not mirrored.
const ObjectTypeProposal = 1

const (
	MaxProposalNameLen = 40
	MaxProposalURLLen  = 256
)

// ProposalData is the normalized proposal document written to the store,
// keyed by the 32-byte governance object hash.
type ProposalData struct {
	Hash             []byte
	ObjectType       int
	Name             string
	URL              string
	PaymentAddress   string
	PaymentAmount    int64 // duffs
	StartEpoch       int64
	EndEpoch         int64
	Status           ProposalStatus
	YesCount         int64
	NoCount          int64
	AbstainCount     int64
	MasternodeCount  int64
	FundingThreshold int64
	LastUpdatedAt    time.Time
	CreationHeight   int64
	CollateralHash   []byte
	// CollateralKey is the pubkey or address recovered from the
	// collateral transaction output. Advisory, may be empty.
	CollateralKey string
}

// MasternodeData is the voting-node registry document written to the
// store, keyed by the 32-byte registration transaction hash.
type MasternodeData struct {
	RegistrationHash []byte
	VotingKeyHash    []byte // 20 bytes
	OwnerKeyHash     []byte // 20 bytes, may be nil
	PayoutAddress    string
	Enabled          bool
	LastUpdatedAt    time.Time
}

// SyncResult summarizes one reconciliation pass. It is returned to the
// caller for reporting and never persisted.
type SyncResult struct {
	Created  int
	Updated  int
	Deleted  int
	Errors   int
	Duration time.Duration
}
