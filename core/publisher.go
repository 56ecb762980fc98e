package core

import "context"

// Publisher is the document-store write path. Upserts report whether a
// new document was created so passes can distinguish creates from
// updates.
type Publisher interface {
	UpsertProposal(ctx context.Context, data *ProposalData) (created bool, err error)
	ListProposals(ctx context.Context) ([]*ProposalData, error)
	DeleteProposal(ctx context.Context, hash []byte) error
	UpsertMasternode(ctx context.Context, data *MasternodeData) (created bool, err error)
}
