package core

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

type fakeNodeClient struct {
	objects []GovernanceObject
	count   MasternodeCount
	height  int64
	rawTxs  map[string]*RawTransaction
	nodes   []MasternodeEntry

	listObjectsErr error
	countErr       error
	heightErr      error
	listNodesErr   error
}

var _ NodeClient = (*fakeNodeClient)(nil)

func (c *fakeNodeClient) ListGovernanceObjects(ctx context.Context) ([]GovernanceObject, error) {
	if c.listObjectsErr != nil {
		return nil, c.listObjectsErr
	}
	return c.objects, nil
}

func (c *fakeNodeClient) MasternodeCount(ctx context.Context) (MasternodeCount, error) {
	if c.countErr != nil {
		return MasternodeCount{}, c.countErr
	}
	return c.count, nil
}

func (c *fakeNodeClient) BlockHeight(ctx context.Context) (int64, error) {
	if c.heightErr != nil {
		return 0, c.heightErr
	}
	return c.height, nil
}

func (c *fakeNodeClient) RawTransaction(ctx context.Context, txid string) (*RawTransaction, error) {
	if tx, ok := c.rawTxs[txid]; ok {
		return tx, nil
	}
	return nil, errors.Errorf("transaction %s not found", txid)
}

func (c *fakeNodeClient) ListMasternodes(ctx context.Context) ([]MasternodeEntry, error) {
	if c.listNodesErr != nil {
		return nil, c.listNodesErr
	}
	return c.nodes, nil
}

type fakePublisher struct {
	proposals   map[string]*ProposalData
	masternodes map[string]*MasternodeData
	deleted     []string

	// failUpsertHash / failDeleteHash make the corresponding write fail
	// for one normalized hash.
	failUpsertHash string
	failDeleteHash string
	listErr        error
}

var _ Publisher = (*fakePublisher)(nil)

func newFakePublisher() *fakePublisher {
	return &fakePublisher{
		proposals:   make(map[string]*ProposalData),
		masternodes: make(map[string]*MasternodeData),
	}
}

func (p *fakePublisher) UpsertProposal(ctx context.Context, data *ProposalData) (bool, error) {
	key := BytesToHex(data.Hash)
	if key == p.failUpsertHash {
		return false, errors.New("store write failed")
	}
	_, exists := p.proposals[key]
	cp := *data
	p.proposals[key] = &cp
	return !exists, nil
}

func (p *fakePublisher) ListProposals(ctx context.Context) ([]*ProposalData, error) {
	if p.listErr != nil {
		return nil, p.listErr
	}
	out := make([]*ProposalData, 0, len(p.proposals))
	for _, data := range p.proposals {
		out = append(out, data)
	}
	return out, nil
}

func (p *fakePublisher) DeleteProposal(ctx context.Context, hash []byte) error {
	key := BytesToHex(hash)
	if key == p.failDeleteHash {
		return errors.New("store delete failed")
	}
	delete(p.proposals, key)
	p.deleted = append(p.deleted, key)
	return nil
}

func (p *fakePublisher) UpsertMasternode(ctx context.Context, data *MasternodeData) (bool, error) {
	key := BytesToHex(data.RegistrationHash)
	_, exists := p.masternodes[key]
	cp := *data
	p.masternodes[key] = &cp
	return !exists, nil
}

func proposalObject(hash string, payload proposalPayload, yes, no int64, cached bool) GovernanceObject {
	raw, err := json.Marshal(payload)
	if err != nil {
		panic(err)
	}
	return GovernanceObject{
		Hash:           hash,
		ObjectType:     ObjectTypeProposal,
		DataString:     string(raw),
		CollateralHash: "",
		YesCount:       yes,
		NoCount:        no,
		CachedFunding:  cached,
	}
}
