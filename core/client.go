package core

import (
	"context"
	"encoding/json"

	"github.com/btcsuite/btcd/rpcclient"
	"github.com/pkg/errors"
)

// GovernanceObject is one entry of the node's governance object listing.
// Only ObjectType 1 (proposal) is processed.
type GovernanceObject struct {
	Hash             string `json:"Hash"`
	ObjectType       int    `json:"ObjectType"`
	DataString       string `json:"DataString"`
	CollateralHash   string `json:"CollateralHash"`
	CreationHeight   int64  `json:"CreationHeight"`
	YesCount         int64  `json:"YesCount"`
	NoCount          int64  `json:"NoCount"`
	AbstainCount     int64  `json:"AbstainCount"`
	AbsoluteYesCount int64  `json:"AbsoluteYesCount"`
	CachedFunding    bool   `json:"fCachedFunding"`
}

type MasternodeCount struct {
	Total   int64 `json:"total"`
	Enabled int64 `json:"enabled"`
}

// MasternodeEntry is one entry of `masternode list json`, keyed on the
// wire by collateral outpoint.
type MasternodeEntry struct {
	ProTxHash      string `json:"proTxHash"`
	Address        string `json:"address"`
	PayeeAddress   string `json:"payee"`
	Status         string `json:"status"`
	OwnerAddress   string `json:"owneraddress"`
	VotingAddress  string `json:"votingaddress"`
	LastPaidHeight int64  `json:"lastpaidheight"`
}

// RawTransaction is a verbose getrawtransaction result, trimmed to the
// outputs the collateral scan reads.
type RawTransaction struct {
	Txid string     `json:"txid"`
	Vout []TxOutput `json:"vout"`
}

type TxOutput struct {
	Value        float64      `json:"value"`
	N            int          `json:"n"`
	ScriptPubKey ScriptPubKey `json:"scriptPubKey"`
}

type ScriptPubKey struct {
	Asm       string   `json:"asm"`
	Type      string   `json:"type"`
	Addresses []string `json:"addresses"`
}

// NodeClient is the read-only view of the blockchain node the
// synchronizers need. Implementations must be safe for use from a
// single goroutine at a time.
type NodeClient interface {
	ListGovernanceObjects(ctx context.Context) ([]GovernanceObject, error)
	MasternodeCount(ctx context.Context) (MasternodeCount, error)
	BlockHeight(ctx context.Context) (int64, error)
	RawTransaction(ctx context.Context, txid string) (*RawTransaction, error)
	ListMasternodes(ctx context.Context) ([]MasternodeEntry, error)
}

var _ NodeClient = (*RPCClient)(nil)

// RPCClient speaks bitcoind-family JSON-RPC over HTTP POST with basic
// auth.
type RPCClient struct {
	c *rpcclient.Client
}

func NewRPCClient(host, user, pass string) (*RPCClient, error) {
	c, err := rpcclient.New(&rpcclient.ConnConfig{
		Host:         host,
		User:         user,
		Pass:         pass,
		HTTPPostMode: true,
		DisableTLS:   true,
	}, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create rpc client")
	}
	return &RPCClient{c: c}, nil
}

func (r *RPCClient) Shutdown() {
	r.c.Shutdown()
}

func (r *RPCClient) call(ctx context.Context, method string, params []any, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raws := make([]json.RawMessage, 0, len(params))
	for _, p := range params {
		raw, err := json.Marshal(p)
		if err != nil {
			return errors.Wrapf(err, "marshal %s param", method)
		}
		raws = append(raws, raw)
	}
	res, err := r.c.RawRequest(method, raws)
	if err != nil {
		return errors.Wrapf(err, "rpc %s", method)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(res, out); err != nil {
		return errors.Wrapf(err, "decode %s result", method)
	}
	return nil
}

func (r *RPCClient) ListGovernanceObjects(ctx context.Context) ([]GovernanceObject, error) {
	var byHash map[string]GovernanceObject
	if err := r.call(ctx, "gobject", []any{"list"}, &byHash); err != nil {
		return nil, err
	}
	objects := make([]GovernanceObject, 0, len(byHash))
	for hash, obj := range byHash {
		if obj.Hash == "" {
			obj.Hash = hash
		}
		objects = append(objects, obj)
	}
	return objects, nil
}

func (r *RPCClient) MasternodeCount(ctx context.Context) (MasternodeCount, error) {
	var count MasternodeCount
	if err := r.call(ctx, "masternode", []any{"count"}, &count); err != nil {
		return MasternodeCount{}, err
	}
	return count, nil
}

func (r *RPCClient) BlockHeight(ctx context.Context) (int64, error) {
	var height int64
	if err := r.call(ctx, "getblockcount", nil, &height); err != nil {
		return 0, err
	}
	return height, nil
}

func (r *RPCClient) RawTransaction(ctx context.Context, txid string) (*RawTransaction, error) {
	tx := &RawTransaction{}
	if err := r.call(ctx, "getrawtransaction", []any{txid, true}, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

func (r *RPCClient) ListMasternodes(ctx context.Context) ([]MasternodeEntry, error) {
	var byOutpoint map[string]MasternodeEntry
	if err := r.call(ctx, "masternode", []any{"list", "json"}, &byOutpoint); err != nil {
		return nil, err
	}
	nodes := make([]MasternodeEntry, 0, len(byOutpoint))
	for _, node := range byOutpoint {
		nodes = append(nodes, node)
	}
	return nodes, nil
}
