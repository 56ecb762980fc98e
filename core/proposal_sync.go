package core

import (
	"context"
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ProposalCollateralDuffs is the fixed value of the output that makes a
// transaction valid proposal collateral.
const ProposalCollateralDuffs int64 = 500000000

// ProposalSync reconciles on-chain governance proposals into the
// document store. It keeps no state between passes; the store and the
// node are the only sources of truth.
type ProposalSync struct {
	client    NodeClient
	publisher Publisher
	logger    *logrus.Logger
}

func NewProposalSync(client NodeClient, publisher Publisher, logger *logrus.Logger) *ProposalSync {
	return &ProposalSync{
		client:    client,
		publisher: publisher,
		logger:    logger,
	}
}

// Sync runs one reconciliation pass: fetch, transform, upsert, then
// delete every previously published proposal not seen this pass.
// Failure of any of the three prerequisite fetches aborts the pass
// before any write; per-item failures are counted and the pass
// continues.
func (s *ProposalSync) Sync(ctx context.Context) (*SyncResult, error) {
	start := time.Now()
	result := &SyncResult{}

	objects, err := s.client.ListGovernanceObjects(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list governance objects")
	}
	count, err := s.client.MasternodeCount(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "masternode count")
	}
	height, err := s.client.BlockHeight(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "block height")
	}

	currentEpoch := BlockHeightToEpoch(height)
	threshold := CalculateFundingThreshold(count.Enabled)

	seen := make(map[string]struct{}, len(objects))
	for i := range objects {
		obj := &objects[i]
		if obj.ObjectType != ObjectTypeProposal {
			continue
		}

		data, err := s.transform(ctx, obj, count.Enabled, currentEpoch, threshold)
		if err != nil {
			result.Errors++
			s.logger.WithError(err).WithField("hash", TruncateHash(obj.Hash, 8)).Error("transform proposal")
			continue
		}
		if data == nil {
			continue
		}

		// Marked seen before the write: a failed upsert keeps the
		// previous revision instead of feeding the deletion phase.
		seen[NormalizeHash(obj.Hash)] = struct{}{}

		created, err := s.publisher.UpsertProposal(ctx, data)
		if err != nil {
			result.Errors++
			s.logger.WithError(err).WithField("hash", TruncateHash(obj.Hash, 8)).Error("upsert proposal")
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	s.deleteStale(ctx, seen, result)

	result.Duration = time.Since(start)
	return result, nil
}

// deleteStale removes every published proposal whose hash was not seen
// this pass. Runs strictly after the upsert phase so a record cannot be
// deleted mid-transform.
func (s *ProposalSync) deleteStale(ctx context.Context, seen map[string]struct{}, result *SyncResult) {
	published, err := s.publisher.ListProposals(ctx)
	if err != nil {
		result.Errors++
		s.logger.WithError(err).Error("list published proposals, skipping stale deletion")
		return
	}

	for _, doc := range published {
		if _, ok := seen[BytesToHex(doc.Hash)]; ok {
			continue
		}
		if err := s.publisher.DeleteProposal(ctx, doc.Hash); err != nil {
			result.Errors++
			s.logger.WithError(err).WithField("hash", TruncateHash(BytesToHex(doc.Hash), 8)).Error("delete stale proposal")
			continue
		}
		result.Deleted++
	}
}

// proposalPayload is the JSON document embedded in a governance object.
type proposalPayload struct {
	Name           string  `json:"name"`
	URL            string  `json:"url"`
	PaymentAddress string  `json:"payment_address"`
	PaymentAmount  float64 `json:"payment_amount"`
	StartEpoch     int64   `json:"start_epoch"`
	EndEpoch       int64   `json:"end_epoch"`
	Type           int     `json:"type"`
}

// parseProposalPayload accepts both the flat object form and the legacy
// nested [["proposal", {...}]] form.
func parseProposalPayload(data string) (*proposalPayload, error) {
	trimmed := strings.TrimSpace(data)
	payload := &proposalPayload{}

	if strings.HasPrefix(trimmed, "[") {
		var nested [][]json.RawMessage
		if err := json.Unmarshal([]byte(trimmed), &nested); err != nil {
			return nil, errors.Wrap(err, "unmarshal nested payload")
		}
		for _, pair := range nested {
			if len(pair) != 2 {
				continue
			}
			var tag string
			if err := json.Unmarshal(pair[0], &tag); err != nil || tag != "proposal" {
				continue
			}
			if err := json.Unmarshal(pair[1], payload); err != nil {
				return nil, errors.Wrap(err, "unmarshal nested proposal")
			}
			return payload, nil
		}
		return nil, errors.New("no proposal entry in nested payload")
	}

	if err := json.Unmarshal([]byte(trimmed), payload); err != nil {
		return nil, errors.Wrap(err, "unmarshal payload")
	}
	return payload, nil
}

// transform builds the store document for one governance object. A nil,
// nil return means the object was skipped as a data-quality guard, not
// an error.
func (s *ProposalSync) transform(ctx context.Context, obj *GovernanceObject, enabledNodes, currentEpoch, threshold int64) (*ProposalData, error) {
	payload, err := parseProposalPayload(obj.DataString)
	if err != nil {
		return nil, err
	}

	if payload.Name == "" || payload.URL == "" || payload.PaymentAddress == "" {
		s.logger.WithField("hash", TruncateHash(obj.Hash, 8)).Warn("proposal payload missing required fields, skipping")
		return nil, nil
	}

	if !IsValidHash256(obj.Hash) {
		return nil, errors.Errorf("invalid proposal hash %q", obj.Hash)
	}
	hash, err := HexToBytes(NormalizeHash(obj.Hash))
	if err != nil {
		return nil, err
	}

	amount, err := ToDuffs(payload.PaymentAmount)
	if err != nil {
		return nil, err
	}

	name := truncateString(payload.Name, MaxProposalNameLen)
	url := truncateString(payload.URL, MaxProposalURLLen)

	data := &ProposalData{
		Hash:             hash,
		ObjectType:       obj.ObjectType,
		Name:             name,
		URL:              url,
		PaymentAddress:   payload.PaymentAddress,
		PaymentAmount:    amount,
		StartEpoch:       payload.StartEpoch,
		EndEpoch:         payload.EndEpoch,
		Status:           CalculateProposalStatus(payload.StartEpoch, payload.EndEpoch, currentEpoch, obj.YesCount, obj.NoCount, threshold, obj.CachedFunding),
		YesCount:         obj.YesCount,
		NoCount:          obj.NoCount,
		AbstainCount:     obj.AbstainCount,
		MasternodeCount:  enabledNodes,
		FundingThreshold: threshold,
		LastUpdatedAt:    time.Now().UTC(),
		CreationHeight:   obj.CreationHeight,
	}

	if IsValidHash256(obj.CollateralHash) {
		collateral, err := HexToBytes(NormalizeHash(obj.CollateralHash))
		if err == nil {
			data.CollateralHash = collateral
		}
		// Advisory only: any failure here leaves the key empty.
		if key, err := s.collateralKey(ctx, obj.CollateralHash); err != nil {
			s.logger.WithError(err).WithField("hash", TruncateHash(obj.Hash, 8)).Debug("collateral key extraction failed")
		} else {
			data.CollateralKey = key
		}
	}

	return data, nil
}

// truncateString cuts s to at most max bytes without splitting a
// multibyte rune, so the result is always valid UTF-8 for the store.
func truncateString(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut
}

// collateralKey recovers the authorship pubkey or address from the
// collateral transaction by locating the fixed-value output and reading
// its script.
func (s *ProposalSync) collateralKey(ctx context.Context, collateralHash string) (string, error) {
	tx, err := s.client.RawTransaction(ctx, NormalizeHash(collateralHash))
	if err != nil {
		return "", err
	}

	for _, out := range tx.Vout {
		duffs, err := ToDuffs(out.Value)
		if err != nil || duffs != ProposalCollateralDuffs {
			continue
		}
		if out.ScriptPubKey.Type == "pubkey" {
			fields := strings.Fields(out.ScriptPubKey.Asm)
			if len(fields) > 0 {
				return fields[0], nil
			}
		}
		if len(out.ScriptPubKey.Addresses) > 0 {
			return out.ScriptPubKey.Addresses[0], nil
		}
	}
	return "", errors.Errorf("no collateral output with key in %s", TruncateHash(collateralHash, 8))
}
