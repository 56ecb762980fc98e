package core

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// MasternodeSync mirrors the voting-node registry into the document
// store. Stale records are not deleted; deregistration shows up as the
// enabled flag going false.
type MasternodeSync struct {
	client    NodeClient
	publisher Publisher
	logger    *logrus.Logger
}

func NewMasternodeSync(client NodeClient, publisher Publisher, logger *logrus.Logger) *MasternodeSync {
	return &MasternodeSync{
		client:    client,
		publisher: publisher,
		logger:    logger,
	}
}

// Sync runs one registry pass. Failure to fetch the node list aborts
// the pass; per-node failures are counted and the loop continues.
func (s *MasternodeSync) Sync(ctx context.Context) (*SyncResult, error) {
	start := time.Now()
	result := &SyncResult{}

	nodes, err := s.client.ListMasternodes(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list masternodes")
	}

	for i := range nodes {
		node := &nodes[i]

		data, err := transformMasternode(node)
		if err != nil {
			result.Errors++
			s.logger.WithError(err).WithField("proTxHash", TruncateHash(node.ProTxHash, 8)).Error("transform masternode")
			continue
		}

		created, err := s.publisher.UpsertMasternode(ctx, data)
		if err != nil {
			result.Errors++
			s.logger.WithError(err).WithField("proTxHash", TruncateHash(node.ProTxHash, 8)).Error("upsert masternode")
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}

func transformMasternode(node *MasternodeEntry) (*MasternodeData, error) {
	if !IsValidHash256(node.ProTxHash) {
		return nil, errors.Errorf("invalid registration hash %q", node.ProTxHash)
	}
	regHash, err := HexToBytes(NormalizeHash(node.ProTxHash))
	if err != nil {
		return nil, err
	}

	var votingKeyHash []byte
	if node.VotingAddress != "" {
		votingKeyHash, err = AddressKeyHash(node.VotingAddress)
		if err != nil {
			return nil, errors.Wrap(err, "voting key hash")
		}
	} else {
		votingKeyHash = FallbackKeyHash(regHash)
	}

	var ownerKeyHash []byte
	if node.OwnerAddress != "" {
		ownerKeyHash, err = AddressKeyHash(node.OwnerAddress)
		if err != nil {
			return nil, errors.Wrap(err, "owner key hash")
		}
	}

	return &MasternodeData{
		RegistrationHash: regHash,
		VotingKeyHash:    votingKeyHash,
		OwnerKeyHash:     ownerKeyHash,
		PayoutAddress:    node.PayeeAddress,
		Enabled:          node.Status == "ENABLED",
		LastUpdatedAt:    time.Now().UTC(),
	}, nil
}
