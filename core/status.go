package core

// EpochBlocks is the number of blocks in one governance epoch, the unit
// of proposal voting windows. Network constant (mainnet superblock
// cycle).
const EpochBlocks = 16616

// BlockHeightToEpoch maps a block height onto its governance epoch.
// Epoch windows are inclusive on the start side and exclusive on the
// end side.
func BlockHeightToEpoch(height int64) int64 {
	if height < 0 {
		return 0
	}
	return height / EpochBlocks
}

// CalculateFundingThreshold returns the minimum net yes votes required
// for funding: 10% of enabled voting nodes, rounded half up.
func CalculateFundingThreshold(enabledNodes int64) int64 {
	if enabledNodes <= 0 {
		return 0
	}
	return (enabledNodes + 5) / 10
}

// CalculateProposalStatus classifies a proposal from its voting window,
// vote tallies and the funding threshold. Net votes are yes minus no;
// abstains never participate. At the end-epoch boundary exactly, the
// node's cached funding flag decides between FUNDING and EXPIRED so
// repeated passes with identical inputs cannot flap.
func CalculateProposalStatus(startEpoch, endEpoch, currentEpoch, yesCount, noCount, threshold int64, cachedFunding bool) ProposalStatus {
	net := yesCount - noCount

	if currentEpoch < startEpoch {
		return StatusPending
	}

	if currentEpoch >= endEpoch {
		if currentEpoch == endEpoch && cachedFunding {
			return StatusFunding
		}
		if threshold > 0 && net <= -threshold {
			return StatusRejected
		}
		return StatusExpired
	}

	if threshold > 0 && net <= -threshold {
		return StatusRejected
	}
	if net >= threshold && (threshold > 0 || cachedFunding) {
		return StatusFunding
	}
	return StatusActive
}
