package core

import (
	"context"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	regHashA = strings.Repeat("1a", 32)
	regHashB = strings.Repeat("2b", 32)
)

func testAddress(seed byte) (string, []byte) {
	keyHash := make([]byte, 20)
	for i := range keyHash {
		keyHash[i] = seed
	}
	return base58.CheckEncode(keyHash, addressVersion), keyHash
}

func TestMasternodeSyncPublishesRegistry(t *testing.T) {
	votingAddr, votingHash := testAddress(0x01)
	ownerAddr, ownerHash := testAddress(0x02)

	client := &fakeNodeClient{
		nodes: []MasternodeEntry{
			{
				ProTxHash:     regHashA,
				PayeeAddress:  "Xpayee",
				Status:        "ENABLED",
				VotingAddress: votingAddr,
				OwnerAddress:  ownerAddr,
			},
			{
				ProTxHash: regHashB,
				Status:    "POSE_BANNED",
			},
		},
	}
	pub := newFakePublisher()
	s := NewMasternodeSync(client, pub, testLogger())

	result, err := s.Sync(context.Background())
	require.Nil(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 0, result.Errors)

	a := pub.masternodes[regHashA]
	require.NotNil(t, a)
	assert.Equal(t, votingHash, a.VotingKeyHash)
	assert.Equal(t, ownerHash, a.OwnerKeyHash)
	assert.Equal(t, "Xpayee", a.PayoutAddress)
	assert.True(t, a.Enabled)

	// no voting address: key hash falls back to hashing the
	// registration hash bytes
	b := pub.masternodes[regHashB]
	require.NotNil(t, b)
	regBytes, err := HexToBytes(regHashB)
	require.Nil(t, err)
	assert.Equal(t, btcutil.Hash160(regBytes), b.VotingKeyHash)
	assert.Nil(t, b.OwnerKeyHash)
	assert.False(t, b.Enabled)
}

func TestMasternodeSyncIdempotent(t *testing.T) {
	client := &fakeNodeClient{
		nodes: []MasternodeEntry{
			{ProTxHash: regHashA, Status: "ENABLED"},
			{ProTxHash: regHashB, Status: "ENABLED"},
		},
	}
	pub := newFakePublisher()
	s := NewMasternodeSync(client, pub, testLogger())

	first, err := s.Sync(context.Background())
	require.Nil(t, err)
	assert.Equal(t, 2, first.Created)

	second, err := s.Sync(context.Background())
	require.Nil(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 2, second.Updated)
}

func TestMasternodeSyncBadEntryIsolated(t *testing.T) {
	client := &fakeNodeClient{
		nodes: []MasternodeEntry{
			{ProTxHash: regHashA, Status: "ENABLED", VotingAddress: "not-an-address"},
			{ProTxHash: regHashB, Status: "ENABLED"},
		},
	}
	pub := newFakePublisher()
	s := NewMasternodeSync(client, pub, testLogger())

	result, err := s.Sync(context.Background())
	require.Nil(t, err)
	assert.Equal(t, 1, result.Errors)
	assert.Equal(t, 1, result.Created)
	assert.NotContains(t, pub.masternodes, regHashA)
	assert.Contains(t, pub.masternodes, regHashB)
}

func TestMasternodeSyncListFailureAborts(t *testing.T) {
	client := &fakeNodeClient{listNodesErr: errors.New("rpc down")}
	pub := newFakePublisher()
	s := NewMasternodeSync(client, pub, testLogger())

	result, err := s.Sync(context.Background())
	assert.NotNil(t, err)
	assert.Nil(t, result)
	assert.Empty(t, pub.masternodes)
}

func TestMasternodeSyncInvalidRegistrationHash(t *testing.T) {
	client := &fakeNodeClient{
		nodes: []MasternodeEntry{{ProTxHash: "xyz", Status: "ENABLED"}},
	}
	pub := newFakePublisher()
	s := NewMasternodeSync(client, pub, testLogger())

	result, err := s.Sync(context.Background())
	require.Nil(t, err)
	assert.Equal(t, 1, result.Errors)
	assert.Empty(t, pub.masternodes)
}
