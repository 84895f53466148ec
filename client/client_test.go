package client

import (
	"context"
	"crypto/rand"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/arcana-network/frostsigner/dkg"
	"github.com/arcana-network/frostsigner/frost"
	"github.com/arcana-network/frostsigner/server/rpc"
	"github.com/arcana-network/frostsigner/signing"
	"github.com/arcana-network/frostsigner/wire"
	"github.com/coinbase/kryptology/pkg/core/curves"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNode(t *testing.T) *Client {
	t.Helper()
	mr, err := rpc.SetUpJRPCHandler(dkg.NewManager(dkg.NewMemorySessionStore()), signing.NewSigner(nil))
	require.NoError(t, err)
	ts := httptest.NewServer(mr)
	t.Cleanup(ts.Close)
	return New(ts.URL)
}

func TestEchoAndWaitReady(t *testing.T) {
	c := newNode(t)
	ctx := context.Background()
	require.NoError(t, c.WaitReady(ctx, 3))

	msg, err := c.Echo(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, "echo: hello", msg)

	down := New("http://127.0.0.1:1/rpc")
	assert.Error(t, down.WaitReady(ctx, 2))
}

func TestRPCErrors(t *testing.T) {
	c := newNode(t)
	_, err := c.DkgRound2(context.Background(), &dkg.Round2Request{Round1Packages: []dkg.PackageMap{{}}})
	var rpcErr *RPCError
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, -32000, rpcErr.Code)
	assert.Equal(t, "State error", rpcErr.Message)
}

func TestSigningOverRPC(t *testing.T) {
	ctx := context.Background()
	nodes := []*Client{newNode(t), newNode(t)}
	ids := []string{"1", "2"}
	hexIDs := make([]string, len(ids))
	for i, s := range ids {
		id, err := frost.ParseIdentifier(s)
		require.NoError(t, err)
		hexIDs[i] = id.String()
	}

	round1 := dkg.PackageMap{}
	for i, n := range nodes {
		res, err := n.DkgRound1(ctx, &dkg.Round1Request{Identifier: ids[i], MinSigners: 2, MaxSigners: 2, KeyCount: 1})
		require.NoError(t, err)
		round1[hexIDs[i]] = res.Round1Packages[0]
	}
	received := map[string]dkg.PackageMap{hexIDs[0]: {}, hexIDs[1]: {}}
	for i, n := range nodes {
		res, err := n.DkgRound2(ctx, &dkg.Round2Request{Round1Packages: []dkg.PackageMap{round1}})
		require.NoError(t, err)
		for receiver, pkg := range res.Round2Packages[0] {
			received[receiver][hexIDs[i]] = pkg
		}
	}
	keys := make([]*wire.KeyPackage, len(nodes))
	for i, n := range nodes {
		res, err := n.DkgRound3(ctx, &dkg.Round3Request{
			Round1Packages: []dkg.PackageMap{round1},
			Round2Packages: []dkg.PackageMap{received[hexIDs[i]]},
		})
		require.NoError(t, err)
		keys[i] = res.KeyPackages[0]
	}
	require.Equal(t, keys[0].PublicKey, keys[1].PublicKey)

	// Combine with a user share and sign.
	k256 := curves.K256()
	userSecret := k256.Scalar.Random(rand.Reader)
	userPublic := k256.ScalarBaseMult(userSecret)
	user := &wire.KeyPackage{
		Identifier:   frost.UserIdentifier.String(),
		SecretShare:  frost.ScalarBytes(userSecret),
		PublicShares: map[string][]byte{frost.UserIdentifier.String(): frost.PointBytes(userPublic)},
		PublicKey:    frost.PointBytes(userPublic),
		MinSigners:   1,
	}
	opKey, err := frost.PointFromBytes(keys[0].PublicKey)
	require.NoError(t, err)
	verifyingKey := frost.PointBytes(opKey.Add(userPublic))

	userNonce, err := nodes[0].FrostNonce(ctx, user)
	require.NoError(t, err)
	opNonces := make([]*wire.SigningNonceResult, len(nodes))
	for i, n := range nodes {
		res, err := n.FrostNonce(ctx, keys[i])
		require.NoError(t, err)
		opNonces[i] = res[0]
	}

	message := []byte("test-message")
	allOps := map[string]*wire.SigningCommitment{hexIDs[0]: opNonces[0].Commitment, hexIDs[1]: opNonces[1].Commitment}
	agg := &wire.AggregateRequest{
		Message:         message,
		Commitments:     allOps,
		UserCommitment:  userNonce[0].Commitment,
		SignatureShares: map[string][]byte{},
		PublicShares:    map[string][]byte{},
		UserPublicKey:   user.PublicKey,
		VerifyingKey:    verifyingKey,
	}
	for i, n := range nodes {
		commitments := map[string]*wire.SigningCommitment{
			frost.UserIdentifier.String(): userNonce[0].Commitment,
			hexIDs[1-i]:                   opNonces[1-i].Commitment,
		}
		shares, err := n.SignFrost(ctx, wire.RoleOperator, &wire.SigningJob{
			JobID:         "job",
			Message:       message,
			KeyPackage:    keys[i],
			VerifyingKey:  verifyingKey,
			Nonce:         opNonces[i].Nonces,
			OwnCommitment: opNonces[i].Commitment,
			Commitments:   commitments,
		})
		require.NoError(t, err)
		agg.SignatureShares[hexIDs[i]] = shares["job"]
		agg.PublicShares[hexIDs[i]] = keys[i].PublicShares[hexIDs[i]]
	}
	shares, err := nodes[1].SignFrost(ctx, wire.RoleUser, &wire.SigningJob{
		JobID:         "user-job",
		Message:       message,
		KeyPackage:    user,
		VerifyingKey:  verifyingKey,
		Nonce:         userNonce[0].Nonces,
		OwnCommitment: userNonce[0].Commitment,
		Commitments:   allOps,
	})
	require.NoError(t, err)
	agg.UserSignatureShare = shares["user-job"]

	result, err := nodes[0].AggregateFrost(ctx, agg)
	require.NoError(t, err)

	key, err := frost.PointFromBytes(verifyingKey)
	require.NoError(t, err)
	tweaked, err := frost.TweakKey(key, nil)
	require.NoError(t, err)
	assert.NoError(t, frost.VerifySignature(tweaked, message, result.Signature))
	assert.Equal(t, frost.XOnly(tweaked), result.OutputKey)
}
