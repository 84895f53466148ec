package signing

import (
	"crypto/rand"
	"testing"

	"github.com/arcana-network/frostsigner/dkg"
	"github.com/arcana-network/frostsigner/frost"
	"github.com/arcana-network/frostsigner/wire"
	"github.com/coinbase/kryptology/pkg/core/curves"
	"github.com/stretchr/testify/require"
)

// quorum is two DKG operators plus an externally held user share.
type quorum struct {
	operators    []*wire.KeyPackage
	user         *wire.KeyPackage
	verifyingKey []byte
}

func generateOperatorKeys(t *testing.T, minSigners, maxSigners uint32) []*wire.KeyPackage {
	t.Helper()
	managers := make([]*dkg.Manager, maxSigners)
	ids := make([]string, maxSigners)
	round1 := dkg.PackageMap{}
	for i := range managers {
		id, err := frost.NewIdentifier(uint16(i + 1))
		require.NoError(t, err)
		ids[i] = id.String()
		managers[i] = dkg.NewManager(dkg.NewMemorySessionStore())
		resp, err := managers[i].Round1(&dkg.Round1Request{Identifier: ids[i], MinSigners: minSigners, MaxSigners: maxSigners, KeyCount: 1})
		require.NoError(t, err)
		round1[ids[i]] = resp.Round1Packages[0]
	}
	received := make(map[string]dkg.PackageMap)
	for i, m := range managers {
		resp, err := m.Round2(&dkg.Round2Request{Round1Packages: []dkg.PackageMap{round1}})
		require.NoError(t, err)
		for receiver, pkg := range resp.Round2Packages[0] {
			if received[receiver] == nil {
				received[receiver] = dkg.PackageMap{}
			}
			received[receiver][ids[i]] = pkg
		}
	}
	keys := make([]*wire.KeyPackage, maxSigners)
	for i, m := range managers {
		resp, err := m.Round3(&dkg.Round3Request{
			Round1Packages: []dkg.PackageMap{round1},
			Round2Packages: []dkg.PackageMap{received[ids[i]]},
		})
		require.NoError(t, err)
		keys[i] = resp.KeyPackages[0]
	}
	return keys
}

func newQuorum(t *testing.T) *quorum {
	t.Helper()
	operators := generateOperatorKeys(t, 2, 2)

	userSecret, userPublic := randomKey(t)
	user := &wire.KeyPackage{
		Identifier:   frost.UserIdentifier.String(),
		SecretShare:  frost.ScalarBytes(userSecret),
		PublicShares: map[string][]byte{frost.UserIdentifier.String(): userPublic},
		PublicKey:    userPublic,
		MinSigners:   1,
	}

	opKey, err := frost.PointFromBytes(operators[0].PublicKey)
	require.NoError(t, err)
	userKey, err := frost.PointFromBytes(userPublic)
	require.NoError(t, err)
	return &quorum{operators: operators, user: user, verifyingKey: frost.PointBytes(opKey.Add(userKey))}
}

func randomKey(t *testing.T) (curves.Scalar, []byte) {
	t.Helper()
	k256 := curves.K256()
	secret := k256.Scalar.Random(rand.Reader)
	require.False(t, secret.IsZero())
	return secret, frost.PointBytes(k256.ScalarBaseMult(secret))
}
