package signing

import (
	"crypto/rand"
	"crypto/sha256"
	"testing"

	"github.com/arcana-network/frostsigner/frost"
	"github.com/arcana-network/frostsigner/wire"
	"github.com/coinbase/kryptology/pkg/core/curves"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyFor(t *testing.T) {
	p, err := PolicyFor(wire.RoleOperator)
	require.NoError(t, err)
	assert.Equal(t, wire.RoleOperator, p.Role())
	p, err = PolicyFor(wire.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, wire.RoleUser, p.Role())
	_, err = PolicyFor(wire.Role(2))
	assert.ErrorIs(t, err, wire.ErrValidation)
}

func TestDefaultParticipants(t *testing.T) {
	one, _ := frost.NewIdentifier(1)
	two, _ := frost.NewIdentifier(2)
	commitments := map[frost.Identifier]*frost.SigningCommitments{one: nil, two: nil, frost.UserIdentifier: nil}

	assert.Equal(t, []frost.Identifier{one, two}, OperatorTweakPolicy{}.Participants(commitments))
	assert.Equal(t, []frost.Identifier{frost.UserIdentifier}, UserTweakPolicy{}.Participants(commitments))

	kp := &frost.KeyPackage{Identifier: two}
	assert.Equal(t, two, OperatorTweakPolicy{}.Signer(kp))
	assert.Equal(t, frost.UserIdentifier, UserTweakPolicy{}.Signer(kp))
}

func TestUserResolveKeepsSecretUntweaked(t *testing.T) {
	root := sha256.Sum256([]byte("tapscript"))
	k256 := curves.K256()
	for i := 0; i < 8; i++ {
		secret := k256.Scalar.Random(rand.Reader)
		public := k256.ScalarBaseMult(secret)
		other := k256.ScalarBaseMult(k256.Scalar.Random(rand.Reader))
		aggregate := public.Add(other)
		kp := frost.NewKeyPackage(frost.UserIdentifier, secret, public, aggregate, 1)

		resolved, err := UserTweakPolicy{}.Resolve(kp, root[:])
		require.NoError(t, err)

		if frost.HasEvenY(aggregate) {
			assert.Equal(t, 0, resolved.SigningShare.Cmp(secret))
		} else {
			assert.Equal(t, 0, resolved.SigningShare.Cmp(secret.Neg()))
		}
		assert.True(t, k256.ScalarBaseMult(resolved.SigningShare).Equal(resolved.VerifyingShare))

		tweaked, err := frost.TweakKey(aggregate, root[:])
		require.NoError(t, err)
		assert.True(t, tweaked.Equal(resolved.VerifyingKey))
		// The input package is left untouched.
		assert.True(t, kp.VerifyingKey.Equal(aggregate))
	}
}
