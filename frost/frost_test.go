package frost

import (
	"crypto/rand"
	"crypto/sha256"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/coinbase/kryptology/pkg/core/curves"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runDKG(t *testing.T, minSigners, maxSigners uint16) (map[Identifier]*KeyPackage, map[Identifier]*PublicKeyPackage) {
	t.Helper()
	ids := make([]Identifier, maxSigners)
	secrets1 := make(map[Identifier]*Round1SecretPackage)
	round1 := make(map[Identifier]*Round1Package)
	for i := range ids {
		id, err := NewIdentifier(uint16(i + 1))
		require.NoError(t, err)
		ids[i] = id
		secret, pkg, err := DKGPart1(id, maxSigners, minSigners, rand.Reader)
		require.NoError(t, err)
		secrets1[id] = secret
		round1[id] = pkg
	}

	secrets2 := make(map[Identifier]*Round2SecretPackage)
	round2 := make(map[Identifier]map[Identifier]*Round2Package) // receiver -> sender -> package
	for _, id := range ids {
		secret, out, err := DKGPart2(secrets1[id], othersRound1(round1, id))
		require.NoError(t, err)
		secrets2[id] = secret
		for receiver, pkg := range out {
			if round2[receiver] == nil {
				round2[receiver] = make(map[Identifier]*Round2Package)
			}
			round2[receiver][id] = pkg
		}
	}

	keys := make(map[Identifier]*KeyPackage)
	pubs := make(map[Identifier]*PublicKeyPackage)
	for _, id := range ids {
		kp, pkp, err := DKGPart3(secrets2[id], othersRound1(round1, id), round2[id])
		require.NoError(t, err)
		keys[id] = kp
		pubs[id] = pkp
	}
	return keys, pubs
}

func othersRound1(all map[Identifier]*Round1Package, self Identifier) map[Identifier]*Round1Package {
	out := make(map[Identifier]*Round1Package, len(all)-1)
	for id, pkg := range all {
		if id != self {
			out[id] = pkg
		}
	}
	return out
}

func TestDKG(t *testing.T) {
	for _, tc := range []struct{ min, max uint16 }{{1, 1}, {1, 3}, {2, 2}, {2, 3}, {3, 5}} {
		keys, pubs := runDKG(t, tc.min, tc.max)
		var groupKey curves.Point
		for id, kp := range keys {
			assert.True(t, HasEvenY(kp.VerifyingKey), "group key must have even y")
			if groupKey == nil {
				groupKey = kp.VerifyingKey
			}
			assert.True(t, groupKey.Equal(kp.VerifyingKey))
			assert.True(t, baseMul(kp.SigningShare).Equal(kp.VerifyingShare))
			assert.True(t, pubs[id].VerifyingShares[id].Equal(kp.VerifyingShare))
			assert.Equal(t, tc.min, kp.MinSigners)
		}

		// Any min signers reconstruct the group secret.
		ids := make([]Identifier, 0, len(keys))
		for id := range keys {
			ids = append(ids, id)
		}
		SortIdentifiers(ids)
		quorum := ids[:tc.min]
		secret := curve.Scalar.Zero()
		for _, id := range quorum {
			lambda, err := lagrangeCoefficient(id, quorum)
			require.NoError(t, err)
			secret = secret.Add(lambda.Mul(keys[id].SigningShare))
		}
		assert.True(t, baseMul(secret).Equal(groupKey))
	}
}

func TestDKGInvalidParameters(t *testing.T) {
	id, _ := NewIdentifier(1)
	_, _, err := DKGPart1(id, 2, 0, rand.Reader)
	assert.ErrorIs(t, err, ErrInvalidMinSigners)
	_, _, err = DKGPart1(id, 2, 3, rand.Reader)
	assert.ErrorIs(t, err, ErrInvalidMaxSigners)
	_, _, err = DKGPart1(Identifier{}, 3, 2, rand.Reader)
	assert.ErrorIs(t, err, ErrInvalidIdentifier)
}

func TestDKGRejectsForgedPackages(t *testing.T) {
	id1, _ := NewIdentifier(1)
	id2, _ := NewIdentifier(2)
	s1, p1, err := DKGPart1(id1, 2, 2, rand.Reader)
	require.NoError(t, err)
	s2, p2, err := DKGPart1(id2, 2, 2, rand.Reader)
	require.NoError(t, err)

	_, _, err = DKGPart2(s1, map[Identifier]*Round1Package{})
	assert.ErrorIs(t, err, ErrIncorrectNumberOfPackages)

	forged := *p2
	forged.ProofZ = p2.ProofZ.Add(curve.Scalar.One())
	_, _, err = DKGPart2(s1, map[Identifier]*Round1Package{id2: &forged})
	assert.ErrorIs(t, err, ErrInvalidProofOfKnowledge)

	// A proof made for one identifier does not verify for another.
	id3, _ := NewIdentifier(3)
	_, _, err = DKGPart2(s1, map[Identifier]*Round1Package{id3: p2})
	assert.ErrorIs(t, err, ErrInvalidProofOfKnowledge)

	r2s1, out1, err := DKGPart2(s1, map[Identifier]*Round1Package{id2: p2})
	require.NoError(t, err)
	_, out2, err := DKGPart2(s2, map[Identifier]*Round1Package{id1: p1})
	require.NoError(t, err)

	bad := &Round2Package{SigningShare: out2[id1].SigningShare.Add(curve.Scalar.One())}
	_, _, err = DKGPart3(r2s1, map[Identifier]*Round1Package{id2: p2}, map[Identifier]*Round2Package{id2: bad})
	assert.ErrorIs(t, err, ErrInvalidSecretShare)

	_, _, err = DKGPart3(r2s1, map[Identifier]*Round1Package{id2: p2}, map[Identifier]*Round2Package{id2: out2[id1]})
	assert.NoError(t, err)
	assert.NotNil(t, out1[id2])
}

type testSigner struct {
	kp     *KeyPackage
	nonces *SigningNonces
}

// combineWithUser adds a fresh user share to the operator key, returning the
// operator packages re-pointed at the combined key and the user package.
func combineWithUser(t *testing.T, ops map[Identifier]*KeyPackage) (map[Identifier]*KeyPackage, *KeyPackage, *PublicKeyPackage) {
	t.Helper()
	userSecret := randomNonZero(rand.Reader)
	userPublic := baseMul(userSecret)

	combined := make(map[Identifier]*KeyPackage, len(ops))
	pkp := &PublicKeyPackage{VerifyingShares: map[Identifier]curves.Point{UserIdentifier: userPublic}}
	for id, kp := range ops {
		if pkp.VerifyingKey == nil {
			pkp.VerifyingKey = kp.VerifyingKey.Add(userPublic)
		}
		combined[id] = NewKeyPackage(id, kp.SigningShare, kp.VerifyingShare, pkp.VerifyingKey, kp.MinSigners)
		pkp.VerifyingShares[id] = kp.VerifyingShare
	}
	return combined, NewKeyPackage(UserIdentifier, userSecret, userPublic, pkp.VerifyingKey, 1), pkp
}

// userSigningKey is the user side adjustment: even-Y on the untweaked key,
// tweaked key as the verifying key.
func userSigningKey(t *testing.T, kp *KeyPackage, merkleRoot []byte) *KeyPackage {
	even := HasEvenY(kp.VerifyingKey)
	adjusted := kp.IntoEvenY(&even)
	tweaked, err := TweakKey(kp.VerifyingKey, merkleRoot)
	require.NoError(t, err)
	adjusted.VerifyingKey = tweaked
	return adjusted
}

func signRound(t *testing.T, message []byte, ops map[Identifier]*KeyPackage, user *KeyPackage, opRoot, userRoot []byte) (*SigningPackage, map[Identifier]curves.Scalar) {
	t.Helper()
	signers := make(map[Identifier]*testSigner)
	commitments := make(map[Identifier]*SigningCommitments)
	for id, kp := range ops {
		nonces, err := Commit(kp.SigningShare, rand.Reader)
		require.NoError(t, err)
		signers[id] = &testSigner{kp: kp, nonces: nonces}
		commitments[id] = nonces.Commitments
	}
	if user != nil {
		nonces, err := Commit(user.SigningShare, rand.Reader)
		require.NoError(t, err)
		signers[UserIdentifier] = &testSigner{kp: user, nonces: nonces}
		commitments[UserIdentifier] = nonces.Commitments
	}

	pkg, err := NewSigningPackage(commitments, message, nil)
	require.NoError(t, err)
	shares := make(map[Identifier]curves.Scalar)
	for id, s := range signers {
		var share curves.Scalar
		if id == UserIdentifier {
			share, err = Sign(pkg, s.nonces, userSigningKey(t, s.kp, userRoot))
		} else {
			share, err = SignWithTweak(pkg, s.nonces, s.kp, opRoot)
		}
		require.NoError(t, err)
		s.nonces.Discard()
		shares[id] = share
	}
	return pkg, shares
}

func TestSignAndAggregateOperators(t *testing.T) {
	keys, pubs := runDKG(t, 2, 3)
	id1, _ := NewIdentifier(1)
	id3, _ := NewIdentifier(3)
	quorum := map[Identifier]*KeyPackage{id1: keys[id1], id3: keys[id3]}

	message := sha256.Sum256([]byte("operators only"))
	pkg, shares := signRound(t, message[:], quorum, nil, nil, nil)
	sig, err := AggregateWithTweak(pkg, shares, pubs[id1], nil)
	require.NoError(t, err)

	tweaked, err := TweakKey(pubs[id1].VerifyingKey, nil)
	require.NoError(t, err)
	assert.NoError(t, VerifySignature(tweaked, message[:], sig.Bytes()))

	// The BIP340 implementation of btcec agrees for 32 byte messages.
	outputKey, err := TaprootOutputKey(pubs[id1].VerifyingKey, nil)
	require.NoError(t, err)
	assert.Equal(t, XOnly(tweaked), outputKey)
	pub, err := schnorr.ParsePubKey(outputKey)
	require.NoError(t, err)
	parsed, err := schnorr.ParseSignature(sig.Bytes())
	require.NoError(t, err)
	assert.True(t, parsed.Verify(message[:], pub))
}

func TestSignAndAggregateWithUser(t *testing.T) {
	root := sha256.Sum256([]byte("script tree"))
	for _, merkleRoot := range [][]byte{nil, root[:]} {
		// Several rounds so both parities of the combined, tweaked and nonce
		// points are exercised.
		for i := 0; i < 6; i++ {
			ops, _ := runDKG(t, 2, 2)
			combined, user, pkp := combineWithUser(t, ops)
			message := []byte("test-message")

			pkg, shares := signRound(t, message, combined, user, merkleRoot, merkleRoot)
			sig, err := AggregateWithTweak(pkg, shares, pkp, merkleRoot)
			require.NoError(t, err)
			assert.Len(t, sig.Bytes(), SignatureSize)

			tweaked, err := TweakKey(pkp.VerifyingKey, merkleRoot)
			require.NoError(t, err)
			assert.NoError(t, VerifySignature(tweaked, message, sig.Bytes()))
			assert.ErrorIs(t, VerifySignature(tweaked, []byte("other"), sig.Bytes()), ErrInvalidSignature)
		}
	}
}

func TestAggregateTweakMismatch(t *testing.T) {
	root := sha256.Sum256([]byte("script tree"))
	ops, _ := runDKG(t, 2, 2)
	combined, user, pkp := combineWithUser(t, ops)

	pkg, shares := signRound(t, []byte("test-message"), combined, user, root[:], nil)
	_, err := AggregateWithTweak(pkg, shares, pkp, nil)
	assert.ErrorIs(t, err, ErrInvalidSignatureShare)

	pkg, shares = signRound(t, []byte("test-message"), combined, user, nil, nil)
	_, err = AggregateWithTweak(pkg, shares, pkp, root[:])
	assert.Error(t, err)

	_, err = AggregateWithTweak(pkg, shares, pkp, []byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidMerkleRoot)
}

func TestAggregateIdentifiesCulprit(t *testing.T) {
	ops, _ := runDKG(t, 2, 2)
	combined, user, pkp := combineWithUser(t, ops)
	pkg, shares := signRound(t, []byte("test-message"), combined, user, nil, nil)

	id2, _ := NewIdentifier(2)
	shares[id2] = shares[id2].Add(curve.Scalar.One())
	_, err := AggregateWithTweak(pkg, shares, pkp, nil)
	require.ErrorIs(t, err, ErrInvalidSignatureShare)
	assert.Contains(t, err.Error(), id2.String())

	delete(shares, id2)
	_, err = AggregateWithTweak(pkg, shares, pkp, nil)
	assert.ErrorIs(t, err, ErrIncorrectNumberOfShares)
}

func TestSignRejectsUnusableNonces(t *testing.T) {
	keys, _ := runDKG(t, 1, 1)
	var kp *KeyPackage
	for _, k := range keys {
		kp = k
	}
	nonces, err := Commit(kp.SigningShare, rand.Reader)
	require.NoError(t, err)
	other, err := Commit(kp.SigningShare, rand.Reader)
	require.NoError(t, err)
	assert.False(t, nonces.Commitments.Equal(other.Commitments))

	pkg, err := NewSigningPackage(map[Identifier]*SigningCommitments{kp.Identifier: nonces.Commitments}, []byte("m"), nil)
	require.NoError(t, err)

	_, err = SignWithTweak(pkg, other, kp, nil)
	assert.ErrorIs(t, err, ErrIncorrectCommitment)

	_, err = SignWithTweak(pkg, nonces, kp, nil)
	require.NoError(t, err)
	nonces.Discard()
	_, err = SignWithTweak(pkg, nonces, kp, nil)
	assert.ErrorIs(t, err, ErrInvalidNonce)
}

func TestSigningPackageParticipants(t *testing.T) {
	id1, _ := NewIdentifier(1)
	id2, _ := NewIdentifier(2)
	c := &SigningCommitments{Hiding: baseMul(scalarFromInt(3)), Binding: baseMul(scalarFromInt(4))}
	commitments := map[Identifier]*SigningCommitments{id1: c, id2: c, UserIdentifier: c}

	pkg, err := NewSigningPackage(commitments, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []Identifier{UserIdentifier}, pkg.signerGroup(UserIdentifier))
	assert.ElementsMatch(t, []Identifier{id1, id2}, pkg.signerGroup(id1))

	pkg, err = NewSigningPackage(commitments, nil, []Identifier{id2, id1, id2})
	require.NoError(t, err)
	assert.Equal(t, []Identifier{id1, id2}, pkg.signerGroup(UserIdentifier))

	id9, _ := NewIdentifier(9)
	_, err = NewSigningPackage(commitments, nil, []Identifier{id9})
	assert.ErrorIs(t, err, ErrMissingCommitment)
}
