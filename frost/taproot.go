package frost

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/coinbase/kryptology/pkg/core/curves"
)

// TaprootOutputKey returns the 32 byte x-only output key that commits the
// internal key to merkleRoot, as placed in a segwit v1 output script. It is
// computed on btcec independently of TweakKey.
func TaprootOutputKey(internalKey curves.Point, merkleRoot []byte) ([]byte, error) {
	if len(merkleRoot) != 0 && len(merkleRoot) != 32 {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidMerkleRoot, len(merkleRoot))
	}
	// Parsing the x-only form lifts the key to even Y.
	internal, err := schnorr.ParsePubKey(XOnly(internalKey))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPoint, err)
	}

	h := chainhash.TaggedHash([]byte("TapTweak"), schnorr.SerializePubKey(internal), merkleRoot)
	var tweak btcec.ModNScalar
	if overflow := tweak.SetByteSlice(h[:]); overflow {
		return nil, errors.New("taproot tweak exceeds curve order")
	}

	var p, tg, q btcec.JacobianPoint
	internal.AsJacobian(&p)
	btcec.ScalarBaseMultNonConst(&tweak, &tg)
	btcec.AddNonConst(&p, &tg, &q)
	if (q.X.IsZero() && q.Y.IsZero()) || q.Z.IsZero() {
		return nil, fmt.Errorf("%w: tweaked key is the identity", ErrInvalidPoint)
	}
	q.ToAffine()
	return schnorr.SerializePubKey(btcec.NewPublicKey(&q.X, &q.Y)), nil
}
