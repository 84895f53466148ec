package dkg

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/arcana-network/frostsigner/frost"
	"github.com/arcana-network/frostsigner/wire"
	json "github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"
)

// Manager drives the node's key generation rounds against a SessionStore.
// Request decoding happens before the session is locked.
type Manager struct {
	store SessionStore
	rand  io.Reader
}

func NewManager(store SessionStore) *Manager {
	return &Manager{store: store, rand: rand.Reader}
}

func (m *Manager) Round1(req *Round1Request) (*Round1Response, error) {
	id, err := wire.ParseIdentifier("identifier", req.Identifier)
	if err != nil {
		return nil, err
	}
	if id == frost.UserIdentifier {
		return nil, wire.NewValidationError("identifier", fmt.Errorf("%w: reserved for the user", frost.ErrInvalidIdentifier))
	}
	if req.MinSigners < 1 || req.MinSigners > req.MaxSigners || req.MaxSigners > 65535 {
		return nil, wire.NewValidationError("min_signers", ErrInvalidThreshold)
	}
	if req.KeyCount < 1 {
		return nil, wire.NewValidationError("key_count", ErrInvalidKeyCount)
	}

	resp := &Round1Response{}
	err = m.store.WithSession(func(s *Session) error {
		if _, ok := s.current().(idle); !ok {
			return fmt.Errorf("%w: session at %s", ErrSessionActive, s.Stage())
		}
		secrets := make([]*frost.Round1SecretPackage, req.KeyCount)
		packages := make([][]byte, req.KeyCount)
		for i := range secrets {
			secret, pkg, err := frost.DKGPart1(id, uint16(req.MaxSigners), uint16(req.MinSigners), m.rand)
			if err != nil {
				return err
			}
			encoded, err := json.Marshal(pkg)
			if err != nil {
				return err
			}
			secrets[i] = secret
			packages[i] = encoded
		}
		s.set(round1Pending{identifier: id, secrets: secrets})
		resp.Round1Packages = packages
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"identifier": id.String(),
		"minSigners": req.MinSigners,
		"maxSigners": req.MaxSigners,
		"keyCount":   req.KeyCount,
	}).Info("dkg round1 complete")
	return resp, nil
}

func (m *Manager) Round2(req *Round2Request) (*Round2Response, error) {
	round1, err := parseRound1Maps("round1_packages", req.Round1Packages)
	if err != nil {
		return nil, err
	}

	resp := &Round2Response{}
	err = m.store.WithSession(func(s *Session) error {
		pending, ok := s.current().(round1Pending)
		if !ok {
			return fmt.Errorf("%w: round2 called at %s", ErrWrongState, s.Stage())
		}
		if len(round1) != len(pending.secrets) {
			return fmt.Errorf("%w: got %d, pending %d", ErrLengthMismatch, len(round1), len(pending.secrets))
		}
		secrets := make([]*frost.Round2SecretPackage, len(pending.secrets))
		out := make([]PackageMap, len(pending.secrets))
		for i, secret := range pending.secrets {
			next, packages, err := frost.DKGPart2(secret, withoutSelf(round1[i], pending.identifier))
			if err != nil {
				return fmt.Errorf("key %d: %w", i, err)
			}
			encoded := make(PackageMap, len(packages))
			for peer, pkg := range packages {
				b, err := json.Marshal(pkg)
				if err != nil {
					return err
				}
				encoded[peer.String()] = b
			}
			secrets[i] = next
			out[i] = encoded
		}
		s.set(round2Pending{identifier: pending.identifier, secrets: secrets})
		resp.Round2Packages = out
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithField("keyCount", len(resp.Round2Packages)).Info("dkg round2 complete")
	return resp, nil
}

func (m *Manager) Round3(req *Round3Request) (*Round3Response, error) {
	if len(req.Round1Packages) != len(req.Round2Packages) {
		return nil, fmt.Errorf("%w: %d round1 sets, %d round2 sets", ErrLengthMismatch, len(req.Round1Packages), len(req.Round2Packages))
	}
	round1, err := parseRound1Maps("round1_packages", req.Round1Packages)
	if err != nil {
		return nil, err
	}
	round2, err := parseRound2Maps("round2_packages", req.Round2Packages)
	if err != nil {
		return nil, err
	}

	resp := &Round3Response{}
	err = m.store.WithSession(func(s *Session) error {
		pending, ok := s.current().(round2Pending)
		if !ok {
			return fmt.Errorf("%w: round3 called at %s", ErrWrongState, s.Stage())
		}
		if len(round1) != len(pending.secrets) {
			return fmt.Errorf("%w: got %d, pending %d", ErrLengthMismatch, len(round1), len(pending.secrets))
		}
		keys := make([]*wire.KeyPackage, len(pending.secrets))
		for i, secret := range pending.secrets {
			kp, pkp, err := frost.DKGPart3(secret, withoutSelf(round1[i], pending.identifier), withoutSelf(round2[i], pending.identifier))
			if err != nil {
				return fmt.Errorf("key %d: %w", i, err)
			}
			keys[i] = wire.NewKeyPackage(kp, pkp)
		}
		s.set(idle{})
		resp.KeyPackages = keys
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithField("keyCount", len(resp.KeyPackages)).Info("dkg round3 complete")
	return resp, nil
}

// Reset abandons any in-progress session and discards its secrets.
func (m *Manager) Reset() (string, error) {
	var previous string
	err := m.store.WithSession(func(s *Session) error {
		previous = s.Stage()
		s.set(idle{})
		return nil
	})
	if err != nil {
		return "", err
	}
	log.WithField("previous", previous).Info("dkg session reset")
	return previous, nil
}

// Stage reports the state of the session.
func (m *Manager) Stage() string {
	var stage string
	_ = m.store.WithSession(func(s *Session) error {
		stage = s.Stage()
		return nil
	})
	return stage
}

func parseRound1Maps(field string, in []PackageMap) ([]map[frost.Identifier]*frost.Round1Package, error) {
	out := make([]map[frost.Identifier]*frost.Round1Package, len(in))
	for i, packages := range in {
		out[i] = make(map[frost.Identifier]*frost.Round1Package, len(packages))
		for k, v := range packages {
			name := fmt.Sprintf("%s[%d][%s]", field, i, k)
			id, err := wire.ParseIdentifier(name, k)
			if err != nil {
				return nil, err
			}
			pkg, err := frost.Round1PackageFromBytes(v)
			if err != nil {
				return nil, wire.NewValidationError(name, err)
			}
			out[i][id] = pkg
		}
	}
	return out, nil
}

func parseRound2Maps(field string, in []PackageMap) ([]map[frost.Identifier]*frost.Round2Package, error) {
	out := make([]map[frost.Identifier]*frost.Round2Package, len(in))
	for i, packages := range in {
		out[i] = make(map[frost.Identifier]*frost.Round2Package, len(packages))
		for k, v := range packages {
			name := fmt.Sprintf("%s[%d][%s]", field, i, k)
			id, err := wire.ParseIdentifier(name, k)
			if err != nil {
				return nil, err
			}
			pkg, err := frost.Round2PackageFromBytes(v)
			if err != nil {
				return nil, wire.NewValidationError(name, err)
			}
			out[i][id] = pkg
		}
	}
	return out, nil
}

// withoutSelf drops the caller's own entry if the coordinator sent it back.
func withoutSelf[T any](in map[frost.Identifier]T, self frost.Identifier) map[frost.Identifier]T {
	if _, ok := in[self]; !ok {
		return in
	}
	out := make(map[frost.Identifier]T, len(in)-1)
	for id, v := range in {
		if id != self {
			out[id] = v
		}
	}
	return out
}
