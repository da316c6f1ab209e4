package registry

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/vacekto/streamit-auth/internal/model"
)

const stateLength = 16

// State holds pending federated-login state parameters. Each state is a
// random single-use value redeemable within model.FederatedStateTTL.
type State struct {
	client redis.UniversalClient
	prefix string
}

var _ model.StateStore = (*State)(nil)

// NewState creates a state store on the given client.
func NewState(client redis.UniversalClient, prefix string) *State {
	return &State{client: client, prefix: prefix}
}

func (s *State) key(state string) string {
	return s.prefix + ":" + state
}

// Create generates and stores a fresh state parameter.
func (s *State) Create(ctx context.Context) (string, error) {
	buf := make([]byte, stateLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	state := hex.EncodeToString(buf)

	if err := s.client.Set(ctx, s.key(state), 1, model.FederatedStateTTL).Err(); err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrRegistryUnavailable, err)
	}

	return state, nil
}

// Consume redeems a state parameter. GETDEL makes redemption atomic, so a
// replayed state is rejected even under concurrent callbacks.
func (s *State) Consume(ctx context.Context, state string) (bool, error) {
	err := s.client.GetDel(ctx, s.key(state)).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", model.ErrRegistryUnavailable, err)
	}
	return true, nil
}
