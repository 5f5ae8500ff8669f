package blockchain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
)

func TestIsAccountNotFoundError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rpc sentinel", rpc.ErrNotFound, true},
		{"wrapped rpc sentinel", fmt.Errorf("failed to read vault: %w", rpc.ErrNotFound), true},
		{"getTokenAccountBalance message", errors.New("Invalid param: could not find account"), true},
		{"wrapped balance message", fmt.Errorf("failed to get token balance: %w",
			errors.New("Invalid param: could not find account")), true},
		{"generic not found", errors.New("Account not found"), true},
		{"unrelated error", errors.New("connection refused"), false},
		{"on-chain failure", errors.New("transaction failed on-chain: InstructionError"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAccountNotFoundError(tt.err))
		})
	}
}
