package launcher

import (
	"context"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// ErrStateFetch wraps any failure to read or decode the launcher state record.
var ErrStateFetch = errors.New("failed to fetch launcher state")

// PDA seed prefixes, fixed by the on-chain program.
const (
	stateSeed = "launcher"
	vaultSeed = "sol_vault"
)

// LauncherState mirrors the on-chain state record. It is a read-only snapshot:
// mutation only happens through program calls, after which callers re-fetch.
type LauncherState struct {
	Authority     solana.PublicKey
	Mint          solana.PublicKey
	TokenName     string
	TokenSymbol   string
	TokenDecimals uint8
	CurrentPrice  uint64 // lamports per whole token
	MaxSupply     uint64 // base units
	TotalMinted   uint64 // base units
	SolCollected  uint64 // lamports
	Bump          uint8
	VaultBump     uint8
}

// StateAddress derives the launcher state PDA for a mint.
func StateAddress(programID, mint solana.PublicKey) (solana.PublicKey, uint8, error) {
	addr, bump, err := solana.FindProgramAddress(
		[][]byte{[]byte(stateSeed), mint.Bytes()},
		programID,
	)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("failed to derive state address: %w", err)
	}
	return addr, bump, nil
}

// VaultAddress derives the native-currency vault PDA for a mint.
func VaultAddress(programID, mint solana.PublicKey) (solana.PublicKey, uint8, error) {
	addr, bump, err := solana.FindProgramAddress(
		[][]byte{[]byte(vaultSeed), mint.Bytes()},
		programID,
	)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("failed to derive vault address: %w", err)
	}
	return addr, bump, nil
}

// State fetches and decodes the launcher state record for a mint. An absent
// record or a decode failure both surface as ErrStateFetch.
func (c *Client) State(ctx context.Context, mint solana.PublicKey) (*LauncherState, error) {
	stateAddr, _, err := StateAddress(c.contract.ProgramID, mint)
	if err != nil {
		return nil, err
	}

	raw, err := c.client.AccountData(ctx, stateAddr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStateFetch, err)
	}

	state, err := decodeLauncherState(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStateFetch, err)
	}
	return state, nil
}

const accountDiscriminatorLen = 8

func decodeLauncherState(raw []byte) (*LauncherState, error) {
	if len(raw) <= accountDiscriminatorLen {
		return nil, fmt.Errorf("state record too short: %d bytes", len(raw))
	}
	var state LauncherState
	if err := bin.NewBorshDecoder(raw[accountDiscriminatorLen:]).Decode(&state); err != nil {
		return nil, fmt.Errorf("failed to decode state record: %w", err)
	}
	return &state, nil
}
