package launcher

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
	"github.com/tidwall/gjson"
)

// ErrIDLMismatch means the interface description document does not describe
// the program contract this client was written against.
var ErrIDLMismatch = errors.New("interface description does not match expected program contract")

const expectedProgramName = "token_launcher"

var expectedInstructions = []string{
	"initialize_token_launcher",
	"buy_tokens",
	"sell_tokens",
	"withdraw_sol",
}

// Contract is the typed, validated binding to the on-chain launcher program.
// It is built once at startup from the Anchor IDL document; all instruction
// builders go through it so the program contract is never hardcoded twice.
type Contract struct {
	ProgramID      solana.PublicKey
	Version        string
	discriminators map[string][]byte
}

// LoadContract reads and validates the IDL document at path. A document whose
// name, instruction set or state account do not match the expected contract
// fails fast with ErrIDLMismatch.
func LoadContract(path string) (*Contract, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read interface description %s: %w", path, err)
	}
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: %s is not valid JSON", ErrIDLMismatch, path)
	}
	doc := gjson.ParseBytes(raw)

	if name := doc.Get("name").String(); name != expectedProgramName {
		return nil, fmt.Errorf("%w: program name %q, expected %q", ErrIDLMismatch, name, expectedProgramName)
	}

	declared := make(map[string]bool)
	doc.Get("instructions.#.name").ForEach(func(_, value gjson.Result) bool {
		declared[value.String()] = true
		return true
	})
	discriminators := make(map[string][]byte, len(expectedInstructions))
	for _, name := range expectedInstructions {
		if !declared[name] {
			return nil, fmt.Errorf("%w: missing instruction %q", ErrIDLMismatch, name)
		}
		discriminators[name] = anchorDiscriminator(name)
	}

	hasState := false
	doc.Get("accounts.#.name").ForEach(func(_, value gjson.Result) bool {
		if value.String() == "LauncherState" {
			hasState = true
			return false
		}
		return true
	})
	if !hasState {
		return nil, fmt.Errorf("%w: missing LauncherState account definition", ErrIDLMismatch)
	}

	address := doc.Get("metadata.address").String()
	if address == "" {
		return nil, fmt.Errorf("%w: missing program address", ErrIDLMismatch)
	}
	programID, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid program address %q: %v", ErrIDLMismatch, address, err)
	}

	return &Contract{
		ProgramID:      programID,
		Version:        doc.Get("version").String(),
		discriminators: discriminators,
	}, nil
}

// Discriminator returns the 8-byte instruction discriminator for a declared
// instruction name.
func (c *Contract) Discriminator(instruction string) ([]byte, error) {
	d, ok := c.discriminators[instruction]
	if !ok {
		return nil, fmt.Errorf("instruction %q is not part of the contract", instruction)
	}
	return d, nil
}

// anchorDiscriminator derives the instruction discriminator the Anchor
// framework uses: the first 8 bytes of sha256("global:<name>").
func anchorDiscriminator(name string) []byte {
	sum := sha256.Sum256([]byte("global:" + name))
	return sum[:8]
}
