package token

import (
	"bytes"
	"context"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/dexforge/solana-launchpad/internal/blockchain"
)

// MetadataProgramID is the Metaplex token metadata program.
var MetadataProgramID = solana.MPK("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")

// createMetadataAccountV3 is the instruction index within the metadata program.
const createMetadataAccountV3 = 33

type metadataCreator struct {
	Address  solana.PublicKey
	Verified bool
	Share    uint8
}

type metadataCollection struct {
	Verified bool
	Key      solana.PublicKey
}

type metadataUses struct {
	UseMethod uint8
	Remaining uint64
	Total     uint64
}

type metadataDataV2 struct {
	Name                 string
	Symbol               string
	URI                  string
	SellerFeeBasisPoints uint16
	Creators             *[]metadataCreator  `bin:"optional"`
	Collection           *metadataCollection `bin:"optional"`
	Uses                 *metadataUses       `bin:"optional"`
}

type collectionDetailsV1 struct {
	Size uint64
}

type createMetadataArgsV3 struct {
	Data              metadataDataV2
	IsMutable         bool
	CollectionDetails *collectionDetailsV1 `bin:"optional"`
}

// MetadataAddress derives the metadata PDA for a mint.
func MetadataAddress(mint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("metadata"), MetadataProgramID.Bytes(), mint.Bytes()},
		MetadataProgramID,
	)
	return addr, err
}

// CreateMetadata attaches a mutable Metaplex metadata record to the session's
// mint, with no creators, collection or uses. Fails with ErrNoMint when no
// token was created yet.
func (s *Session) CreateMetadata(ctx context.Context, name, symbol, imageURI string) (solana.Signature, error) {
	if s.mint.IsZero() {
		return solana.Signature{}, ErrNoMint
	}

	metadataAddr, err := MetadataAddress(s.mint)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to derive metadata address: %w", err)
	}

	args := createMetadataArgsV3{
		Data: metadataDataV2{
			Name:                 name,
			Symbol:               symbol,
			URI:                  imageURI,
			SellerFeeBasisPoints: 0,
		},
		IsMutable: true,
	}

	buf := new(bytes.Buffer)
	buf.WriteByte(createMetadataAccountV3)
	if err := bin.NewBorshEncoder(buf).Encode(args); err != nil {
		return solana.Signature{}, fmt.Errorf("failed to encode metadata args: %w", err)
	}

	ix := solana.NewInstruction(
		MetadataProgramID,
		[]*solana.AccountMeta{
			{PublicKey: metadataAddr, IsWritable: true, IsSigner: false},
			{PublicKey: s.mint, IsWritable: false, IsSigner: false},
			{PublicKey: s.payer.PublicKey, IsWritable: false, IsSigner: true}, // mint authority
			{PublicKey: s.payer.PublicKey, IsWritable: true, IsSigner: true},  // payer
			{PublicKey: s.payer.PublicKey, IsWritable: false, IsSigner: true}, // update authority
			{PublicKey: solana.SystemProgramID, IsWritable: false, IsSigner: false},
			{PublicKey: solana.SysVarRentPubkey, IsWritable: false, IsSigner: false},
		},
		buf.Bytes(),
	)

	s.logger.Info("Creating token metadata",
		zap.String("mint", s.mint.String()),
		zap.String("name", name),
		zap.String("symbol", symbol),
		zap.String("metadata", metadataAddr.String()))

	sig, err := s.sender.Send(ctx, &blockchain.TxRequest{
		Instructions: []solana.Instruction{ix},
		Payer:        s.payer.PublicKey,
		Signers:      []solana.PrivateKey{s.payer.PrivateKey},
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("metadata creation failed: %w", err)
	}
	return sig, nil
}
