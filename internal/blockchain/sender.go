package blockchain

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// TxRequest describes one transaction of a batch: the instructions, the fee
// payer and every private key that must sign.
type TxRequest struct {
	Instructions []solana.Instruction
	Payer        solana.PublicKey
	Signers      []solana.PrivateKey
}

// Sender builds, signs, submits and confirms transactions. Batch members are
// processed strictly in order: member N is confirmed before N+1 is submitted,
// because later members routinely depend on accounts created by earlier ones.
type Sender struct {
	client *Client
	logger *zap.Logger
}

func NewSender(client *Client, logger *zap.Logger) *Sender {
	return &Sender{
		client: client,
		logger: logger.Named("sender"),
	}
}

// SendBatch submits every request in order, waiting for confirmation between
// members. The first failure aborts the batch; already-confirmed members stay
// confirmed, there is no compensating rollback.
func (s *Sender) SendBatch(ctx context.Context, batch []*TxRequest) ([]solana.Signature, error) {
	signatures := make([]solana.Signature, 0, len(batch))
	for i, req := range batch {
		sig, err := s.Send(ctx, req)
		if err != nil {
			return signatures, fmt.Errorf("batch member %d/%d: %w", i+1, len(batch), err)
		}
		signatures = append(signatures, sig)
	}
	return signatures, nil
}

// Send builds, signs, submits and confirms a single transaction. Each send is
// attempted exactly once.
func (s *Sender) Send(ctx context.Context, req *TxRequest) (solana.Signature, error) {
	blockhash, err := s.client.RecentBlockhash(ctx)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to get recent blockhash: %w", err)
	}

	tx, err := solana.NewTransaction(req.Instructions, blockhash, solana.TransactionPayer(req.Payer))
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to build transaction: %w", err)
	}

	if _, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		for i := range req.Signers {
			if key.Equals(req.Signers[i].PublicKey()) {
				return &req.Signers[i]
			}
		}
		return nil
	}); err != nil {
		return solana.Signature{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	s.logger.Debug("Sending transaction",
		zap.Int("num_instructions", len(req.Instructions)),
		zap.String("payer", req.Payer.String()))

	sig, err := s.client.SendTransaction(ctx, tx)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to send transaction: %w", err)
	}

	if err := s.client.WaitForConfirmation(ctx, sig); err != nil {
		return sig, err
	}

	s.logger.Debug("Transaction confirmed", zap.String("signature", sig.String()))
	return sig, nil
}
