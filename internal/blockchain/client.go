package blockchain

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

// Client is a thin adapter over the solana-go RPC client. It owns no state
// beyond the connection and the logger; higher layers decide what to do with
// failures.
type Client struct {
	rpc    *rpc.Client
	logger *zap.Logger
}

func NewClient(endpoint string, logger *zap.Logger) *Client {
	return &Client{
		rpc:    rpc.New(endpoint),
		logger: logger.Named("rpc"),
	}
}

// IsAccountNotFoundError reports whether err means the queried account does
// not exist on chain. GetAccountInfo surfaces rpc.ErrNotFound;
// GetTokenAccountBalance on a nonexistent account returns the JSON-RPC
// message "Invalid param: could not find account".
func IsAccountNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, rpc.ErrNotFound) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") ||
		strings.Contains(msg, "could not find account")
}

func (c *Client) RecentBlockhash(ctx context.Context) (solana.Hash, error) {
	result, err := c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		c.logger.Error("GetLatestBlockhash error", zap.Error(err))
		return solana.Hash{}, err
	}
	return result.Value.Blockhash, nil
}

func (c *Client) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	sig, err := c.rpc.SendTransaction(ctx, tx)
	if err != nil {
		c.logger.Error("SendTransaction error", zap.Error(err))
		return solana.Signature{}, err
	}
	return sig, nil
}

func (c *Client) Balance(ctx context.Context, pubkey solana.PublicKey) (uint64, error) {
	result, err := c.rpc.GetBalance(ctx, pubkey, rpc.CommitmentConfirmed)
	if err != nil {
		c.logger.Error("GetBalance error", zap.Error(err))
		return 0, err
	}
	return result.Value, nil
}

// TokenAccountBalance returns the raw base-unit balance of a token account.
func (c *Client) TokenAccountBalance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	result, err := c.rpc.GetTokenAccountBalance(ctx, account, rpc.CommitmentConfirmed)
	if err != nil {
		return 0, err
	}
	if result == nil || result.Value == nil || result.Value.Amount == "" {
		return 0, fmt.Errorf("empty token balance response for %s", account.String())
	}
	balance, err := strconv.ParseUint(result.Value.Amount, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse token balance: %w", err)
	}
	return balance, nil
}

func (c *Client) AccountInfo(ctx context.Context, pubkey solana.PublicKey) (*rpc.GetAccountInfoResult, error) {
	result, err := c.rpc.GetAccountInfo(ctx, pubkey)
	if err != nil {
		c.logger.Debug("GetAccountInfo error",
			zap.String("pubkey", pubkey.String()),
			zap.Error(err))
		return nil, err
	}
	return result, nil
}

// AccountData returns the raw binary contents of an account. A missing
// account is an error.
func (c *Client) AccountData(ctx context.Context, pubkey solana.PublicKey) ([]byte, error) {
	result, err := c.AccountInfo(ctx, pubkey)
	if err != nil {
		return nil, err
	}
	if result == nil || result.Value == nil || result.Value.Data == nil {
		return nil, fmt.Errorf("account %s does not exist", pubkey.String())
	}
	return result.Value.Data.GetBinary(), nil
}

func (c *Client) MinimumBalanceForRentExemption(ctx context.Context, dataSize uint64) (uint64, error) {
	lamports, err := c.rpc.GetMinimumBalanceForRentExemption(ctx, dataSize, rpc.CommitmentConfirmed)
	if err != nil {
		c.logger.Error("GetMinimumBalanceForRentExemption error", zap.Error(err))
		return 0, err
	}
	return lamports, nil
}

func (c *Client) SignatureStatuses(ctx context.Context, signatures ...solana.Signature) (*rpc.GetSignatureStatusesResult, error) {
	result, err := c.rpc.GetSignatureStatuses(ctx, false, signatures...)
	if err != nil {
		c.logger.Error("GetSignatureStatuses error", zap.Error(err))
		return nil, err
	}
	return result, nil
}

// WaitForConfirmation polls signature statuses until the transaction is
// confirmed. The send is never re-issued here; only the read-only status
// query is retried. A confirmed status that carries an on-chain execution
// error is a hard failure.
func (c *Client) WaitForConfirmation(ctx context.Context, signature solana.Signature) error {
	poll := backoff.NewExponentialBackOff()
	poll.InitialInterval = 500 * time.Millisecond
	poll.MaxInterval = 2 * time.Second

	op := func() (struct{}, error) {
		statuses, err := c.SignatureStatuses(ctx, signature)
		if err != nil {
			return struct{}{}, err
		}
		if statuses == nil || len(statuses.Value) == 0 || statuses.Value[0] == nil {
			return struct{}{}, fmt.Errorf("transaction %s not yet confirmed", signature.String())
		}
		status := statuses.Value[0]
		if status.Err != nil {
			return struct{}{}, backoff.Permanent(
				fmt.Errorf("transaction %s failed on-chain: %v", signature.String(), status.Err))
		}
		if status.ConfirmationStatus == rpc.ConfirmationStatusConfirmed ||
			status.ConfirmationStatus == rpc.ConfirmationStatusFinalized {
			return struct{}{}, nil
		}
		return struct{}{}, fmt.Errorf("transaction %s not yet confirmed", signature.String())
	}

	_, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(poll),
		backoff.WithMaxElapsedTime(90*time.Second),
	)
	if err != nil {
		return fmt.Errorf("confirmation of %s: %w", signature.String(), err)
	}
	return nil
}
