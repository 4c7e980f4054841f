package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "bookery/pkg/errors"

	"go.mongodb.org/mongo-driver/mongo"
)

type TransactionFunc func(ctx mongo.SessionContext) error

// TransactionManager wraps multi-document transactions. Every transactional
// operation carries an explicit timeout budget; the transaction either fully
// commits or fully rolls back, and a blown budget surfaces as a TIMEOUT
// error rather than partial state.
type TransactionManager interface {
	ExecuteTransaction(ctx context.Context, fn TransactionFunc) error
	ExecuteTransactionWithTimeout(ctx context.Context, timeout time.Duration, fn TransactionFunc) error
}

type mongoTransactionManager struct {
	client *mongo.Client
}

func NewTransactionManager(client *mongo.Client) TransactionManager {
	return &mongoTransactionManager{
		client: client,
	}
}

func (m *mongoTransactionManager) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		return nil, fn(sessCtx)
	})

	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return apperrors.Timeout("Transaction exceeded its time budget")
		}
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

func (m *mongoTransactionManager) ExecuteTransactionWithTimeout(ctx context.Context, timeout time.Duration, fn TransactionFunc) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return m.ExecuteTransaction(ctx, fn)
}
