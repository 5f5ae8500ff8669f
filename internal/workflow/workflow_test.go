package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestExecuteRunsStagesInOrder(t *testing.T) {
	var order []string
	stage := func(name string) Stage {
		return Stage{Name: name, Run: func(context.Context) error {
			order = append(order, name)
			return nil
		}}
	}

	err := Execute(context.Background(), zap.NewNop(), []Stage{
		stage("first"), stage("second"), stage("third"),
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestExecuteOptionalFailureContinues(t *testing.T) {
	var order []string

	err := Execute(context.Background(), zap.NewNop(), []Stage{
		{Name: "create-token", Run: func(context.Context) error {
			order = append(order, "create-token")
			return nil
		}},
		{Name: "create-pool", Optional: true, Run: func(context.Context) error {
			order = append(order, "create-pool")
			return errors.New("pool initialization rejected")
		}},
		{Name: "swap", Optional: true, Run: func(context.Context) error {
			order = append(order, "swap")
			return errors.New("no pool available")
		}},
		{Name: "check-final-balances", Run: func(context.Context) error {
			order = append(order, "check-final-balances")
			return nil
		}},
	})

	// Both optional failures are swallowed; the final essential stage still
	// runs and the overall run succeeds.
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"create-token", "create-pool", "swap", "check-final-balances"},
		order)
}

func TestExecuteEssentialFailureAborts(t *testing.T) {
	var order []string
	boom := errors.New("insufficient funds")

	err := Execute(context.Background(), zap.NewNop(), []Stage{
		{Name: "create-token", Run: func(context.Context) error {
			order = append(order, "create-token")
			return nil
		}},
		{Name: "distribute", Run: func(context.Context) error {
			order = append(order, "distribute")
			return boom
		}},
		{Name: "check-balances", Run: func(context.Context) error {
			order = append(order, "check-balances")
			return nil
		}},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "distribute")
	assert.Equal(t, []string{"create-token", "distribute"}, order)
}

func TestExecuteEmptyStageList(t *testing.T) {
	assert.NoError(t, Execute(context.Background(), zap.NewNop(), nil))
}
