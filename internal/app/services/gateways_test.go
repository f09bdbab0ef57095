package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/unireg/internal/app/models"
	"github.com/yigit/unireg/internal/pkg/apperrors"
)

type fixedRoller float64

func (r fixedRoller) Float64() float64 { return float64(r) }

func TestSimulatedPayment(t *testing.T) {
	ctx := context.Background()

	tx, err := NewSimulatedPayment(0.1, 0, fixedRoller(0.5)).Charge(ctx, 1, 4900000, "IRR")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(tx, "TX"))

	_, err = NewSimulatedPayment(0.1, 0, fixedRoller(0.05)).Charge(ctx, 1, 4900000, "IRR")
	assert.ErrorIs(t, err, apperrors.ErrPaymentFailed)
}

func TestSimulatedGateways_UniqueReferences(t *testing.T) {
	ctx := context.Background()
	payment := NewSimulatedPayment(0, 0, fixedRoller(0.5))
	registrar := NewSimulatedRegistrar(0, 0, fixedRoller(0.5))

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		tx, err := payment.Charge(ctx, 1, 1, "IRR")
		require.NoError(t, err)
		receipt, err := registrar.Commit(ctx, &models.Session{})
		require.NoError(t, err)

		assert.False(t, seen[tx], "duplicate transaction id %s", tx)
		assert.False(t, seen[receipt], "duplicate receipt id %s", receipt)
		seen[tx], seen[receipt] = true, true
	}
}

func TestSimulatedRegistrar(t *testing.T) {
	ctx := context.Background()
	session := &models.Session{Courses: testCourses()[:4]}

	receipt, err := NewSimulatedRegistrar(0.05, 0, fixedRoller(0.5)).Commit(ctx, session)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(receipt, "RCP"))

	_, err = NewSimulatedRegistrar(0.05, 0, fixedRoller(0.01)).Commit(ctx, session)
	assert.ErrorIs(t, err, apperrors.ErrFinalizationFailed)
}

func TestSimulatedGateways_RespectContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSimulatedPayment(0, time.Hour, fixedRoller(0.5)).Charge(ctx, 1, 1, "IRR")
	assert.ErrorIs(t, err, context.Canceled)

	_, err = NewSimulatedRegistrar(0, time.Hour, fixedRoller(0.5)).Commit(ctx, &models.Session{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRoller_Seeded(t *testing.T) {
	a, b := NewRoller(42), NewRoller(42)
	for i := 0; i < 5; i++ {
		v := a.Float64()
		assert.Equal(t, v, b.Float64())
		assert.True(t, v >= 0 && v < 1)
	}
}
