package services

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/unireg/internal/app/models"
	"github.com/yigit/unireg/internal/pkg/apperrors"
)

// PaymentGateway charges tuition and returns a transaction id
type PaymentGateway interface {
	Charge(ctx context.Context, studentID, amount int64, currency string) (string, error)
}

// RegistrarGateway commits a paid registration and returns a receipt id
type RegistrarGateway interface {
	Commit(ctx context.Context, session *models.Session) (string, error)
}

// Roller yields numbers in [0, 1)
type Roller interface {
	Float64() float64
}

type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (r *lockedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

// NewRoller returns a goroutine safe Roller; seed 0 seeds from the clock
func NewRoller(seed int64) Roller {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &lockedRand{rng: rand.New(rand.NewSource(seed))}
}

// wait sleeps for d unless ctx ends first
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// referenceID is prefix plus a random uuid without dashes, e.g. TX3F2A...
func referenceID(prefix string) string {
	return prefix + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}

// SimulatedPayment approves charges except for a random share of FailureRate
type SimulatedPayment struct {
	FailureRate float64
	Latency     time.Duration
	roller      Roller
}

// NewSimulatedPayment creates a simulated payment gateway
func NewSimulatedPayment(failureRate float64, latency time.Duration, roller Roller) *SimulatedPayment {
	return &SimulatedPayment{
		FailureRate: failureRate,
		Latency:     latency,
		roller:      roller,
	}
}

// Charge waits Latency, then approves or declines
func (g *SimulatedPayment) Charge(ctx context.Context, studentID, amount int64, currency string) (string, error) {
	if err := wait(ctx, g.Latency); err != nil {
		return "", err
	}
	if g.roller.Float64() < g.FailureRate {
		return "", apperrors.NewCustomError(apperrors.ErrPaymentFailed,
			fmt.Sprintf("charge of %d %s declined", amount, currency))
	}
	return referenceID("TX"), nil
}

// SimulatedRegistrar accepts commits except for a random share of FailureRate
type SimulatedRegistrar struct {
	FailureRate float64
	Latency     time.Duration
	roller      Roller
}

// NewSimulatedRegistrar creates a simulated registrar gateway
func NewSimulatedRegistrar(failureRate float64, latency time.Duration, roller Roller) *SimulatedRegistrar {
	return &SimulatedRegistrar{
		FailureRate: failureRate,
		Latency:     latency,
		roller:      roller,
	}
}

// Commit waits Latency, then accepts or rejects
func (g *SimulatedRegistrar) Commit(ctx context.Context, session *models.Session) (string, error) {
	if err := wait(ctx, g.Latency); err != nil {
		return "", err
	}
	if g.roller.Float64() < g.FailureRate {
		return "", apperrors.NewCustomError(apperrors.ErrFinalizationFailed,
			fmt.Sprintf("registrar rejected %d courses, try again", len(session.Courses)))
	}
	return referenceID("RCP"), nil
}
