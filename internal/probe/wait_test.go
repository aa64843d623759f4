package probe

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gajzzs/devinit/internal/udev"
)

func TestWaitBecomesInitialized(t *testing.T) {
	dev := &mockDevice{name: "sda"}
	dev.On("Initialized").Return(false, nil).Twice()
	dev.On("Initialized").Return(true, nil).Once()
	dev.On("Close").Return(nil).Times(3)
	m := &mockManager{}
	m.On("Lookup", "block", "sda").Return(dev, nil).Times(3)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	st, err := Wait(ctx, m, "block", "sda", time.Millisecond, nil)

	require.NoError(t, err)
	assert.True(t, st.Initialized())
	dev.AssertExpectations(t)
	m.AssertExpectations(t)
}

func TestWaitWakesOnEvent(t *testing.T) {
	dev := &mockDevice{name: "sdb"}
	dev.On("Initialized").Return(false, nil).Once()
	dev.On("Initialized").Return(true, nil).Once()
	dev.On("Close").Return(nil)
	m := &mockManager{}
	m.On("Lookup", "block", "sdb").Return(dev, nil)

	wake := make(chan struct{}, 1)
	wake <- struct{}{}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	// An hour-long interval means only the wake-up can trigger the re-check.
	st, err := Wait(ctx, m, "block", "sdb", time.Hour, wake)

	require.NoError(t, err)
	assert.True(t, st.Initialized())
}

func TestWaitTimeout(t *testing.T) {
	m := &mockManager{}
	m.On("Lookup", "block", "ghost").Return(nil, udev.ErrNoDevice)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	st, err := Wait(ctx, m, "block", "ghost", 5*time.Millisecond, nil)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, NotInitialized, st.Kind)
	m.AssertCalled(t, "Lookup", "block", "ghost")
}
