package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echo struct{ Value string }

func (echo) Key() string { return "test.echo" }

type other struct{}

func (other) Key() string { return "test.other" }

func TestDispatchTypedResult(t *testing.T) {
	bus := NewInMemoryBus()
	RegisterHandler[echo, string](bus, "test.echo", HandlerFunc[echo, string](func(_ context.Context, c echo) (string, error) {
		return "got " + c.Value, nil
	}))

	out, err := Dispatch[echo, string](context.Background(), bus, echo{Value: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "got hi", out)

	_, err = Dispatch[echo, int](context.Background(), bus, echo{})
	assert.ErrorIs(t, err, ErrResultType)
	assert.Equal(t, []string{"test.echo"}, bus.Keys())
}

func TestDispatchUnknownAndNil(t *testing.T) {
	bus := NewInMemoryBus()
	_, err := Dispatch[other, any](context.Background(), bus, other{})
	assert.ErrorIs(t, err, ErrHandlerNotFound)

	_, err = Dispatch[other, any](context.Background(), nil, other{})
	assert.ErrorIs(t, err, ErrNilBus)
}

func TestDispatchPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	bus := NewInMemoryBus()
	RegisterHandler[echo, string](bus, "test.echo", HandlerFunc[echo, string](func(context.Context, echo) (string, error) {
		return "", boom
	}))
	_, err := Dispatch[echo, string](context.Background(), bus, echo{})
	assert.ErrorIs(t, err, boom)
}

func TestRegisterDuplicatePanics(t *testing.T) {
	bus := NewInMemoryBus()
	h := HandlerFunc[echo, string](func(context.Context, echo) (string, error) { return "", nil })
	RegisterHandler[echo, string](bus, "test.echo", h)
	assert.Panics(t, func() { RegisterHandler[echo, string](bus, "test.echo", h) })
}
