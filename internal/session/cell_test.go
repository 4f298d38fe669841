package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCell_SetOnce(t *testing.T) {
	var c Cell[string]

	_, ok := c.Load()
	assert.False(t, ok)

	require.NoError(t, c.Set("first"))
	assert.ErrorIs(t, c.Set("second"), ErrCellSet)

	v, ok := c.Load()
	assert.True(t, ok)
	assert.Equal(t, "first", v)
}

func TestCell_GetWaitsForSet(t *testing.T) {
	var c Cell[int]
	got := make(chan int, 1)

	go func() {
		v, err := c.Get(context.Background())
		if err == nil {
			got <- v
		}
	}()

	select {
	case <-got:
		t.Fatal("Get returned before Set")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, c.Set(7))

	select {
	case v := <-got:
		assert.Equal(t, 7, v)
	case <-time.After(time.Second):
		t.Fatal("Get did not return after Set")
	}
}

func TestCell_GetHonorsContext(t *testing.T) {
	var c Cell[int]
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Get(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
