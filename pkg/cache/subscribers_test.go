package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	phones []string
	adds   int
	err    error
}

func (f *fakeSource) GetSubscribers(context.Context) ([]string, error) {
	return f.phones, f.err
}

func (f *fakeSource) AddSubscriber(_ context.Context, phone string) error {
	if f.err != nil {
		return f.err
	}
	f.adds++
	f.phones = append(f.phones, phone)
	return nil
}

func TestSubscriberCache(t *testing.T) {
	ctx := context.Background()
	source := &fakeSource{phones: []string{"79990000002", "79990000001"}}
	c := NewSubscriberCache(source)

	require.NoError(t, c.Init(ctx))
	assert.Equal(t, []string{"79990000001", "79990000002"}, c.List())

	require.NoError(t, c.Add(ctx, "79990000003"))
	require.NoError(t, c.Add(ctx, "79990000003"))
	require.NoError(t, c.Add(ctx, "79990000001"))
	assert.Equal(t, 1, source.adds)
	assert.Len(t, c.List(), 3)
}

func TestSubscriberCache_SourceFailure(t *testing.T) {
	source := &fakeSource{err: errors.New("down")}
	c := NewSubscriberCache(source)

	assert.Error(t, c.Init(context.Background()))
	assert.Error(t, c.Add(context.Background(), "79990000001"))
	assert.Empty(t, c.List())
}
