package ais

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFragmentAssemblerSingleFragmentCompletesImmediately(t *testing.T) {
	r := NewFragmentAssembler()
	payload, fill, ok, err := r.Add("A", 1, 1, 0, []byte("abc"), 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("abc"), payload)
	assert.Equal(t, 0, fill)
}

func TestFragmentAssemblerWaitsForAllFragments(t *testing.T) {
	r := NewFragmentAssembler()

	_, _, ok, err := r.Add("A", 2, 1, 7, []byte("abc"), 0)
	require.NoError(t, err)
	assert.False(t, ok)

	payload, fill, ok, err := r.Add("A", 2, 2, 7, []byte("def"), 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("abcdef"), payload)
	assert.Equal(t, 2, fill)
}

func TestFragmentAssemblerKeepsChannelsSeparate(t *testing.T) {
	r := NewFragmentAssembler()

	_, _, ok, err := r.Add("A", 2, 1, 1, []byte("aaa"), 0)
	require.NoError(t, err)
	assert.False(t, ok)

	// A fragment on a different channel with the same sequence ID must not complete A's group.
	_, _, ok, err = r.Add("B", 2, 1, 1, []byte("bbb"), 0)
	require.NoError(t, err)
	assert.False(t, ok)

	payload, _, ok, err := r.Add("A", 2, 2, 1, []byte("aaa2"), 0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("aaaaaa2"), payload)
}

func TestFragmentAssemblerRejectsOutOfRangeFragmentNumber(t *testing.T) {
	r := NewFragmentAssembler()
	_, _, _, err := r.Add("A", 2, 3, 0, []byte("x"), 0)
	assert.Error(t, err)
}
