package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinIndexList(t *testing.T) {
	assert.Equal(t, "", JoinIndexList(nil))
	assert.Equal(t, "", JoinIndexList([]int{}))
	assert.Equal(t, "2", JoinIndexList([]int{2}))
	assert.Equal(t, "0,2,5", JoinIndexList([]int{5, 0, 2}))
	assert.Equal(t, "1,3", JoinIndexList([]int{3, 1, 3, 1}))
}

func TestParseIndexList(t *testing.T) {
	got, err := ParseIndexList("0,2")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, got)

	// Пустые элементы игнорируются
	got, err = ParseIndexList("")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = ParseIndexList("2, 0 ,2,")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, got)

	_, err = ParseIndexList("0,x")
	assert.Error(t, err)
}

func TestEqualIndexSets(t *testing.T) {
	assert.True(t, EqualIndexSets(nil, nil))
	assert.True(t, EqualIndexSets([]int{0, 2}, []int{2, 0}))
	assert.True(t, EqualIndexSets([]int{0, 0, 2}, []int{2, 0}))

	// Подмножество и надмножество — не равенство
	assert.False(t, EqualIndexSets([]int{0}, []int{0, 2}))
	assert.False(t, EqualIndexSets([]int{0, 2, 3}, []int{0, 2}))
	assert.False(t, EqualIndexSets([]int{}, []int{1}))
}
