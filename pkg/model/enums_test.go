package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConditionFromScore(t *testing.T) {
	tests := []struct {
		score int
		want  Condition
	}{
		{100, ConditionExcellent},
		{85, ConditionExcellent},
		{84, ConditionGood},
		{70, ConditionGood},
		{69, ConditionFair},
		{50, ConditionFair},
		{49, ConditionPoor},
		{0, ConditionPoor},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ConditionFromScore(tt.score), "score %d", tt.score)
	}
}

func TestCondition_Value(t *testing.T) {
	assert.Equal(t, 4, ConditionExcellent.Value())
	assert.Equal(t, 1, ConditionPoor.Value())
	assert.Equal(t, 0, Condition("glowing").Value())
	assert.False(t, Condition("").Valid())
}

func TestPriority_Rank(t *testing.T) {
	assert.Less(t, PriorityHigh.Rank(), PriorityMedium.Rank())
	assert.Less(t, PriorityMedium.Rank(), PriorityLow.Rank())
	assert.Greater(t, Priority("unknown").Rank(), PriorityLow.Rank())
}

func TestProductCategory_Valid(t *testing.T) {
	assert.True(t, CategorySunscreen.Valid())
	assert.False(t, ProductCategory("perfume").Valid())
}
