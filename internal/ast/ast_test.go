package ast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{1, "1"},
		{-12, "-12"},
		{0.5, "0.5"},
		{123.456, "123.456"},
		{1e21, "1e+21"},
		{1e20, "100000000000000000000"},
		{1.5e-7, "1.5e-7"},
		{0.000001, "0.000001"},
		{2.5e300, "2.5e+300"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
		{math.NaN(), "NaN"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatNumber(tt.in), "%v", tt.in)
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "for-in", KindForIn.String())
	assert.Equal(t, "unary-prefix", (&UnaryPrefix{}).Kind().String())
	assert.Equal(t, "kind(200)", Kind(200).String())
	assert.True(t, KindSeq.Valid())
	assert.False(t, KindCount.Valid())

	for k := Kind(0); k < KindCount; k++ {
		assert.NotEmpty(t, kindNames[k], "kind %d has no name", k)
	}
}

func TestIsEmptyStatement(t *testing.T) {
	assert.True(t, IsEmptyStatement(nil))
	assert.True(t, IsEmptyStatement(&Block{}))
	assert.True(t, IsEmptyStatement(&Block{Body: []Node{}}))
	assert.False(t, IsEmptyStatement(&Block{Body: []Node{&Debugger{}}}))
	assert.False(t, IsEmptyStatement(&Stat{Expr: &Name{Name: "x"}}))
}
