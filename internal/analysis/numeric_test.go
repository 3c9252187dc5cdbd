package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumberAuto(t *testing.T) {
	var nf NumberFormat
	cases := map[string]float64{
		"100":        100,
		" 42 ":       42,
		"1,234":      1234,
		"12,345,678": 12345678,
		"1,5":        1.5,
		"1.234,56":   1234.56,
		"1,234.56":   1234.56,
		"1 234":      1234,
		"1\u00a0234": 1234,
		"-3.25":      -3.25,
		"1e3":        1000,
		"1.234":      1234,
		"1.234.567":  1234567,
		"12.5":       12.5,
	}
	for in, want := range cases {
		got, ok := nf.ParseNumber(in)
		assert.True(t, ok, in)
		assert.InDelta(t, want, got, 1e-9, in)
	}
	for _, in := range []string{"", "n/a", "NaN", "inf", "-Inf", "12abc", "--"} {
		_, ok := nf.ParseNumber(in)
		assert.False(t, ok, in)
	}
}

func TestParseNumberExplicitSeparators(t *testing.T) {
	eu := NumberFormat{DecimalSeparator: ',', ThousandsSeparator: '.'}
	v, ok := eu.ParseNumber("1.234")
	assert.True(t, ok)
	assert.Equal(t, 1234.0, v)
	v, ok = eu.ParseNumber("2,5")
	assert.True(t, ok)
	assert.Equal(t, 2.5, v)

	us := NumberFormat{DecimalSeparator: '.'}
	v, ok = us.ParseNumber("1,234.5")
	assert.True(t, ok)
	assert.Equal(t, 1234.5, v)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 66.67, round2(200.0/3))
	assert.Equal(t, 0.0, round2(0))
}
