package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAlertDays(t *testing.T) {
	tests := []struct {
		name string
		in   []int
		want []int
	}{
		{"already sorted", []int{30, 60, 90}, []int{30, 60, 90}},
		{"unsorted", []int{90, 30, 60}, []int{30, 60, 90}},
		{"duplicates dropped", []int{30, 30, 60}, []int{30, 60}},
		{"non-positive dropped", []int{-5, 0, 14}, []int{14}},
		{"empty", nil, []int{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeAlertDays(tc.in))
		})
	}
}
