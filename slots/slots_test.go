package slots

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniverse(t *testing.T) {
	labels := Universe(9, 23)

	assert.Len(t, labels, 28)
	assert.Equal(t, "09:00", labels[0])
	assert.Equal(t, "09:30", labels[1])
	assert.Equal(t, "22:30", labels[len(labels)-1])
}

func TestUniverseSingleHour(t *testing.T) {
	assert.Equal(t, []string{"09:00", "09:30"}, Universe(9, 10))
}

func TestSameSet(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want bool
	}{
		{"identical", []string{"09:00", "09:30"}, []string{"09:00", "09:30"}, true},
		{"order ignored", []string{"09:30", "09:00"}, []string{"09:00", "09:30"}, true},
		{"duplicates ignored", []string{"09:00", "09:00", "09:30"}, []string{"09:30", "09:00"}, true},
		{"extra element", []string{"09:00", "09:30"}, []string{"09:00"}, false},
		{"disjoint", []string{"09:00"}, []string{"10:00"}, false},
		{"both empty", nil, []string{}, true},
		{"one empty", []string{"09:00"}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SameSet(tt.a, tt.b))
		})
	}
}

func TestValidLabel(t *testing.T) {
	valid := []string{"00:00", "09:00", "09:30", "22:30", "23:00"}
	for _, s := range valid {
		assert.True(t, ValidLabel(s), s)
	}

	invalid := []string{"", "9:00", "09:15", "24:00", "09:60", "0900", "09:00:00"}
	for _, s := range invalid {
		assert.False(t, ValidLabel(s), s)
	}
}

func TestValidDate(t *testing.T) {
	assert.True(t, ValidDate("2026-09-10"))
	assert.False(t, ValidDate("2026-9-10"))
	assert.False(t, ValidDate("10-09-2026"))
	assert.False(t, ValidDate(""))
}

func TestNormalize(t *testing.T) {
	got := normalize([]string{"10:00", "09:00", "10:00", "09:30"})
	assert.Equal(t, []string{"09:00", "09:30", "10:00"}, got)
}
