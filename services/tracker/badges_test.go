package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBadgeFor(t *testing.T) {
	cases := []struct {
		points uint
		want   string
	}{
		{0, "Newbie"},
		{19, "Newbie"},
		{20, "Explorer"},
		{39, "Explorer"},
		{40, "Achiever"},
		{60, "Specialist"},
		{80, "Expert"},
		{99, "Expert"},
		{100, "Master"},
		{1000, "Master"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, BadgeFor(tc.points).Name, "points=%d", tc.points)
	}
}

func TestBadgeTiersAscending(t *testing.T) {
	for i := 1; i < len(badgeTiers); i++ {
		assert.Greater(t, badgeTiers[i].Threshold, badgeTiers[i-1].Threshold)
	}
}
