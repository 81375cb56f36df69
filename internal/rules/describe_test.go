package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDescribeDeadline(t *testing.T) {
	now := at(4, 9, 0)

	tests := []struct {
		name     string
		result   Result
		expected string
	}{
		{"unrestricted", Result{Kind: KindUnrestricted}, "No restrictions"},
		{"prohibited", Result{Kind: KindProhibited, Until: now}, "No parking now"},
		{"same day", Result{Kind: KindTimeLimit, Until: at(4, 11, 0)}, "Park until 11:00 AM"},
		{"tomorrow", Result{Kind: KindEnforcementStarts, Until: at(5, 8, 0)}, "Park until tomorrow 8:00 AM"},
		{"later this week", Result{Kind: KindEnforcementStarts, Until: at(10, 8, 0)}, "Park until Monday 8:00 AM"},
		{"next week", Result{Kind: KindEnforcementStarts, Until: at(11, 12, 0)}, "Park until Mar 11 12:00 PM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DescribeDeadline(tt.result, now))
		})
	}
}

func TestDescribeRemaining(t *testing.T) {
	now := at(4, 9, 0)

	assert.Equal(t, "unlimited", DescribeRemaining(Result{Kind: KindUnrestricted}, now))
	assert.Equal(t, "1h 45m", DescribeRemaining(Result{Kind: KindTimeLimit, Until: now.Add(105 * time.Minute)}, now))
	assert.Equal(t, "20m", DescribeRemaining(Result{Kind: KindTimeLimit, Until: now.Add(20 * time.Minute)}, now))
	assert.Equal(t, "0m", DescribeRemaining(Result{Kind: KindProhibited, Until: now}, now))
}
