package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected TimeOfDay
		wantErr  bool
	}{
		{name: "colon format", input: "08:30", expected: TimeOfDay{Hour: 8, Minute: 30}},
		{name: "compact three digits", input: "900", expected: TimeOfDay{Hour: 9}},
		{name: "compact four digits", input: "1800", expected: TimeOfDay{Hour: 18}},
		{name: "2400 is midnight", input: "2400", expected: TimeOfDay{}},
		{name: "hour only", input: "7", expected: TimeOfDay{Hour: 7}},
		{name: "garbage", input: "noon", wantErr: true},
		{name: "empty", input: " ", wantErr: true},
		{name: "bad minute", input: "10:75", wantErr: true},
		{name: "hour past midnight", input: "25:00", wantErr: true},
		{name: "compact past midnight", input: "2430", wantErr: true},
		{name: "two digit garbage hour", input: "99:10", wantErr: true},
		{name: "24:30 is not midnight", input: "24:30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseDayCodes(t *testing.T) {
	tests := []struct {
		input    string
		expected DaySet
	}{
		{"M-F", Weekdays},
		{"M-Sa", Weekdays.With(time.Saturday)},
		{"Daily", EveryDay},
		{"M-Su", EveryDay},
		{"Tu/Th", NewDaySet(time.Tuesday, time.Thursday)},
		{"M/W/F", NewDaySet(time.Monday, time.Wednesday, time.Friday)},
		{"Sa-Su", NewDaySet(time.Saturday, time.Sunday)},
		{"Mon, Thurs", NewDaySet(time.Monday, time.Thursday)},
		{"", 0},
		{"whenever", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseDayCodes(tt.input))
		})
	}
}

func TestDaySet_JSONRoundTrip(t *testing.T) {
	set := NewDaySet(time.Sunday, time.Monday, time.Friday)

	data, err := json.Marshal(set)
	require.NoError(t, err)
	assert.JSONEq(t, `["monday","friday","sunday"]`, string(data))

	var decoded DaySet
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, set, decoded)

	require.NoError(t, json.Unmarshal([]byte(`"M-F"`), &decoded))
	assert.Equal(t, Weekdays, decoded)

	assert.Error(t, json.Unmarshal([]byte(`["someday"]`), &decoded))
}

func TestTimeOfDay_UnmarshalJSON(t *testing.T) {
	var obj TimeOfDay
	require.NoError(t, json.Unmarshal([]byte(`{"hour":18,"minute":0}`), &obj))
	assert.Equal(t, TimeOfDay{Hour: 18}, obj)

	var str TimeOfDay
	require.NoError(t, json.Unmarshal([]byte(`"07:45"`), &str))
	assert.Equal(t, TimeOfDay{Hour: 7, Minute: 45}, str)
}

func TestSortRulesByPriority(t *testing.T) {
	rules := []ParkingRule{
		{ID: "permit", Type: RuleTypePermitRequired},
		{ID: "clean", Type: RuleTypeStreetCleaning},
		{ID: "limit", Type: RuleTypeTimeLimit},
		{ID: "none", Type: RuleTypeNoParking},
	}

	sorted := SortRulesByPriority(rules)

	ids := make([]string, len(sorted))
	for i, r := range sorted {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"none", "clean", "limit", "permit"}, ids)
	assert.Equal(t, "permit", rules[0].ID, "input must not be reordered")
}

func TestCloneRules_IsDeep(t *testing.T) {
	limit := 120
	start := TimeOfDay{Hour: 8}
	rules := []ParkingRule{{ID: "r1", TimeLimitMinutes: &limit, EnforcementStart: &start}}

	clone := CloneRules(rules)
	*rules[0].TimeLimitMinutes = 30
	rules[0].EnforcementStart.Hour = 9

	assert.Equal(t, 120, *clone[0].TimeLimitMinutes)
	assert.Equal(t, 8, clone[0].EnforcementStart.Hour)
}
