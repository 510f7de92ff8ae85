package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeek_UnmarshalGoalAlias(t *testing.T) {
	var weeks []Week
	err := json.Unmarshal([]byte(`[
		{"name":"Week 1","goal":"basics","days":[]},
		{"name":"Week 2","weeklyGoal":"loops","goal":"ignored","days":[]}
	]`), &weeks)

	require.NoError(t, err)
	assert.Equal(t, "basics", weeks[0].WeeklyGoal)
	assert.Equal(t, "loops", weeks[1].WeeklyGoal)
}

func TestRoadmap_Normalize(t *testing.T) {
	id := "a1"
	r := Roadmap{Months: []Month{{Weeks: []Week{{Days: []Day{
		{Topic: "x", Completed: true, ArticleID: &id},
		{Day: 5, Topic: "y"},
	}}}}}}

	r.Normalize()

	days := r.Months[0].Weeks[0].Days
	assert.Equal(t, 1, days[0].Day)
	assert.False(t, days[0].Completed)
	assert.Nil(t, days[0].ArticleID)
	assert.Equal(t, 5, days[1].Day)
	assert.NotNil(t, r.CompletedDays)
	assert.Equal(t, 2, r.DayCount())

	out, err := json.Marshal(days[0])
	require.NoError(t, err)
	assert.Contains(t, string(out), `"articleId":null`)
}

func TestFlexString(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    FlexString
		wantInt int
		intOK   bool
	}{
		{name: "string", in: `"3 Months"`, want: "3 Months", wantInt: 3, intOK: true},
		{name: "number", in: `2`, want: "2", wantInt: 2, intOK: true},
		{name: "float", in: `1.5`, want: "1.5", wantInt: 1, intOK: true},
		{name: "words", in: `"six months"`, want: "six months"},
		{name: "null", in: `null`, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexString
			require.NoError(t, json.Unmarshal([]byte(tt.in), &f))
			assert.Equal(t, tt.want, f)
			n, ok := f.Int()
			assert.Equal(t, tt.intOK, ok)
			assert.Equal(t, tt.wantInt, n)
		})
	}

	var f FlexString
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &f))
}
