package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TenaciousPub/Challenge/pkg/core/model"
)

func intPtr(n int) *int { return &n }

func TestTargetResolver_Resolve(t *testing.T) {
	resolver := TargetResolver{Male: 200, Female: 100, Default: 150, Disabled: intPtr(50)}

	tests := []struct {
		name        string
		resolver    TargetResolver
		participant model.Participant
		challenge   *model.Challenge
		want        int
	}{
		{
			name:        "male",
			resolver:    resolver,
			participant: model.Participant{Gender: model.GenderMale},
			want:        200,
		},
		{
			name:        "female",
			resolver:    resolver,
			participant: model.Participant{Gender: model.GenderFemale},
			want:        100,
		},
		{
			name:        "unset gender uses default",
			resolver:    resolver,
			participant: model.Participant{},
			want:        150,
		},
		{
			name:        "disabled override wins over gender",
			resolver:    resolver,
			participant: model.Participant{Gender: model.GenderMale, Disabled: true},
			want:        50,
		},
		{
			name:        "disabled without override uses gender",
			resolver:    TargetResolver{Male: 200, Female: 100, Default: 150},
			participant: model.Participant{Gender: model.GenderFemale, Disabled: true},
			want:        100,
		},
		{
			name:        "negative override clamps to zero",
			resolver:    TargetResolver{Male: 200, Disabled: intPtr(-5)},
			participant: model.Participant{Gender: model.GenderMale, Disabled: true},
			want:        0,
		},
		{
			name:        "challenge target is authoritative",
			resolver:    resolver,
			participant: model.Participant{Gender: model.GenderMale, Disabled: true},
			challenge:   &model.Challenge{DailyTarget: 30},
			want:        30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.resolver.Resolve(tt.participant, tt.challenge)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0)
		})
	}
}
