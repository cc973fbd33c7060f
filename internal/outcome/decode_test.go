package outcome

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/BrandishReveal_Go/internal/domain"
)

func TestDecodePayload(t *testing.T) {
	tests := []struct {
		name    string
		mode    domain.Mode
		body    string
		want    domain.OutcomePayload
		wantErr error
	}{
		{
			name: "grid with numeric won item id",
			mode: domain.ModeGrid,
			body: `{"message":"You won!","prize_type":"item","won_item":{"id":42,"name":"Sword"}}`,
			want: domain.GridOutcome{TargetID: "42"},
		},
		{
			name: "grid with target id only",
			mode: domain.ModeGrid,
			body: `{"target_id":"gem"}`,
			want: domain.GridOutcome{TargetID: "gem"},
		},
		{
			name:    "grid without target",
			mode:    domain.ModeGrid,
			body:    `{"message":"?"}`,
			wantErr: domain.ErrInvalidOutcome,
		},
		{
			name: "reels",
			mode: domain.ModeReel,
			body: `{"reels":[1,0,2]}`,
			want: domain.ReelOutcome{PerReelTargetIndex: []int{1, 0, 2}},
		},
		{
			name:    "reels missing",
			mode:    domain.ModeReel,
			body:    `{}`,
			wantErr: domain.ErrInvalidOutcome,
		},
		{
			name: "wheel",
			mode: domain.ModeWheel,
			body: `{"sector_index":3,"rotation_angle":1845.5}`,
			want: domain.WheelOutcome{TargetSectorIndex: 3, RotationAngleDegrees: 1845.5},
		},
		{
			name:    "wheel without angle",
			mode:    domain.ModeWheel,
			body:    `{"sector_index":3}`,
			wantErr: domain.ErrInvalidOutcome,
		},
		{
			name: "digits with computed tally",
			mode: domain.ModeDigit,
			body: `{"secret_digits":[1,2,3],"user_digits":[1,5,3]}`,
			want: domain.DigitOutcome{SecretDigits: [3]int{1, 2, 3}, UserDigits: [3]int{1, 5, 3}, MatchCount: 2},
		},
		{
			name: "digits keep the declared tally",
			mode: domain.ModeDigit,
			body: `{"secret_digits":[1,2,3],"user_digits":[1,5,3],"match_count":1}`,
			want: domain.DigitOutcome{SecretDigits: [3]int{1, 2, 3}, UserDigits: [3]int{1, 5, 3}, MatchCount: 1},
		},
		{
			name:    "digits wrong length",
			mode:    domain.ModeDigit,
			body:    `{"secret_digits":[1,2],"user_digits":[1,5,3]}`,
			wantErr: domain.ErrInvalidOutcome,
		},
		{
			name:    "malformed json",
			mode:    domain.ModeGrid,
			body:    `{`,
			wantErr: domain.ErrInvalidOutcome,
		},
		{
			name:    "unknown mode",
			mode:    domain.Mode("slots"),
			body:    `{}`,
			wantErr: domain.ErrInvalidMode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodePayload(tt.mode, []byte(tt.body))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Payload)
		})
	}
}

func TestDecodePayload_WinFields(t *testing.T) {
	got, err := DecodePayload(domain.ModeGrid, []byte(`{"message":"Nice","prize_type":"item","won_item":{"id":"sword"}}`))
	require.NoError(t, err)
	assert.Equal(t, "Nice", got.Message)
	assert.Equal(t, "sword", got.WonItem, "falls back to the id when the item has no name")
	assert.True(t, got.IsWin())

	lost, err := DecodePayload(domain.ModeWheel, []byte(`{"sector_index":0,"rotation_angle":0,"prize_type":"none"}`))
	require.NoError(t, err)
	assert.False(t, lost.IsWin())
}

func TestFormatDigits(t *testing.T) {
	assert.Equal(t, "090", FormatDigits([3]int{0, 9, 0}))
}
