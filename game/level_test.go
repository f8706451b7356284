package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateLevel_Idempotent(t *testing.T) {
	for _, level := range []int{1, 3, 7, 12} {
		first := GenerateLevel(level)
		second := GenerateLevel(level)
		assert.Equal(t, first, second, "level %d must regenerate identically", level)
	}
}

func TestGenerateLevel_DiffersAcrossLevels(t *testing.T) {
	assert.NotEqual(t, GenerateLevel(1), GenerateLevel(2))
}

func TestGenerateLevel_Layout(t *testing.T) {
	tests := []struct {
		name     string
		level    int
		wantRows int
	}{
		{"level one", 1, minBrickRows},
		{"level four", 4, minBrickRows + 3},
		{"row growth is capped", 20, maxBrickRows},
		{"invalid level treated as one", 0, minBrickRows},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bricks := GenerateLevel(tt.level)
			require.NotEmpty(t, bricks)

			rows := make(map[float64]bool)
			for _, b := range bricks {
				rows[b.Y] = true

				assert.GreaterOrEqual(t, b.X, 0.0)
				assert.LessOrEqual(t, b.X+b.Width, FieldWidth)
				assert.GreaterOrEqual(t, b.HitPoints, 1)
				assert.LessOrEqual(t, b.HitPoints, 3)
				assert.False(t, b.Destroyed)
			}
			assert.Len(t, rows, tt.wantRows)
		})
	}
}
