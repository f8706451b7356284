package game

import "math/rand"

const (
	brickGap       = 8.0
	brickOffsetTop = 60.0
	minBrickRows   = 3
	maxBrickRows   = 8
)

// GenerateLevel builds the brick layout for a level. The generator is
// seeded with the level number, so re-entering a level always
// produces the same wall: same grid, same hit-points, same
// bonus-carrier bricks.
func GenerateLevel(level int) []*Brick {
	if level < 1 {
		level = 1
	}
	rng := rand.New(rand.NewSource(int64(level)))

	rows := minBrickRows + (level - 1)
	if rows > maxBrickRows {
		rows = maxBrickRows
	}
	cols := int((FieldWidth - brickGap) / (BrickWidth + brickGap))
	offsetLeft := (FieldWidth - float64(cols)*(BrickWidth+brickGap) + brickGap) / 2

	// Bricks get tougher as levels progress, capped at 3 hits.
	maxHits := 1 + (level-1)/2
	if maxHits > 3 {
		maxHits = 3
	}

	bricks := make([]*Brick, 0, rows*cols)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			bricks = append(bricks, &Brick{
				X:         offsetLeft + float64(col)*(BrickWidth+brickGap),
				Y:         brickOffsetTop + float64(row)*(BrickHeight+brickGap),
				Width:     BrickWidth,
				Height:    BrickHeight,
				HitPoints: 1 + rng.Intn(maxHits),
				HasBonus:  rng.Float64() < bonusDropChance,
			})
		}
	}
	return bricks
}
