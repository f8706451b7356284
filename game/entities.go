package game

import "time"

// Play field extents in world units. Origin is the top-left corner,
// y grows downward, matching the canvas the client renders.
const (
	FieldWidth  = 800.0
	FieldHeight = 500.0
)

const (
	PaddleWidth    = 104.0
	PaddleMaxWidth = 168.0
	PaddleGrowStep = 32.0
	PaddleHeight   = 16.0

	BallRadius = 8.0
	// Initial ball velocity components, units per second. VY is
	// negative so a fresh ball always climbs away from the paddle.
	BallSpeedX = 180.0
	BallSpeedY = -260.0

	BrickWidth  = 64.0
	BrickHeight = 24.0

	BonusFallSpeed  = 120.0
	BonusLifespan   = 10 * time.Second
	bonusDropChance = 0.2

	ScorePerHit     = 1
	ScoreBoostValue = 5

	StartingLevel = 1
	StartingScore = 2
	StartingLives = 2

	particleCount = 40
)

type Paddle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Ball struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
	Radius float64 `json:"radius"`
}

// Brick keeps its slot after destruction so the snapshot retains
// scoring history; destroyed bricks are skipped by collision checks.
type Brick struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	HitPoints int     `json:"hitPoints"`
	Destroyed bool    `json:"destroyed"`
	HasBonus  bool    `json:"hasBonus"`
}

type BonusType string

const (
	BonusExtraLife  BonusType = "extraLife"
	BonusPaddleGrow BonusType = "paddleGrow"
	BonusScoreBoost BonusType = "scoreBoost"
)

// Bonus is a falling consumable. It expires Lifespan after SpawnedAt
// whether or not a paddle ever collects it.
type Bonus struct {
	X         float64       `json:"x"`
	Y         float64       `json:"y"`
	Type      BonusType     `json:"type"`
	SpawnedAt time.Time     `json:"spawnedAt"`
	Lifespan  time.Duration `json:"lifespan"`
}

// Particle is cosmetic background dust; it never affects collisions
// or scoring.
type Particle struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	VX   float64 `json:"vx"`
	VY   float64 `json:"vy"`
	Size float64 `json:"size"`
}

type Status string

const (
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)
