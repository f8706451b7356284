package game

import (
	"math"
	"math/rand"
	"time"
)

// maxTickDelta caps the wall-clock delta applied by a single tick.
// Ticks are driven by client input, so a room that sat idle would
// otherwise fast-forward the whole gap on its next message.
const maxTickDelta = 100 * time.Millisecond

// Input is one player's contribution to a tick: who reported and
// where their paddle is.
type Input struct {
	PlayerID string
	PaddleX  float64
	PaddleY  float64
}

// Session is the authoritative game state for one room's current
// playthrough. It is not safe for concurrent use; the owning room
// serializes access.
type Session struct {
	Level     int                `json:"level"`
	Score     int                `json:"score"`
	Lives     int                `json:"lives"`
	Paddles   map[string]*Paddle `json:"paddles"`
	Balls     []*Ball            `json:"balls"`
	Bricks    []*Brick           `json:"bricks"`
	Bonuses   []*Bonus           `json:"bonuses"`
	Particles []*Particle        `json:"particles"`
	Elapsed   float64            `json:"elapsed"`
	Status    Status             `json:"status"`

	rng      *rand.Rand
	lastTick time.Time
}

// NewSession creates a session at the given level carrying the given
// score and lives. Level advance carries both forward; restart passes
// the starting values.
func NewSession(level, score, lives int) *Session {
	if level < 1 {
		level = 1
	}
	if score < 0 {
		score = 0
	}
	if lives < 0 {
		lives = 0
	}
	return &Session{
		Level:   level,
		Score:   score,
		Lives:   lives,
		Paddles: make(map[string]*Paddle),
		Status:  StatusPlaying,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SpawnPaddle places or repositions one player's paddle. Coordinates
// outside the field are clamped, never rejected.
func (s *Session) SpawnPaddle(playerID string, x, y float64) {
	p, ok := s.Paddles[playerID]
	if !ok {
		p = &Paddle{Width: PaddleWidth, Height: PaddleHeight}
		s.Paddles[playerID] = p
	}
	p.X, p.Y = clampPaddle(x, y, p.Width, p.Height)
}

// RemovePaddle prunes a departed member's paddle.
func (s *Session) RemovePaddle(playerID string) {
	delete(s.Paddles, playerID)
}

// SpawnLevel replaces the brick wall with the deterministic layout
// for the given level. Calling it again with the same number is a
// no-op in effect: the layout is identical each time.
func (s *Session) SpawnLevel(level int) {
	if level < 1 {
		level = 1
	}
	s.Level = level
	s.Bricks = GenerateLevel(level)
}

// InitParticles seeds the cosmetic background dust. Purely visual;
// nothing gameplay-critical depends on it.
func (s *Session) InitParticles() {
	particles := make([]*Particle, particleCount)
	for i := range particles {
		particles[i] = &Particle{
			X:    s.rng.Float64() * FieldWidth,
			Y:    s.rng.Float64() * FieldHeight,
			VX:   (s.rng.Float64() - 0.5) * 40,
			VY:   (s.rng.Float64() - 0.5) * 40,
			Size: 1 + s.rng.Float64()*2,
		}
	}
	s.Particles = particles
}

// SpawnBall introduces a ball just above the initiating paddle's
// position, climbing at the standard speed with a random horizontal
// direction.
func (s *Session) SpawnBall(paddleX, paddleY float64) {
	x, y := clampPaddle(paddleX, paddleY, PaddleWidth, PaddleHeight)
	vx := BallSpeedX
	if s.rng.Intn(2) == 0 {
		vx = -vx
	}
	s.Balls = append(s.Balls, &Ball{
		X:      x + PaddleWidth/2,
		Y:      y - BallRadius - 2,
		VX:     vx,
		VY:     BallSpeedY,
		Radius: BallRadius,
	})
}

// Advance applies one full simulation tick: timer, paddle movement,
// particles, brick collisions, bonus collisions, win evaluation,
// consumable expiry — in that order, always. Returns false when the
// tick was rejected because the session is already won or lost.
func (s *Session) Advance(in Input, now time.Time) bool {
	if s.Status != StatusPlaying {
		return false
	}

	dt := s.tickDelta(now)
	s.Elapsed += dt

	s.movePaddle(in)
	s.moveParticles(dt)
	s.collisionDetection(dt)
	s.collisionBonusesDetection(dt)
	s.calculateWin()
	s.checkConsumable(now)
	return true
}

// tickDelta measures wall-clock time since the previous tick, capped.
// The first tick of a session contributes nothing.
func (s *Session) tickDelta(now time.Time) float64 {
	if s.lastTick.IsZero() {
		s.lastTick = now
		return 0
	}
	d := now.Sub(s.lastTick)
	s.lastTick = now
	if d < 0 {
		return 0
	}
	if d > maxTickDelta {
		d = maxTickDelta
	}
	return d.Seconds()
}

// movePaddle applies the latest reported position for the reporting
// player. Unknown player ids are ignored rather than failing the tick.
func (s *Session) movePaddle(in Input) {
	p, ok := s.Paddles[in.PlayerID]
	if !ok {
		return
	}
	p.X, p.Y = clampPaddle(in.PaddleX, in.PaddleY, p.Width, p.Height)
}

func (s *Session) moveParticles(dt float64) {
	for _, p := range s.Particles {
		p.X = wrap(p.X+p.VX*dt, FieldWidth)
		p.Y = wrap(p.Y+p.VY*dt, FieldHeight)
	}
}

// collisionDetection advances every ball and resolves wall, paddle
// and brick contacts. A ball past the bottom edge costs a life and is
// respawned while lives remain.
func (s *Session) collisionDetection(dt float64) {
	kept := s.Balls[:0]
	lost := 0

	for _, b := range s.Balls {
		b.X += b.VX * dt
		b.Y += b.VY * dt

		// Side and top walls reflect.
		if b.X-b.Radius < 0 {
			b.X = b.Radius
			b.VX = -b.VX
		} else if b.X+b.Radius > FieldWidth {
			b.X = FieldWidth - b.Radius
			b.VX = -b.VX
		}
		if b.Y-b.Radius < 0 {
			b.Y = b.Radius
			b.VY = -b.VY
		}

		s.paddleBounce(b)
		s.brickHit(b)

		if b.Y-b.Radius > FieldHeight {
			lost++
			continue
		}
		kept = append(kept, b)
	}
	s.Balls = kept

	for i := 0; i < lost; i++ {
		if s.Lives > 0 {
			s.Lives--
		}
		if s.Lives > 0 {
			s.respawnBall()
		}
	}
}

// paddleBounce reflects a descending ball off any paddle it overlaps,
// steering it by where on the paddle it landed.
func (s *Session) paddleBounce(b *Ball) {
	if b.VY <= 0 {
		return
	}
	for _, p := range s.Paddles {
		if !circleRectOverlap(b, p.X, p.Y, p.Width, p.Height) {
			continue
		}
		b.Y = p.Y - b.Radius
		b.VY = -math.Abs(b.VY)
		offset := (b.X - (p.X + p.Width/2)) / (p.Width / 2)
		if offset < -1 {
			offset = -1
		} else if offset > 1 {
			offset = 1
		}
		b.VX = offset * BallSpeedX * 1.4
		return
	}
}

// brickHit resolves at most one brick contact per ball per tick. A
// hit scores, decrements hit-points, reflects the velocity component
// perpendicular to the struck face and may drop a bonus when the
// brick is destroyed.
func (s *Session) brickHit(b *Ball) {
	for _, brick := range s.Bricks {
		if brick.Destroyed || !circleRectOverlap(b, brick.X, brick.Y, brick.Width, brick.Height) {
			continue
		}

		brick.HitPoints--
		s.Score += ScorePerHit
		if brick.HitPoints <= 0 {
			brick.Destroyed = true
			if brick.HasBonus {
				s.dropBonus(brick)
			}
		}

		// Reflect along the axis of least penetration.
		overlapX := brick.Width/2 + b.Radius - math.Abs(b.X-(brick.X+brick.Width/2))
		overlapY := brick.Height/2 + b.Radius - math.Abs(b.Y-(brick.Y+brick.Height/2))
		if overlapX < overlapY {
			b.VX = -b.VX
		} else {
			b.VY = -b.VY
		}
		return
	}
}

func (s *Session) dropBonus(brick *Brick) {
	kinds := []BonusType{BonusExtraLife, BonusPaddleGrow, BonusScoreBoost}
	s.Bonuses = append(s.Bonuses, &Bonus{
		X:         brick.X + brick.Width/2,
		Y:         brick.Y + brick.Height,
		Type:      kinds[s.rng.Intn(len(kinds))],
		SpawnedAt: s.lastTick,
		Lifespan:  BonusLifespan,
	})
}

// respawnBall puts a fresh ball back in play after a life was lost.
func (s *Session) respawnBall() {
	vx := BallSpeedX
	if s.rng.Intn(2) == 0 {
		vx = -vx
	}
	s.Balls = append(s.Balls, &Ball{
		X:      FieldWidth / 2,
		Y:      FieldHeight - 80,
		VX:     vx,
		VY:     BallSpeedY,
		Radius: BallRadius,
	})
}

// collisionBonusesDetection drops every bonus toward the paddles and
// applies the effect of any bonus a paddle catches. Bonuses falling
// past the field are left for expiry to reap.
func (s *Session) collisionBonusesDetection(dt float64) {
	kept := s.Bonuses[:0]
	for _, bonus := range s.Bonuses {
		bonus.Y += BonusFallSpeed * dt

		caught := false
		for _, p := range s.Paddles {
			if bonus.X >= p.X && bonus.X <= p.X+p.Width &&
				bonus.Y >= p.Y && bonus.Y <= p.Y+p.Height {
				s.applyBonus(bonus.Type, p)
				caught = true
				break
			}
		}
		if !caught {
			kept = append(kept, bonus)
		}
	}
	s.Bonuses = kept
}

func (s *Session) applyBonus(kind BonusType, p *Paddle) {
	switch kind {
	case BonusExtraLife:
		s.Lives++
	case BonusPaddleGrow:
		p.Width += PaddleGrowStep
		if p.Width > PaddleMaxWidth {
			p.Width = PaddleMaxWidth
		}
		p.X, p.Y = clampPaddle(p.X, p.Y, p.Width, p.Height)
	case BonusScoreBoost:
		s.Score += ScoreBoostValue
	}
}

// calculateWin flags the terminal state. Level-clear is checked
// before the life count, so destroying the last brick and losing the
// last ball in the same tick counts as a win.
func (s *Session) calculateWin() {
	remaining := 0
	for _, brick := range s.Bricks {
		if !brick.Destroyed {
			remaining++
		}
	}
	if remaining == 0 && len(s.Bricks) > 0 {
		s.Status = StatusWon
		return
	}
	if s.Lives <= 0 {
		s.Status = StatusLost
	}
}

// checkConsumable reaps bonuses whose lifespan has elapsed, collected
// or not.
func (s *Session) checkConsumable(now time.Time) {
	kept := s.Bonuses[:0]
	for _, bonus := range s.Bonuses {
		if now.Sub(bonus.SpawnedAt) >= bonus.Lifespan {
			continue
		}
		kept = append(kept, bonus)
	}
	s.Bonuses = kept
}

func clampPaddle(x, y, width, height float64) (float64, float64) {
	if x < 0 {
		x = 0
	} else if x > FieldWidth-width {
		x = FieldWidth - width
	}
	if y < 0 {
		y = 0
	} else if y > FieldHeight-height {
		y = FieldHeight - height
	}
	return x, y
}

func circleRectOverlap(b *Ball, x, y, width, height float64) bool {
	cx := math.Max(x, math.Min(b.X, x+width))
	cy := math.Max(y, math.Min(b.Y, y+height))
	dx := b.X - cx
	dy := b.Y - cy
	return dx*dx+dy*dy <= b.Radius*b.Radius
}

func wrap(v, max float64) float64 {
	if v < 0 {
		return v + max
	}
	if v > max {
		return v - max
	}
	return v
}
