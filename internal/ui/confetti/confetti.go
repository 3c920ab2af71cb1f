// Package confetti animates a short burst of colored pieces over a
// terminal-sized canvas.
package confetti

import (
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const (
	// Count is the number of pieces in a burst.
	Count = 100
	// Lifetime is how long a burst stays on screen.
	Lifetime = 2 * time.Second
	// FrameInterval is the animation frame period.
	FrameInterval = time.Second / 60

	gravity = 30.0 // rows per second squared
	drag    = 0.6
)

// Colors are used round robin.
var Colors = []lipgloss.Color{"#FFC107", "#FF5722", "#8BC34A", "#00BCD4", "#E91E63"}

var glyphs = []rune{'▪', '●', '▴', '■', '◆', '*'}

// Piece is one particle. Positions are in cells.
type Piece struct {
	X, Y   float64
	VX, VY float64
	Color  lipgloss.Color
	Glyph  rune
}

type cell struct {
	glyph rune
	color lipgloss.Color
}

// Burst is a running animation. It is not safe for concurrent use.
type Burst struct {
	Pieces  []Piece
	width   int
	height  int
	elapsed time.Duration
	grid    map[int]map[int]cell
}

// New launches Count pieces from the left and right edges of a width×height
// canvas, aimed up and inward.
func New(width, height int, rng *rand.Rand) *Burst {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	b := &Burst{width: width, height: height, Pieces: make([]Piece, 0, Count)}
	for i := 0; i < Count; i++ {
		fromLeft := i%2 == 0
		angle := (20 + rng.Float64()*50) * math.Pi / 180
		speed := 25 + rng.Float64()*35

		p := Piece{
			Y:     float64(height) * (0.55 + rng.Float64()*0.4),
			VX:    math.Cos(angle) * speed,
			VY:    -math.Sin(angle) * speed * 0.6,
			Color: Colors[i%len(Colors)],
			Glyph: glyphs[rng.Intn(len(glyphs))],
		}
		if !fromLeft {
			p.X = float64(width - 1)
			p.VX = -p.VX
		}
		b.Pieces = append(b.Pieces, p)
	}
	b.rebuild()
	return b
}

// Step advances the animation by dt and reports whether it is still running.
func (b *Burst) Step(dt time.Duration) bool {
	b.elapsed += dt
	s := dt.Seconds()
	damp := math.Pow(drag, s)
	for i := range b.Pieces {
		p := &b.Pieces[i]
		p.VY += gravity * s
		p.VX *= damp
		p.X += p.VX * s
		p.Y += p.VY * s
	}
	b.rebuild()
	return !b.Done()
}

// Done reports whether the burst outlived Lifetime.
func (b *Burst) Done() bool {
	return b.elapsed >= Lifetime
}

// Visible returns the number of pieces inside the canvas.
func (b *Burst) Visible() int {
	n := 0
	for _, row := range b.grid {
		n += len(row)
	}
	return n
}

func (b *Burst) rebuild() {
	b.grid = make(map[int]map[int]cell)
	if b.Done() {
		return
	}
	for _, p := range b.Pieces {
		x, y := int(math.Round(p.X)), int(math.Round(p.Y))
		if x < 0 || y < 0 || x >= b.width || y >= b.height {
			continue
		}
		if b.grid[y] == nil {
			b.grid[y] = make(map[int]cell)
		}
		b.grid[y][x] = cell{glyph: p.Glyph, color: p.Color}
	}
}

// Row renders columns [from, to) of row y, blanks where there is no piece.
func (b *Burst) Row(y, from, to int) string {
	if to <= from {
		return ""
	}
	row := b.grid[y]
	if len(row) == 0 {
		return strings.Repeat(" ", to-from)
	}
	var sb strings.Builder
	for x := from; x < to; x++ {
		c, ok := row[x]
		if !ok {
			sb.WriteByte(' ')
			continue
		}
		sb.WriteString(lipgloss.NewStyle().Foreground(c.color).Render(string(c.glyph)))
	}
	return sb.String()
}
