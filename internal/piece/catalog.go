package piece

// Kind identifies one of the seven tetromino shapes.
type Kind int

const (
	I Kind = iota
	O
	T
	S
	Z
	J
	L
)

// Color is the identifier stored in locked board cells. None marks an empty cell.
type Color uint8

const (
	None Color = iota
	Cyan
	Yellow
	Magenta
	Green
	Red
	Blue
	Orange
)

var kindNames = [...]string{"I", "O", "T", "S", "Z", "J", "L"}

var colorNames = [...]string{"none", "cyan", "yellow", "magenta", "green", "red", "blue", "orange"}

// catalog holds the spawn cells and color of every kind.
// The second cell is the rotation pivot.
var catalog = [...]struct {
	cells [4]Cell
	color Color
}{
	I: {[4]Cell{{4, 0}, {5, 0}, {6, 0}, {7, 0}}, Cyan},
	O: {[4]Cell{{4, 0}, {5, 0}, {4, 1}, {5, 1}}, Yellow},
	T: {[4]Cell{{4, 0}, {3, 1}, {4, 1}, {5, 1}}, Magenta},
	S: {[4]Cell{{4, 0}, {5, 0}, {3, 1}, {4, 1}}, Green},
	Z: {[4]Cell{{3, 0}, {4, 0}, {4, 1}, {5, 1}}, Red},
	J: {[4]Cell{{3, 0}, {3, 1}, {4, 1}, {5, 1}}, Blue},
	L: {[4]Cell{{5, 0}, {3, 1}, {4, 1}, {5, 1}}, Orange},
}

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	return []Kind{I, O, T, S, Z, J, L}
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "?"
	}
	return kindNames[k]
}

func (c Color) String() string {
	if int(c) >= len(colorNames) {
		return "?"
	}
	return colorNames[c]
}

// ColorOf returns the fixed color of a kind.
func ColorOf(k Kind) Color {
	return catalog[k].color
}

// Source is the random source used to pick the next kind.
// *math/rand/v2.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// Random returns a new piece of a kind drawn uniformly from src.
func Random(src Source) Piece {
	return New(Kind(src.IntN(len(catalog))))
}
