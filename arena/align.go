package arena

// Alignment is one of the supported power-of-two alignments.
// Values outside the declared constants are rejected by Alloc.
type Alignment uint

const (
	Align1   Alignment = 1
	Align2   Alignment = 2
	Align4   Alignment = 4
	Align8   Alignment = 8
	Align16  Alignment = 16
	Align32  Alignment = 32
	Align64  Alignment = 64
	Align128 Alignment = 128
)

// MaxAlignment is the largest supported alignment.
const MaxAlignment = Align128

// Valid reports whether a is one of the supported alignments.
func (a Alignment) Valid() bool {
	switch a {
	case Align1, Align2, Align4, Align8, Align16, Align32, Align64, Align128:
		return true
	}
	return false
}

// ParseAlignment converts n to an Alignment, rejecting unsupported values.
func ParseAlignment(n int) (Alignment, error) {
	if n <= 0 {
		return 0, &AlignmentError{Alignment: 0}
	}
	a := Alignment(n)
	if !a.Valid() {
		return 0, &AlignmentError{Alignment: a}
	}
	return a, nil
}

// Pad returns the number of bytes needed to round value up to the next
// multiple of alignment, or 0 if it is already aligned.
func Pad(value int, alignment Alignment) int {
	if alignment == 0 {
		return 0
	}
	mod := uint(value) % uint(alignment)
	if mod == 0 {
		return 0
	}
	return int(uint(alignment) - mod)
}
