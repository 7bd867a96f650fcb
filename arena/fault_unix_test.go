//go:build unix

package arena

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

// poke rewrites one byte of the raw mapping and reports whether it faulted.
func poke(r *Reservation, off int) (faulted bool) {
	data := r.mapping.Bytes()

	old := debug.SetPanicOnFault(true)
	defer debug.SetPanicOnFault(old)
	defer func() {
		if rec := recover(); rec != nil {
			faulted = true
		}
	}()
	data[off] = 0x5A
	return false
}

func TestReservation_GuardPages(t *testing.T) {
	r := newReservation(t, testReservationSize)
	ps := r.PageSize()
	end := r.MappingSize()

	tests := []struct {
		name   string
		off    int
		faults bool
	}{
		{"leading guard first byte", 0, true},
		{"leading guard last byte", ps - 1, true},
		{"metadata past control block", ps + 64, false},
		{"metadata last byte", 2*ps - 1, false},
		{"inner guard first byte", 2 * ps, true},
		{"inner guard last byte", 3*ps - 1, true},
		{"usable first byte", 3 * ps, false},
		{"usable last byte", end - ps - 1, false},
		{"trailing guard first byte", end - ps, true},
		{"trailing guard last byte", end - 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.faults, poke(r, tt.off))
		})
	}
}
