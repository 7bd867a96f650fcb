package arena_test

import (
	"fmt"

	"github.com/hupe1980/tspcache/arena"
)

func Example() {
	r, err := arena.Reserve(1 << 20)
	if err != nil {
		panic(err)
	}
	defer func() { _ = r.Release() }()

	a, err := r.NewArena(64 << 10)
	if err != nil {
		panic(err)
	}
	defer a.Destroy()

	xs, err := arena.AllocSlice[float32](a, 4, arena.Align16)
	if err != nil {
		panic(err)
	}
	copy(xs, []float32{1, 2, 3, 4})

	a.Checkpoint()
	_, _ = a.Alloc(1000, arena.Align8)
	a.Restore()

	fmt.Println(xs, a.Offset(), r.LiveArenas())
	// Output: [1 2 3 4] 16 1
}

func ExamplePad() {
	fmt.Println(arena.Pad(13, arena.Align8), arena.Pad(16, arena.Align8))
	// Output: 3 0
}
