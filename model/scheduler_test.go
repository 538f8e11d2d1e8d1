package model

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func advanceN(t testing.TB, g *Grid, n, workers int) *Grid {
	t.Helper()
	for range n {
		var err error
		g, err = Advance(g, workers)
		require.NoError(t, err)
	}
	return g
}

func TestPartition(t *testing.T) {
	tests := []struct {
		lo, hi, workers int
		want            []Band
	}{
		{0, 9, 1, []Band{{0, 9}}},
		{0, 9, 3, []Band{{0, 3}, {4, 6}, {7, 9}}},
		{-2, 1, 4, []Band{{-2, -2}, {-1, -1}, {0, 0}, {1, 1}}},
		{0, 2, 8, []Band{{0, 0}, {1, 1}, {2, 2}}},
		{5, 5, 0, []Band{{5, 5}}},
		{3, 2, 4, nil},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_%d_%d", tt.lo, tt.hi, tt.workers), func(t *testing.T) {
			assert.Equal(t, tt.want, Partition(tt.lo, tt.hi, tt.workers))
		})
	}
}

func TestPartition_CoversRangeContiguously(t *testing.T) {
	for workers := 1; workers <= 17; workers++ {
		bands := Partition(-50, 73, workers)
		require.NotEmpty(t, bands)
		assert.Equal(t, -50, bands[0].Lo)
		assert.Equal(t, 73, bands[len(bands)-1].Hi)
		for i := 1; i < len(bands); i++ {
			assert.Equal(t, bands[i-1].Hi+1, bands[i].Lo)
			assert.Contains(t, []uint64{0, 1}, bands[i-1].Rows()-bands[i].Rows())
		}
	}
}

func TestPartition_WideRange(t *testing.T) {
	tests := []struct {
		name            string
		lo, hi, workers int
		want            []Band
	}{
		{"every int", math.MinInt, math.MaxInt, 2, []Band{{math.MinInt, -1}, {0, math.MaxInt}}},
		{"single band", -1<<62 - 1, 1<<62 + 1, 1, []Band{{-1<<62 - 1, 1<<62 + 1}}},
		{"far apart blocks", -1<<62 - 1, 1<<62 + 2, 4, []Band{
			{-1<<62 - 1, -1<<61 - 1},
			{-1 << 61, 0},
			{1, 1<<61 + 1},
			{1<<61 + 2, 1<<62 + 2},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Partition(tt.lo, tt.hi, tt.workers))
		})
	}
}

func TestResolveWorkers(t *testing.T) {
	assert.Equal(t, 1, ResolveWorkers(1))
	assert.Equal(t, 6, ResolveWorkers(6))
	assert.GreaterOrEqual(t, ResolveWorkers(0), 1)
	assert.GreaterOrEqual(t, ResolveWorkers(-3), 1)
}

func TestAdvance_Empty(t *testing.T) {
	for _, workers := range []int{0, 1, 4} {
		next, err := Advance(EmptyGrid(), workers)
		require.NoError(t, err)
		assert.True(t, next.IsEmpty())
	}
}

func TestAdvance_BlockIsStill(t *testing.T) {
	for _, origin := range []Cell{{0, 0}, {-17, 3}, {1 << 40, -(1 << 40)}} {
		g := mustGrid(t, Block(origin.Row, origin.Col))
		for _, workers := range []int{1, 2, 3} {
			next, err := Advance(g, workers)
			require.NoError(t, err)
			assert.True(t, g.Equal(next), "block at %v with %d workers", origin, workers)
		}
	}
}

func TestAdvance_FarApartRows(t *testing.T) {
	g := mustGrid(t, append(Block(-1<<62, 0), Block(1<<62, 0)...))
	for _, workers := range []int{1, 4} {
		next, err := Advance(g, workers)
		require.NoError(t, err)
		assert.True(t, g.Equal(next), "%d workers", workers)
	}

	gliders := mustGrid(t, append(Glider(MinCoord, MinCoord), Glider(MaxCoord-8, MaxCoord-8)...))
	want := mustGrid(t, append(Glider(MinCoord+1, MinCoord+1), Glider(MaxCoord-7, MaxCoord-7)...))
	for _, workers := range []int{1, 3} {
		assert.True(t, want.Equal(advanceN(t, gliders, 4, workers)), "%d workers", workers)
	}
}

func TestAdvance_GrowthPastCoordinateRange(t *testing.T) {
	tests := []struct {
		name  string
		cells []Cell
	}{
		{"below MaxCoord", Blinker(MaxCoord, 0)},
		{"above MinCoord", Blinker(MinCoord, 0)},
		{"right of MaxCoord", []Cell{{0, MaxCoord}, {1, MaxCoord}, {2, MaxCoord}}},
		{"left of MinCoord", []Cell{{0, MinCoord}, {1, MinCoord}, {2, MinCoord}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustGrid(t, tt.cells)
			for _, workers := range []int{1, 2} {
				next, err := Advance(g, workers)
				require.Error(t, err)
				assert.Nil(t, next)
				assert.True(t, errors.Is(err, ErrOutOfRange), "%+v", err)
				assert.True(t, errors.Is(err, ErrWorkerFailure), "%+v", err)
			}
		})
	}
}

func TestAdvance_Blinker(t *testing.T) {
	g := mustGrid(t, Blinker(4, 7))
	vertical := mustGrid(t, []Cell{{3, 8}, {4, 8}, {5, 8}})

	once := advanceN(t, g, 1, 2)
	assert.True(t, vertical.Equal(once), "got %v", once.Cells())

	twice := advanceN(t, g, 2, 2)
	assert.True(t, g.Equal(twice), "got %v", twice.Cells())
}

func TestAdvance_GliderTranslates(t *testing.T) {
	for _, workers := range []int{1, 2, 5} {
		g := mustGrid(t, Glider(0, 0))
		got := advanceN(t, g, 4, workers)

		want := mustGrid(t, Glider(1, 1))
		if diff := cmp.Diff(want.Cells(), got.Cells()); diff != "" {
			t.Errorf("workers=%d glider mismatch (-want +got):\n%s", workers, diff)
		}
	}
}

func TestAdvance_DoesNotMutateInput(t *testing.T) {
	g := mustGrid(t, Fill(20, 20, FillRandom, 0.4, rand.New(rand.NewSource(3))))
	before := g.Cells()

	_, err := Advance(g, 4)
	require.NoError(t, err)
	assert.Equal(t, before, g.Cells())
}

func TestAdvance_DeterministicAcrossWorkers(t *testing.T) {
	seeds := []int64{1, 2, 3, 4}
	for _, seed := range seeds {
		start := mustGrid(t, Fill(48, 40, FillRandom, 0.35, rand.New(rand.NewSource(seed))))
		want := advanceN(t, start, 12, 1)

		for _, workers := range []int{2, 3, 7, 16, 64} {
			got := advanceN(t, start, 12, workers)
			if diff := cmp.Diff(want.Cells(), got.Cells()); diff != "" {
				t.Fatalf("seed=%d workers=%d differs from sequential (-want +got):\n%s", seed, workers, diff)
			}
		}
	}
}

func TestAdvance_BandUnionMatchesSequential(t *testing.T) {
	g := mustGrid(t, Fill(30, 30, FillRandom, 0.5, rand.New(rand.NewSource(11))))
	lo, err := g.MinRow()
	require.NoError(t, err)
	hi, err := g.MaxRow()
	require.NoError(t, err)

	sequential, err := stepBand(g, Band{Lo: lo - 1, Hi: hi + 1})
	require.NoError(t, err)

	for _, workers := range []int{2, 4, 9} {
		union := map[int][]int{}
		for _, band := range Partition(lo-1, hi+1, workers) {
			rows, err := stepBand(g, band)
			require.NoError(t, err)
			for r, cols := range rows {
				_, dup := union[r]
				require.False(t, dup, "row %d produced by two bands", r)
				union[r] = cols
			}
		}
		if diff := cmp.Diff(sequential, union); diff != "" {
			t.Errorf("workers=%d union mismatch (-want +got):\n%s", workers, diff)
		}
	}
}

func TestAdvance_WorkerFailure(t *testing.T) {
	g := assemble(map[int][]int{0: {1, 2, 3}, 20: {9, 4}})

	for _, workers := range []int{1, 4} {
		next, err := Advance(g, workers)
		assert.Nil(t, next)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrWorkerFailure))
		assert.True(t, errors.Is(err, ErrUnsortedRow))

		var werr *WorkerError
		require.True(t, errors.As(err, &werr))
		assert.True(t, werr.Band.Lo <= 20 && werr.Band.Hi >= 19)
	}
}

func TestMerge_RejectsOverlap(t *testing.T) {
	bands := []Band{{0, 1}, {2, 3}}
	_, err := merge(bands, []map[int][]int{{1: {0}}, {1: {0}}})
	assert.True(t, errors.Is(err, ErrWorkerFailure))
}

func benchmarkAdvance(b *testing.B, size, workers int) {
	var cells []Cell
	for row := range size {
		for col := range size {
			if (row+col)%3 == 0 {
				cells = append(cells, Cell{Row: row, Col: col})
			}
		}
	}
	g := mustGrid(b, cells)

	b.ResetTimer()
	for range b.N {
		if _, err := Advance(g, workers); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkAdvance(b *testing.B) {
	for _, size := range []int{64, 128, 256} {
		b.Run(fmt.Sprintf("serial/%d", size), func(b *testing.B) { benchmarkAdvance(b, size, 1) })
		b.Run(fmt.Sprintf("parallel/%d", size), func(b *testing.B) { benchmarkAdvance(b, size, 0) })
	}
}
