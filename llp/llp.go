package llp

import (
	"log"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/webgraph-go/bvgraph/bvgraph"
	"github.com/webgraph-go/bvgraph/internal/codeerr"
)

const runOp = "llp.Run"

// Config holds the tunables spec §4.5's algorithm exposes.
type Config struct {
	// Gamma is the entropy-vs-volume tradeoff weight in the label score.
	Gamma float64
	// MaxIters bounds the number of label-propagation passes.
	MaxIters int
	// ChunkSize is the size of the contiguous runs the permutation is
	// shuffled in per iteration.
	ChunkSize int
	// Granularity is the span of the permutation each worker claims
	// atomically per fetch-add, spec's "Granule".
	Granularity int
	// Seed initializes the monotonically incremented per-chunk/per-worker
	// PRNG seed counter.
	Seed uint64
	// NumWorkers bounds parallelism; <= 0 uses runtime.GOMAXPROCS(0).
	NumWorkers int
	// Logger receives one coarse progress line per iteration; nil disables
	// logging entirely, spec's ambient logging policy.
	Logger *log.Logger
}

// DefaultConfig returns reasonable defaults for a single run.
func DefaultConfig() Config {
	return Config{
		Gamma:       0.1,
		MaxIters:    20,
		ChunkSize:   1000,
		Granularity: 1000,
		Seed:        1,
		NumWorkers:  runtime.GOMAXPROCS(0),
	}
}

// Run computes a permutation of g's nodes by layered label propagation. It
// returns the permutation (new position -> old node id, sorted by final
// label so same-label nodes land in contiguous runs) and the label assigned
// to each original node id.
func Run(g bvgraph.RandomAccessGraph, cfg Config) (perm []int64, labels []int64, err error) {
	n := g.NumNodes()
	if n < 0 {
		return nil, nil, codeerr.New(codeerr.BadArgument, runOp, "negative node count %d", n)
	}
	perm = make([]int64, n)
	for i := range perm {
		perm[i] = int64(i)
	}
	if n == 0 {
		return perm, labels, nil
	}

	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = 1
	}
	granularity := int64(cfg.Granularity)
	if granularity <= 0 {
		granularity = 1
	}
	workers := cfg.NumWorkers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if int64(workers) > n {
		workers = int(n)
	}

	canChange := make([]atomic.Bool, n)
	for i := range canChange {
		canChange[i].Store(true)
	}
	store := NewLabelStore(n)
	seed := cfg.Seed

	for iter := 0; iter < cfg.MaxIters; iter++ {
		shuffleChunks(perm, chunkSize, &seed)

		var modified int64
		var pos int64
		var eg errgroup.Group
		for w := 0; w < workers; w++ {
			workerSeed := int64(atomic.AddUint64(&seed, 1) - 1)
			eg.Go(func() error {
				runWorker(g, store, canChange, perm, n, granularity, &pos, cfg.Gamma, workerSeed, &modified)
				return nil
			})
		}
		_ = eg.Wait()

		if cfg.Logger != nil {
			cfg.Logger.Printf("llp: iteration %d modified=%d", iter, modified)
		}
		if modified == 0 {
			break
		}
	}

	sort.SliceStable(perm, func(i, j int) bool {
		return store.Label(perm[i]) < store.Label(perm[j])
	})

	labels = make([]int64, n)
	for i := int64(0); i < n; i++ {
		labels[i] = store.Label(i)
	}
	return perm, labels, nil
}

func runWorker(g bvgraph.RandomAccessGraph, store *LabelStore, canChange []atomic.Bool, perm []int64, n, granularity int64, pos *int64, gamma float64, seed int64, modified *int64) {
	rng := rand.New(rand.NewSource(seed))
	counts := make(map[int64]int64)
	var majorities []int64

	for {
		start := atomic.AddInt64(pos, granularity) - granularity
		if start >= n {
			return
		}
		end := start + granularity
		if end > n {
			end = n
		}

		for _, node := range perm[start:end] {
			if !canChange[node].CompareAndSwap(true, false) {
				continue
			}
			succ := g.Successors(node)
			if len(succ) == 0 {
				continue
			}

			currLabel := store.Label(node)
			for k := range counts {
				delete(counts, k)
			}
			for _, s := range succ {
				counts[store.Label(s)]++
			}

			max := math.Inf(-1)
			majorities = majorities[:0]
			for label, count := range counts {
				vol := store.Volume(label)
				val := (1+gamma)*float64(count) - gamma*float64(vol+1)
				switch {
				case val > max:
					max = val
					majorities = majorities[:0]
					majorities = append(majorities, label)
				case val == max:
					majorities = append(majorities, label)
				}
			}

			nextLabel := majorities[rng.Intn(len(majorities))]
			if nextLabel != currLabel {
				atomic.AddInt64(modified, 1)
				for _, s := range succ {
					canChange[s].Store(true)
				}
				store.Set(node, nextLabel)
			}
		}
	}
}

// shuffleChunks partitions perm into chunkSize runs and Fisher-Yates
// shuffles each independently with its own PRNG seeded from a
// monotonically incremented counter, spec §4.5 step 1.
func shuffleChunks(perm []int64, chunkSize int, seed *uint64) {
	for start := 0; start < len(perm); start += chunkSize {
		end := start + chunkSize
		if end > len(perm) {
			end = len(perm)
		}
		s := atomic.AddUint64(seed, 1) - 1
		rng := rand.New(rand.NewSource(int64(s)))
		chunk := perm[start:end]
		rng.Shuffle(len(chunk), func(i, j int) { chunk[i], chunk[j] = chunk[j], chunk[i] })
	}
}
