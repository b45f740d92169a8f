package meshing

import (
	"context"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"blockworld/internal/world"
)

// DefaultFrameBudget caps how many completed meshes are forwarded to the
// renderer per frame. Anything beyond the cap stays queued for later frames,
// bounding per-frame upload cost when many chunks finish at once.
const DefaultFrameBudget = 3

// MeshConsumer receives completed chunk meshes, typically a renderer.
type MeshConsumer interface {
	UpdateChunk(pos world.ChunkPos, mesh *ChunkMeshData)
}

// buildJob is one dirty-chunk entry claimed exclusively by a single worker.
type buildJob struct {
	pos world.ChunkPos
	gen uint64
}

// CompletedMesh is a finished build waiting to be applied.
type CompletedMesh struct {
	Pos  world.ChunkPos
	Mesh *ChunkMeshData
	gen  uint64
}

// AsyncChunkMeshBuilder runs chunk mesh builds on a fixed pool of background
// workers. Dirty chunk positions go in through EnqueueChunk; finished meshes
// come out through ProcessCompletedMeshes on the main thread.
//
// Each enqueue is stamped with a per-column generation number. The consumer
// refuses to apply a mesh older than the one already applied for its column,
// so a re-enqueued chunk whose stale build finishes late cannot overwrite the
// newer result.
type AsyncChunkMeshBuilder struct {
	world *world.World
	opts  MeshOptions
	log   *zap.Logger

	jobs      chan buildJob
	completed chan CompletedMesh

	genMu sync.Mutex
	gens  map[world.ChunkPos]uint64

	// applied is touched only from ProcessCompletedMeshes (main thread).
	applied map[world.ChunkPos]uint64

	frameBudget int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// DefaultWorkerCount is the worker pool size used when none is configured:
// half the hardware parallelism, at least two.
func DefaultWorkerCount() int {
	return max(2, runtime.NumCPU()/2)
}

// NewAsyncChunkMeshBuilder starts the worker pool. workers <= 0 selects
// DefaultWorkerCount, frameBudget <= 0 selects DefaultFrameBudget.
func NewAsyncChunkMeshBuilder(w *world.World, opts MeshOptions, workers, frameBudget int, log *zap.Logger) *AsyncChunkMeshBuilder {
	if workers <= 0 {
		workers = DefaultWorkerCount()
	}
	if frameBudget <= 0 {
		frameBudget = DefaultFrameBudget
	}
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())

	b := &AsyncChunkMeshBuilder{
		world:       w,
		opts:        opts,
		log:         log,
		jobs:        make(chan buildJob, 4096),
		completed:   make(chan CompletedMesh, 4096),
		gens:        make(map[world.ChunkPos]uint64),
		applied:     make(map[world.ChunkPos]uint64),
		frameBudget: frameBudget,
		ctx:         ctx,
		cancel:      cancel,
	}

	for i := 0; i < workers; i++ {
		b.wg.Add(1)
		go b.worker(i)
	}
	return b
}

// EnqueueChunk queues a column for remeshing. Non-blocking and callable from
// any thread; returns false if the dirty queue is full, in which case the
// caller should keep the column dirty and retry next tick.
func (b *AsyncChunkMeshBuilder) EnqueueChunk(pos world.ChunkPos) bool {
	b.genMu.Lock()
	b.gens[pos]++
	job := buildJob{pos: pos, gen: b.gens[pos]}
	b.genMu.Unlock()

	select {
	case b.jobs <- job:
		metricEnqueued.Inc()
		return true
	default:
		return false
	}
}

// worker consumes dirty positions until shutdown. A failed build for one
// chunk is logged and skipped; it never takes the loop down.
func (b *AsyncChunkMeshBuilder) worker(id int) {
	defer b.wg.Done()

	for {
		select {
		case <-b.ctx.Done():
			return
		case job := <-b.jobs:
			c := b.world.GetChunk(job.pos)
			if c == nil {
				// Column was unloaded after being enqueued.
				continue
			}
			mesh := b.buildSafe(c)
			if mesh == nil {
				continue
			}
			metricBuilt.Inc()
			select {
			case b.completed <- CompletedMesh{Pos: job.pos, Mesh: mesh, gen: job.gen}:
			case <-b.ctx.Done():
				return
			}
		}
	}
}

// buildSafe runs one mesh build, converting a panic into a logged nil result.
func (b *AsyncChunkMeshBuilder) buildSafe(c *world.Chunk) (mesh *ChunkMeshData) {
	defer func() {
		if r := recover(); r != nil {
			metricPanics.Inc()
			b.log.Error("chunk mesh build failed",
				zap.Int("chunkX", c.Pos.X),
				zap.Int("chunkZ", c.Pos.Z),
				zap.Any("panic", r))
			mesh = nil
		}
	}()
	return BuildChunkMesh(c, b.world, b.opts)
}

// ProcessCompletedMeshes drains at most the frame budget of completed meshes
// and forwards each to the consumer. Called once per frame from the main
// thread; entries beyond the budget remain queued and are never dropped.
// Returns the number of meshes forwarded.
func (b *AsyncChunkMeshBuilder) ProcessCompletedMeshes(consumer MeshConsumer) int {
	forwarded := 0
	for forwarded < b.frameBudget {
		select {
		case cm := <-b.completed:
			if cm.gen < b.applied[cm.Pos] {
				// A newer mesh for this column was already applied.
				metricStale.Inc()
				continue
			}
			b.applied[cm.Pos] = cm.gen
			consumer.UpdateChunk(cm.Pos, cm.Mesh)
			metricApplied.Inc()
			forwarded++
		default:
			return forwarded
		}
	}
	return forwarded
}

// ForgetChunk drops generation bookkeeping for an unloaded column.
func (b *AsyncChunkMeshBuilder) ForgetChunk(pos world.ChunkPos) {
	b.genMu.Lock()
	delete(b.gens, pos)
	b.genMu.Unlock()
	delete(b.applied, pos)
}

// PendingLen returns the number of queued dirty positions.
func (b *AsyncChunkMeshBuilder) PendingLen() int {
	return len(b.jobs)
}

// CompletedLen returns the number of meshes waiting to be applied.
func (b *AsyncChunkMeshBuilder) CompletedLen() int {
	return len(b.completed)
}

// Shutdown stops the pool and blocks until every worker has exited, so no
// worker touches the world after it returns.
func (b *AsyncChunkMeshBuilder) Shutdown() {
	b.cancel()
	b.wg.Wait()
}
