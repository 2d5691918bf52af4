// Package mempool implements the engine's tagged, thread-safe memory pool:
// a single pre-reserved byte arena handed out via bump allocation with
// first-fit free-list reuse, every live block prefixed by a header carrying
// a magic sentinel, and every allocation tracked by a record drawn from a
// separate pre-reserved record pool so tracking itself never recurses into
// the arena it is tracking.
package mempool

import (
	"encoding/binary"
	"sync"

	"github.com/emberengine/ember/internal/engineerr"
	"github.com/emberengine/ember/internal/logging"
	"github.com/emberengine/ember/internal/metrics"
)

const (
	blockMagic uint32 = 0xE3B3A110
	headerSize        = 16 // magic(4) + tag(4) + size(8)

	// StandardAlignment is the alignment Allocate uses; AllocateAligned lets
	// a caller request a stricter one.
	StandardAlignment uint64 = 8

	minRecordPoolCapacity = 1024
	maxRecordPoolCapacity = 1 << 20
)

// Config controls Pool sizing at Init time.
type Config struct {
	// Size is the total number of bytes the pool reserves up front.
	Size uint64
	// RecordPoolCapacity bounds how many simultaneous live allocations the
	// pool can track. Zero selects the heuristic default: Size/64, clamped
	// to [minRecordPoolCapacity, maxRecordPoolCapacity].
	RecordPoolCapacity int
}

func (c Config) recordPoolCapacity() int {
	if c.RecordPoolCapacity > 0 {
		return c.RecordPoolCapacity
	}
	n := int(c.Size / 64)
	if n < minRecordPoolCapacity {
		n = minRecordPoolCapacity
	}
	if n > maxRecordPoolCapacity {
		n = maxRecordPoolCapacity
	}
	return n
}

// allocRecord tracks one live (or free, via the intrusive list) allocation.
// The record pool is a plain slice; free records are threaded through next
// by index so no further allocation is needed to manage them.
type allocRecord struct {
	tag        Tag
	offset     uint64 // block start, where the header lives
	dataOffset uint64 // start of the caller's bytes, >= offset+headerSize
	size       uint64 // caller-requested size
	span       uint64 // total bytes reserved for the block, header included
	inUse      bool
	next       int // index of next free record, or -1
}

type freeBlock struct {
	offset uint64
	size   uint64 // full span, header included
}

// Handle identifies one live allocation. Zero value is never valid.
type Handle struct {
	offset      uint64
	recordIndex int
	issued      bool
}

// Valid reports whether h was ever populated by a successful Allocate.
func (h Handle) Valid() bool {
	return h.issued && h.recordIndex >= 0
}

// Pool is a tagged, mutex-guarded memory pool.
type Pool struct {
	mu sync.Mutex

	buf       []byte
	used      uint64 // bump pointer: bytes committed from the fresh end
	capacity  uint64
	freeList  []freeBlock
	records   []allocRecord
	freeHead  int // index of first free record, or -1
	liveCount int

	metrics *metrics.Collector
	log     *logging.Logger
	trace   *logging.Tracer
}

// Init reserves a pool of cfg.Size bytes with a record pool sized per cfg.
func Init(cfg Config) (*Pool, error) {
	if cfg.Size == 0 {
		return nil, engineerr.Invalid("Size", "must be greater than zero")
	}
	recCap := cfg.recordPoolCapacity()

	p := &Pool{
		buf:      make([]byte, cfg.Size),
		capacity: cfg.Size,
		records:  make([]allocRecord, recCap),
		freeHead: 0,
		trace:    logging.DefaultTracer(),
	}
	for i := range p.records {
		p.records[i].next = i + 1
	}
	p.records[recCap-1].next = -1
	return p, nil
}

// AttachMetrics wires a metrics.Collector that future operations report to.
func (p *Pool) AttachMetrics(c *metrics.Collector) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.metrics = c
}

// AttachLogger wires a *logging.Logger used for leak warnings at shutdown.
func (p *Pool) AttachLogger(l *logging.Logger) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.log = l
}

// alignN rounds n up to the next multiple of m. m must be a power of two.
func alignN(n, m uint64) uint64 {
	return (n + m - 1) &^ (m - 1)
}

func align(n uint64) uint64 {
	return alignN(n, StandardAlignment)
}

func isPowerOfTwo(n uint64) bool {
	return n != 0 && n&(n-1) == 0
}

// Allocate reserves size bytes tagged tag at StandardAlignment and returns
// a Handle identifying the block. It is a thin wrapper over AllocateAligned.
func (p *Pool) Allocate(tag Tag, size uint64) (Handle, error) {
	return p.AllocateAligned(tag, size, StandardAlignment)
}

// AllocateAligned reserves size bytes tagged tag whose data region starts
// on an `alignment`-byte boundary. alignment must be a power of two.
// Returns an AllocationFailed error if the pool or the record pool is
// exhausted, or InvalidArgument if alignment is not a power of two.
func (p *Pool) AllocateAligned(tag Tag, size, alignment uint64) (Handle, error) {
	if size == 0 {
		return Handle{recordIndex: -1}, engineerr.Invalid("size", "must be greater than zero")
	}
	if !isPowerOfTwo(alignment) {
		return Handle{recordIndex: -1}, engineerr.Invalid("alignment", "must be a power of two")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Reserve enough slack after the header to land the data region on the
	// requested alignment no matter where the block itself starts.
	total := align(headerSize + (alignment - 1) + size)

	offset, fromFree, freeIdx := p.findFreeBlock(total)
	if !fromFree {
		if p.used+total > p.capacity {
			return Handle{recordIndex: -1}, engineerr.AllocFailed(tag.String(), size)
		}
		offset = p.used
		p.used += total
	} else {
		// Split the remainder back onto the free list if it's worth keeping.
		fb := p.freeList[freeIdx]
		remainder := fb.size - total
		p.freeList = append(p.freeList[:freeIdx], p.freeList[freeIdx+1:]...)
		if remainder >= headerSize+StandardAlignment {
			p.freeList = append(p.freeList, freeBlock{
				offset: fb.offset + total,
				size:   remainder,
			})
		} else {
			total = fb.size // hand the whole block over, remainder too small to split
		}
	}

	dataOffset := alignN(offset+headerSize, alignment)

	recIdx := p.freeHead
	if recIdx < 0 {
		// Undo the space reservation; we cannot track this allocation.
		if fromFree {
			p.freeList = append(p.freeList, freeBlock{offset: offset, size: total})
		} else {
			p.used -= total
		}
		return Handle{recordIndex: -1}, engineerr.AllocFailed(tag.String(), size).WithDetail("reason", "record pool exhausted")
	}
	p.freeHead = p.records[recIdx].next
	p.records[recIdx] = allocRecord{
		tag:        tag,
		offset:     offset,
		dataOffset: dataOffset,
		size:       size,
		span:       total,
		inUse:      true,
		next:       -1,
	}

	binary.LittleEndian.PutUint32(p.buf[offset:], blockMagic)
	binary.LittleEndian.PutUint32(p.buf[offset+4:], uint32(tag))
	binary.LittleEndian.PutUint64(p.buf[offset+8:], size)

	p.liveCount++
	if p.metrics != nil {
		p.metrics.RecordAllocation(tag.String())
		p.metrics.SetPoolOccupancy(p.usedBytesLocked(), p.capacity)
	}
	if p.trace.Enabled() {
		p.trace.Alloc(tag.String(), size, uintptr(dataOffset))
	}

	return Handle{offset: offset, recordIndex: recIdx, issued: true}, nil
}

// findFreeBlock scans the free list for the first block of at least
// `total` bytes (including header). Returns ok=false if none fits.
func (p *Pool) findFreeBlock(total uint64) (offset uint64, ok bool, idx int) {
	for i, fb := range p.freeList {
		if fb.size >= total {
			return fb.offset, true, i
		}
	}
	return 0, false, -1
}

func (p *Pool) usedBytesLocked() uint64 {
	var live uint64
	for _, r := range p.records {
		if r.inUse {
			live += r.span
		}
	}
	return live
}

// verifyHeader checks the magic sentinel at offset, returning
// CorruptionDetected if it does not match.
func (p *Pool) verifyHeader(offset uint64) error {
	if offset+headerSize > uint64(len(p.buf)) {
		return engineerr.Corrupted("offset out of range")
	}
	magic := binary.LittleEndian.Uint32(p.buf[offset:])
	if magic != blockMagic {
		return engineerr.Corrupted("magic mismatch")
	}
	return nil
}

// Free releases h back to the pool. Double-frees and invalid handles return
// a CorruptionDetected or InvalidArgument error rather than corrupting state.
func (p *Pool) Free(h Handle) error {
	if !h.Valid() {
		return engineerr.Invalid("handle", "zero value")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if h.recordIndex < 0 || h.recordIndex >= len(p.records) {
		return engineerr.Invalid("handle", "out of range")
	}
	rec := &p.records[h.recordIndex]
	if !rec.inUse {
		return engineerr.Corrupted("double free")
	}
	if err := p.verifyHeader(rec.offset); err != nil {
		return err
	}

	tag := rec.tag
	p.freeList = append(p.freeList, freeBlock{offset: rec.offset, size: rec.span})

	*rec = allocRecord{next: p.freeHead}
	p.freeHead = h.recordIndex
	p.liveCount--

	if p.metrics != nil {
		p.metrics.RecordFree(tag.String())
		p.metrics.SetPoolOccupancy(p.usedBytesLocked(), p.capacity)
	}
	if p.trace.Enabled() {
		p.trace.Free(tag.String(), uintptr(rec.offset))
	}

	return nil
}

// Bytes returns the mutable data slice backing h, starting at its aligned
// data offset. The slice aliases the pool's backing array and is valid
// only until h is freed.
func (p *Pool) Bytes(h Handle) ([]byte, error) {
	if !h.Valid() {
		return nil, engineerr.Invalid("handle", "zero value")
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if h.recordIndex < 0 || h.recordIndex >= len(p.records) {
		return nil, engineerr.Invalid("handle", "out of range")
	}
	rec := p.records[h.recordIndex]
	if !rec.inUse {
		return nil, engineerr.Corrupted("use after free")
	}
	if err := p.verifyHeader(rec.offset); err != nil {
		return nil, err
	}
	return p.buf[rec.dataOffset : rec.dataOffset+rec.size], nil
}

// Set copies src into h's data region, truncating to the block's size.
func (p *Pool) Set(h Handle, src []byte) error {
	dst, err := p.Bytes(h)
	if err != nil {
		return err
	}
	copy(dst, src)
	return nil
}

// Zero clears h's entire data region.
func (p *Pool) Zero(h Handle) error {
	dst, err := p.Bytes(h)
	if err != nil {
		return err
	}
	for i := range dst {
		dst[i] = 0
	}
	return nil
}

// Copy copies n bytes from src's data region into dst's, at most the
// smaller of the two block sizes and n.
func (p *Pool) Copy(dst, src Handle, n uint64) error {
	srcBytes, err := p.Bytes(src)
	if err != nil {
		return err
	}
	dstBytes, err := p.Bytes(dst)
	if err != nil {
		return err
	}
	if uint64(len(srcBytes)) < n {
		n = uint64(len(srcBytes))
	}
	if uint64(len(dstBytes)) < n {
		n = uint64(len(dstBytes))
	}
	copy(dstBytes[:n], srcBytes[:n])
	return nil
}

// LeakReport summarizes still-live allocations for one tag.
type LeakReport struct {
	Tag   Tag
	Count int
	Bytes uint64
}

// DetectLeaks scans every record currently marked in-use and returns one
// LeakReport per tag with at least one live allocation. It does not modify
// pool state and is safe to call from the diagnostics scheduler goroutine
// concurrently with the main loop's Allocate/Free calls.
func (p *Pool) DetectLeaks() []LeakReport {
	p.mu.Lock()
	defer p.mu.Unlock()

	counts := make(map[Tag]*LeakReport)
	for _, r := range p.records {
		if !r.inUse {
			continue
		}
		lr, ok := counts[r.tag]
		if !ok {
			lr = &LeakReport{Tag: r.tag}
			counts[r.tag] = lr
		}
		lr.Count++
		lr.Bytes += r.span
	}

	out := make([]LeakReport, 0, len(counts))
	for _, lr := range counts {
		out = append(out, *lr)
		if p.metrics != nil {
			p.metrics.SetLeaked(lr.Tag.String(), lr.Count)
		}
	}
	return out
}

// Shutdown logs one warning per leaked tag and releases the backing
// buffer. The Pool must not be used afterward.
func (p *Pool) Shutdown() {
	leaks := p.DetectLeaks()

	p.mu.Lock()
	log := p.log
	p.mu.Unlock()

	if log != nil {
		for _, lr := range leaks {
			log.Leak(lr.Tag.String(), lr.Count, lr.Bytes)
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.buf = nil
	p.freeList = nil
	p.records = nil
}

// Stats reports current occupancy without mutating any counters.
type Stats struct {
	BytesUsed  uint64
	BytesTotal uint64
	LiveCount  int
}

// Stats returns a point-in-time snapshot of pool occupancy.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{
		BytesUsed:  p.usedBytesLocked(),
		BytesTotal: p.capacity,
		LiveCount:  p.liveCount,
	}
}
