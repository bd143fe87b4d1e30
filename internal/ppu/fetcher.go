package ppu

// BG fetcher + FIFO. The batch Fetch method backs the one-shot scanline
// helpers in scanline.go (exercised directly by their own tests); the
// phase-stepped methods below (FetchTileNum/FetchDataLow/FetchDataHigh/
// PushRow) are what the live Draw scheduler in draw.go drives one T-cycle
// at a time.

// VRAMReader provides read-only access for the fetcher or scanline helpers.
// It abstracts how VRAM bytes are fetched (tests vs. live PPU).
type VRAMReader interface {
	Read(addr uint16) byte
}

// fifo is a simple ring buffer for 2-bit color indices (0..3).
type fifo struct {
	buf  [32]byte // room for several tiles
	head int
	tail int
	size int
}

func (q *fifo) Clear()   { q.head, q.tail, q.size = 0, 0, 0 }
func (q *fifo) Len() int { return q.size }
func (q *fifo) Push(ci byte) bool {
	if q.size == len(q.buf) {
		return false
	}
	q.buf[q.tail] = ci & 0x03
	q.tail = (q.tail + 1) % len(q.buf)
	q.size++
	return true
}
func (q *fifo) Pop() (byte, bool) {
	if q.size == 0 {
		return 0, false
	}
	v := q.buf[q.head]
	q.head = (q.head + 1) % len(q.buf)
	q.size--
	return v, true
}

// bgFetcher pulls one tile row (8 pixels) into the FIFO.
type bgFetcher struct {
	mem           VRAMReader
	fifo          *fifo
	mapBase       uint16 // 0x9800 or 0x9C00
	tileData8000  bool   // true: 0x8000 addressing; false: 0x8800 signed
	tileIndexAddr uint16 // tile index address within map
	fineY         byte   // 0..7 within tile

	// tileNum/lo/hi hold state across the phase-stepped Fetch* calls, which
	// split what Fetch does in one shot into the FetchTile/FetchLow/
	// FetchHigh/Push steps a real fetcher takes 2 T-cycles each.
	tileNum byte
	lo, hi  byte
}

func newBGFetcher(mem VRAMReader, f *fifo) *bgFetcher { return &bgFetcher{mem: mem, fifo: f} }

// Configure sets tilemap and addressing mode for the next fetch.
func (fch *bgFetcher) Configure(mapBase uint16, tileData8000 bool, tileIndexAddr uint16, fineY byte) {
	fch.mapBase = mapBase
	fch.tileData8000 = tileData8000
	fch.tileIndexAddr = tileIndexAddr
	fch.fineY = fineY & 7
}

// Fetch pushes 8 pixels (color indices) for the current tile row to the FIFO.
func (fch *bgFetcher) Fetch() {
	tileNum := fch.mem.Read(fch.tileIndexAddr)
	var base uint16
	if fch.tileData8000 {
		base = 0x8000 + uint16(tileNum)*16 + uint16(fch.fineY)*2
	} else {
		base = 0x9000 + uint16(int8(tileNum))*16 + uint16(fch.fineY)*2
	}
	lo := fch.mem.Read(base)
	hi := fch.mem.Read(base + 1)
	for px := 0; px < 8; px++ {
		bit := 7 - byte(px)
		ci := ((hi>>bit)&1)<<1 | ((lo >> bit) & 1)
		_ = fch.fifo.Push(ci)
	}
}

// tileRowAddr computes the VRAM address of the tile row's low byte under
// the fetcher's current addressing mode, tile number, and fine Y.
func (fch *bgFetcher) tileRowAddr() uint16 {
	if fch.tileData8000 {
		return 0x8000 + uint16(fch.tileNum)*16 + uint16(fch.fineY)*2
	}
	return 0x9000 + uint16(int8(fch.tileNum))*16 + uint16(fch.fineY)*2
}

// FetchTileNum is the fetcher's first phase: read the tile index out of
// the tilemap. Takes 2 T-cycles on real hardware.
func (fch *bgFetcher) FetchTileNum() {
	fch.tileNum = fch.mem.Read(fch.tileIndexAddr)
}

// FetchDataLow reads the tile row's low bitplane byte. Second phase.
func (fch *bgFetcher) FetchDataLow() {
	fch.lo = fch.mem.Read(fch.tileRowAddr())
}

// FetchDataHigh reads the tile row's high bitplane byte. Third phase.
func (fch *bgFetcher) FetchDataHigh() {
	fch.hi = fch.mem.Read(fch.tileRowAddr() + 1)
}

// PushRow is the fetcher's final phase: decode lo/hi into 8 color indices
// and enqueue them, but only once the FIFO has fully drained. Real
// hardware retries Push every 2 T-cycles until that's true, which is why
// the caller must keep calling PushRow rather than assuming it always
// succeeds.
func (fch *bgFetcher) PushRow() bool {
	if fch.fifo.Len() != 0 {
		return false
	}
	for px := 0; px < 8; px++ {
		bit := 7 - byte(px)
		ci := ((fch.hi>>bit)&1)<<1 | ((fch.lo >> bit) & 1)
		fch.fifo.Push(ci)
	}
	return true
}
