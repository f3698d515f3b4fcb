package tlsf

import (
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// poolStats summarizes one pool's block chain.
type poolStats struct {
	capacity    int32
	blocks      int
	freeBlocks  int
	freeBytes   int32
	usedBytes   int32
	largestFree int32
}

func (a *Allocator) statsFor(p *poolMem) poolStats {
	st := poolStats{capacity: p.capacity}
	for off := int32(0); off < p.capacity; {
		b := block{pool: p, off: off}
		st.blocks++
		if b.isFree() {
			st.freeBlocks++
			st.freeBytes += b.size()
			if b.size() > st.largestFree {
				st.largestFree = b.size()
			}
		} else {
			st.usedBytes += b.size()
		}
		off = b.end()
	}
	return st
}

// dump writes a per-pool occupancy report. Figures are formatted with a
// message.Printer so byte counts read with thousands separators, the way a
// human skimming a benchmark report expects.
func (a *Allocator) dump(w io.Writer) error {
	p := message.NewPrinter(language.English)

	if _, err := p.Fprintf(w, "tlsf: %d pool(s) attached\n", len(a.pools)); err != nil {
		return err
	}
	for i, pool := range a.pools {
		st := a.statsFor(pool)
		if _, err := p.Fprintf(w,
			"  pool %d: capacity=%d bytes, blocks=%d, free=%d blocks/%d bytes (largest %d), used=%d bytes\n",
			i, st.capacity, st.blocks, st.freeBlocks, st.freeBytes, st.largestFree, st.usedBytes,
		); err != nil {
			return err
		}
	}
	return nil
}
