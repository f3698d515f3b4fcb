package tlsf

const (
	// HeaderSize is the number of bytes at the front of every block
	// (free or allocated) reserved for bookkeeping: the physical-previous
	// link and the size/free field. It is never part of the payload.
	HeaderSize = 16

	// MinAlloc is the minimum allocation and alignment quantum. It is also
	// the minimum payload size, sized to hold the two free-list link
	// fields a block carries only while free (they live inside the first
	// bytes of the payload region, see block.go).
	MinAlloc = 16

	// defaultSLI is the default log2 of the number of sub-classes per
	// first-level class (32 sub-classes).
	defaultSLI = 5

	// defaultFLCount is the default number of first-level classes served.
	defaultFLCount = 31

	// maxFL is the hard ceiling on first-level classes: both bitmaps are
	// single 32-bit words (spec'd "bitmap width"), so FLCount can never
	// exceed 32.
	maxFL = 32

	// maxSLI is the hard ceiling on the second-level index: SLCount = 1<<SLI
	// must fit in a 32-bit second-level bitmap.
	maxSLI = 5

	// noLink is the sentinel stored in prev_phys/prev_free/next_free when
	// a link is absent.
	noLink int32 = -1
)
