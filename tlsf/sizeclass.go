package tlsf

import "github.com/joshuapare/tlsfkit/internal/bits"

// classifier holds the size-class geometry derived from SLI/FLCount at
// construction time. Two mappings are needed: classForAlloc rounds a
// request UP to a class whose minimum size is >= requested; classForInsert
// rounds a free block's size DOWN to the class whose range contains it.
type classifier struct {
	sli         uint
	slCount     int32
	flCount     int32
	flThreshold int32
	// basePow is fls(flThreshold): the bit position of the highest set
	// bit in the first-level threshold, used to translate an absolute
	// fls() result into a zero-based first-level index.
	basePow int
}

func newClassifier(sli uint, flCount int32) classifier {
	slCount := int32(1) << sli
	flThreshold := int32(MinAlloc) << sli
	return classifier{
		sli:         sli,
		slCount:     slCount,
		flCount:     flCount,
		flThreshold: flThreshold,
		basePow:     bits.Fls32(uint32(flThreshold)),
	}
}

// classForAlloc maps a size to the class whose minimum served size is >=
// size. Callers must have already rounded size up to at least MinAlloc.
func (c classifier) classForAlloc(size int32) (fl, sl int32) {
	if size <= c.flThreshold {
		sl = ceilDiv(size, MinAlloc) - 1
		if sl < 0 {
			sl = 0
		}
		return 0, sl
	}

	k := bits.Fls32(uint32(size))
	levelMin := int32(1) << uint(k)
	segment := levelMin >> c.sli
	rounded := size + segment - 1
	slRaw := (rounded - levelMin) / segment

	if slRaw != 0 {
		sl = slRaw - 1
		fl = int32(k)
	} else {
		fl = int32(k) - 1
		sl = c.slCount - 1
	}
	fl -= int32(c.basePow - 1)
	return fl, sl
}

// classForInsert maps a free block's size to the class whose range's lower
// bound is <= size: the class it should be linked into.
func (c classifier) classForInsert(size int32) (fl, sl int32) {
	if size <= c.flThreshold {
		return 0, size/MinAlloc - 1
	}

	k := bits.Fls32(uint32(size))
	levelMin := int32(1) << uint(k)
	segment := levelMin >> c.sli
	slRaw := (size - levelMin) / segment

	if slRaw == 0 {
		fl = int32(k) - 1
		sl = c.slCount - 1
	} else {
		fl = int32(k)
		sl = slRaw - 1
	}
	fl -= int32(c.basePow - 1)
	return fl, sl
}

// classSize returns the minimum payload size served by class (fl,sl); the
// rounded-up allocation quantum after classForAlloc.
func (c classifier) classSize(fl, sl int32) int32 {
	if fl > 0 {
		k := fl + int32(c.basePow) - 1
		firstLevelSize := int32(1) << uint(k)
		return firstLevelSize + (firstLevelSize>>c.sli)*(sl+1)
	}
	return (sl + 1) * MinAlloc
}

// nextClass advances (fl,sl) to the next class up.
func (c classifier) nextClass(fl, sl int32) (int32, int32) {
	sl++
	if sl >= c.slCount {
		fl++
		sl = 0
	}
	return fl, sl
}

func ceilDiv(a, b int32) int32 {
	return (a + b - 1) / b
}
