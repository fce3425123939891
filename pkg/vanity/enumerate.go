package vanity

// Combination is one rendering of a DigitSequence with a single character
// chosen per position.
type Combination [Length]byte

func (c Combination) String() string {
	return string(c[:])
}

// Enumerator streams the Cartesian product of Sets in odometer order, the
// rightmost position varying fastest. It is not safe for concurrent use.
type Enumerator struct {
	sets Sets
	idx  [Length]int
	cur  Combination
	pos  uint64
	end  uint64
}

// NewEnumerator returns an enumerator over every combination of sets.
func NewEnumerator(sets Sets) *Enumerator {
	e := &Enumerator{sets: sets}
	e.end = e.Count()
	e.Seek(0)
	return e
}

// NewRangeEnumerator returns an enumerator over the combinations with
// odometer index in [start, end).
func NewRangeEnumerator(sets Sets, start, end uint64) *Enumerator {
	e := &Enumerator{sets: sets}
	e.end = min(end, e.Count())
	e.Seek(start)
	return e
}

// Count returns the total number of combinations, the product of set sizes.
func (e *Enumerator) Count() uint64 {
	return CombinationCount(e.sets)
}

// CombinationCount returns the product of the sizes of sets.
func CombinationCount(sets Sets) uint64 {
	n := uint64(1)
	for _, s := range sets {
		n *= uint64(len(s))
	}
	return n
}

// Seek positions the enumerator so that the next call to Next yields the
// combination with the given odometer index.
func (e *Enumerator) Seek(index uint64) {
	e.pos = index
	if index >= e.end {
		return
	}
	for i := Length - 1; i >= 0; i-- {
		radix := uint64(len(e.sets[i]))
		e.idx[i] = int(index % radix)
		index /= radix
		e.cur[i] = e.sets[i][e.idx[i]]
	}
}

// Next returns the next combination, or false once the range is exhausted.
func (e *Enumerator) Next() (Combination, bool) {
	if e.pos >= e.end {
		return Combination{}, false
	}
	c := e.cur
	e.pos++
	for i := Length - 1; i >= 0; i-- {
		e.idx[i]++
		if e.idx[i] < len(e.sets[i]) {
			e.cur[i] = e.sets[i][e.idx[i]]
			break
		}
		e.idx[i] = 0
		e.cur[i] = e.sets[i][0]
	}
	return c, true
}

// Position returns the odometer index of the combination Next will yield.
func (e *Enumerator) Position() uint64 {
	return e.pos
}
