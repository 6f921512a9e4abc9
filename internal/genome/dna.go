package genome

var complement [256]byte

// iupacMask maps nucleotide codes to base bitmasks: bit0=A bit1=C bit2=G bit3=T.
var iupacMask [256]byte

func init() {
	complement['A'] = 'T'
	complement['C'] = 'G'
	complement['G'] = 'C'
	complement['T'] = 'A'
	complement['R'] = 'Y'
	complement['Y'] = 'R'
	complement['S'] = 'S'
	complement['W'] = 'W'
	complement['K'] = 'M'
	complement['M'] = 'K'
	complement['B'] = 'V'
	complement['V'] = 'B'
	complement['D'] = 'H'
	complement['H'] = 'D'
	complement['N'] = 'N'

	set := func(c byte, bits byte) { iupacMask[c] = bits }
	set('A', 1)
	set('C', 2)
	set('G', 4)
	set('T', 8)
	set('R', 1|4)
	set('Y', 2|8)
	set('S', 2|4)
	set('W', 1|8)
	set('K', 4|8)
	set('M', 1|2)
	set('B', 2|4|8)
	set('D', 1|4|8)
	set('H', 1|2|8)
	set('V', 1|2|4)
	set('N', 1|2|4|8)
}

// RevComp returns the reverse complement of seq. Unrecognized bytes map to 'N'.
func RevComp(seq []byte) []byte {
	n := len(seq)
	if n == 0 {
		return nil
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		c := complement[seq[n-1-i]]
		if c == 0 {
			c = 'N'
		}
		out[i] = c
	}
	return out
}

// IsACGT reports whether b is an unambiguous nucleotide.
func IsACGT(b byte) bool {
	return b == 'A' || b == 'C' || b == 'G' || b == 'T'
}

// PatternMatch reports whether genome base g satisfies pattern base p under
// IUPAC ambiguity codes. A genome base outside {A,C,G,T} never matches, so
// N-blocks in the reference cannot satisfy a PAM wildcard.
func PatternMatch(g, p byte) bool {
	if !IsACGT(g) {
		return false
	}
	return iupacMask[p]&iupacMask[g] != 0
}
