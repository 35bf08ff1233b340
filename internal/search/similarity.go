package search

// Ratio computes the Ratcliff-Obershelp similarity of two strings in [0, 1]:
// twice the number of matching characters (summed over recursively found
// longest common substrings) divided by the total length. Operates on runes;
// callers lowercase beforehand if they want case folding.
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}

	b2j := make(map[rune][]int, len(rb))
	for j, r := range rb {
		b2j[r] = append(b2j[r], j)
	}

	matches := matchingRunes(ra, rb, 0, len(ra), 0, len(rb), b2j)
	return 2.0 * float64(matches) / float64(total)
}

// matchingRunes sums the sizes of the matching blocks between a[alo:ahi] and
// b[blo:bhi]: the longest match in the window, plus matches recursively found
// to its left and right.
func matchingRunes(a, b []rune, alo, ahi, blo, bhi int, b2j map[rune][]int) int {
	besti, bestj, size := longestMatch(a, alo, ahi, blo, bhi, b2j)
	if size == 0 {
		return 0
	}
	n := size
	n += matchingRunes(a, b, alo, besti, blo, bestj, b2j)
	n += matchingRunes(a, b, besti+size, ahi, bestj+size, bhi, b2j)
	return n
}

// longestMatch finds the longest common substring of a[alo:ahi] and
// b[blo:bhi], preferring the earliest occurrence on ties. j2len tracks, per
// position j in b, the length of the match ending at (i, j); advancing i by
// one extends each tracked run or starts a new one.
func longestMatch(a []rune, alo, ahi, blo, bhi int, b2j map[rune][]int) (besti, bestj, bestsize int) {
	besti, bestj = alo, blo
	j2len := map[int]int{}

	for i := alo; i < ahi; i++ {
		newj2len := map[int]int{}
		for _, j := range b2j[a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}
	return besti, bestj, bestsize
}
