package layout

import (
	"strconv"
	"strings"
)

// IndexToRowLabel converts a zero-based index to an alphabetical row label like A, B, AA
func IndexToRowLabel(i int) string {
	if i < 0 { // negative indices are invalid
		return ""
	}
	res := []rune{} // accumulate runes for the label
	for {
		rem := i % 26                    // compute remainder in base 26
		res = append(res, rune('A'+rem)) // append current letter
		i = i/26 - 1                     // reduce i for next digit
		if i < 0 {
			break
		}
	}
	for j, k := 0, len(res)-1; j < k; j, k = j+1, k-1 { // reverse the runes to build the label
		res[j], res[k] = res[k], res[j]
	}
	return string(res)
}

// RowLabelToIndex converts a row label like A or AA into its zero-based index
func RowLabelToIndex(label string) (int, bool) {
	s := NormalizeRowLabel(label)
	if s == "" {
		return -1, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*26 + int(s[i]-'A'+1) // accumulate base26 representation
	}
	return n - 1, true
}

// NormalizeRowLabel strips non ASCII letters and converts to uppercase
func NormalizeRowLabel(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r - 32)
		} else if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
		} // ignore all other characters
	}
	return b.String()
}

// NextRowLabel returns the label following label (A -> B, Z -> AA).  An
// unparsable label restarts at A.
func NextRowLabel(label string) string {
	idx, ok := RowLabelToIndex(label)
	if !ok {
		return "A"
	}
	return IndexToRowLabel(idx + 1)
}

// compareRowLabels orders row labels by their alphabetical index, falling
// back to a plain string comparison for labels that are not pure letters.
func compareRowLabels(a, b string) int {
	ia, okA := RowLabelToIndex(a)
	ib, okB := RowLabelToIndex(b)
	if okA && okB && NormalizeRowLabel(a) == strings.ToUpper(strings.TrimSpace(a)) && NormalizeRowLabel(b) == strings.ToUpper(strings.TrimSpace(b)) {
		return ia - ib
	}
	return strings.Compare(a, b)
}

// seatNumber parses a seat number label; non numeric labels count as zero.
func seatNumber(label string) int {
	n, err := strconv.Atoi(strings.TrimSpace(label))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
