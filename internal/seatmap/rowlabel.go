package seatmap

import "strings"

// IndexToRowLabel converts a zero-based row index to its alphabetical label
// (0 → A, 25 → Z, 26 → AA).  It is the inverse of RowLabelToIndex and is
// used when generating a room's seats.
func IndexToRowLabel(i int) string {
    if i < 0 {
        return ""
    }
    res := []rune{}
    for {
        rem := i % 26
        res = append(res, rune('A'+rem))
        i = i/26 - 1
        if i < 0 {
            break
        }
    }
    for j, k := 0, len(res)-1; j < k; j, k = j+1, k-1 {
        res[j], res[k] = res[k], res[j]
    }
    return string(res)
}

// RowLabelToIndex converts a row label like "A" or "AA" into its zero-based
// index.  Labels containing anything other than ASCII letters are rejected.
func RowLabelToIndex(label string) (int, bool) {
    s := strings.ToUpper(strings.TrimSpace(label))
    if s == "" {
        return -1, false
    }
    n := 0
    for i := 0; i < len(s); i++ {
        ch := s[i]
        if ch < 'A' || ch > 'Z' {
            return -1, false
        }
        n = n*26 + int(ch-'A'+1)
    }
    return n - 1, true
}
