package zpl

import "strconv"

// SimpleHash fingerprints a page's content for print-history deduplication.
// The algorithm is pinned: the classic rolling 31-multiplier string hash
// (h = h*31 + c, expressed as h<<5 - h + c) over the runes, wrapping in
// int32, rendered as the signed decimal string. It must stay byte-for-byte
// stable across runs and implementations; stored fingerprints depend on it.
func SimpleHash(s string) string {
	var h int32
	for _, r := range s {
		h = h<<5 - h + int32(r)
	}
	return strconv.FormatInt(int64(h), 10)
}
