package smcache

// computeLineOffsets returns the byte offset of the start of every line in
// s, where lines are split on CR, LF, or CRLF, followed by an unconditional
// terminating entry at len(s). A terminator at the very end of s therefore
// produces two equal trailing entries: the start of the (empty) final line
// and the terminating entry.
func computeLineOffsets(s string) []uint32 {
	offsets := []uint32{0}

	i := 0
	for i < len(s) {
		switch s[i] {
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				i += 2
			} else {
				i++
			}
			offsets = append(offsets, uint32(i))
		case '\n':
			i++
			offsets = append(offsets, uint32(i))
		default:
			i++
		}
	}

	offsets = append(offsets, uint32(len(s)))
	return offsets
}
