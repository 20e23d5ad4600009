package insts

// SignExtend sign-extends the low bits of v to 64 bits.
func SignExtend(v uint64, bits uint) uint64 {
	shift := 64 - bits
	return uint64(int64(v<<shift) >> shift)
}

// ImmI returns the I-type immediate: bits [31:20].
func ImmI(word uint32) uint64 {
	return SignExtend(uint64(word>>20), 12)
}

// ImmS returns the S-type immediate: {[31:25], [11:7]}.
func ImmS(word uint32) uint64 {
	hi := (word >> 25) & 0x7f
	lo := (word >> 7) & 0x1f
	return SignExtend(uint64(hi<<5|lo), 12)
}

// ImmB returns the B-type immediate: {[31], [7], [30:25], [11:8], 0}.
func ImmB(word uint32) uint64 {
	imm := ((word>>31)&0x1)<<12 |
		((word>>7)&0x1)<<11 |
		((word>>25)&0x3f)<<5 |
		((word>>8)&0xf)<<1
	return SignExtend(uint64(imm), 13)
}

// ImmJ returns the J-type immediate: {[31], [19:12], [20], [30:21], 0}.
func ImmJ(word uint32) uint64 {
	imm := ((word>>31)&0x1)<<20 |
		((word>>12)&0xff)<<12 |
		((word>>20)&0x1)<<11 |
		((word>>21)&0x3ff)<<1
	return SignExtend(uint64(imm), 21)
}
