package encoder

// formats.go holds the pure bit-packing primitives for every RV64IMC
// instruction layout named in spec.md §4.5. Each function takes already-
// validated field values and returns the packed word; range/kind
// validation happened earlier, in the parser's InstructionBuilder.

func u32(v int64) uint32 { return uint32(v) }

// packR builds an R-type word: rd[11:7], funct3[14:12], rs1[19:15],
// rs2[24:20], funct7[31:25].
func packR(opcode, rd, funct3, rs1, rs2, funct7 uint32) uint32 {
	return opcode | (rd&0x1f)<<7 | (funct3&0x7)<<12 | (rs1&0x1f)<<15 | (rs2&0x1f)<<20 | (funct7&0x7f)<<25
}

// packI builds an I-type word: rd[11:7], funct3[14:12], rs1[19:15],
// imm12[31:20].
func packI(opcode, rd, funct3, rs1 uint32, imm12 int64) uint32 {
	return opcode | (rd&0x1f)<<7 | (funct3&0x7)<<12 | (rs1&0x1f)<<15 | (u32(imm12)&0xfff)<<20
}

// packShift builds a shift-immediate word (6-bit shamt): shamt[25:20],
// funct6[31:26], plus the ordinary rd/funct3/rs1 fields.
func packShift(opcode, rd, funct3, rs1, shamt, funct6 uint32) uint32 {
	return opcode | (rd&0x1f)<<7 | (funct3&0x7)<<12 | (rs1&0x1f)<<15 | (shamt&0x3f)<<20 | (funct6&0x3f)<<26
}

// packShiftW builds a word-shift-immediate word (5-bit shamt): shamt[24:20],
// funct7[31:25].
func packShiftW(opcode, rd, funct3, rs1, shamt, funct7 uint32) uint32 {
	return opcode | (rd&0x1f)<<7 | (funct3&0x7)<<12 | (rs1&0x1f)<<15 | (shamt&0x1f)<<20 | (funct7&0x7f)<<25
}

// packS builds an S-type word: imm[4:0]->[11:7], funct3[14:12],
// rs1[19:15], rs2[24:20], imm[11:5]->[31:25].
func packS(opcode, rs1, funct3, rs2 uint32, imm12 int64) uint32 {
	v := u32(imm12) & 0xfff
	return opcode | (v&0x1f)<<7 | (funct3&0x7)<<12 | (rs1&0x1f)<<15 | (rs2&0x1f)<<20 | ((v>>5)&0x7f)<<25
}

// packB builds a B-type word from a byte offset b (must be even): scatter
// b[12]->31, b[10:5]->30:25, b[4:1]->11:8, b[11]->7.
func packB(opcode, rs1, funct3, rs2 uint32, byteOffset int64) uint32 {
	b := u32(byteOffset)
	bit12 := (b >> 12) & 0x1
	bit11 := (b >> 11) & 0x1
	bits10_5 := (b >> 5) & 0x3f
	bits4_1 := (b >> 1) & 0xf
	return opcode | bit11<<7 | bits4_1<<8 | (funct3&0x7)<<12 | (rs1&0x1f)<<15 | (rs2&0x1f)<<20 | bits10_5<<25 | bit12<<31
}

// packU builds a U-type word: rd[11:7], imm20[31:12] (already shifted into
// position by the caller, i.e. the raw upper-20-bits value).
func packU(opcode, rd uint32, imm20 int64) uint32 {
	return opcode | (rd&0x1f)<<7 | (u32(imm20)&0xfffff)<<12
}

// packJ builds a J-type word from a byte offset b (must be even): scatter
// b[20]->31, b[10:1]->30:21, b[11]->20, b[19:12]->19:12.
func packJ(opcode, rd uint32, byteOffset int64) uint32 {
	b := u32(byteOffset)
	bit20 := (b >> 20) & 0x1
	bits10_1 := (b >> 1) & 0x3ff
	bit11 := (b >> 11) & 0x1
	bits19_12 := (b >> 12) & 0xff
	return opcode | (rd&0x1f)<<7 | bits19_12<<12 | bit11<<20 | bits10_1<<21 | bit20<<31
}

// --- 16-bit compressed formats ---

func packCR(quadrant, rdrs1, rs2, funct4 uint16) uint16 {
	return quadrant | (rs2&0x1f)<<2 | (rdrs1&0x1f)<<7 | (funct4&0xf)<<12
}

func packCI(quadrant, rdrs1, funct3 uint16, imm6 int64) uint16 {
	v := uint16(imm6) & 0x3f
	return quadrant | (v&0x1f)<<2 | (rdrs1&0x1f)<<7 | ((v>>5)&0x1)<<12 | (funct3&0x7)<<13
}

func packCSS(quadrant, rs2, funct3 uint16, imm6 int64) uint16 {
	v := uint16(imm6) & 0x3f
	return quadrant | (rs2&0x1f)<<2 | v<<7 | (funct3&0x7)<<13
}

func packCIW(quadrant, rdp, funct3 uint16, imm8 int64) uint16 {
	v := uint16(imm8) & 0xff
	return quadrant | (rdp&0x7)<<2 | v<<5 | (funct3&0x7)<<13
}

// packCL/packCS pack the 5-bit offset (the literal value the builder
// validated, not rescaled) the same way: bits[1:0]
// at [6:5], bits[4:2] at [12:10], with rd'/rs2' at [4:2] and rs1' at [9:7].
func packCL(quadrant, rdp, rs1p, funct3 uint16, imm5 int64) uint16 {
	v := uint16(imm5) & 0x1f
	return quadrant | (rdp&0x7)<<2 | (v&0x3)<<5 | (rs1p&0x7)<<7 | ((v>>2)&0x7)<<10 | (funct3&0x7)<<13
}

func packCS(quadrant, rs2p, rs1p, funct3 uint16, imm5 int64) uint16 {
	v := uint16(imm5) & 0x1f
	return quadrant | (rs2p&0x7)<<2 | (v&0x3)<<5 | (rs1p&0x7)<<7 | ((v>>2)&0x7)<<10 | (funct3&0x7)<<13
}

func packCA(quadrant, rs2p, funct2, rdp, funct6 uint16) uint16 {
	return quadrant | (rs2p&0x7)<<2 | (funct2&0x3)<<5 | (rdp&0x7)<<7 | (funct6&0x3f)<<10
}

// packCBBranch packs c.beqz/c.bnez from a byte offset b: scatter b[5]->2,
// b[2:1]->4:3, b[7:6]->6:5, b[4:3]->11:10, b[8]->12.
func packCBBranch(quadrant, rs1p, funct3 uint16, byteOffset int64) uint16 {
	b := uint16(byteOffset)
	return quadrant |
		((b>>5)&0x1)<<2 |
		((b>>1)&0x3)<<3 |
		((b>>6)&0x3)<<5 |
		(rs1p&0x7)<<7 |
		((b>>3)&0x3)<<10 |
		((b>>8)&0x1)<<12 |
		(funct3&0x7)<<13
}

// packCBShift packs c.srli/c.srai/c.andi: imm[4:0]->[6:2], funct2[11:10],
// imm[5]->[12].
func packCBShift(quadrant, rs1p, funct2, funct3 uint16, imm6 int64) uint16 {
	v := uint16(imm6) & 0x3f
	return quadrant | (v&0x1f)<<2 | (rs1p&0x7)<<7 | (funct2&0x3)<<10 | ((v>>5)&0x1)<<12 | (funct3&0x7)<<13
}

// packCJ packs c.j from a byte offset b across the standard CJ bit order:
// b[11]->12, b[4]->11, b[9:8]->10:9, b[10]->8, b[6]->7, b[7]->6, b[3:1]->5:3, b[5]->2.
func packCJ(quadrant, funct3 uint16, byteOffset int64) uint16 {
	b := uint16(byteOffset)
	field := ((b>>11)&0x1)<<12 |
		((b>>4)&0x1)<<11 |
		((b>>8)&0x3)<<9 |
		((b>>10)&0x1)<<8 |
		((b>>6)&0x1)<<7 |
		((b>>7)&0x1)<<6 |
		((b>>1)&0x7)<<3 |
		((b>>5)&0x1)<<2
	return quadrant | field | (funct3&0x7)<<13
}
