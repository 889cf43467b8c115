package encoder

// Opcode field values for each of the eight uncompressed formats
// (spec.md §4.5). Shared across funcTable entries below.
const (
	opRType  uint32 = 0b0110011 // add/sub/...  and R-type M-extension ops
	opRTypeW uint32 = 0b0111011 // addw/subw/... and MW ops
	opIType  uint32 = 0b0010011 // addi/slti/... and shift-immediate
	opITypeW uint32 = 0b0011011 // addiw and shift-word-immediate
	opLoad   uint32 = 0b0000011
	opStore  uint32 = 0b0100011
	opBranch uint32 = 0b1100011
	opLUI    uint32 = 0b0110111
	opAUIPC  uint32 = 0b0010111
	opJAL    uint32 = 0b1101111
	opJALR   uint32 = 0b1100111
	opSystem uint32 = 0b1110011
)

// rFields describes one R-type or R-type-W mnemonic's funct3/funct7.
type rFields struct {
	opcode uint32
	funct3 uint32
	funct7 uint32
}

var rTypeTable = map[string]rFields{
	"add":  {opRType, 0b000, 0b0000000},
	"sub":  {opRType, 0b000, 0b0100000},
	"sll":  {opRType, 0b001, 0b0000000},
	"slt":  {opRType, 0b010, 0b0000000},
	"sltu": {opRType, 0b011, 0b0000000},
	"xor":  {opRType, 0b100, 0b0000000},
	"srl":  {opRType, 0b101, 0b0000000},
	"sra":  {opRType, 0b101, 0b0100000},
	"or":   {opRType, 0b110, 0b0000000},
	"and":  {opRType, 0b111, 0b0000000},

	"addw": {opRTypeW, 0b000, 0b0000000},
	"subw": {opRTypeW, 0b000, 0b0100000},
	"sllw": {opRTypeW, 0b001, 0b0000000},
	"srlw": {opRTypeW, 0b101, 0b0000000},
	"sraw": {opRTypeW, 0b101, 0b0100000},

	"mul":    {opRType, 0b000, 0b0000001},
	"mulh":   {opRType, 0b001, 0b0000001},
	"mulhsu": {opRType, 0b010, 0b0000001},
	"mulhu":  {opRType, 0b011, 0b0000001},
	"div":    {opRType, 0b100, 0b0000001},
	"divu":   {opRType, 0b101, 0b0000001},
	"rem":    {opRType, 0b110, 0b0000001},
	"remu":   {opRType, 0b111, 0b0000001},

	"mulw":  {opRTypeW, 0b000, 0b0000001},
	"divw":  {opRTypeW, 0b100, 0b0000001},
	"divuw": {opRTypeW, 0b101, 0b0000001},
	"remw":  {opRTypeW, 0b110, 0b0000001},
	"remuw": {opRTypeW, 0b111, 0b0000001},
}

// iFields describes one I-type arithmetic/load/jalr mnemonic.
type iFields struct {
	opcode uint32
	funct3 uint32
}

var iTypeTable = map[string]iFields{
	"addi":  {opIType, 0b000},
	"slti":  {opIType, 0b010},
	"sltiu": {opIType, 0b011},
	"xori":  {opIType, 0b100},
	"ori":   {opIType, 0b110},
	"andi":  {opIType, 0b111},
	"addiw": {opITypeW, 0b000},

	"lb":  {opLoad, 0b000},
	"lh":  {opLoad, 0b001},
	"lw":  {opLoad, 0b010},
	"ld":  {opLoad, 0b011},
	"lbu": {opLoad, 0b100},
	"lhu": {opLoad, 0b101},
	"lwu": {opLoad, 0b110},

	"jalr": {opJALR, 0b000},
}

// shiftFields describes a 6-bit-shamt shift-immediate mnemonic (opIType).
type shiftFields struct {
	funct3 uint32
	funct6 uint32
}

var shiftTable = map[string]shiftFields{
	"slli": {0b001, 0b000000},
	"srli": {0b101, 0b000000},
	"srai": {0b101, 0b010000},
}

// shiftWFields describes a 5-bit-shamt word-shift-immediate mnemonic (opITypeW).
type shiftWFields struct {
	funct3 uint32
	funct7 uint32
}

var shiftWTable = map[string]shiftWFields{
	"slliw": {0b001, 0b0000000},
	"srliw": {0b101, 0b0000000},
	"sraiw": {0b101, 0b0100000},
}

// sFields/bFields describe store and branch mnemonics.
var storeTable = map[string]uint32{
	"sb": 0b000, "sh": 0b001, "sw": 0b010, "sd": 0b011,
}

var branchTable = map[string]uint32{
	"beq": 0b000, "bne": 0b001, "blt": 0b100, "bge": 0b101, "bltu": 0b110, "bgeu": 0b111,
}

// --- Compressed (RVC) field tables ---

const (
	cQuadrant0 uint16 = 0b00
	cQuadrant1 uint16 = 0b01
	cQuadrant2 uint16 = 0b10
)

type cFields struct {
	quadrant uint16
	funct3   uint16
}

var cQuadrant0Table = map[string]cFields{
	"c.addi4spn": {cQuadrant0, 0b000},
	"c.lw":       {cQuadrant0, 0b010},
	"c.ld":       {cQuadrant0, 0b011},
	"c.sw":       {cQuadrant0, 0b110},
	"c.sd":       {cQuadrant0, 0b111},
}

var cQuadrant1CITable = map[string]cFields{
	"c.nop":      {cQuadrant1, 0b000},
	"c.addi":     {cQuadrant1, 0b000},
	"c.addiw":    {cQuadrant1, 0b001},
	"c.li":       {cQuadrant1, 0b010},
	"c.addi16sp": {cQuadrant1, 0b011},
	"c.lui":      {cQuadrant1, 0b011},
}

var cQuadrant2CITable = map[string]cFields{
	"c.slli":  {cQuadrant2, 0b000},
	"c.lwsp":  {cQuadrant2, 0b010},
	"c.ldsp":  {cQuadrant2, 0b011},
	"c.swsp":  {cQuadrant2, 0b110},
	"c.sdsp":  {cQuadrant2, 0b111},
}

// funct2/funct6 for the CA-format register-register quadrant-1 ops.
type caFields struct {
	funct2 uint16
	funct6 uint16
}

var cATable = map[string]caFields{
	"c.sub":  {0b00, 0b100011},
	"c.xor":  {0b01, 0b100011},
	"c.or":   {0b10, 0b100011},
	"c.and":  {0b11, 0b100011},
	"c.subw": {0b00, 0b100111},
	"c.addw": {0b01, 0b100111},
}
