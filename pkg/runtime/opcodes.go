package runtime

// Opcodes supported by this subset (spec.md §4.5). Unlisted opcodes
// are fatal: "unsupported opcode".
const (
	opIconstM1 = 0x02
	opIconst0  = 0x03
	opIconst1  = 0x04
	opIconst2  = 0x05
	opIconst3  = 0x06
	opIconst4  = 0x07
	opIconst5  = 0x08
	opBipush   = 0x10
	opLdc      = 0x12
	opIload    = 0x15
	opIload0   = 0x1A
	opIload1   = 0x1B
	opIload2   = 0x1C
	opIload3   = 0x1D
	opAload0   = 0x2A
	opAload1   = 0x2B
	opIstore   = 0x36
	opIstore0  = 0x3B
	opIstore1  = 0x3C
	opIstore2  = 0x3D
	opIstore3  = 0x3E
	opAstore1  = 0x4C
	opDup      = 0x59
	opIadd     = 0x60
	opImul     = 0x68
	opIdiv     = 0x6C
	opIinc     = 0x84
	opIfIcmpge = 0xA2
	opGoto     = 0xA7
	opTableswitch  = 0xAA
	opIreturn      = 0xAC
	opReturnOp     = 0xB1
	opGetstatic    = 0xB2
	opGetfield     = 0xB4
	opPutfield     = 0xB5
	opInvokevirtual = 0xB6
	opInvokespecial = 0xB7
	opInvokestatic  = 0xB8
	opNew           = 0xBB
)
