// Package opcode names the JVM instruction set: mnemonics, operand widths
// and the predicates the analysis passes key on.
package opcode

import "fmt"

// Op is a single JVM opcode byte.
type Op uint8

// Opcodes referenced by name in the analysis passes. The full mnemonic
// table below covers the rest of the instruction set.
const (
	Nop             Op = 0x00
	AconstNull      Op = 0x01
	IconstM1        Op = 0x02
	Iconst0         Op = 0x03
	Bipush          Op = 0x10
	Sipush          Op = 0x11
	Ldc             Op = 0x12
	LdcW            Op = 0x13
	Ldc2W           Op = 0x14
	Iload           Op = 0x15
	Aload           Op = 0x19
	Iload0          Op = 0x1a
	Aload0          Op = 0x2a
	Aload1          Op = 0x2b
	Istore          Op = 0x36
	Astore          Op = 0x3a
	Pop             Op = 0x57
	Dup             Op = 0x59
	Iinc            Op = 0x84
	Ifeq            Op = 0x99
	Goto            Op = 0xa7
	Jsr             Op = 0xa8
	Ret             Op = 0xa9
	Tableswitch     Op = 0xaa
	Lookupswitch    Op = 0xab
	Ireturn         Op = 0xac
	Lreturn         Op = 0xad
	Freturn         Op = 0xae
	Dreturn         Op = 0xaf
	Areturn         Op = 0xb0
	Return          Op = 0xb1
	Getstatic       Op = 0xb2
	Putstatic       Op = 0xb3
	Getfield        Op = 0xb4
	Putfield        Op = 0xb5
	Invokevirtual   Op = 0xb6
	Invokespecial   Op = 0xb7
	Invokestatic    Op = 0xb8
	Invokeinterface Op = 0xb9
	Invokedynamic   Op = 0xba
	New             Op = 0xbb
	Newarray        Op = 0xbc
	Anewarray       Op = 0xbd
	Arraylength     Op = 0xbe
	Athrow          Op = 0xbf
	Checkcast       Op = 0xc0
	Instanceof      Op = 0xc1
	Monitorenter    Op = 0xc2
	Monitorexit     Op = 0xc3
	Wide            Op = 0xc4
	Multianewarray  Op = 0xc5
	Ifnull          Op = 0xc6
	Ifnonnull       Op = 0xc7
	GotoW           Op = 0xc8
	JsrW            Op = 0xc9
)

var mnemonics = [...]string{
	"nop", "aconst_null", "iconst_m1", "iconst_0", "iconst_1", "iconst_2",
	"iconst_3", "iconst_4", "iconst_5", "lconst_0", "lconst_1", "fconst_0",
	"fconst_1", "fconst_2", "dconst_0", "dconst_1", "bipush", "sipush",
	"ldc", "ldc_w", "ldc2_w", "iload", "lload", "fload", "dload", "aload",
	"iload_0", "iload_1", "iload_2", "iload_3", "lload_0", "lload_1",
	"lload_2", "lload_3", "fload_0", "fload_1", "fload_2", "fload_3",
	"dload_0", "dload_1", "dload_2", "dload_3", "aload_0", "aload_1",
	"aload_2", "aload_3", "iaload", "laload", "faload", "daload", "aaload",
	"baload", "caload", "saload", "istore", "lstore", "fstore", "dstore",
	"astore", "istore_0", "istore_1", "istore_2", "istore_3", "lstore_0",
	"lstore_1", "lstore_2", "lstore_3", "fstore_0", "fstore_1", "fstore_2",
	"fstore_3", "dstore_0", "dstore_1", "dstore_2", "dstore_3", "astore_0",
	"astore_1", "astore_2", "astore_3", "iastore", "lastore", "fastore",
	"dastore", "aastore", "bastore", "castore", "sastore", "pop", "pop2",
	"dup", "dup_x1", "dup_x2", "dup2", "dup2_x1", "dup2_x2", "swap",
	"iadd", "ladd", "fadd", "dadd", "isub", "lsub", "fsub", "dsub", "imul",
	"lmul", "fmul", "dmul", "idiv", "ldiv", "fdiv", "ddiv", "irem", "lrem",
	"frem", "drem", "ineg", "lneg", "fneg", "dneg", "ishl", "lshl", "ishr",
	"lshr", "iushr", "lushr", "iand", "land", "ior", "lor", "ixor", "lxor",
	"iinc", "i2l", "i2f", "i2d", "l2i", "l2f", "l2d", "f2i", "f2l", "f2d",
	"d2i", "d2l", "d2f", "i2b", "i2c", "i2s", "lcmp", "fcmpl", "fcmpg",
	"dcmpl", "dcmpg", "ifeq", "ifne", "iflt", "ifge", "ifgt", "ifle",
	"if_icmpeq", "if_icmpne", "if_icmplt", "if_icmpge", "if_icmpgt",
	"if_icmple", "if_acmpeq", "if_acmpne", "goto", "jsr", "ret",
	"tableswitch", "lookupswitch", "ireturn", "lreturn", "freturn",
	"dreturn", "areturn", "return", "getstatic", "putstatic", "getfield",
	"putfield", "invokevirtual", "invokespecial", "invokestatic",
	"invokeinterface", "invokedynamic", "new", "newarray", "anewarray",
	"arraylength", "athrow", "checkcast", "instanceof", "monitorenter",
	"monitorexit", "wide", "multianewarray", "ifnull", "ifnonnull",
	"goto_w", "jsr_w",
}

// String returns the JVM mnemonic, or a hex form for bytes outside the
// instruction set.
func (op Op) String() string {
	if int(op) < len(mnemonics) {
		return mnemonics[op]
	}
	return fmt.Sprintf("op_0x%02x", uint8(op))
}

// Valid reports whether op is a defined instruction.
func (op Op) Valid() bool {
	return int(op) < len(mnemonics)
}

// IsReturn reports whether op is one of the six return instructions.
func (op Op) IsReturn() bool {
	return op >= Ireturn && op <= Return
}

// IsInvoke reports whether op is any of the five invocation instructions.
func (op Op) IsInvoke() bool {
	return op >= Invokevirtual && op <= Invokedynamic
}

// operand byte counts for fixed-width instructions. Wide, tableswitch and
// lookupswitch are variable and handled by the scanner.
var widths = map[Op]int{
	Bipush: 1, Sipush: 2,
	Ldc: 1, LdcW: 2, Ldc2W: 2,
	Iinc:     2,
	Ret:      1,
	Newarray: 1,
	Getstatic: 2, Putstatic: 2, Getfield: 2, Putfield: 2,
	Invokevirtual: 2, Invokespecial: 2, Invokestatic: 2,
	Invokeinterface: 4, Invokedynamic: 4,
	New: 2, Anewarray: 2, Checkcast: 2, Instanceof: 2,
	Multianewarray: 3,
	GotoW:          4, JsrW: 4,
}

func init() {
	// one-byte local variable index forms: iload..aload, istore..astore
	for op := Iload; op <= Aload; op++ {
		widths[op] = 1
	}
	for op := Istore; op <= Astore; op++ {
		widths[op] = 1
	}
	// two-byte branch offsets: ifeq..jsr, ifnull, ifnonnull
	for op := Ifeq; op <= Jsr; op++ {
		widths[op] = 2
	}
	widths[Ifnull] = 2
	widths[Ifnonnull] = 2
}

// OperandWidth returns the fixed operand byte count for op. ok is false for
// the variable-width instructions (wide, tableswitch, lookupswitch), whose
// size depends on operands or alignment.
func OperandWidth(op Op) (n int, ok bool) {
	switch op {
	case Wide, Tableswitch, Lookupswitch:
		return 0, false
	}
	return widths[op], true
}
