package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"math"

	"github.com/ezrec/mips32/memory"
)

// State is the execution state of the processor.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_HALTED  = State(0) // halted
	STATE_RUNNING = State(1) // running
)

// Outcome is the result of a step, or of a run.
type Outcome int

//go:generate go tool stringer -linecomment -type=Outcome
const (
	OUTCOME_CONTINUE = Outcome(0) // continue
	OUTCOME_HALTED   = Outcome(1) // halted
	OUTCOME_FAULT    = Outcome(2) // fault
	OUTCOME_LIMIT    = Outcome(3) // limit
)

// SyscallHandler services a syscall instruction. It may inspect and
// modify the processor registers and memory. Returning halt stops the
// processor; returning an error faults it.
type SyscallHandler func(cpu *Cpu) (halt bool, err error)

// Cpu is the simulation context for the processor core: the register
// file, the MMU and the physical memory behind it.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Register RegisterFile // Register file.
	Mmu      *memory.Mmu  // Memory management unit.
	Origin   uint32       // Load origin of program images.

	Syscall SyscallHandler // Syscall service, or nil to halt on syscall.

	Ticks int   // Instructions retired since the program was loaded.
	Fault error // Fault that halted the processor, if any.

	state State
}

// NewCpu creates a new CPU with a specifically sized memory, and the
// address that programs are loaded at.
func NewCpu(size uint32, origin uint32) (cpu *Cpu) {
	cpu = &Cpu{
		Mmu:    memory.NewMmu(memory.NewPhysical(size)),
		Origin: origin,
	}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"MEMORY_SIZE": fmt.Sprintf("0x%x", cpu.Mmu.Size()),
		"LOAD_ORIGIN": fmt.Sprintf("0x%x", cpu.Origin),
	})
}

// State returns the execution state.
func (cpu *Cpu) State() State {
	return cpu.state
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text = fmt.Sprintf("state: %v\nticks: %d\n", cpu.state, cpu.Ticks)
	text += cpu.Register.String()
	if cpu.Fault != nil {
		text += fmt.Sprintf("fault: %v\n", cpu.Fault)
	}

	return
}

// LoadProgram loads a program image at the load origin.
// - Clears memory, then copies the image.
// - Clears the registers, and sets the PC to the origin.
// - Zeros statistics counters.
// - Sets the CPU running.
//
// If the image does not fit the CPU is halted, and memory is untouched.
func (cpu *Cpu) LoadProgram(image []byte) (err error) {
	defer func() {
		if err != nil {
			cpu.state = STATE_HALTED
		}
	}()

	size := uint64(cpu.Mmu.Size())
	origin := uint64(cpu.Origin)
	if origin > size || uint64(len(image)) > size-origin {
		err = ErrImageTooLarge
		return
	}

	// The first fetch must be possible.
	_, err = cpu.Mmu.Translate(cpu.Origin, memory.WIDTH_WORD)
	if err != nil {
		return
	}

	cpu.Mmu.Clear()
	err = cpu.Mmu.Load(cpu.Origin, image)
	if err != nil {
		return
	}

	cpu.Register.Reset()
	cpu.Register.SetPc(cpu.Origin)
	cpu.Ticks = 0
	cpu.Fault = nil
	cpu.state = STATE_RUNNING

	if cpu.Verbose {
		log.Printf("cpu: loaded %d bytes at 0x%08x", len(image), cpu.Origin)
	}

	return
}

// GetRegister gets a general purpose register.
func (cpu *Cpu) GetRegister(reg CodeReg) (uint32, error) {
	return cpu.Register.Get(reg)
}

// SetRegister sets a general purpose register.
func (cpu *Cpu) SetRegister(reg CodeReg, value uint32) error {
	return cpu.Register.Set(reg, value)
}

// GetPc gets the program counter.
func (cpu *Cpu) GetPc() uint32 {
	return cpu.Register.GetPc()
}

// SetPc sets the program counter, which must address a fetchable word.
func (cpu *Cpu) SetPc(pc uint32) (err error) {
	_, err = cpu.Mmu.Translate(pc, memory.WIDTH_WORD)
	if err != nil {
		return
	}

	cpu.Register.SetPc(pc)

	return
}

// GetMemoryWord reads a word of memory.
func (cpu *Cpu) GetMemoryWord(vaddr uint32) (uint32, error) {
	return cpu.Mmu.Read(vaddr, memory.WIDTH_WORD)
}

// SetMemoryWord writes a word of memory.
func (cpu *Cpu) SetMemoryWord(vaddr uint32, value uint32) error {
	return cpu.Mmu.Write(vaddr, memory.WIDTH_WORD, value)
}

// FetchCode fetches and decodes the instruction at the PC.
func (cpu *Cpu) FetchCode() (code Code, err error) {
	word, err := cpu.Mmu.Read(cpu.Register.GetPc(), memory.WIDTH_WORD)
	if err != nil {
		return
	}

	code, err = Decode(word)

	return
}

// Step executes a single instruction.
//
// Faults halt the processor: the outcome is OUTCOME_FAULT, the returned
// error is an *ErrFault, and the faulting instruction has no effect.
func (cpu *Cpu) Step() (outcome Outcome, err error) {
	if cpu.state != STATE_RUNNING {
		outcome = OUTCOME_HALTED
		err = ErrNotRunning
		return
	}

	pc := cpu.Register.GetPc()

	defer func() {
		switch outcome {
		case OUTCOME_FAULT:
			err = &ErrFault{Pc: pc, Err: err}
			cpu.Fault = err
			cpu.state = STATE_HALTED
			if cpu.Verbose {
				log.Printf("cpu: %v", err)
			}
		case OUTCOME_HALTED:
			cpu.Ticks++
			cpu.state = STATE_HALTED
			if cpu.Verbose {
				log.Printf("cpu: halted at 0x%08x", pc)
			}
		default:
			cpu.Ticks++
		}
	}()

	code, err := cpu.FetchCode()
	if err != nil {
		outcome = OUTCOME_FAULT
		return
	}

	outcome, err = cpu.Execute(code)

	return
}

// Run steps until the processor halts, or until limit instructions have
// been executed. A limit of zero or less is unbounded.
func (cpu *Cpu) Run(limit int) (outcome Outcome, err error) {
	for n := 0; limit <= 0 || n < limit; n++ {
		outcome, err = cpu.Step()
		if outcome != OUTCOME_CONTINUE {
			return
		}
	}

	outcome = OUTCOME_LIMIT

	return
}

// Execute executes a single decoded instruction at the PC.
//
// Control transfer is resolved and validated first, then the effect of the
// instruction is applied, then the PC is committed. Halting instructions
// leave the PC at the halting instruction.
func (cpu *Cpu) Execute(code Code) (outcome Outcome, err error) {
	defer func() {
		if err != nil {
			outcome = OUTCOME_FAULT
			err = errors.Join(ErrOpcode(code), err)
		}
	}()

	pc := cpu.Register.GetPc()

	if cpu.Verbose {
		log.Printf("cpu: %08x: %v", pc, code)
	}

	var next_pc uint32

	switch code.Op {
	case OP_BREAK:
		outcome = OUTCOME_HALTED
		return
	case OP_SYSCALL:
		halt := true
		if cpu.Syscall != nil {
			halt, err = cpu.Syscall(cpu)
			if err != nil {
				return
			}
		}
		if halt {
			outcome = OUTCOME_HALTED
			return
		}
		next_pc = pc + 4
		_, err = cpu.Mmu.Translate(next_pc, memory.WIDTH_WORD)
		if err != nil {
			return
		}
	default:
		next_pc = cpu.nextPc(code, pc)
		_, err = cpu.Mmu.Translate(next_pc, memory.WIDTH_WORD)
		if err != nil {
			return
		}

		err = cpu.doOp(code, pc)
		if err != nil {
			return
		}
	}

	cpu.Register.SetPc(next_pc)
	outcome = OUTCOME_CONTINUE

	return
}

// nextPc resolves the address of the instruction after code.
// Branch delay slots are not emulated.
func (cpu *Cpu) nextPc(code Code, pc uint32) (next_pc uint32) {
	rf := &cpu.Register

	next_pc = pc + 4
	rs := int32(rf.read(code.Rs()))
	rt := int32(rf.read(code.Rt()))

	var taken bool
	switch code.Op {
	case OP_J, OP_JAL:
		next_pc = (next_pc & 0xf0000000) | (code.Target() << 2)
	case OP_JR, OP_JALR:
		next_pc = uint32(rs)
	case OP_BEQ:
		taken = rs == rt
	case OP_BNE:
		taken = rs != rt
	case OP_BLEZ:
		taken = rs <= 0
	case OP_BGTZ:
		taken = rs > 0
	case OP_BLTZ, OP_BLTZAL:
		taken = rs < 0
	case OP_BGEZ, OP_BGEZAL:
		taken = rs >= 0
	}

	if taken {
		next_pc += code.SImm() << 2
	}

	return
}

// doOp performs the register and memory effect of an instruction.
// Nothing is modified when an error is returned.
func (cpu *Cpu) doOp(code Code, pc uint32) (err error) {
	rf := &cpu.Register

	rs := rf.read(code.Rs())
	rt := rf.read(code.Rt())
	rd := code.Rd()
	link := pc + 4

	switch code.Op {
	case OP_SLL:
		rf.write(rd, rt<<code.Shamt())
	case OP_SRL:
		rf.write(rd, rt>>code.Shamt())
	case OP_SRA:
		rf.write(rd, uint32(int32(rt)>>code.Shamt()))
	case OP_SLLV:
		rf.write(rd, rt<<(rs&0x1f))
	case OP_SRLV:
		rf.write(rd, rt>>(rs&0x1f))
	case OP_SRAV:
		rf.write(rd, uint32(int32(rt)>>(rs&0x1f)))
	case OP_JR:
		// Control transfer only.
	case OP_JALR:
		rf.write(rd, link)
	case OP_MFHI:
		rf.write(rd, rf.hi)
	case OP_MTHI:
		rf.hi = rs
	case OP_MFLO:
		rf.write(rd, rf.lo)
	case OP_MTLO:
		rf.lo = rs
	case OP_MULT:
		product := int64(int32(rs)) * int64(int32(rt))
		rf.hi = uint32(uint64(product) >> 32)
		rf.lo = uint32(product)
	case OP_MULTU:
		product := uint64(rs) * uint64(rt)
		rf.hi = uint32(product >> 32)
		rf.lo = uint32(product)
	case OP_DIV:
		if rt == 0 {
			err = ErrDivideByZero
			return
		}
		// MinInt32 / -1 wraps to MinInt32, remainder 0.
		rf.lo = uint32(int32(rs) / int32(rt))
		rf.hi = uint32(int32(rs) % int32(rt))
	case OP_DIVU:
		if rt == 0 {
			err = ErrDivideByZero
			return
		}
		rf.lo = rs / rt
		rf.hi = rs % rt
	case OP_ADD:
		var sum uint32
		sum, err = addTrap(rs, rt)
		if err != nil {
			return
		}
		rf.write(rd, sum)
	case OP_ADDU:
		rf.write(rd, rs+rt)
	case OP_SUB:
		var diff uint32
		diff, err = subTrap(rs, rt)
		if err != nil {
			return
		}
		rf.write(rd, diff)
	case OP_SUBU:
		rf.write(rd, rs-rt)
	case OP_AND:
		rf.write(rd, rs&rt)
	case OP_OR:
		rf.write(rd, rs|rt)
	case OP_XOR:
		rf.write(rd, rs^rt)
	case OP_NOR:
		rf.write(rd, ^(rs | rt))
	case OP_SLT:
		rf.write(rd, boolWord(int32(rs) < int32(rt)))
	case OP_SLTU:
		rf.write(rd, boolWord(rs < rt))
	case OP_BLTZ, OP_BGEZ, OP_BEQ, OP_BNE, OP_BLEZ, OP_BGTZ, OP_J:
		// Control transfer only.
	case OP_BLTZAL, OP_BGEZAL, OP_JAL:
		// Link whether or not the branch is taken.
		rf.write(REG_RA, link)
	case OP_ADDI:
		var sum uint32
		sum, err = addTrap(rs, code.SImm())
		if err != nil {
			return
		}
		rf.write(code.Rt(), sum)
	case OP_ADDIU:
		rf.write(code.Rt(), rs+code.SImm())
	case OP_SLTI:
		rf.write(code.Rt(), boolWord(int32(rs) < int32(code.SImm())))
	case OP_SLTIU:
		rf.write(code.Rt(), boolWord(rs < code.SImm()))
	case OP_ANDI:
		rf.write(code.Rt(), rs&code.Imm())
	case OP_ORI:
		rf.write(code.Rt(), rs|code.Imm())
	case OP_XORI:
		rf.write(code.Rt(), rs^code.Imm())
	case OP_LUI:
		rf.write(code.Rt(), code.Imm()<<16)
	case OP_LB, OP_LH, OP_LW, OP_LBU, OP_LHU:
		var value uint32
		value, err = cpu.load(code.Op, rs+code.SImm())
		if err != nil {
			return
		}
		rf.write(code.Rt(), value)
	case OP_SB:
		err = cpu.Mmu.Write(rs+code.SImm(), memory.WIDTH_BYTE, rt)
	case OP_SH:
		err = cpu.Mmu.Write(rs+code.SImm(), memory.WIDTH_HALF, rt)
	case OP_SW:
		err = cpu.Mmu.Write(rs+code.SImm(), memory.WIDTH_WORD, rt)
	default:
		panic(ErrOpcode(code))
	}

	return
}

// load reads memory for a load operation, and extends it to 32 bits.
func (cpu *Cpu) load(op CodeOp, vaddr uint32) (value uint32, err error) {
	switch op {
	case OP_LB:
		value, err = cpu.Mmu.Read(vaddr, memory.WIDTH_BYTE)
		value = uint32(int32(int8(value)))
	case OP_LBU:
		value, err = cpu.Mmu.Read(vaddr, memory.WIDTH_BYTE)
	case OP_LH:
		value, err = cpu.Mmu.Read(vaddr, memory.WIDTH_HALF)
		value = uint32(int32(int16(value)))
	case OP_LHU:
		value, err = cpu.Mmu.Read(vaddr, memory.WIDTH_HALF)
	case OP_LW:
		value, err = cpu.Mmu.Read(vaddr, memory.WIDTH_WORD)
	}

	return
}

// addTrap adds as signed values, and fails on overflow.
func addTrap(a, b uint32) (sum uint32, err error) {
	s := int64(int32(a)) + int64(int32(b))
	if s > math.MaxInt32 || s < math.MinInt32 {
		err = ErrArithmeticOverflow
		return
	}

	sum = uint32(int32(s))
	return
}

// subTrap subtracts as signed values, and fails on overflow.
func subTrap(a, b uint32) (diff uint32, err error) {
	d := int64(int32(a)) - int64(int32(b))
	if d > math.MaxInt32 || d < math.MinInt32 {
		err = ErrArithmeticOverflow
		return
	}

	diff = uint32(int32(d))
	return
}

func boolWord(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
