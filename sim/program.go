// Defines Program, the instruction stream a process is loaded from, and the
// path-keyed FileStore programs are read from at admission time.

package sim

import (
	"fmt"

	"github.com/kernel-sim/kernel-sim/sim/hw"
)

// Program is an ordered instruction stream that always ends with EXIT.
type Program struct {
	instructions []hw.Instruction
}

// NewProgram flattens the instruction groups into one stream and appends an
// EXIT when the stream does not already end with one.
//
//	NewProgram(hw.Burst(2), hw.IO(), hw.Burst(3)) // CPU CPU IO CPU CPU CPU EXIT
func NewProgram(groups ...[]hw.Instruction) *Program {
	var expanded []hw.Instruction
	for _, g := range groups {
		expanded = append(expanded, g...)
	}
	if len(expanded) == 0 || !expanded[len(expanded)-1].IsExit() {
		expanded = append(expanded, hw.InstrExit)
	}
	return &Program{instructions: expanded}
}

// Append adds an instruction at the end of the stream.
// Only meant to be used while a program is being assembled.
func (p *Program) Append(instr hw.Instruction) {
	p.instructions = append(p.instructions, instr)
}

// Instructions returns the instruction stream. Callers MUST NOT modify it.
func (p *Program) Instructions() []hw.Instruction {
	return p.instructions
}

// Len returns the number of instructions, EXIT included.
func (p *Program) Len() int {
	return len(p.instructions)
}

func (p *Program) String() string {
	return fmt.Sprintf("Program(%v)", p.instructions)
}

// FileStore maps paths to programs.
type FileStore struct {
	files map[string]*Program
}

// NewFileStore creates an empty store.
func NewFileStore() *FileStore {
	return &FileStore{files: make(map[string]*Program)}
}

// Write stores program under path, replacing any previous one.
func (fs *FileStore) Write(path string, program *Program) {
	fs.files[path] = program
}

// Read returns the program stored under path.
func (fs *FileStore) Read(path string) (*Program, bool) {
	p, ok := fs.files[path]
	return p, ok
}
