package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/kernel-sim/kernel-sim/sim/hw"
)

// Loader copies programs from the file store into physical memory, one page
// per frame, and returns the resulting page table.
type Loader struct {
	memoryManager *MemoryManager
	fileStore     *FileStore
	memory        *hw.Memory
	frameSize     int
}

// NewLoader creates a loader writing into memory with the manager's frame size.
func NewLoader(memoryManager *MemoryManager, fileStore *FileStore, memory *hw.Memory) *Loader {
	return &Loader{
		memoryManager: memoryManager,
		fileStore:     fileStore,
		memory:        memory,
		frameSize:     memoryManager.FrameSize(),
	}
}

// PagesFor returns the number of pages a program of n instructions needs.
func (l *Loader) PagesFor(n int) int {
	return (n + l.frameSize - 1) / l.frameSize
}

// Load reads path, allocates one frame per page and writes the program into
// them. It returns false, with nothing allocated, when the path is unknown or
// there are not enough free frames.
func (l *Loader) Load(path string) ([]int, bool) {
	program, ok := l.fileStore.Read(path)
	if !ok {
		logrus.Warnf("Program %s not found", path)
		return nil, false
	}
	instructions := program.Instructions()
	pages := l.PagesFor(len(instructions))
	frames, ok := l.memoryManager.AllocFrames(pages)
	if !ok {
		logrus.Warnf("Program %s couldn't be loaded: needs %d frames, %d free",
			path, pages, l.memoryManager.FreeFrameCount())
		return nil, false
	}

	// the page table is the frame list itself: page i lives in frames[i]
	for page, frame := range frames {
		for offset := 0; offset < l.frameSize; offset++ {
			logical := page*l.frameSize + offset
			if logical >= len(instructions) {
				break
			}
			physical := frame*l.frameSize + offset
			logrus.Tracef("Loading instruction %d of %s at %d", logical, path, physical)
			l.memory.Write(physical, instructions[logical])
		}
	}
	logrus.Infof("Finished loading program %s into frames %v", path, frames)
	return frames, true
}
