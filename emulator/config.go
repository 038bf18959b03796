package emulator

const (
	MEMORY_SIZE = 1 << 20 // Default physical memory size, in bytes.
	LOAD_ORIGIN = 0       // Default program load origin.
)

// Config is the construction-time configuration of an emulator.
type Config struct {
	MemorySize uint32 // Physical memory size, in bytes.
	LoadOrigin uint32 // Address programs are loaded at.
	StepLimit  int    // Maximum steps per run, or 0 for unbounded.
	Verbose    bool   // Enables verbose logging.
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MemorySize: MEMORY_SIZE,
		LoadOrigin: LOAD_ORIGIN,
	}
}
