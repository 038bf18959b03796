// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"

	"github.com/ezrec/mips32/cpu"
	"github.com/ezrec/mips32/emulator"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %v [options] image.bin\n       %v [options] -c prog.s\n", os.Args[0], os.Args[0])
	flag.PrintDefaults()
}

func main() {
	var compile string
	var save string
	var size uint64
	var origin uint64
	var steps int
	var verbose bool

	config := emulator.DefaultConfig()

	flag.StringVar(&compile, "c", "", ".s file to assemble")
	flag.StringVar(&save, "s", "", "Save assembled image to file, do not execute")
	flag.Uint64Var(&size, "m", uint64(config.MemorySize), "Memory size, in bytes")
	flag.Uint64Var(&origin, "o", uint64(config.LoadOrigin), "Load origin")
	flag.IntVar(&steps, "n", config.StepLimit, "Step limit, 0 for unbounded")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.Usage = usage

	flag.Parse()

	if (len(compile) == 0 && flag.NArg() != 1) || (len(compile) != 0 && flag.NArg() != 0) {
		flag.Usage()
		os.Exit(1)
	}

	if size > math.MaxUint32 || origin > math.MaxUint32 {
		log.Fatalf("%v: memory size and origin must fit in 32 bits", os.Args[0])
	}

	config.MemorySize = uint32(size)
	config.LoadOrigin = uint32(origin)
	config.StepLimit = steps
	config.Verbose = verbose

	emu := emulator.NewEmulator(config)
	emu.Console.Output = os.Stdout

	var image []byte

	if len(compile) != 0 {
		// Assemble a new instruction stream.
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := emu.Assembler()
		emu.Program, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		image = emu.Program.Binary()

		if len(save) != 0 {
			err = os.WriteFile(save, image, 0o644)
			if err != nil {
				log.Fatalf("%v: %v", save, err)
			}
			return
		}
	} else {
		var err error
		image, err = os.ReadFile(flag.Arg(0))
		if err != nil {
			log.Fatalf("%v: %v", flag.Arg(0), err)
		}
	}

	fmt.Printf("image: %d bytes\n", len(image))

	var err error
	if len(compile) != 0 {
		err = emu.Reset()
	} else {
		err = emu.Load(image)
	}
	if err != nil {
		log.Fatalf("load: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	outcome, err := emu.Run(ctx, config.StepLimit)

	fmt.Println()
	fmt.Print(emu.Cpu.String())

	if err != nil {
		log.Print(err)
	}

	switch outcome {
	case cpu.OUTCOME_FAULT:
		os.Exit(1)
	case cpu.OUTCOME_LIMIT:
		log.Printf("%v: stopped after %d steps", os.Args[0], emu.Ticks())
		os.Exit(1)
	}

	if code := emu.ExitCode(); code != 0 {
		os.Exit(code)
	}
}
