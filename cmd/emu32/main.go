// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// emu32 runs a program on the 32-bit processor simulation, and prints the
// final register file.
//
//	emu32 [-c src.s | -m image.mem] [-n maxticks] [-ram words] [-v]
package main

import (
	"flag"
	"fmt"
	goio "io"
	"log"
	"os"

	"github.com/ezrec/asm32/cpu"
	"github.com/ezrec/asm32/emulator"
	"github.com/ezrec/asm32/io"
	"github.com/ezrec/asm32/translate"
)

var f = translate.From

// run emulates according to args, and returns the process exit status.
func run(args []string, stdout, stderr goio.Writer) int {
	logger := log.New(stderr, "", 0)

	flags := flag.NewFlagSet(args[0], flag.ContinueOnError)
	flags.SetOutput(stderr)

	var compile string
	var image string
	var max int
	var ram uint
	var verbose bool

	flags.StringVar(&compile, "c", "", "Assembly source file to compile and run")
	flags.StringVar(&image, "m", "", "Memory image file to run")
	flags.IntVar(&max, "n", 1000000, "Maximum instructions to execute, 0 for no limit")
	flags.UintVar(&ram, "ram", emulator.RAM_SIZE, "Data memory size, in words")
	flags.BoolVar(&verbose, "v", false, "Verbose mode")

	if err := flags.Parse(args[1:]); err != nil {
		return 1
	}

	if flags.NArg() != 0 {
		logger.Printf("%v", f("%v: Unknown arguments: %v", args[0], flags.Args()))
		return 1
	}

	if (len(compile) == 0) == (len(image) == 0) {
		logger.Printf("%v", f("%v: exactly one of -c or -m is required", args[0]))
		return 1
	}

	if verbose {
		log.SetOutput(stderr)
		log.SetFlags(0)
	}

	emu := emulator.NewEmulator(ram)
	emu.Verbose = verbose

	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			logger.Printf("%v", err)
			return 1
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose}
		emu.Program, err = asm.Parse(inf)
		if err != nil {
			logger.Printf("%v: %v", compile, err)
			return 1
		}
		for _, warn := range emu.Program.Warnings {
			logger.Printf("%v: %v", compile, f("warning: %v", warn))
		}
	} else {
		inf, err := os.Open(image)
		if err != nil {
			logger.Printf("%v", err)
			return 1
		}
		defer inf.Close()

		rom := &io.Rom{}
		_, err = rom.ReadFrom(inf)
		if err != nil {
			logger.Printf("%v: %v", image, err)
			return 1
		}
		emu.Load(rom.Data)
	}

	emu.Reset()
	err := emu.Run(max)
	fmt.Fprint(stdout, emu.Cpu.String())
	translate.To(stdout, "ticks: %d", emu.Ticks())
	if err != nil {
		logger.Printf("%v", err)
		return 1
	}

	return 0
}

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}
