// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// asm32 assembles a source file into a memory image, one eight digit
// upper case hexadecimal word per line.
//
//	asm32 [-v] [-strict] [-l] <input.s> <output.mem>
package main

import (
	"flag"
	goio "io"
	"log"
	"os"
	"path/filepath"

	"github.com/ezrec/asm32/cpu"
	"github.com/ezrec/asm32/io"
	"github.com/ezrec/asm32/translate"
)

var f = translate.From

// run assembles according to args, and returns the process exit status.
func run(args []string, stdout, stderr goio.Writer) int {
	logger := log.New(stderr, "", 0)

	flags := flag.NewFlagSet(args[0], flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		translate.To(stderr, "Usage: %v [-v] [-strict] [-l] <input.s> <output.mem>", args[0])
		flags.PrintDefaults()
	}

	var verbose bool
	var strict bool
	var listing bool

	flags.BoolVar(&verbose, "v", false, "Verbose mode")
	flags.BoolVar(&strict, "strict", false, "Treat unsupported instructions as errors")
	flags.BoolVar(&listing, "l", false, "Print a listing to stdout")

	if err := flags.Parse(args[1:]); err != nil {
		return 1
	}

	if flags.NArg() != 2 {
		flags.Usage()
		return 1
	}

	input := flags.Arg(0)
	output := flags.Arg(1)

	inf, err := os.Open(input)
	if err != nil {
		logger.Printf("%v", err)
		return 1
	}
	defer inf.Close()

	if verbose {
		log.SetOutput(stderr)
		log.SetFlags(0)
	}

	asm := &cpu.Assembler{Verbose: verbose, Strict: strict}
	prog, err := asm.Parse(inf)
	if err != nil {
		logger.Printf("%v: %v", input, err)
		return 1
	}

	for _, warn := range prog.Warnings {
		logger.Printf("%v: %v", input, f("warning: %v", warn))
	}

	if listing {
		err = prog.Listing(stdout)
		if err != nil {
			logger.Printf("%v", err)
			return 1
		}
	}

	rom := &io.Rom{Data: prog.Binary()}
	err = io.WriteFile(io.DirFS(filepath.Dir(output)), filepath.Base(output), rom)
	if err != nil {
		logger.Printf("%v: %v", output, err)
		return 1
	}

	translate.To(stdout, "Assembled %d instructions to %v", len(rom.Data), output)

	return 0
}

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}
