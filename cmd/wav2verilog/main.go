// This tool converts a wav file into a Verilog ROM data file: one output
// code per sample, mapped from the sample's decibel level.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/cwbudde/wavefile"
	"github.com/cwbudde/wavefile/dbmap"
	"github.com/cwbudde/wavefile/verilog"
)

// framesPerChunk is the number of frames pulled per read.
const framesPerChunk = 1024

var errUsage = errors.New("usage: wav2verilog [flags] <input.wav> <output>")

func main() {
	err := run(os.Args[1:], os.Stdout)
	if err == nil {
		return
	}

	if errors.Is(err, errUsage) {
		fmt.Println(errUsage)
		os.Exit(1)
	}

	log.Fatal(err)
}

func run(args []string, out io.Writer) error {
	flagSet := flag.NewFlagSet("wav2verilog", flag.ContinueOnError)

	format := flagSet.String("format", "binary", `output format, "binary" or "hex"`)
	bitWidth := flagSet.Int("bit-width", 0, "zero-pad each output code to this many digits")
	mapPath := flagSet.String("map", "", "decibel level to output code map file")

	err := flagSet.Parse(args)
	if err != nil {
		return err
	}

	if flagSet.NArg() < 2 {
		return errUsage
	}

	base, err := verilog.ParseBase(*format)
	if err != nil {
		return err
	}

	codes := &dbmap.Map{}
	if *mapPath != "" {
		codes, err = dbmap.Load(*mapPath)
		if err != nil {
			return err
		}
	}

	return convert(flagSet.Arg(0), flagSet.Arg(1), base, *bitWidth, codes, out)
}

func convert(wavPath, outPath string, base verilog.Base, bitWidth int, codes *dbmap.Map, out io.Writer) error {
	f, err := wavefile.Open(wavPath)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintf(out, "File: %s\n%s\n", wavPath, f)

	outFile, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	defer outFile.Close()

	w := bufio.NewWriter(outFile)

	numChannels := f.NumChannels()
	buffer := make([]float64, numChannels*framesPerChunk)

	var (
		count    int
		minLevel = 1.0
		maxLevel = 0.0
	)

	for {
		n, err := wavefile.ReadFrames(f, buffer, framesPerChunk)
		if err != nil {
			return err
		}

		if n == 0 {
			break
		}

		for _, sample := range buffer[:n*numChannels] {
			// map [-1,1] onto [0,1] before taking the level
			amplitude := (sample + 1) / 2

			code, err := codes.Code(dbmap.Decibel(amplitude))
			if err != nil {
				return err
			}

			literal, err := verilog.FormatLiteral(code, base, bitWidth)
			if err != nil {
				return err
			}

			if _, err := fmt.Fprintln(w, literal); err != nil {
				return fmt.Errorf("failed to write output code: %w", err)
			}

			minLevel = min(minLevel, amplitude)
			maxLevel = max(maxLevel, amplitude)
			count++
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", outPath, err)
	}

	if err := outFile.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", outPath, err)
	}

	fmt.Fprintf(out, "Min decibel: %f\n", dbmap.Decibel(minLevel))
	fmt.Fprintf(out, "Max decibel: %f\n", dbmap.Decibel(maxLevel))
	fmt.Fprintf(out, "Output code count: %d\n", count)

	return f.Close()
}
