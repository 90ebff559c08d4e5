package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/cwbudde/wavefile"
)

func main() {
	err := run(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	flagSet := flag.NewFlagSet("gen-sine", flag.ContinueOnError)

	output := flagSet.String("output", "output.wav", "filename to write to")
	frequency := flagSet.Float64("frequency", 440, "frequency in hertz to generate")
	length := flagSet.Float64("length", 5, "length in seconds of output file")
	rate := flagSet.Int("rate", 44100, "sample rate in hertz")
	bits := flagSet.Int("bits", 16, "valid bits per sample, 2 to 64")

	err := flagSet.Parse(args)
	if err != nil {
		return err
	}

	numFrames := int64(float64(*rate) * *length)

	log.Printf("generating a %f sec sine wav at %f hz, %d bits", *length, *frequency, *bits)

	f, err := wavefile.Create(*output, wavefile.Format{
		NumChannels: 1,
		NumFrames:   numFrames,
		SampleRate:  *rate,
		ValidBits:   *bits,
	})
	if err != nil {
		return fmt.Errorf("error creating %s: %w", *output, err)
	}

	frame := make([]float64, 1)
	for i := int64(0); i < numFrames; i++ {
		frame[0] = math.Sin(float64(i) / float64(*rate) * *frequency * 2 * math.Pi)

		if _, err := wavefile.WriteFrames(f, frame, 1); err != nil {
			f.Close()

			return err
		}
	}

	return f.Close()
}
