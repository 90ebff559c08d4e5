// This tool prints the format information of the passed wav files.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/cwbudde/wavefile"
)

const missingPathMessage = "You must pass the path of at least one file to inspect"

var errMissingPath = errors.New("missing path argument")

func main() {
	err := run(os.Args[1:], os.Stdout)
	if err == nil {
		return
	}

	if errors.Is(err, errMissingPath) {
		fmt.Println(missingPathMessage)
		os.Exit(1)
	}

	log.Fatal(err)
}

func run(args []string, out io.Writer) error {
	if len(args) < 1 {
		return errMissingPath
	}

	for _, path := range args {
		f, err := wavefile.Open(path)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "File: %s\n%s\n", path, f)

		if rate := f.SampleRate(); rate > 0 {
			dur := time.Duration(float64(f.NumFrames()) / float64(rate) * float64(time.Second))
			fmt.Fprintf(out, "Duration: %s\n", dur)
		}

		if err := f.Close(); err != nil {
			return err
		}
	}

	return nil
}
