// Command sonido-inspect analyzes a single audio file and prints its
// structural, metadata and acoustic-feature report.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/RyanBlaney/sonido-inspect/analyze"
	"github.com/RyanBlaney/sonido-inspect/logging"
)

func main() {
	jsonOut := flag.Bool("json", false, "print the full report (including visualization data) as JSON")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: sonido-inspect [-json] [-v] <audio_file>")
		os.Exit(1)
	}

	if *verbose {
		logging.SetLevel(logging.DebugLevel)
	} else {
		logging.SetGlobalLogger(&logging.NoOpLogger{})
	}

	path := flag.Arg(0)

	report, err := analyze.Analyze(context.Background(), path, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error analyzing %s: %v\n", path, err)
		os.Exit(1)
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding report: %v\n", err)
			os.Exit(1)
		}
		return
	}

	printReport(report)
}

func printReport(r *analyze.Report) {
	fmt.Printf("File Name: %s\n", r.File.Name)
	fmt.Printf("Audio File Format: %s\n", r.File.Format)
	fmt.Printf("File Size: %d bytes\n", r.File.Size)
	fmt.Printf("Last Modified: %s\n", r.File.Modified.Format("2006-01-02 15:04:05"))
	fmt.Printf("File Hash: %s\n", r.File.Hash)

	fmt.Println()
	fmt.Printf("Artist: %s\n", r.Metadata.Artist)
	fmt.Printf("Title: %s\n", r.Metadata.Title)
	fmt.Printf("Album: %s\n", r.Metadata.Album)
	fmt.Printf("Year: %s\n", r.Metadata.Year)
	fmt.Printf("Genre: %s\n", r.Metadata.Genre)

	f := r.Features
	fmt.Println()
	fmt.Printf("File Duration: %.2f seconds\n", f.Duration)
	fmt.Printf("Sample Rate: %d Hz\n", f.SampleRate)
	fmt.Printf("Sampling Frequency: %d Hz\n", f.SamplingFrequency)
	fmt.Printf("Number of Channels: %d\n", f.Channels)
	fmt.Printf("Maximum Amplitude: %s\n", formatScalar(f.MaxAmplitude, "%.4f"))
	fmt.Printf("Average Amplitude: %s\n", formatScalar(f.AverageAmplitude, "%.4f"))
	fmt.Printf("Minimum Frequency: %s\n", formatScalar(f.MinFrequency, "%.2f Hz"))
	fmt.Printf("Maximum Frequency: %s\n", formatScalar(f.MaxFrequency, "%.2f Hz"))

	fmt.Println()
	fmt.Printf("Tempo: %s\n", formatScalar(f.Tempo, "%.2f BPM"))
	fmt.Printf("Average Loudness: %s\n", formatScalar(f.AverageLoudness, "%.2f dB"))

	fmt.Println()
	fmt.Println("Chroma Features:")
	if !f.Chroma.Available {
		fmt.Printf("  unavailable (%s)\n", f.Chroma.Reason)
		return
	}
	for i, label := range f.Chroma.Labels {
		fmt.Printf("%s: %.3f\n", label, f.Chroma.Values[i])
	}
}

func formatScalar(s analyze.Scalar, format string) string {
	if !s.Available {
		return fmt.Sprintf("unavailable (%s)", s.Reason)
	}
	return fmt.Sprintf(format, s.Value)
}
