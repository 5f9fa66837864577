// render renders a MIDI file against a patch bank to a WAVE file.
// Uses portaudio-free, non-realtime rendering - see cmd/play for live output.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/quietfanatic/midival"
	"github.com/quietfanatic/midival/bankfile"
	"github.com/quietfanatic/midival/midifile"
	"github.com/quietfanatic/midival/wavout"
)

const framesPerChunk = 2048

func main() {
	log.SetFlags(0)
	log.SetPrefix("render: ")

	bankPath := flag.String("bank", "", "path to a bank manifest (YAML)")
	outPath := flag.String("out", "", "output WAVE file path")
	flag.Parse()

	if flag.NArg() == 0 {
		log.Fatal("missing MIDI filename")
	}
	if *bankPath == "" {
		log.Fatal("missing -bank")
	}
	if *outPath == "" {
		log.Fatal("missing -out")
	}

	midF, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	seq, err := midifile.Load(midF)
	if err != nil {
		log.Fatal(err)
	}

	bank, err := bankfile.Load(*bankPath)
	if err != nil {
		log.Fatal(err)
	}

	p := midival.NewPlayer()
	p.LoadBank(bank)
	if err := p.PlaySequence(seq); err != nil {
		log.Fatal(err)
	}

	outF, err := os.Create(*outPath)
	if err != nil {
		log.Fatal(err)
	}
	defer outF.Close()

	w, err := wavout.NewWriter(outF, midival.SampleRate)
	if err != nil {
		log.Fatal(err)
	}

	buf := make([]int16, framesPerChunk*2)
	for p.CurrentlyPlaying() {
		p.GetAudio(buf)
		if err := w.WriteFrame(buf); err != nil {
			log.Fatal(err)
		}
	}

	if _, err := w.Finish(); err != nil {
		log.Fatal(err)
	}

	stats := p.Stats()
	log.Printf("done: %d samples clipped, %d notes dropped", stats.ClipCount, stats.DroppedNotes)
}
