// play is a live terminal player: portaudio for output, a status line with
// the event position, clip count and dropped notes, and 'q' to quit.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"atomicgo.dev/keyboard"
	"atomicgo.dev/keyboard/keys"
	"github.com/fatih/color"
	"github.com/gordonklaus/portaudio"

	"github.com/quietfanatic/midival"
	"github.com/quietfanatic/midival/bankfile"
	"github.com/quietfanatic/midival/midifile"
)

const (
	escape     = "\x1b["
	hideCursor = escape + "?25l"
	showCursor = escape + "?25h"
)

var (
	flagBank = flag.String("bank", "", "path to a bank manifest (YAML)")

	cyan   = color.New(color.FgCyan).SprintfFunc()
	yellow = color.New(color.FgYellow).SprintfFunc()
	green  = color.New(color.FgGreen).SprintFunc()
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("play: ")
	flag.Parse()

	if flag.NArg() == 0 {
		log.Fatal("missing MIDI filename")
	}
	if *flagBank == "" {
		log.Fatal("missing -bank")
	}

	midF, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	seq, err := midifile.Load(midF)
	if err != nil {
		log.Fatal(err)
	}

	bank, err := bankfile.Load(*flagBank)
	if err != nil {
		log.Fatal(err)
	}

	player := midival.NewPlayer()
	player.LoadBank(bank)
	if err := player.PlaySequence(seq); err != nil {
		log.Fatal(err)
	}

	if err := portaudio.Initialize(); err != nil {
		log.Fatal(err)
	}
	defer portaudio.Terminate()

	streamCB := func(out []int16) {
		player.GetAudio(out)
	}

	stream, err := portaudio.OpenDefaultStream(0, 2, float64(midival.SampleRate), portaudio.FramesPerBufferUnspecified, streamCB)
	if err != nil {
		log.Fatal(err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		log.Fatal(err)
	}
	defer stream.Stop()

	quit := make(chan struct{})

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, syscall.SIGINT)
	go func() {
		<-sigch
		close(quit)
	}()

	go func() {
		keyboard.Listen(func(key keys.Key) (bool, error) {
			if key.Code == keys.CtrlC || key.Code == keys.Escape {
				close(quit)
				return true, nil
			}
			if key.Code == keys.RuneKey && len(key.Runes) > 0 && key.Runes[0] == 'q' {
				close(quit)
				return true, nil
			}
			return false, nil
		})
	}()

	fmt.Print(hideCursor)
	defer fmt.Print(showCursor)

	for player.CurrentlyPlaying() {
		select {
		case <-quit:
			return
		default:
		}
		renderStatus(player)
	}
}

// renderStatus prints a one-line summary (current event index, clipped
// sample count, dropped notes) and overwrites it in place. It shows no
// per-channel voice activity.
func renderStatus(player *midival.Player) {
	pos := player.Position()
	stats := player.Stats()

	line := fmt.Sprintf("%s %d  %s %d  %s %d",
		cyan("event"), pos.EventIndex,
		yellow("clips"), stats.ClipCount,
		green("dropped"), stats.DroppedNotes)

	fmt.Print("\r" + line + escape + "K")
}
