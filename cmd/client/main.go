package main

import (
	"flag"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/spellcast/internal/client"
	"github.com/palemoky/spellcast/internal/sound"
	"github.com/palemoky/spellcast/internal/ui"
)

func main() {
	serverAddr := flag.String("server", "localhost:1780", "server address")
	soundDir := flag.String("sounds", "assets/sounds", "directory of cue audio files")
	mute := flag.Bool("mute", false, "disable sound")
	flag.Parse()

	conn := client.New(fmt.Sprintf("ws://%s/ws", *serverAddr))

	var player *sound.Player
	if !*mute {
		player = sound.NewPlayer(*soundDir)
		defer player.Close()
	}

	p := tea.NewProgram(ui.NewModel(conn, player), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("client exited: %v", err)
	}
}
