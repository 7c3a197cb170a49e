package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/coder/websocket"

	"github.com/politicard/politicard/internal/event"
	"github.com/politicard/politicard/internal/game"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "create":
		runCreate(os.Args[2:])
	case "join":
		runJoin(os.Args[2:])
	case "ready":
		runReady(os.Args[2:])
	case "play":
		runPlay(os.Args[2:])
	case "select":
		runSelect(os.Args[2:])
	case "pass":
		runPass(os.Args[2:])
	case "state":
		runState(os.Args[2:])
	case "scenario":
		runScenario(os.Args[2:])
	case "watch":
		runWatch(os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  politicard create [--server URL] [--game ID]")
	fmt.Println("  politicard join   --game ID --player ID [--server URL]")
	fmt.Println("  politicard ready  --game ID --player ID [--server URL]")
	fmt.Println("  politicard play   --game ID --player ID --field N --card N [--back] [--server URL]")
	fmt.Println("  politicard select --game ID --player ID --selection ID --cards c-1,c-2 [--server URL]")
	fmt.Println("  politicard pass   --game ID --player ID [--server URL]")
	fmt.Println("  politicard state  --game ID [--player ID] [--server URL]")
	fmt.Println("  politicard scenario --game ID --name simple_test [--server URL]")
	fmt.Println("  politicard watch  --game ID [--server URL]")
	fmt.Println()
	fmt.Println("Field positions: 0=TOP 1=LEFT 2=RIGHT 3=HELP 4=SP")
}

func commonFlags(fs *flag.FlagSet) (server, gameID, playerID *string) {
	server = fs.String("server", "http://localhost:8080", "server base URL")
	gameID = fs.String("game", "", "game ID")
	playerID = fs.String("player", "", "player ID")
	return
}

func runCreate(args []string) {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	server, gameID, _ := commonFlags(fs)
	fs.Parse(args)

	out := post(*server, "/api/games", map[string]string{"gameId": *gameID})
	fmt.Println(out)
}

func runJoin(args []string) {
	fs := flag.NewFlagSet("join", flag.ExitOnError)
	server, gameID, playerID := commonFlags(fs)
	fs.Parse(args)
	requireGamePlayer(*gameID, *playerID)

	out := post(*server, "/api/games/"+*gameID+"/join", map[string]string{"playerId": *playerID})
	fmt.Println(out)
}

func runReady(args []string) {
	fs := flag.NewFlagSet("ready", flag.ExitOnError)
	server, gameID, playerID := commonFlags(fs)
	fs.Parse(args)
	requireGamePlayer(*gameID, *playerID)

	out := post(*server, "/api/games/"+*gameID+"/ready", map[string]string{"playerId": *playerID})
	fmt.Println(out)
}

func runPlay(args []string) {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	server, gameID, playerID := commonFlags(fs)
	field := fs.Int("field", -1, "field position (0-4)")
	card := fs.Int("card", -1, "hand index")
	back := fs.Bool("back", false, "play face-down")
	fs.Parse(args)
	requireGamePlayer(*gameID, *playerID)

	actionType := game.ActionPlayCard
	if *back {
		actionType = game.ActionPlayCardBack
	}
	out := post(*server, "/api/games/"+*gameID+"/action", map[string]any{
		"playerId": *playerID,
		"action": game.Action{
			Type:     actionType,
			FieldIdx: *field,
			CardIdx:  *card,
		},
	})
	fmt.Println(out)
}

func runSelect(args []string) {
	fs := flag.NewFlagSet("select", flag.ExitOnError)
	server, gameID, playerID := commonFlags(fs)
	selection := fs.String("selection", "", "selection ID")
	cards := fs.String("cards", "", "comma-separated chosen card IDs")
	fs.Parse(args)
	requireGamePlayer(*gameID, *playerID)

	var cardIDs []string
	for _, id := range strings.Split(*cards, ",") {
		if id != "" {
			cardIDs = append(cardIDs, id)
		}
	}
	out := post(*server, "/api/games/"+*gameID+"/action", map[string]any{
		"playerId": *playerID,
		"action": game.Action{
			Type:            game.ActionSelectCard,
			SelectionID:     *selection,
			SelectedCardIDs: cardIDs,
		},
	})
	fmt.Println(out)
}

func runPass(args []string) {
	fs := flag.NewFlagSet("pass", flag.ExitOnError)
	server, gameID, playerID := commonFlags(fs)
	fs.Parse(args)
	requireGamePlayer(*gameID, *playerID)

	out := post(*server, "/api/games/"+*gameID+"/action", map[string]any{
		"playerId": *playerID,
		"action":   game.Action{Type: game.ActionPass},
	})
	fmt.Println(out)
}

func runState(args []string) {
	fs := flag.NewFlagSet("state", flag.ExitOnError)
	server, gameID, playerID := commonFlags(fs)
	fs.Parse(args)
	if *gameID == "" {
		fmt.Fprintln(os.Stderr, "Error: --game is required")
		os.Exit(1)
	}

	url := *server + "/api/games/" + *gameID
	if *playerID != "" {
		url += "?playerId=" + *playerID
	}
	resp, err := http.Get(url)
	if err != nil {
		fatal(err)
	}
	defer resp.Body.Close()
	io.Copy(os.Stdout, resp.Body)
	fmt.Println()
}

func runScenario(args []string) {
	fs := flag.NewFlagSet("scenario", flag.ExitOnError)
	server, gameID, _ := commonFlags(fs)
	name := fs.String("name", "simple_test", "scenario name")
	fs.Parse(args)
	if *gameID == "" {
		fmt.Fprintln(os.Stderr, "Error: --game is required")
		os.Exit(1)
	}

	out := post(*server, "/api/games/"+*gameID+"/scenario", map[string]string{"name": *name})
	fmt.Println(out)
}

// runWatch streams the game's events and prints them one line each.
func runWatch(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	server, gameID, _ := commonFlags(fs)
	fs.Parse(args)
	if *gameID == "" {
		fmt.Fprintln(os.Stderr, "Error: --game is required")
		os.Exit(1)
	}

	wsURL := "ws" + (*server)[len("http"):] + "/ws/games/" + *gameID
	ctx := context.Background()
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		fatal(err)
	}
	defer conn.CloseNow()

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		var ev event.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			continue
		}
		fmt.Println(event.FormatEvent(ev))
	}
}

func requireGamePlayer(gameID, playerID string) {
	if gameID == "" || playerID == "" {
		fmt.Fprintln(os.Stderr, "Error: --game and --player are required")
		os.Exit(1)
	}
}

func post(server, path string, body any) string {
	data, err := json.Marshal(body)
	if err != nil {
		fatal(err)
	}
	resp, err := http.Post(server+path, "application/json", bytes.NewReader(data))
	if err != nil {
		fatal(err)
	}
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	if err != nil {
		fatal(err)
	}
	return string(out)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
