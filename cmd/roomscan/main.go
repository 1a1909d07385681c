package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/nwest/roomscan/internal/journal"
	"github.com/nwest/roomscan/internal/scan"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	fs := ff.NewFlagSet("roomscan")
	var (
		root        = fs.StringLong("root", ".", "Scan store root directory")
		journalPath = fs.StringLong("journal", "roomscan-journal.db", "Attempt journal database path")
		_           = fs.StringLong("config", "", "Config file path")
		showVersion = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("ROOMSCAN"),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	args := fs.GetArgs()
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintln(os.Stderr, "commands: list | show <id> | rename <id> <name> | delete <id> | attempts [attempt-id]")
		os.Exit(1)
	}

	store := scan.NewStore(*root, scan.NewGeometryExporter())
	service := scan.NewService(store)

	var err error
	switch args[0] {
	case "list":
		err = listScans(service, store)
	case "show":
		err = withID(args, func(id string) error { return showScan(service, store, id) })
	case "rename":
		if len(args) < 3 {
			err = fmt.Errorf("usage: rename <id> <name>")
			break
		}
		_, err = service.Rename(args[1], strings.Join(args[2:], " "))
	case "delete":
		err = withID(args, service.Delete)
	case "attempts":
		err = listAttempts(*journalPath, args[1:])
	default:
		err = fmt.Errorf("unknown command: %s", args[0])
	}
	if err != nil {
		slog.Error("Command failed", "command", args[0], "error", err)
		os.Exit(1)
	}
}

func withID(args []string, fn func(id string) error) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: %s <id>", args[0])
	}
	return fn(args[1])
}

func listScans(service *scan.Service, store *scan.Store) error {
	records, err := service.List()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("no scans")
		return nil
	}
	for _, r := range records {
		state := ""
		if !store.HasModel(r.ID) {
			state = "  (incomplete: model missing)"
		}
		fmt.Printf("%s  %s  %q%s\n", r.ID, r.DateCreated.Format("2006-01-02 15:04"), r.Name, state)
	}
	return nil
}

func showScan(service *scan.Service, store *scan.Store, id string) error {
	r, err := service.Load(id)
	if err != nil {
		return err
	}
	fmt.Printf("id:       %s\n", r.ID)
	fmt.Printf("name:     %s\n", r.Name)
	fmt.Printf("created:  %s\n", r.DateCreated.Format("2006-01-02 15:04:05"))
	fmt.Printf("surfaces: %d walls, %d doors, %d windows, %d floors, %d openings\n",
		len(r.Walls), len(r.Doors), len(r.Windows), len(r.Floors), len(r.Openings))
	fmt.Printf("objects:  %d\n", len(r.Objects))
	if store.HasModel(id) {
		fmt.Printf("model:    %s\n", store.ModelPath(id))
	} else {
		fmt.Println("model:    missing (incomplete scan)")
	}
	return nil
}

func listAttempts(path string, args []string) error {
	j, err := journal.NewBolt(path)
	if err != nil {
		return err
	}
	defer j.Close()

	var entries []journal.Entry
	if len(args) > 0 {
		entries, err = j.Attempt(args[0])
	} else {
		entries, err = j.Entries()
	}
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no attempts recorded")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %s  %s -> %s  %s\n", e.At.Format("2006-01-02 15:04:05"), e.AttemptID, e.From, e.To, e.Note)
	}
	return nil
}
