package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/osse101/BrandishReveal_Go/internal/domain"
	"github.com/osse101/BrandishReveal_Go/internal/handler"
	"github.com/osse101/BrandishReveal_Go/internal/sse"
	"github.com/osse101/BrandishReveal_Go/internal/widget"
)

const slowResponse = time.Second

var errUsage = errors.New("invalid usage")

func widgetPath(id string, suffix string) string {
	return "/api/v1/widgets/" + id + suffix
}

func requireWidgetID(fs *flag.FlagSet) (string, error) {
	if fs.NArg() < 1 {
		return "", fmt.Errorf("%w: widget id required", errUsage)
	}
	return fs.Arg(0), nil
}

type HealthCommand struct{ c *client }

func (cmd *HealthCommand) Name() string        { return "health" }
func (cmd *HealthCommand) Description() string { return "Check server liveness and readiness" }

func (cmd *HealthCommand) Run(args []string) error {
	PrintHeader("Health Check (" + cmd.c.baseURL + ")")

	for _, path := range []string{"/healthz", "/readyz"} {
		start := time.Now()
		if err := cmd.c.do(context.Background(), http.MethodGet, path, nil, nil); err != nil {
			PrintError("%s failed: %v", path, err)
			return err
		}
		if d := time.Since(start); d > slowResponse {
			PrintWarning("%s slow response (%v)", path, d)
		} else {
			PrintSuccess("%s ok (%v)", path, d)
		}
	}
	return nil
}

type CreateCommand struct{ c *client }

func (cmd *CreateCommand) Name() string        { return "create" }
func (cmd *CreateCommand) Description() string { return "Create a widget: --mode grid|reel|wheel|digit [--game g] [--pool a,b,c]" }

func (cmd *CreateCommand) Run(args []string) error {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	mode := fs.String("mode", "", "reveal mode")
	game := fs.String("game", "", "game profile name")
	pool := fs.String("pool", "", "comma separated candidate ids")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *mode == "" {
		return fmt.Errorf("%w: --mode is required", errUsage)
	}

	req := handler.CreateWidgetRequest{Mode: *mode, Game: *game}
	for _, id := range splitList(*pool) {
		req.Pool = append(req.Pool, handler.PoolEntry{ID: id})
	}

	var resp handler.CreateWidgetResponse
	if err := cmd.c.do(context.Background(), http.MethodPost, "/api/v1/widgets", req, &resp); err != nil {
		return err
	}
	PrintSuccess("Created %s widget %s", resp.Mode, resp.WidgetID)
	PrintInfo("Events: %s%s", cmd.c.baseURL, resp.EventsPath)
	return nil
}

type PlayCommand struct{ c *client }

func (cmd *PlayCommand) Name() string { return "play" }
func (cmd *PlayCommand) Description() string {
	return "Start a reveal: <widget-id> [--cell n] [--digits 1,2,3] [--wait]"
}

func (cmd *PlayCommand) Run(args []string) error {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cell := fs.Int("cell", -1, "picked cell index (grid)")
	digits := fs.String("digits", "", "three picked digits (digit)")
	wait := fs.Bool("wait", false, "follow the event stream until the reveal ends")
	if err := fs.Parse(reorderFlags(args)); err != nil {
		return err
	}
	id, err := requireWidgetID(fs)
	if err != nil {
		return err
	}

	req := handler.PlayRequest{}
	if *cell >= 0 {
		req.CellIndex = cell
	}
	if *digits != "" {
		req.Digits, err = parseDigits(*digits)
		if err != nil {
			return err
		}
	}

	// Subscribe before playing so no frame is missed
	var done chan error
	if *wait {
		done = make(chan error, 1)
		connected := make(chan struct{})
		var once sync.Once
		go func() {
			done <- cmd.c.watch(context.Background(), id, func(evt streamEvent) bool {
				if evt.Type == sse.EventTypeConnected {
					once.Do(func() { close(connected) })
				}
				return printUntilEnd(evt)
			})
		}()
		select {
		case <-connected:
		case err := <-done:
			return err
		}
	}

	var resp handler.PlayResponse
	if err := cmd.c.do(context.Background(), http.MethodPost, widgetPath(id, "/play"), req, &resp); err != nil {
		return err
	}
	PrintSuccess("Reveal %s started", resp.SessionID)

	if done != nil {
		return <-done
	}
	return nil
}

type AckCommand struct{ c *client }

func (cmd *AckCommand) Name() string        { return "ack" }
func (cmd *AckCommand) Description() string { return "Acknowledge the finished reveal: <widget-id>" }

func (cmd *AckCommand) Run(args []string) error {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := requireWidgetID(fs)
	if err != nil {
		return err
	}
	if err := cmd.c.do(context.Background(), http.MethodPost, widgetPath(id, "/acknowledge"), nil, nil); err != nil {
		return err
	}
	PrintSuccess("Widget %s is idle", id)
	return nil
}

type StatusCommand struct{ c *client }

func (cmd *StatusCommand) Name() string        { return "status" }
func (cmd *StatusCommand) Description() string { return "Show widget state: <widget-id>" }

func (cmd *StatusCommand) Run(args []string) error {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := requireWidgetID(fs)
	if err != nil {
		return err
	}

	var status widget.Status
	if err := cmd.c.do(context.Background(), http.MethodGet, widgetPath(id, ""), nil, &status); err != nil {
		return err
	}
	pretty, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return err
	}
	PrintHeader("Widget " + status.WidgetID)
	fmt.Fprintln(out, string(pretty))
	return nil
}

type WatchCommand struct{ c *client }

func (cmd *WatchCommand) Name() string        { return "watch" }
func (cmd *WatchCommand) Description() string { return "Print a widget's event stream: <widget-id> [--until-end]" }

func (cmd *WatchCommand) Run(args []string) error {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	untilEnd := fs.Bool("until-end", false, "exit after the reveal stops or aborts")
	if err := fs.Parse(reorderFlags(args)); err != nil {
		return err
	}
	id, err := requireWidgetID(fs)
	if err != nil {
		return err
	}

	fn := printEvent
	if *untilEnd {
		fn = printUntilEnd
	}
	return cmd.c.watch(context.Background(), id, fn)
}

type DeleteCommand struct{ c *client }

func (cmd *DeleteCommand) Name() string        { return "delete" }
func (cmd *DeleteCommand) Description() string { return "Close and remove a widget: <widget-id>" }

func (cmd *DeleteCommand) Run(args []string) error {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := requireWidgetID(fs)
	if err != nil {
		return err
	}
	if err := cmd.c.do(context.Background(), http.MethodDelete, widgetPath(id, ""), nil, nil); err != nil {
		return err
	}
	PrintSuccess("Widget %s deleted", id)
	return nil
}

type ReloadCommand struct{ c *client }

func (cmd *ReloadCommand) Name() string        { return "reload-profiles" }
func (cmd *ReloadCommand) Description() string { return "Drop the server's cached presentation profiles" }

func (cmd *ReloadCommand) Run(args []string) error {
	if err := cmd.c.do(context.Background(), http.MethodPost, "/api/v1/admin/profiles/reload", nil, nil); err != nil {
		return err
	}
	PrintSuccess("Profiles reloaded")
	return nil
}

func printEvent(evt streamEvent) bool {
	if evt.Type == sse.EventTypeKeepalive {
		return true
	}
	PrintInfo("%s %s", evt.Type, evt.Data)
	return true
}

func printUntilEnd(evt streamEvent) bool {
	printEvent(evt)
	return evt.Type != domain.EventRevealStopped && evt.Type != domain.EventRevealAborted
}

func splitList(s string) []string {
	var items []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

func parseDigits(s string) ([]int, error) {
	parts := splitList(s)
	if len(parts) != domain.DigitCount {
		return nil, fmt.Errorf("%w: --digits needs %d values", errUsage, domain.DigitCount)
	}
	digits := make([]int, 0, len(parts))
	for _, p := range parts {
		d, err := strconv.Atoi(p)
		if err != nil || d < 0 || d > 9 {
			return nil, fmt.Errorf("%w: %q is not a digit", errUsage, p)
		}
		digits = append(digits, d)
	}
	return digits, nil
}

// reorderFlags moves a leading positional argument behind the flags so
// "play <id> --wait" parses like "play --wait <id>".
func reorderFlags(args []string) []string {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return args
	}
	return append(append([]string{}, args[1:]...), args[0])
}
