package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"triage-ai/internal/adapter/ticket"
	"triage-ai/internal/domain"
	"triage-ai/internal/infra/logger"
)

// runTickets handles the operator-facing `tickets` subcommands. They talk
// to the store directly, no model involved.
func runTickets(flags cliFlags, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing subcommand (list, status)")
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	log, logCloser, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logCloser()

	store, err := ticket.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	defer store.Close()

	ctx := context.Background()

	switch args[0] {
	case "list":
		return listTickets(ctx, store)
	case "status":
		if len(args) < 2 {
			return fmt.Errorf("usage: tickets status <number>")
		}
		number, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ticket number %q", args[1])
		}
		return showStatus(ctx, store, number)
	case "update":
		if len(args) < 3 {
			return fmt.Errorf("usage: tickets update <number> <status>")
		}
		number, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ticket number %q", args[1])
		}
		return updateTicket(ctx, store, number, args[2])
	default:
		log.Debug("unknown tickets subcommand", "subcommand", args[0])
		return fmt.Errorf("unknown subcommand %q (want list, status, or update)", args[0])
	}
}

func listTickets(ctx context.Context, store domain.TicketStore) error {
	tickets, err := store.List(ctx)
	if err != nil {
		return err
	}
	if len(tickets) == 0 {
		fmt.Println("no tickets")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NUMBER\tSTATUS\tCREATED\tDESCRIPTION")
	for _, t := range tickets {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			t.Number, t.Status, t.CreatedAt.Format("2006-01-02 15:04"), t.Description)
	}
	return w.Flush()
}

func updateTicket(ctx context.Context, store domain.TicketStore, number int64, status string) error {
	err := store.UpdateStatus(ctx, number, status)
	if errors.Is(err, domain.ErrTicketNotFound) {
		fmt.Printf("ticket %d not found\n", number)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("ticket %d: %s\n", number, status)
	return nil
}

func showStatus(ctx context.Context, store domain.TicketStore, number int64) error {
	status, err := store.GetTicketStatus(ctx, number)
	if errors.Is(err, domain.ErrTicketNotFound) {
		fmt.Printf("ticket %d not found\n", number)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("ticket %d: %s\n", number, status)
	return nil
}
