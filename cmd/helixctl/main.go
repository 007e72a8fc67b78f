// Package main provides the helixctl admin utility: roster import and
// connectivity checks, run out-of-band from the bot process.
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ShinaSIT/Helix-Telebot/internal/config"
	"github.com/ShinaSIT/Helix-Telebot/internal/constants"
	"github.com/ShinaSIT/Helix-Telebot/internal/database"
	"github.com/ShinaSIT/Helix-Telebot/internal/domain"
	"github.com/ShinaSIT/Helix-Telebot/internal/logger"
	"github.com/ShinaSIT/Helix-Telebot/internal/repository"
	"github.com/ShinaSIT/Helix-Telebot/internal/sheets"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "helixctl",
	Short: "Admin utility for the Helix event bot",
}

var importCmd = &cobra.Command{
	Use:   "import-users <csv-file>",
	Short: "Import a user roster from CSV into the local store",
	Long: `Import users from a CSV with the header
telegram_id,name,username,role,alliance,group. Existing users with the same
telegram id are overwritten.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify spreadsheet and database connectivity",
	RunE:  runCheck,
}

func main() {
	rootCmd.AddCommand(importCmd, checkCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	log := logger.New()
	cfg, err := config.Load(log)
	if err != nil {
		return err
	}

	db, err := database.New(cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	repo := repository.NewUserRepository(db, log)
	ctx := context.Background()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("failed to read CSV header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"telegram_id", "name", "role"} {
		if _, ok := col[required]; !ok {
			return fmt.Errorf("CSV is missing required column %q", required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	imported := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read CSV record: %w", err)
		}

		id, err := strconv.ParseInt(field(record, "telegram_id"), 10, 64)
		if err != nil || id <= 0 {
			log.Warn().Strs("record", record).Msg("skipping record with invalid telegram_id")
			continue
		}

		user := &domain.User{
			TelegramID: id,
			Name:       field(record, "name"),
			Username:   strings.TrimPrefix(field(record, "username"), "@"),
			Role:       field(record, "role"),
			Alliance:   field(record, "alliance"),
			Group:      field(record, "group"),
			HP:         constants.DefaultHP,
			Active:     true,
		}
		if user.Alliance == "" && !cfg.IsAdminRole(user.Role) {
			user.Alliance = user.Role
		}

		if err := repo.Upsert(ctx, user); err != nil {
			return fmt.Errorf("failed to import user %d: %w", id, err)
		}
		imported++
	}

	fmt.Printf("Imported %d users into %s\n", imported, cfg.DBPath)
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	log := logger.New()
	cfg, err := config.Load(log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.RequestTimeout)
	defer cancel()

	client, err := sheets.NewClient(cfg)
	if err != nil {
		return err
	}
	titles, err := client.Worksheets(ctx)
	if err != nil {
		return fmt.Errorf("spreadsheet check failed: %w", err)
	}
	fmt.Printf("Spreadsheet OK: %d worksheets (%s)\n", len(titles), strings.Join(titles, ", "))

	ledger, err := client.ReadTable(ctx, constants.LedgerSheet)
	if err != nil {
		return fmt.Errorf("ledger read failed: %w", err)
	}
	fmt.Printf("Ledger OK: %d rows, headers %v\n", len(ledger.Rows), ledger.Headers)

	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("database check failed: %w", err)
	}
	defer db.Close()
	fmt.Println("Database OK:", cfg.DBPath)

	return nil
}
