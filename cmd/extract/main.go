package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"contactiq/internal/aggregator"
	"contactiq/internal/config"
	"contactiq/internal/connector"
	"contactiq/internal/enrichment"
	"contactiq/internal/export"
	"contactiq/internal/storage"
)

func main() {
	mailboxPath := flag.String("mailbox", "", "Path to an .mbox file, .eml file or directory of .eml files")
	imapServer := flag.String("imap", "", "IMAP server hostname")
	imapPort := flag.Int("imap-port", 993, "IMAP server port")
	account := flag.String("account", "", "Owner email address for the source mailbox")
	useAccountsFile := flag.Bool("accounts", false, "Extract from every account in the accounts file")
	daysBack := flag.Int("days-back", 30, "Days of history to extract")
	maxMessages := flag.Int("max-messages", 1000, "Maximum messages per source")
	enrich := flag.Bool("enrich", false, "Enrich contacts after aggregation")
	exportFormat := flag.String("export-format", "", "Export format: csv or json")
	outputFile := flag.String("output", "", "Export output file (defaults to stdout)")
	flag.Parse()

	cfg := config.Load()
	logger := cfg.SetupLogger()

	sources, err := buildSources(cfg, logger, *mailboxPath, *imapServer, *imapPort, *account, *useAccountsFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid source configuration")
	}
	if len(sources) == 0 {
		fmt.Println("Usage:")
		fmt.Println("  Extract from mbox:      extract -mailbox inbox.mbox -account me@example.com")
		fmt.Println("  Extract EML directory:  extract -mailbox ./mail -account me@example.com")
		fmt.Println("  Extract over IMAP:      extract -imap imap.example.com -account me@example.com")
		fmt.Println("  Extract all accounts:   extract -accounts")
		fmt.Println("  Enrich and export:      extract -mailbox inbox.mbox -account me@example.com -enrich -export-format csv -output contacts.csv")
		os.Exit(1)
	}

	ctx := context.Background()
	opts := connector.Options{DaysBack: *daysBack, MaxMessages: *maxMessages}
	agg := aggregator.New(logger)

	for _, source := range sources {
		records, err := source.Extract(ctx, opts)
		if err != nil {
			logger.Error().Err(err).Str("account", source.AccountID()).Msg("extraction failed")
			continue
		}
		agg.IngestBatch(records, source.AccountID())
	}

	merged := agg.MergeDuplicates(cfg.MergeThreshold)
	accepted, rejected := agg.Counts()
	logger.Info().
		Int("contacts", agg.Len()).
		Int("accepted", accepted).
		Int("rejected", rejected).
		Int("merged", merged).
		Msg("aggregation complete")

	if *enrich {
		enricher := enrichment.New(logger, cfg.EnrichmentBudget,
			enrichment.NewDomainInference(),
			enrichment.NewAIAnalyzer(cfg.OpenAIKey, cfg.OpenAIModel),
		)
		enricher.EnrichAll(ctx, agg.Contacts())
	}

	store, err := storage.New(cfg.DatabasePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open contact database")
	}
	defer store.Close()

	if err := store.SaveAll(ctx, agg.Contacts()); err != nil {
		logger.Fatal().Err(err).Msg("failed to persist contacts")
	}
	logger.Info().Int("contacts", agg.Len()).Str("database", cfg.DatabasePath).Msg("contacts saved")

	if *exportFormat != "" {
		if err := exportContacts(agg, *exportFormat, *outputFile); err != nil {
			logger.Fatal().Err(err).Msg("export failed")
		}
	}
}

// buildSources resolves the connector set from flags, or from the accounts
// file when -accounts is given.
func buildSources(cfg *config.Config, logger zerolog.Logger, mailboxPath, imapServer string, imapPort int, account string, useAccountsFile bool) ([]connector.Source, error) {
	if useAccountsFile {
		accounts, err := cfg.LoadAccounts()
		if err != nil {
			return nil, err
		}
		var sources []connector.Source
		for _, acct := range accounts {
			switch strings.ToLower(acct.Provider) {
			case "mailbox":
				sources = append(sources, connector.NewMailboxSource(acct.Path, acct.Email, logger))
			default:
				port := acct.Port
				if port == 0 {
					port = 993
				}
				sources = append(sources, connector.NewIMAPSource(acct.Server, port, acct.Email, acct.Password(), logger))
			}
		}
		return sources, nil
	}

	if mailboxPath == "" && imapServer == "" {
		return nil, nil
	}
	if account == "" {
		return nil, fmt.Errorf("-account is required with -mailbox or -imap")
	}

	if mailboxPath != "" {
		return []connector.Source{connector.NewMailboxSource(mailboxPath, account, logger)}, nil
	}

	password := os.Getenv("IMAP_PASSWORD")
	if password == "" {
		return nil, fmt.Errorf("IMAP_PASSWORD environment variable not set")
	}
	return []connector.Source{connector.NewIMAPSource(imapServer, imapPort, account, password, logger)}, nil
}

func exportContacts(agg *aggregator.Aggregator, format, outputFile string) error {
	exporter, err := export.NewExporter(format)
	if err != nil {
		return err
	}

	out := os.Stdout
	if outputFile != "" {
		file, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		out = file
	}

	return exporter.Export(agg.Contacts(), out)
}
