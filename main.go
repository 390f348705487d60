package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/gregLibert/desfire-read/pkg/config"
	"github.com/gregLibert/desfire-read/pkg/desfire"
	"github.com/gregLibert/desfire-read/pkg/pcsc"
	"github.com/gregLibert/desfire-read/pkg/render"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the read job description")
	flag.Parse()

	// --- 1. Configuration ---
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Error loading configuration: %s", err)
	}

	debugf := func(string, ...any) {}
	if cfg.Debug {
		debugf = log.Printf
	}

	// --- 2. Hardware Setup ---
	poller := pcsc.NewPoller(
		pcsc.WithReaderIndex(cfg.Reader.Index),
		pcsc.WithLogf(debugf),
	)

	engine := desfire.New(poller,
		desfire.WithLogf(debugf),
		desfire.WithTimeouts(cfg.Reader.PollTimeout.Std(), cfg.Reader.ExchangeTimeout.Std()),
	)

	// --- 3. Execution Flow ---

	// Step 1: Make sure a reader is attached before asking for a card.
	step1CheckReader(engine)

	// Step 2: Run the full secure read pipeline.
	payload := step2ReadFile(engine, cfg)

	// Step 3: Show the result in every view.
	step3Report(cfg, payload)

	fmt.Println("\n>> Read Finished Successfully")
}

// step1CheckReader aborts early when no reader is usable.
func step1CheckReader(engine *desfire.Engine) {
	fmt.Println("\n=============================================")
	fmt.Println(" Step 1: READER AVAILABILITY")
	fmt.Println("=============================================")

	if !engine.IsAvailable() {
		log.Fatal("No NFC reader available. Is pcscd running?")
	}
	fmt.Println(">> Reader attached and responding.")
}

// step2ReadFile waits for a card and runs selection, authentication and
// the enciphered read.
func step2ReadFile(engine *desfire.Engine, cfg *config.Config) string {
	fmt.Println("\n=============================================")
	fmt.Printf(" Step 2: SECURE READ (AID %s, file %s)\n", cfg.Read.ApplicationID, cfg.Read.FileID)
	fmt.Println(" Present a card to the reader...")
	fmt.Println("=============================================")

	payload, err := engine.ReadSecureFile(desfire.ReadRequest{
		FirstBytePosition: cfg.Read.FirstBytePosition,
		LastBytePosition:  cfg.Read.LastBytePosition,
		ApplicationID:     cfg.Read.ApplicationID,
		FileID:            cfg.Read.FileID,
		KeyNumber:         cfg.Read.KeyNumber,
		AuthKey:           cfg.Read.AuthKey,
	})
	if err != nil {
		log.Fatalf("Read failed (%s): %s", desfire.KindOf(err), err)
	}

	fmt.Printf(">> Got %d payload bytes.\n", len(payload)/2)
	return payload
}

// step3Report prints the hex, binary and ASCII views of the payload.
func step3Report(cfg *config.Config, payload string) {
	fmt.Println("\n=============================================")
	fmt.Println(" Step 3: RESULT")
	fmt.Println("=============================================")

	report := &render.Report{
		ApplicationID: cfg.Read.ApplicationID,
		FileID:        cfg.Read.FileID,
		Payload:       payload,
	}
	fmt.Println(report.Describe())
}
