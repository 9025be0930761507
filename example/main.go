package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/Rana718/Forge/internal/diagram"
	"github.com/Rana718/Forge/internal/engine"
	"github.com/Rana718/Forge/internal/financial"
	"github.com/Rana718/Forge/internal/metadata"
	"github.com/Rana718/Forge/internal/progress"
)

func main() {
	eng := engine.New(42)
	eng.RegisterCatalog(financial.Catalog())
	eng.Monitor().AddCallback(progress.ConsoleCallback)

	ctx := context.Background()

	// Generate a consistent slice of the banking domain: customers first,
	// then the tables whose foreign keys draw from them.
	data, err := eng.GeneratePlan(ctx, map[string]int{
		"customer":    5,
		"account":     10,
		"transaction": 25,
	})
	if err != nil {
		log.Fatal("generation failed: ", err)
	}

	for _, name := range []string{"customer", "account", "transaction"} {
		validator, err := eng.Validator(name)
		if err != nil {
			log.Fatal(err)
		}
		report := validator.Validate(data[name])
		log.Printf("%s: %s", name, report.Summary())
	}

	sample := data["transaction"][0]
	log.Printf("sample transaction: account=%v amount=%v channel=%v",
		sample["account_id"], sample["amount"], sample["channel"])

	catalog := financial.Catalog()
	var tables []metadata.Table
	for _, name := range []string{"customer", "account", "transaction"} {
		t, _ := catalog.Get(name)
		tables = append(tables, t)
	}

	fmt.Println()
	fmt.Println("Entity diagram (Mermaid):")
	if err := diagram.NewMermaidFormatter(os.Stdout, diagram.DefaultOptions()).Format(tables); err != nil {
		log.Fatal(err)
	}
}
