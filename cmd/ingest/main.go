package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"
	"github.com/siherrmann/docqa"
	"github.com/siherrmann/docqa/helper"
	"github.com/siherrmann/docqa/model"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	config, err := model.NewConfigFromEnv()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	dbConfig, err := helper.NewDatabaseConfiguration()
	if err != nil {
		log.Fatalf("invalid database configuration: %v", err)
	}

	qa, err := docqa.NewDocQA(config, dbConfig)
	if err != nil {
		log.Fatalf("failed to initialize: %v", err)
	}
	defer qa.Close()

	ingestor := qa.NewIngestor()

	var bar *progressbar.ProgressBar
	ingestor.SetProgress(func(processed, total int, file string) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("Indexing"),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}
		bar.Set(processed)
	})

	report, err := ingestor.Run(context.Background())
	if err != nil {
		log.Fatalf("ingestion aborted: %v", err)
	}

	fmt.Printf("ingestion finished -> files: %d, chunks: %d, stored: %d\n",
		report.Files, report.Chunks, report.Stored)
}
