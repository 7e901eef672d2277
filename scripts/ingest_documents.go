package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"alfredoptarigan/resume-insight/internal/config"
	"alfredoptarigan/resume-insight/internal/models"
	"alfredoptarigan/resume-insight/internal/repositories"
	"alfredoptarigan/resume-insight/internal/services"
)

// Walks a directory of job descriptions (.pdf, .docx, .txt), extracting each one
// through the analysis pipeline so the jd cache and the Qdrant index are warm.
func main() {
	dir := flag.String("dir", "./reference_docs/job_descriptions", "directory of job description files")
	flag.Parse()

	log.Println("🚀 Starting job description ingestion...")

	cfg := config.Load()
	ctx := context.Background()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	analyzer, jdIndex, err := services.NewAnalyzerFromConfig(ctx, cfg, repositories.NewCacheRepository(db), nil)
	if err != nil {
		log.Fatalf("❌ Failed to initialize analyzer: %v", err)
	}
	if jdIndex == nil {
		log.Println("⚠️  Job description index disabled, only the cache will be warmed")
	}

	entries, err := os.ReadDir(*dir)
	if err != nil {
		log.Fatalf("❌ Failed to read %s: %v", *dir, err)
	}

	successCount := 0
	failCount := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(*dir, entry.Name())
		mimeType, err := services.MimeTypeForFile(entry.Name())
		if err != nil {
			log.Printf("   ⏭️  Skipping %s: %v", entry.Name(), err)
			continue
		}

		log.Printf("\n📄 Processing: %s", entry.Name())

		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("   ❌ Failed to read file: %v", err)
			failCount++
			continue
		}

		doc := models.NewFileDocument(data, mimeType, entry.Name())
		if mimeType == "text/plain" {
			doc = models.NewTextDocument(string(data))
		}

		text, err := analyzer.ExtractJD(ctx, doc)
		if err != nil {
			log.Printf("   ❌ Failed to extract text: %v", err)
			failCount++
			continue
		}

		log.Printf("   ✅ Ingested %d characters (%s)", len(text), models.ContentHash(text)[:12])
		successCount++
	}

	// Summary
	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Ingestion Summary:")
	log.Printf("   ✅ Successful: %d documents", successCount)
	log.Printf("   ❌ Failed: %d documents", failCount)
	log.Println(strings.Repeat("=", 60))

	if failCount > 0 {
		log.Println("⚠️  Some documents failed to ingest. Please check the logs above.")
		os.Exit(1)
	}

	log.Println("✅ All documents ingested successfully!")
}
