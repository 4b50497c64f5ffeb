package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/annohub/annotation-platform/internal/api"
	"github.com/annohub/annotation-platform/internal/client"
	"github.com/annohub/annotation-platform/internal/config"
	"github.com/annohub/annotation-platform/internal/logger"
	"github.com/annohub/annotation-platform/internal/repository"
	"github.com/annohub/annotation-platform/internal/storage"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file, using environment")
	}

	cfg := config.Load()

	db, err := repository.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatal("Error trying to initialize DB:", err)
	}
	defer db.Close()

	blobs, err := storage.NewFileStore(cfg.BlobRoot)
	if err != nil {
		log.Fatal("Error trying to initialize blob storage:", err)
	}

	var notifier client.Notifier
	if cfg.WebhookURL != "" {
		notifier = client.NewWebhookClient(cfg.WebhookURL, cfg.WebhookToken)
	}

	fmt.Println("✅ Database initialized!")

	router := api.SetupRouter(db, blobs, notifier)

	fmt.Println("🚀 Server running at http://localhost:" + cfg.ApiPort)
	fmt.Println("📝 Available endpoints:")
	fmt.Println("   POST /projects - Create project")
	fmt.Println("   POST /projects/{id}/datasets - Create dataset")
	fmt.Println("   POST /datasets/{id}/items - Upload item")
	fmt.Println("   POST /datasets/{id}/packages - Pack package version")
	fmt.Println("   POST /datasets/{id}/tasks - Create annotation task")
	fmt.Println("   GET /tasks/{id} - Task status")

	if err := http.ListenAndServe(":"+cfg.ApiPort, router); err != nil {
		log.Fatal("Error trying to start server:", err)
	}
}
