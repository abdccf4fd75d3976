package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	api "github.com/rpupo63/agile-blog-backend/api"
	"github.com/rpupo63/agile-blog-backend/config"
	"github.com/rpupo63/agile-blog-backend/database"
	"github.com/rpupo63/agile-blog-backend/services"
	"github.com/rpupo63/agile-blog-backend/storage"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	c := config.New()

	connStr := config.GetString(c, "DATABASE_URL", "")
	if connStr == "" {
		fmt.Println("DATABASE_URL is required. Exiting...")
		os.Exit(1)
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  connStr,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt: false,
		Logger:      newLogger,
	})
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}

	// Test database connection
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		fmt.Printf("Error testing database connection: %v\n", err)
		os.Exit(1)
	}

	if err := database.Migrate(db); err != nil {
		fmt.Printf("Error migrating database schema: %v\n", err)
		os.Exit(1)
	}

	currentDB := database.New(db)

	objects, err := storage.New(storage.Config{
		Endpoint:  config.GetString(c, "MINIO_ENDPOINT", "localhost:9000"),
		AccessKey: config.GetString(c, "MINIO_ACCESS_KEY", ""),
		SecretKey: config.GetString(c, "MINIO_SECRET_KEY", ""),
		Bucket:    config.GetString(c, "MINIO_BUCKET", "blog-files"),
		UseSSL:    config.GetBool(c, "MINIO_USE_SSL", false),
	})
	if err != nil {
		fmt.Printf("Error connecting to object storage: %v\n", err)
		os.Exit(1)
	}
	if err := objects.EnsureBucket(context.Background()); err != nil {
		fmt.Printf("Error ensuring object storage bucket: %v\n", err)
		os.Exit(1)
	}

	if config.GetBool(c, "SEED_DEMO_DATA", false) {
		seeder := services.NewSeeder(
			currentDB.PostRepo(),
			currentDB.TagRepo(),
			currentDB.CommentRepo(),
			currentDB.UserRepo(),
		)
		if err := seeder.Run(
			context.Background(),
			config.GetString(c, "SEED_AUTHOR_EMAIL", "writer@example.com"),
			config.GetString(c, "SEED_AUTHOR_PASSWORD", "changeme123"),
			config.GetString(c, "SEED_AUTHOR_USERNAME", "writer"),
		); err != nil {
			fmt.Printf("Error seeding demo data: %v\n", err)
			os.Exit(1)
		}
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(currentDB, objects)
	if err != nil {
		fmt.Printf("Error initializing server: %v\n", err)
		os.Exit(1)
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	fmt.Printf("Closing server: %v\n", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
