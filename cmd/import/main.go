// Command import loads product CSV files into the catalog, one file
// per category:
//
//	go run ./cmd/import backpacks=data/backpacks_bags.csv totes=data/totes_bags.csv
package main

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bananina/storefront-api/config"
	"github.com/bananina/storefront-api/importer"
)

func main() {
	if len(os.Args) < 2 {
		logrus.Fatal("usage: import <category>=<csv-path> [<category>=<csv-path> ...]")
	}

	files := make(map[string]string, len(os.Args)-1)
	for _, arg := range os.Args[1:] {
		category, path, ok := strings.Cut(arg, "=")
		if !ok || category == "" || path == "" {
			logrus.Fatalf("invalid argument %q, expected <category>=<csv-path>", arg)
		}
		files[category] = path
	}

	cfg := config.Load()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: cfg.DSN()}), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		logrus.Fatalf("failed to connect to database: %v", err)
	}

	if _, err := importer.Run(db, files); err != nil {
		logrus.Fatalf("import failed: %v", err)
	}
}
