// Command catalog-import loads a YAML picture card catalog into Postgres,
// or exports the stored one.
//
//	catalog-import -file cards.yaml
//	catalog-import -export cards.yaml
//	catalog-import -validate -file cards.yaml
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	"picturecards/internal/catalog"
	"picturecards/internal/config"
	"picturecards/internal/repository/postgres"
	"picturecards/internal/service"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	var (
		file     = flag.String("file", "", "catalog YAML to import")
		export   = flag.String("export", "", "write the stored catalog to this YAML file")
		validate = flag.Bool("validate", false, "only validate -file, do not touch the database")
	)
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *file == "" && *export == "" {
		flag.Usage()
		os.Exit(2)
	}

	var cf *catalog.File
	if *file != "" {
		cf, err = catalog.LoadFile(*file)
		if err != nil {
			logger.Fatal("Failed to read catalog", zap.Error(err))
		}
		c, err := cf.Build()
		if err != nil {
			logger.Fatal("Catalog is invalid", zap.String("file", *file), zap.Error(err))
		}
		logger.Info("Catalog is valid", zap.String("file", *file), zap.Int("items", c.Len()))
		if *validate {
			return
		}
	}

	dbCfg, err := config.LoadDatabase()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	db, err := sql.Open("postgres", dbCfg.DSN())
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	svc := service.NewCatalogService(postgres.NewCatalogRepo(db), logger)

	if cf != nil {
		if _, err := svc.Import(cf); err != nil {
			logger.Fatal("Failed to import catalog", zap.Error(err))
		}
	}

	if *export != "" {
		if err := writeExport(svc, *export); err != nil {
			logger.Fatal("Failed to export catalog", zap.Error(err))
		}
		logger.Info("Catalog exported", zap.String("file", *export))
	}
}

func writeExport(svc *service.CatalogService, path string) error {
	cf, err := svc.Export()
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", path, err)
	}

	if err := catalog.Encode(f, cf); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
