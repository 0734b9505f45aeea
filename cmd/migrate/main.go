package main

import (
	"database/sql"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/silvacore/patrimony/modules"
	"github.com/silvacore/patrimony/pkg/application"
	"github.com/silvacore/patrimony/pkg/configuration"
	"github.com/silvacore/patrimony/pkg/eventbus"
)

const schemaDir = "infrastructure/persistence/schema"

// Each module embeds its schema under the same relative directory with a
// globally unique goose version prefix, so applying the registries in
// module order yields one monotonic migration history.
func main() {
	conf := configuration.Use()
	defer conf.Unload()
	logger := conf.Logger()

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	db, err := sql.Open("pgx", conf.Database.Opts)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}()

	app := application.New(&application.ApplicationOptions{
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	if err := application.Load(app, modules.BuiltInModules()...); err != nil {
		log.Fatalf("failed to load modules: %v", err)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("failed to set dialect: %v", err)
	}

	schemas := app.Migrations().Schemas()
	switch command {
	case "up":
		for _, schema := range schemas {
			goose.SetBaseFS(schema)
			if err := goose.Up(db, schemaDir); err != nil {
				log.Fatalf("migration failed: %v", err)
			}
		}
	case "down":
		for i := len(schemas) - 1; i >= 0; i-- {
			goose.SetBaseFS(schemas[i])
			if err := goose.Down(db, schemaDir); err != nil {
				log.Fatalf("rollback failed: %v", err)
			}
		}
	case "status":
		for _, schema := range schemas {
			goose.SetBaseFS(schema)
			if err := goose.Status(db, schemaDir); err != nil {
				log.Fatalf("status failed: %v", err)
			}
		}
	default:
		log.Fatalf("unknown command %q (expected up|down|status)", command)
	}
}
