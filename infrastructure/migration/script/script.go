package main

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/shop-analyzer-api/infrastructure/database/postgres"
	"github.com/vfg2006/shop-analyzer-api/internal/config"
)

//go:embed sql/*.sql
var migrations embed.FS

func setupLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	logrus.Info("Iniciando script de migração...")
}

// migrationFiles arquivos .sql em ordem lexicográfica (prefixo numérico)
func migrationFiles() ([]string, error) {
	files, err := fs.Glob(migrations, "sql/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func applyMigrations(ctx context.Context, conn postgres.Conn) error {
	files, err := migrationFiles()
	if err != nil {
		return err
	}

	return conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		for _, file := range files {
			startTime := time.Now()

			content, err := migrations.ReadFile(file)
			if err != nil {
				return err
			}

			if _, err := tx.ExecContext(ctx, string(content)); err != nil {
				logrus.WithError(err).Errorf("ERRO ao aplicar %s", file)
				return err
			}

			logrus.Infof("Migração %s aplicada em %v", file, time.Since(startTime))
		}
		return nil
	})
}

func main() {
	setupLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("ERRO ao carregar configuração: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		logrus.Fatalf("ERRO ao conectar ao banco: %v", err)
	}
	defer conn.Close()

	if err := applyMigrations(ctx, conn); err != nil {
		logrus.Fatalf("ERRO ao aplicar migrações: %v", err)
	}

	logrus.Info("Migração concluída com sucesso")
}
