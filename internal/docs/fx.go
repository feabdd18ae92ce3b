package docs

import (
	"context"
	"fmt"

	"github.com/smallbiznis/tariffdesk/internal/config"
	docsdomain "github.com/smallbiznis/tariffdesk/internal/docs/domain"
	"github.com/smallbiznis/tariffdesk/internal/docs/repository"
	"github.com/smallbiznis/tariffdesk/internal/docs/service"
	"github.com/smallbiznis/tariffdesk/internal/observability/logger"
	"github.com/smallbiznis/tariffdesk/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("docs.service",
	fx.Provide(NewDocumentStore),
	fx.Provide(service.NewService),
)

type StoreParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Config     config.Config
	GormLogger *logger.GormLogger
	Log        *zap.Logger
}

// NewDocumentStore backs the registry with a JSON file by default, or with a
// database table when DOCS_STORE=db.
func NewDocumentStore(p StoreParams) (docsdomain.DocumentStore, error) {
	log := p.Log.Named("docs.store")
	seed := service.SeedEntries()

	if p.Config.DocsStore != config.DocsStoreDB {
		log.Info("using file docs store",
			zap.String("path", p.Config.DocsFile),
			zap.Bool("read_only", p.Config.ReadOnly),
		)
		return repository.NewFileStore(repository.FileConfig{
			Path:     p.Config.DocsFile,
			ReadOnly: p.Config.ReadOnly,
			Seed:     seed,
		}, log), nil
	}

	conn, err := db.Open(db.FromAppConfig(p.Config), p.GormLogger)
	if err != nil {
		return nil, fmt.Errorf("open docs database: %w", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return sqlDB.Close()
		},
	})

	store, err := repository.NewGormStore(context.Background(), conn, p.Config.ReadOnly, seed, log)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	log.Info("using database docs store",
		zap.String("type", p.Config.DBType),
		zap.Bool("read_only", p.Config.ReadOnly),
	)
	return store, nil
}
