package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-cloner-api/infrastructure/database/postgres"
	"github.com/vfg2006/campaign-cloner-api/infrastructure/integrator/meta"
	"github.com/vfg2006/campaign-cloner-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/campaign-cloner-api/infrastructure/repository"
	"github.com/vfg2006/campaign-cloner-api/internal/api"
	"github.com/vfg2006/campaign-cloner-api/internal/config"
	"github.com/vfg2006/campaign-cloner-api/internal/scheduler"
	"github.com/vfg2006/campaign-cloner-api/internal/usecases/account"
	"github.com/vfg2006/campaign-cloner-api/internal/usecases/authenticating"
	"github.com/vfg2006/campaign-cloner-api/internal/usecases/cloning"
	"github.com/vfg2006/campaign-cloner-api/internal/usecases/inspecting"
	"github.com/vfg2006/campaign-cloner-api/internal/usecases/uploading"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	accountRepo := repository.NewAccountRepository(pgConn)
	userRepo := repository.NewUserRepository(pgConn)
	cloneJobRepo := repository.NewCloneJobRepository(pgConn)

	authenticator := authenticating.NewService(userRepo, accountRepo, cfg)

	tokenManager := metaclient.NewTokenManager(cfg)
	go tokenManager.StartAutoRefresh()
	defer tokenManager.StopAutoRefresh()

	executor := metaclient.NewRequestExecutor(cfg.MetaRetry)
	metaClient := metaclient.NewClient(cfg, tokenManager, executor)
	batchOrchestrator := metaclient.NewBatchOrchestrator(metaClient, cfg.MetaBatch)
	metaIntegrator := meta.New(cfg, metaClient, batchOrchestrator)

	accountService := account.NewService(accountRepo, metaIntegrator, cfg)
	inspectorService := inspecting.NewService(cfg, metaIntegrator)
	uploaderService := uploading.NewService(metaClient)

	objectCreator := cloning.NewObjectCreator(metaClient)
	clonerService := cloning.NewService(cfg, objectCreator, cloneJobRepo)

	// Agendador de snapshots diários da estrutura das contas
	hierarchySyncService := scheduler.NewHierarchySyncService(metaIntegrator, cfg)
	if err := hierarchySyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de snapshots de estrutura")
	} else {
		logrus.Info("Agendador de snapshots de estrutura iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		accountService,
		inspectorService,
		clonerService,
		uploaderService,
		cloneJobRepo,
		authenticator,
		hierarchySyncService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
