package scheduler

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-cloner-api/infrastructure/integrator/meta"
	"github.com/vfg2006/campaign-cloner-api/internal/config"
	"github.com/vfg2006/campaign-cloner-api/pkg/storage"
)

// HierarchySyncConfig representa a configuração do agendador de snapshots
// de estrutura de contas
type HierarchySyncConfig struct {
	CronSchedule string
	SnapshotDir  string
	LookbackDays int
	AccountIDs   []string
	SyncEnabled  bool
}

// HierarchySyncService gerencia o agendamento e execução da captura diária
// da estrutura das contas configuradas
type HierarchySyncService struct {
	scheduler           *gocron.Scheduler
	config              HierarchySyncConfig
	metaService         *meta.MetaIntegrator
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
}

// NewHierarchySyncService cria uma nova instância do serviço de snapshots
func NewHierarchySyncService(metaService *meta.MetaIntegrator, appConfig *config.Config) *HierarchySyncService {
	syncConfig := HierarchySyncConfig{
		CronSchedule: appConfig.HierarchySync.CronSchedule,
		SnapshotDir:  appConfig.HierarchySync.SnapshotDir,
		LookbackDays: appConfig.HierarchySync.LookbackDays,
		AccountIDs:   appConfig.HierarchySync.AccountIDs,
		SyncEnabled:  appConfig.HierarchySync.Enabled,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": syncConfig.CronSchedule,
		"snapshot_dir":  syncConfig.SnapshotDir,
		"lookback_days": syncConfig.LookbackDays,
		"accounts":      len(syncConfig.AccountIDs),
		"sync_enabled":  syncConfig.SyncEnabled,
	}).Info("Configuração do agendador de snapshots de estrutura carregada")

	return &HierarchySyncService{
		scheduler:   scheduler,
		config:      syncConfig,
		metaService: metaService,
		syncRunning: false,
	}
}

// Start inicia o agendador
func (s *HierarchySyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Sincronização de snapshots de estrutura desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de snapshots de estrutura")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncAllAccounts(context.Background())
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar sincronização de snapshots: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de snapshots de estrutura")
		s.scheduler.Stop()
	}()

	return nil
}

// RunNow dispara uma sincronização imediata em segundo plano. Retorna erro
// quando já existe uma corrida em andamento.
func (s *HierarchySyncService) RunNow() error {
	s.syncMutex.Lock()
	running := s.syncRunning
	s.syncMutex.Unlock()

	if running {
		return fmt.Errorf("sincronização de snapshots já em andamento")
	}

	go s.syncAllAccounts(context.Background())
	return nil
}

// Status reporta o estado atual do agendador
func (s *HierarchySyncService) Status() map[string]interface{} {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	status := map[string]interface{}{
		"enabled":  s.config.SyncEnabled,
		"running":  s.syncRunning,
		"cron":     s.config.CronSchedule,
		"accounts": s.config.AccountIDs,
	}
	if !s.lastSyncStartedAt.IsZero() {
		status["last_started_at"] = s.lastSyncStartedAt.Format(time.RFC3339)
	}
	if !s.lastSyncCompletedAt.IsZero() {
		status["last_completed_at"] = s.lastSyncCompletedAt.Format(time.RFC3339)
	}
	return status
}

// syncAllAccounts captura a estrutura de todas as contas configuradas,
// uma por vez
func (s *HierarchySyncService) syncAllAccounts(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Sincronização de snapshots já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	s.syncMutex.Unlock()

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.lastSyncCompletedAt = time.Now()
		s.syncMutex.Unlock()
	}()

	if len(s.config.AccountIDs) == 0 {
		logrus.Info("Nenhuma conta configurada para sincronização de snapshots")
		return
	}

	startTime := time.Now()
	updatedSince := time.Now().AddDate(0, 0, -s.config.LookbackDays)

	logrus.WithFields(logrus.Fields{
		"accounts":      len(s.config.AccountIDs),
		"updated_since": updatedSince.Format(time.DateOnly),
	}).Info("Iniciando sincronização de snapshots de estrutura")

	for _, accountID := range s.config.AccountIDs {
		if ctx.Err() != nil {
			logrus.Warn("Sincronização de snapshots interrompida pelo contexto")
			return
		}
		s.snapshotAccount(ctx, accountID, updatedSince)
	}

	logrus.WithFields(logrus.Fields{
		"duration": time.Since(startTime).String(),
		"accounts": len(s.config.AccountIDs),
	}).Info("Sincronização de snapshots de estrutura concluída")
}

// snapshotAccount captura e grava a estrutura de uma conta
func (s *HierarchySyncService) snapshotAccount(ctx context.Context, accountID string, updatedSince time.Time) {
	logrus.WithField("account_id", accountID).Info("Capturando estrutura da conta")

	snapshot, err := s.metaService.SnapshotAccountStructure(ctx, accountID, &updatedSince)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"account_id": accountID,
			"error":      err.Error(),
		}).Error("Erro ao capturar estrutura da conta")
		return
	}

	outputDir := filepath.Join(s.config.SnapshotDir, time.Now().Format(time.DateOnly))
	fileName := fmt.Sprintf("structure_act_%s.json", accountID)

	if _, err := storage.SaveJSON(outputDir, fileName, snapshot); err != nil {
		logrus.WithFields(logrus.Fields{
			"account_id": accountID,
			"error":      err.Error(),
		}).Error("Erro ao gravar snapshot da conta")
		return
	}

	logrus.WithFields(logrus.Fields{
		"account_id": accountID,
		"campaigns":  len(snapshot.Campaigns),
		"ad_sets":    len(snapshot.AdSets),
		"ads":        len(snapshot.Ads),
		"creatives":  len(snapshot.Creatives),
	}).Info("Snapshot da conta gravado")
}
