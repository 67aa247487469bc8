// Package scheduler tareas periódicas (cron) del proceso API.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/dulceria-api/pkg/logger"
)

// TokenCleaner borra los tokens de recuperación vencidos o usados.
type TokenCleaner interface {
	CleanupTokens(ctx context.Context, olderThan time.Duration) (expired, used int64, err error)
}

// CleanupObserver recibe el resultado de cada limpieza (métricas).
type CleanupObserver interface {
	TokensCleaned(expired, used int64)
}

// Scheduler envuelve un cron con recuperación de pánicos y log de cada ejecución.
type Scheduler struct {
	cron *cron.Cron
	log  *logger.Logger
}

// New crea el scheduler (expresiones estándar de 5 campos).
func New(log *logger.Logger) *Scheduler {
	l := log.Named("scheduler")
	return &Scheduler{
		cron: cron.New(cron.WithChain(cron.Recover(cronLogger{l}))),
		log:  l,
	}
}

// AddTokenCleanup programa la limpieza de tokens. Una expresión vacía no programa nada.
func (s *Scheduler) AddTokenCleanup(spec string, olderThan time.Duration, cleaner TokenCleaner, obs CleanupObserver) error {
	if spec == "" {
		s.log.Info().Msg("limpieza de tokens desactivada")
		return nil
	}
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		expired, used, err := cleaner.CleanupTokens(ctx, olderThan)
		if err != nil {
			s.log.Error().Err(err).Msg("limpieza de tokens falló")
			return
		}
		if obs != nil {
			obs.TokensCleaned(expired, used)
		}
	})
	if err != nil {
		return fmt.Errorf("programar limpieza de tokens %q: %w", spec, err)
	}
	s.log.Info().Str("schedule", spec).Dur("older_than", olderThan).Msg("limpieza de tokens programada")
	return nil
}

// Start inicia el cron en su propia goroutine.
func (s *Scheduler) Start() { s.cron.Start() }

// Stop detiene el cron y espera a la ejecución en curso o a que ctx venza.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn().Msg("scheduler detenido sin esperar la tarea en curso")
	}
}

// cronLogger adapta nuestro logger a cron.Logger.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
