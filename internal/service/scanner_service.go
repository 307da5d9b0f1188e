// scanner_service.go — сканер истечения сроков документов.
//
// Сканер выполняет два независимых прохода:
//  1. Находит документы внутри окна оповещения без флага expiry_alert_sent,
//     вызывает диспетчер оповещений и после успешной доставки выставляет флаг
//  2. Находит документы с прошедшим сроком и переводит их ACTIVE -> EXPIRED
//
// Запускается как горутина с периодическим тикером. Ошибка обработки одного
// документа не прерывает проход: флаг не записывается, документ будет
// повторён на следующем запуске (at-least-once, дубликаты возможны только
// между запусками, внутри одного — никогда).
package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"records-web-server/config"
	"records-web-server/internal/model"
	"records-web-server/internal/ports"
	"records-web-server/internal/repository"
)

// Prometheus метрики сканера
var (
	scanRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "records_scan_runs_total",
		Help: "Общее количество запусков сканера",
	})

	scanAlertsSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "records_scan_alerts_sent_total",
		Help: "Общее количество отправленных оповещений",
	})

	scanExpiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "records_scan_documents_expired_total",
		Help: "Общее количество документов, переведённых в EXPIRED",
	})

	scanConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "records_scan_version_conflicts_total",
		Help: "Общее количество пропусков из-за конфликта версий",
	})

	scanDispatchFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "records_scan_dispatch_failures_total",
		Help: "Общее количество неудачных вызовов нотификатора",
	})

	scanDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "records_scan_duration_seconds",
		Help:    "Длительность одного запуска сканера в секундах",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
	})
)

// ScanResult : итог одного запуска сканера
type ScanResult struct {
	AlertsSent       int
	Expired          int
	Conflicts        int
	DispatchFailures int
	Errors           int
	Duration         time.Duration
}

// ExpiryScanner : единственный компонент, выполняющий переход
// ACTIVE -> EXPIRED. Чтение/запись документа сами по себе статус не меняют —
// правило централизовано здесь и проверяется тестами.
type ExpiryScanner struct {
	documentRepository ports.DocumentRepository
	cacheRepository    ports.CacheRepository
	dispatcher         ports.AlertDispatcher
	db                 *config.Database
	interval           time.Duration
	alertWindow        time.Duration

	mu     sync.Mutex // защита от параллельного запуска RunOnce
	cancel context.CancelFunc
}

func NewExpiryScanner(
	documentRepository ports.DocumentRepository,
	cacheRepository ports.CacheRepository,
	dispatcher ports.AlertDispatcher,
	db *config.Database,
	interval time.Duration,
	alertWindowDays int,
) *ExpiryScanner {
	return &ExpiryScanner{
		documentRepository: documentRepository,
		cacheRepository:    cacheRepository,
		dispatcher:         dispatcher,
		db:                 db,
		interval:           interval,
		alertWindow:        time.Duration(alertWindowDays) * 24 * time.Hour,
	}
}

// Start : запускает фоновую горутину с тикером. Вызывается один раз при старте.
func (s *ExpiryScanner) Start(ctx context.Context) {
	scanCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	go s.run(scanCtx)

	log.Printf("[ExpiryScanner] запущен, интервал %s, окно оповещения %s", s.interval, s.alertWindow)
}

// Stop : останавливает фоновый процесс
func (s *ExpiryScanner) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	log.Println("[ExpiryScanner] остановлен")
}

func (s *ExpiryScanner) run(ctx context.Context) {
	// первый проход сразу после старта
	if _, err := s.RunOnce(ctx); err != nil {
		log.Printf("[ExpiryScanner] ошибка запуска сканирования: %v", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				log.Printf("[ExpiryScanner] ошибка запуска сканирования: %v", err)
			}
		}
	}
}

// RunOnce : один цикл сканирования. Mutex гарантирует, что два цикла
// не пересекаются — повторный вызов ждёт завершения предыдущего.
// Ошибка возвращается только при недоступности хранилища: такой запуск
// прерывается целиком и повторяется по следующему тику.
func (s *ExpiryScanner) RunOnce(ctx context.Context) (*ScanResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	result := &ScanResult{}
	now := start.UTC()

	if err := s.sendAlerts(ctx, now, result); err != nil {
		return nil, err
	}
	if err := s.expireOverdue(ctx, now, result); err != nil {
		return nil, err
	}

	result.Duration = time.Since(start)

	scanRunsTotal.Inc()
	scanAlertsSentTotal.Add(float64(result.AlertsSent))
	scanExpiredTotal.Add(float64(result.Expired))
	scanConflictsTotal.Add(float64(result.Conflicts))
	scanDispatchFailuresTotal.Add(float64(result.DispatchFailures))
	scanDurationSeconds.Observe(result.Duration.Seconds())

	log.Printf("[ExpiryScanner] проход завершён: оповещений %d, истекло %d, конфликтов %d, сбоев доставки %d, ошибок %d, длительность %s",
		result.AlertsSent, result.Expired, result.Conflicts, result.DispatchFailures, result.Errors, result.Duration)

	return result, nil
}

// sendAlerts — проход 1: оповещения о приближающемся истечении срока.
// Флаг записывается только после успешной доставки: при сбое нотификатора
// документ будет повторён на следующем запуске.
func (s *ExpiryScanner) sendAlerts(ctx context.Context, now time.Time, result *ScanResult) error {
	candidates, err := s.documentRepository.ListAlertCandidates(ctx, s.db, now, s.alertWindow)
	if err != nil {
		return err
	}

	for i := range candidates {
		// кооперативная точка отмены между документами
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		document := &candidates[i]

		if err := s.dispatcher.Dispatch(ctx, document); err != nil {
			log.Printf("[ExpiryScanner] сбой доставки оповещения для документа %d: %v", document.ID, err)
			result.DispatchFailures++
			continue
		}

		err := s.documentRepository.MarkAlertSent(ctx, s.db, document.ID, document.Version)
		if errors.Is(err, repository.ErrVersionConflict) {
			// документ изменён конкурентно — пропускаем, следующий запуск
			// перечитает свежие данные
			log.Printf("[ExpiryScanner] конфликт версий документа %d, пропуск до следующего запуска", document.ID)
			result.Conflicts++
			continue
		}
		if err != nil {
			log.Printf("[ExpiryScanner] ошибка записи флага оповещения для документа %d: %v", document.ID, err)
			result.Errors++
			continue
		}

		// документ изменился в БД — кэшированная копия устарела
		if err := s.cacheRepository.DeleteDocument(ctx, document.ID); err != nil {
			log.Printf("[ExpiryScanner] ошибка инвалидации кэша документа %d: %v", document.ID, err)
		}

		result.AlertsSent++
	}

	return nil
}

// expireOverdue — проход 2: перевод просроченных документов в EXPIRED.
// Независим от прохода 1: документ на границе окна может быть оповещён
// и истечь в одном цикле, это ожидаемо.
func (s *ExpiryScanner) expireOverdue(ctx context.Context, now time.Time, result *ScanResult) error {
	overdue, err := s.documentRepository.ListOverdue(ctx, s.db, now)
	if err != nil {
		return err
	}

	for i := range overdue {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		document := &overdue[i]

		err := s.documentRepository.MarkExpired(ctx, s.db, document.ID, document.Version)
		if errors.Is(err, repository.ErrVersionConflict) {
			log.Printf("[ExpiryScanner] конфликт версий документа %d, пропуск до следующего запуска", document.ID)
			result.Conflicts++
			continue
		}
		if err != nil {
			log.Printf("[ExpiryScanner] ошибка перевода документа %d в EXPIRED: %v", document.ID, err)
			result.Errors++
			continue
		}

		if err := s.cacheRepository.DeleteDocument(ctx, document.ID); err != nil {
			log.Printf("[ExpiryScanner] ошибка инвалидации кэша документа %d: %v", document.ID, err)
		}

		log.Printf("[ExpiryScanner] документ %d (%s) переведён в %s", document.ID, document.OriginalFileName, model.StatusExpired)
		result.Expired++
	}

	return nil
}
