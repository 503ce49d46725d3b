package jobs

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"sats-chat.backend/internal/usecases"
	"sats-chat.backend/pkg/logger"
)

var (
	sweepTicks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "satschat_expiry_sweep_ticks_total",
		Help: "Expiry sweeper ticks",
	})
	sweptRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "satschat_expired_requests_total",
		Help: "Payment requests expired by the sweeper",
	})
)

// PaymentRequestExpiryJob periodically drives pending payment requests
// past their expiry through the state machine's expire transition. The
// per-tick work lives in the usecase's SweepExpired so the timer, the
// operator endpoint and tests share one code path.
type PaymentRequestExpiryJob struct {
	requestUC *usecases.PaymentRequestUsecase
	interval  time.Duration
	stop      chan struct{}
}

func NewPaymentRequestExpiryJob(requestUC *usecases.PaymentRequestUsecase, interval time.Duration) *PaymentRequestExpiryJob {
	return &PaymentRequestExpiryJob{
		requestUC: requestUC,
		interval:  interval,
		stop:      make(chan struct{}),
	}
}

func (j *PaymentRequestExpiryJob) Start(ctx context.Context) {
	logger.Info(ctx, "starting payment request expiry sweeper",
		zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "expiry sweeper stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "expiry sweeper stopped")
			return
		case <-ticker.C:
			j.SweepOnce(ctx, time.Now())
		}
	}
}

func (j *PaymentRequestExpiryJob) Stop() {
	close(j.stop)
}

// SweepOnce runs a single sweep against the given clock value
func (j *PaymentRequestExpiryJob) SweepOnce(ctx context.Context, now time.Time) {
	sweepTicks.Inc()

	count, err := j.requestUC.SweepExpired(ctx, now)
	if err != nil {
		logger.Error(ctx, "expiry sweep failed", zap.Error(err))
		return
	}
	if count > 0 {
		sweptRequests.Add(float64(count))
		logger.Info(ctx, "expired payment requests", zap.Int("count", count))
	}
}
