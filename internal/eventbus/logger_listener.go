package eventbus

import (
	"context"

	"github.com/annel0/tileworld/internal/logging"
	"github.com/sirupsen/logrus"
)

// StartLoggingListener подписывается на все события и пишет их в лог компонента.
// Функция неблокирующая.
func StartLoggingListener(bus EventBus, logger *logging.Logger) (Subscription, error) {
	if logger == nil {
		logger = logging.GetComponentLogger("events")
	}
	sub, err := bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev *Envelope) {
		fields := logrus.Fields{
			"id":     ev.ID.String(),
			"source": ev.Source,
			"tick":   ev.Tick,
		}
		for k, v := range ev.Fields {
			fields[k] = v
		}
		logger.WithFields(fields).Info(ev.EventType)
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("LoggingListener: подписка на все события активирована")
	return sub, nil
}
