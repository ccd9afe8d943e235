package dig_container

import (
	"context"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/dig"

	echoapi "github.com/KAILASATEJANI/nam/apps/api/echo"
	"github.com/KAILASATEJANI/nam/core"
	"github.com/KAILASATEJANI/nam/core/campus"
	emailsvc "github.com/KAILASATEJANI/nam/services/email"
	logsvc "github.com/KAILASATEJANI/nam/services/logger"
	"github.com/KAILASATEJANI/nam/services/realtime"
	"github.com/KAILASATEJANI/nam/storage/database"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

type ServerParam struct {
	dig.In
	Conf       *core.Config
	Logger     core.Logger
	Service    *campus.Service
	Hub        *realtime.Hub
	Registry   *prometheus.Registry
	Validate   *validator.Validate
	Translator ut.Translator
}

func newLogger(conf *core.Config) core.Logger {
	return logsvc.New("API : ", conf)
}

func newDBLogger(conf *core.Config) core.Logger {
	return logsvc.New("DB : ", conf)
}

// newStore never fails: unreachable backends fall back to the in-memory store.
func newStore(conf *core.Config, loggerParam DBLoggerParam) campus.Store {
	return database.Open(context.Background(), conf, loggerParam.Logger)
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func newBus(conf *core.Config, logger core.Logger) realtime.Bus {
	return realtime.NewBus(context.Background(), conf, logger)
}

func newMetrics(reg *prometheus.Registry) *realtime.Metrics {
	return realtime.NewMetrics(reg)
}

func newValidator() *validator.Validate {
	return validator.New()
}

func newPublisher(hub *realtime.Hub) campus.Publisher {
	return hub
}

func newServer(p ServerParam) *echoapi.Server {
	return echoapi.NewServer(echoapi.Deps{
		Conf:       p.Conf,
		Logger:     p.Logger,
		Service:    p.Service,
		Hub:        p.Hub,
		Registry:   p.Registry,
		Validate:   p.Validate,
		Translator: p.Translator,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newStore))
	must(c.Provide(newRegistry))
	must(c.Provide(newBus))
	must(c.Provide(newMetrics))
	must(c.Provide(realtime.NewHub))
	must(c.Provide(newPublisher))
	must(c.Provide(emailsvc.New))
	must(c.Provide(campus.NewService))
	must(c.Provide(newValidator))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newServer))

	if os.Getenv("DIG_GRAPH") != "" {
		_ = dig.Visualize(c, os.Stdout)
	}

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
