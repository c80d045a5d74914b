package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "typebridge"

var (
	Registry = prometheus.NewRegistry()

	RegisteredTypes = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registered_types_total",
		Help:      "Entity and relation types registered with a schema manager.",
	})

	SyncStatements = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sync_statements_total",
		Help:      "Schema statements sent to the database, by sync mode and phase.",
	}, []string{"mode", "phase"})

	CompiledFragments = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "compiled_fragments_total",
		Help:      "Filter queries compiled into match fragments.",
	})

	CompileErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "compile_errors_total",
		Help:      "Filter compilations rejected, by error code.",
	}, []string{"code"})
)

func init() {
	Registry.MustRegister(
		RegisteredTypes,
		SyncStatements,
		CompiledFragments,
		CompileErrors,
	)
}
