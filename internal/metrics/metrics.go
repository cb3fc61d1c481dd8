package metrics

import (
	"net/http"
	"time"

	"agricultura_dapp/pkg/crypto"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 使用独立 Registry，避免测试间重复注册。
type Metrics struct {
	registry      *prometheus.Registry
	roleChecks    *prometheus.CounterVec
	checkDuration *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		roleChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agrodapp_role_checks_total",
			Help: "Role checks by role and outcome.",
		}, []string{"role", "outcome"}),
		checkDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "agrodapp_role_check_duration_seconds",
			Help:    "Latency of hasRole contract calls.",
			Buckets: prometheus.DefBuckets,
		}, []string{"role"}),
	}
	reg.MustRegister(
		m.roleChecks,
		m.checkDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// 角色名来自请求路径，非已知角色统一记为 other，限制 label 基数
const otherRole = "other"

func roleLabel(role string) string {
	for _, known := range crypto.KnownRoles {
		if role == known {
			return role
		}
	}
	return otherRole
}

// ObserveCheck 记录一次检查；d 为 0 表示没有发起链上调用。
func (m *Metrics) ObserveCheck(role, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	role = roleLabel(role)
	m.roleChecks.WithLabelValues(role, outcome).Inc()
	if d > 0 {
		m.checkDuration.WithLabelValues(role).Observe(d.Seconds())
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
