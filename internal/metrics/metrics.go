package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 解析指标
var (
	// ParseRequestsTotal 解析请求总数
	ParseRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docprinter_parse_requests_total",
			Help: "Document parse requests by parser kind and outcome",
		},
		[]string{"parser", "outcome"},
	)
)

// 打印机指标
var (
	// PrintJobsTotal 打印任务总数
	PrintJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docprinter_print_jobs_total",
			Help: "Print operations by outcome",
		},
		[]string{"outcome"},
	)

	// PrintDuration 模拟打印本身的耗时（秒），不含等锁与离线直接返回
	PrintDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "docprinter_print_duration_seconds",
			Help:    "Time spent on the simulated print, excluding lock wait",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
	)

	// PrinterOnline 打印机在线为 1，离线为 0
	PrinterOnline = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "docprinter_printer_online",
			Help: "1 while the printer is online",
		},
	)
)

const (
	OutcomeOK          = "ok"
	OutcomeUnsupported = "unsupported"
	OutcomeNoExtension = "no_extension"
	OutcomeOffline     = "offline"
	OutcomeFailed      = "failed"
)
