package metric

import "github.com/prometheus/client_golang/prometheus"

// Sizer reports a current element count.
type Sizer interface {
	Len() int
}

// Collector samples the key count of the store and the entry count of
// the configuration table at scrape time.
type Collector struct {
	keys   Sizer
	config Sizer

	keysDesc   *prometheus.Desc
	configDesc *prometheus.Desc
}

// NewCollector creates a collector over the store and config table.
// Either may be nil.
func NewCollector(keys, config Sizer) *Collector {
	return &Collector{
		keys:   keys,
		config: config,
		keysDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "keys"),
			"Number of keys in the store.",
			nil, nil,
		),
		configDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "config_entries"),
			"Number of entries in the configuration table.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.keysDesc
	ch <- c.configDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	if c.keys != nil {
		ch <- prometheus.MustNewConstMetric(c.keysDesc, prometheus.GaugeValue, float64(c.keys.Len()))
	}
	if c.config != nil {
		ch <- prometheus.MustNewConstMetric(c.configDesc, prometheus.GaugeValue, float64(c.config.Len()))
	}
}
