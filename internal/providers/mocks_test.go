package providers

import "time"

// local mocks; testutil imports this package

type testLogger struct {
	debug []string
	info  []string
}

func (m *testLogger) Errorf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *testLogger) Warnf(_ TypeEnum, _ string, _ ...interface{})  {}
func (m *testLogger) Debugf(_ TypeEnum, format string, _ ...interface{}) {
	m.debug = append(m.debug, format)
}
func (m *testLogger) Infof(_ TypeEnum, format string, _ ...interface{}) {
	m.info = append(m.info, format)
}
func (m *testLogger) Fatalf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *testLogger) Close()                                        {}

type testMetrics struct {
	requestEndpoint string
	requestStatus   int
	requestCalls    int
	durationCalls   int
	hits            int
	misses          int
}

func (m *testMetrics) IncRequestsTotal(endpoint string, status int) {
	m.requestEndpoint = endpoint
	m.requestStatus = status
	m.requestCalls++
}
func (m *testMetrics) ObserveRequestDuration(_ string, _ time.Duration) { m.durationCalls++ }
func (m *testMetrics) IncCacheHits()                                    { m.hits++ }
func (m *testMetrics) IncCacheMisses()                                  { m.misses++ }
func (m *testMetrics) IncFallback(_ string)                             {}
func (m *testMetrics) IncMirrorWriteFailures(_ string)                  {}
func (m *testMetrics) IncMigrationRuns(_ string)                        {}
func (m *testMetrics) ObserveMigrationDuration(_ time.Duration)         {}
func (m *testMetrics) SetStoreMode(_ string)                            {}
func (m *testMetrics) SetViewedItemsTotal(_ int)                        {}
