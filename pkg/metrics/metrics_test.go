package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewManagerRegistersOnCustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewManager(WithNamespace("testns"), WithSubsystem("testsub"), WithRegistry(reg))
	if m == nil {
		t.Fatal("manager is nil")
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("no metric families registered")
	}
	for _, f := range families {
		if got := f.GetName(); len(got) < len("testns_testsub") || got[:len("testns_testsub")] != "testns_testsub" {
			t.Errorf("metric %q missing namespace/subsystem prefix", got)
		}
	}
}

func TestGlobalHelpersDoNotPanic(t *testing.T) {
	RecordMatchSimulated(3, 2, 1)
	RecordMatchSimLatency(1.25)
	UpdateSeason(1, 4)
	RecordSeasonSettled()
	RecordListingOpened()
	RecordBidPlaced()
	RecordTransferResolved()
	RecordLoanCreated()
	UpdateActiveListings(2)
	UpdateEscrowedFunds(1_000_000)
	RecordScoutingReport("detailed")
	UpdateFixtureQueueSize(5)
	UpdateFixtureWorkers(4)
	RecordHTTPRequest("standings", "GET", "200")
	RecordHTTPRequestDuration("standings", "GET", 3.5)
	UpdateStreamClients(1)

	if GetRegistry() == nil {
		t.Fatal("custom registry is nil")
	}
}
