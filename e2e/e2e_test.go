//go:build e2e

package e2e

import (
	"flag"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/cucumber/godog/colors"
)

var opts = godog.Options{
	Output: colors.Colored(os.Stdout),
	Format: "pretty",
	Paths:  []string{"features"},
	Strict: true,
}

func init() {
	godog.BindCommandLineFlags("godog.", &opts)
}

// TestFeatures drives a running server (BASE_URL) whose upstream is
// mocks/upstream-api. It is skipped when nothing answers on BASE_URL.
func TestFeatures(t *testing.T) {
	flag.Parse()

	tc := NewTestContext()
	probe := &http.Client{Timeout: 2 * time.Second}
	resp, err := probe.Get(tc.BaseURL + "/health/live")
	if err != nil {
		t.Skipf("onboarding server not reachable at %s: %v", tc.BaseURL, err)
	}
	_ = resp.Body.Close()

	opts.TestingT = t
	suite := godog.TestSuite{
		Name:                "onboarding",
		ScenarioInitializer: InitializeScenario,
		Options:             &opts,
	}
	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
