package system

import (
	"testing"
	"time"

	"github.com/julianstephens/aurora/aurora-cli/internal/cli"
	"github.com/julianstephens/aurora/aurora-cli/internal/cli/clitest"
	"github.com/julianstephens/aurora/aurora-cli/internal/models"
)

var testNow = clitest.Now

func newTestContext(t *testing.T) (*cli.Context, string) {
	t.Helper()
	return clitest.NewContext(t)
}

func newInitializedContext(t *testing.T) *cli.Context {
	t.Helper()
	return clitest.NewInitializedContext(t)
}

func testEvent(id, title string, start time.Time, minutes int) models.Event {
	return clitest.Event(id, title, start, minutes)
}
