package history

import (
	"os"
	"testing"

	"scene-manager/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}
